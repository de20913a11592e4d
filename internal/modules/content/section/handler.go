package section

import (
	"errors"

	"github.com/eduspace/core/internal/middleware"
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	staffMW := middleware.RequireRoles(h.svc.db, models.RoleInstructor, models.RoleAdmin)

	byCourse := rg.Group("/courses/:id/sections")
	byCourse.GET("", h.listByCourse)
	byCourse.POST("", authMW, staffMW, h.create)
	byCourse.PUT("/reorder", authMW, staffMW, h.reorder)

	g := rg.Group("/sections")
	g.GET("/:id", h.get)
	g.PATCH("/:id", authMW, staffMW, h.update)
	g.DELETE("/:id", authMW, staffMW, h.delete)
}

func (h *Handler) listByCourse(c *gin.Context) {
	sections, err := h.svc.ListByCourse(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]*sectionResponse, len(sections))
	for i := range sections {
		items[i] = toResponse(&sections[i])
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(m))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSectionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	isAdmin := middleware.CurrentUserRole(c, h.svc.db) == models.RoleAdmin
	m, err := h.svc.Create(c.Param("id"), middleware.CurrentUserID(c), isAdmin, &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, toResponse(m))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSectionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	isAdmin := middleware.CurrentUserRole(c, h.svc.db) == models.RoleAdmin
	m, err := h.svc.Update(c.Param("id"), middleware.CurrentUserID(c), isAdmin, &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(m))
}

func (h *Handler) delete(c *gin.Context) {
	isAdmin := middleware.CurrentUserRole(c, h.svc.db) == models.RoleAdmin
	if err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c), isAdmin); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) reorder(c *gin.Context) {
	var dto ReorderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	isAdmin := middleware.CurrentUserRole(c, h.svc.db) == models.RoleAdmin
	if err := h.svc.Reorder(c.Param("id"), middleware.CurrentUserID(c), isAdmin, dto.IDs); err != nil {
		if errors.Is(err, errBadOrdering) {
			response.BadRequest(c, "Reorder list must contain every section of the course exactly once.")
			return
		}
		h.writeError(c, err)
		return
	}
	response.OK(c, gin.H{"status": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c)
	case errors.Is(err, errNotOwner):
		response.ForbiddenMsg(c, "Only the course instructor can modify this course.")
	default:
		response.InternalError(c, err)
	}
}
