package video

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

	bySection := rg.Group("/sections/:id/videos")
	bySection.GET("", h.listBySection)
	bySection.POST("", authMW, staffMW, h.create)
	bySection.PUT("/reorder", authMW, staffMW, h.reorder)

	g := rg.Group("/videos")
	g.GET("/:id", h.get)
	g.PATCH("/:id", authMW, staffMW, h.update)
	g.DELETE("/:id", authMW, staffMW, h.delete)
}

func (h *Handler) listBySection(c *gin.Context) {
	videos, err := h.svc.ListBySection(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]*videoResponse, len(videos))
	for i := range videos {
		items[i] = toResponse(&videos[i])
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
	var dto CreateVideoDTO
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
	var dto UpdateVideoDTO
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
			response.BadRequest(c, "Reorder list must contain every video of the section exactly once.")
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
