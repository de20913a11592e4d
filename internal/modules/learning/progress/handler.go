package progress

import (
	"errors"

	"github.com/eduspace/core/internal/middleware"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/courses/:id/progress", authMW)
	g.GET("", h.get)
	g.PUT("", h.mark)
}

func (h *Handler) get(c *gin.Context) {
	m, total, err := h.svc.Get(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toResponse(m, total))
}

func (h *Handler) mark(c *gin.Context) {
	var dto MarkDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, total, err := h.svc.Mark(middleware.CurrentUserID(c), c.Param("id"), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toResponse(m, total))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNotEnrolled):
		response.ForbiddenMsg(c, "Enroll in this course to track progress.")
	case errors.Is(err, errUnknownItem):
		response.BadRequest(c, "That lesson does not belong to this course.")
	default:
		response.InternalError(c, err)
	}
}
