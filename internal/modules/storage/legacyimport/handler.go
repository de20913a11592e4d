package legacyimport

import (
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	rg.POST("/migrate/legacy", authMW, adminMW, h.importBundle)
}

func (h *Handler) importBundle(c *gin.Context) {
	var bundle Bundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	report, err := h.svc.Import(&bundle)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, report)
}
