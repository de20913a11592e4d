package configs

import (
	"encoding/json"

	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/configs")

	g.GET("", h.getPublic)

	a := g.Group("", authMW, adminMW)
	a.GET("/all", h.getAll)
	a.PATCH("", h.patch)
}

// getPublic returns the public-safe subset of the config.
func (h *Handler) getPublic(c *gin.Context) {
	cfg, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"site":         cfg.Site,
		"url":          cfg.URL,
		"feature_list": cfg.FeatureList,
		"payment": gin.H{
			"enabled":  cfg.PaymentOptions.Enable,
			"provider": cfg.PaymentOptions.Provider,
			"currency": cfg.PaymentOptions.Currency,
			"key_id":   cfg.PaymentOptions.KeyID,
		},
		"ai": gin.H{
			"summary_enabled": cfg.AI.EnableSummary,
		},
	})
}

// getAll returns the full config including secrets (admin only).
func (h *Handler) getAll(c *gin.Context) {
	cfg, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cfg)
}

// patch merges a partial config update.
func (h *Handler) patch(c *gin.Context) {
	var partial map[string]json.RawMessage
	if err := c.ShouldBindJSON(&partial); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.svc.Patch(partial)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, updated)
}
