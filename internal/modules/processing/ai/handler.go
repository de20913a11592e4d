package ai

import (
	"strconv"
	"strings"
	"time"

	appcfg "github.com/eduspace/core/internal/config"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/eduspace/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/ai", authMW, adminMW)

	g.GET("/status", h.status)
	g.GET("/models", h.getAvailableModels)
	g.POST("/test", h.testProviderConnection)

	tasks := g.Group("/tasks")
	tasks.GET("", h.listTasks)
	tasks.GET("/:id", h.getTask)
	tasks.POST("/:id/cancel", h.cancelTask)
	tasks.DELETE("/:id", h.deleteTask)
	tasks.DELETE("", h.deleteCompletedTasks)
}

// status reports the summarization feature state and the live model, if any.
func (h *Handler) status(c *gin.Context) {
	cfg, err := h.svc.cfgSvc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	enabledProviders := 0
	for _, p := range cfg.AI.Providers {
		if p.Enabled && strings.TrimSpace(p.APIKey) != "" {
			enabledProviders++
		}
	}

	response.OK(c, gin.H{
		"summary_enabled":       cfg.AI.EnableSummary,
		"auto_generate_enabled": cfg.AI.EnableAutoGenerateSummary,
		"enabled_providers":     enabledProviders,
		"active_model":          h.svc.session.ActiveModelID(),
		"candidates":            cfg.AI.SummaryModelCandidates,
	})
}

func (h *Handler) getAvailableModels(c *gin.Context) {
	cfg, err := h.svc.cfgSvc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]providerModelsResponse, 0, len(cfg.AI.Providers))
	for _, p := range cfg.AI.Providers {
		if !p.Enabled || p.APIKey == "" {
			continue
		}
		models := make([]modelInfo, 0, len(cfg.AI.SummaryModelCandidates)+1)
		if p.DefaultModel != "" {
			models = append(models, modelInfo{ID: p.DefaultModel, Name: p.DefaultModel})
		}
		for _, candidate := range cfg.AI.SummaryModelCandidates {
			if candidate == p.DefaultModel {
				continue
			}
			models = append(models, modelInfo{ID: candidate, Name: candidate})
		}
		out = append(out, providerModelsResponse{
			ProviderID:   p.ID,
			ProviderName: p.Name,
			ProviderType: p.Type,
			Models:       models,
		})
	}
	response.OK(c, out)
}

// testProviderConnection runs a live probe against the given (or stored)
// provider credentials.
func (h *Handler) testProviderConnection(c *gin.Context) {
	var dto testConnectionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if dto.ProviderID != "" && (dto.Type == "" || dto.APIKey == "" || dto.Model == "") {
		if cfg, err := h.svc.cfgSvc.Get(); err == nil {
			for _, p := range cfg.AI.Providers {
				if p.ID != dto.ProviderID {
					continue
				}
				if dto.Type == "" {
					dto.Type = p.Type
				}
				if dto.APIKey == "" {
					dto.APIKey = p.APIKey
				}
				if dto.Model == "" {
					dto.Model = p.DefaultModel
				}
				if dto.Endpoint == "" {
					dto.Endpoint = p.Endpoint
				}
				break
			}
		}
	}
	if dto.Type == "" || dto.APIKey == "" || dto.Model == "" {
		response.BadRequest(c, "type, api_key and model are required")
		return
	}

	provider := appcfg.AIProvider{
		Type:         dto.Type,
		APIKey:       dto.APIKey,
		Endpoint:     dto.Endpoint,
		DefaultModel: dto.Model,
		Enabled:      true,
	}
	client, err := newClient(c.Request.Context(), &provider, dto.Model)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer client.Close()

	if err := client.Probe(c.Request.Context()); err != nil {
		response.OK(c, gin.H{
			"ok":    false,
			"kind":  string(classifyProviderError(err)),
			"error": err.Error(),
		})
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *Handler) listTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var statusFilter *taskqueue.TaskStatus
	if raw := c.Query("status"); raw != "" {
		status := taskqueue.TaskStatus(raw)
		statusFilter = &status
	}
	taskType := TaskTypeSummary

	tasks, total, err := h.svc.taskSvc.List(c.Request.Context(), page, size, &taskType, statusFilter)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": tasks, "total": total})
}

func (h *Handler) getTask(c *gin.Context) {
	task, err := h.svc.taskSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, task)
}

func (h *Handler) cancelTask(c *gin.Context) {
	if err := h.svc.taskSvc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, gin.H{"status": true})
}

func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.svc.taskSvc.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// deleteCompletedTasks removes finished tasks older than the cutoff (default
// 24h).
func (h *Handler) deleteCompletedTasks(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("older_than_hours", "24"))
	if hours < 0 {
		hours = 0
	}
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour).UnixMilli()
	if err := h.svc.taskSvc.DeleteCompleted(c.Request.Context(), cutoff); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"status": true})
}
