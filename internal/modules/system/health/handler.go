package health

import (
	"context"
	"time"

	"github.com/eduspace/core/internal/modules/processing/ai"
	"github.com/eduspace/core/internal/modules/system/configs"
	pkgredis "github.com/eduspace/core/internal/pkg/redis"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const probeTimeout = 3 * time.Second

// Handler reports liveness of the storage backends and the AI model session.
type Handler struct {
	db      *gorm.DB
	rc      *pkgredis.Client
	cfgSvc  *configs.Service
	session *ai.ModelSession
	started time.Time
}

func NewHandler(db *gorm.DB, rc *pkgredis.Client, cfgSvc *configs.Service, session *ai.ModelSession) *Handler {
	return &Handler{db: db, rc: rc, cfgSvc: cfgSvc, session: session, started: time.Now()}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	dbState := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbState = "error"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbState = "error"
	}

	redisState := "ok"
	if err := h.rc.Raw().Ping(ctx).Err(); err != nil {
		redisState = "error"
	}

	response.OK(c, gin.H{
		"status": overall(dbState, redisState),
		"db":     dbState,
		"redis":  redisState,
		"ai":     h.aiState(),
		"uptime": int64(time.Since(h.started).Seconds()),
	})
}

func (h *Handler) aiState() string {
	cfg, err := h.cfgSvc.Get()
	if err != nil || cfg == nil || !cfg.AI.EnableSummary {
		return "disabled"
	}
	if h.session.ActiveModelID() == "" {
		return "uninitialized"
	}
	return "ready"
}

func overall(states ...string) string {
	for _, s := range states {
		if s != "ok" {
			return "degraded"
		}
	}
	return "ok"
}
