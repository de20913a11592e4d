package app

import (
	"net/http"
	"time"

	"github.com/eduspace/core/internal/middleware"
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/modules/auth"
	"github.com/eduspace/core/internal/modules/content/course"
	"github.com/eduspace/core/internal/modules/content/document"
	"github.com/eduspace/core/internal/modules/content/section"
	"github.com/eduspace/core/internal/modules/content/video"
	"github.com/eduspace/core/internal/modules/learning/progress"
	"github.com/eduspace/core/internal/modules/payment"
	"github.com/eduspace/core/internal/modules/processing/ai"
	"github.com/eduspace/core/internal/modules/storage/file"
	"github.com/eduspace/core/internal/modules/storage/legacyimport"
	"github.com/eduspace/core/internal/modules/system/configs"
	"github.com/eduspace/core/internal/modules/system/health"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/eduspace/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	rc := a.rc

	authMW := middleware.Auth(db)
	optionalAuthMW := middleware.OptionalAuth(db)
	adminMW := middleware.RequireRoles(db, models.RoleAdmin)
	staffMW := middleware.RequireRoles(db, models.RoleInstructor, models.RoleAdmin)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"ok": 0, "code": http.StatusMethodNotAllowed, "message": "method not allowed",
		})
	})

	api := r.Group(apiPrefix)
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))
	api.Use(optionalAuthMW)
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:     15 * time.Second,
		Disable: a.cfg.IsDev(),
		SkipPaths: []string{
			apiPrefix + "/health",
			apiPrefix + "/uptime",
			apiPrefix + "/auth/*",
			apiPrefix + "/files/*",
		},
	}))

	appInfo := gin.H{
		"name":    "eduspace-core",
		"version": "1.0.0",
	}
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptime := time.Since(processStart)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptime.Milliseconds(),
			"humanize":  humanizeDuration(uptime),
		})
	})

	// Shared services
	cfgSvc := configs.NewService(db)
	taskSvc := taskqueue.NewService(rc)
	aiSvc := ai.NewService(db, cfgSvc, taskSvc, a.logger)

	// System
	health.NewHandler(db, rc, cfgSvc, aiSvc.Session()).RegisterRoutes(api)
	configs.NewHandler(cfgSvc).RegisterRoutes(api, authMW, adminMW)

	// Auth
	auth.NewHandler(auth.NewService(db, cfgSvc)).RegisterRoutes(api, authMW)

	// Catalog and content
	course.NewHandler(course.NewService(db)).RegisterRoutes(api, authMW, optionalAuthMW)
	section.NewHandler(section.NewService(db)).RegisterRoutes(api, authMW)
	video.NewHandler(video.NewService(db)).RegisterRoutes(api, authMW)
	document.NewHandler(document.NewService(db), aiSvc).RegisterRoutes(api, authMW)

	// Learning
	progress.NewHandler(progress.NewService(db)).RegisterRoutes(api, authMW)

	// Payments
	payment.NewHandler(payment.NewService(db, cfgSvc, a.logger)).RegisterRoutes(api, authMW, adminMW)

	// AI summarization admin surface
	ai.NewHandler(aiSvc).RegisterRoutes(api, authMW, adminMW)

	// Storage
	file.NewHandler(db, cfgSvc, a.logger).RegisterRoutes(api, authMW, staffMW)
	legacyimport.NewHandler(legacyimport.NewService(db, a.logger)).RegisterRoutes(api, authMW, adminMW)

	// Scheduler visibility (admin)
	api.GET("/cron", authMW, adminMW, func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	api.POST("/cron/:name/run", authMW, adminMW, func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"status": "started"})
	})
}
