package file

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eduspace/core/internal/middleware"
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/modules/system/configs"
	"github.com/eduspace/core/internal/pkg/pagination"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler manages course asset uploads: thumbnails, lecture documents, and
// miscellaneous files. Uploads go to S3 when configured, local disk otherwise.
type Handler struct {
	db        *gorm.DB
	cfgSvc    *configs.Service
	staticDir string
	logger    *zap.Logger
}

func NewHandler(db *gorm.DB, cfgSvc *configs.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		db:        db,
		cfgSvc:    cfgSvc,
		staticDir: resolveStaticDir(),
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, staffMW gin.HandlerFunc) {
	g := rg.Group("/files")

	g.GET("/:type/:name", h.serve)
	g.POST("/upload", authMW, staffMW, h.upload)
	g.GET("", authMW, staffMW, h.list)
	g.DELETE("/uploads/:id", authMW, staffMW, h.remove)
}

// serve streams a locally stored asset. S3 assets are served from their own
// URLs and never pass through here.
func (h *Handler) serve(c *gin.Context) {
	kind := normalizeKind(c.Param("type"))
	name := safeName(c.Param("name"))
	if kind == "" || name == "" {
		response.NotFound(c)
		return
	}

	path := filepath.Join(h.staticDir, kind, name)
	if _, err := os.Stat(path); err != nil {
		response.NotFound(c)
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

func (h *Handler) upload(c *gin.Context) {
	kind := normalizeKind(c.Query("type"))
	if kind == "" {
		response.BadRequest(c, "unknown upload type")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	cfg, err := h.cfgSvc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	formats := allowedFormats(kind, cfg.UploadOptions)
	if err := validateUpload(fileHeader.Filename, fileHeader.Size, formats, cfg.UploadOptions.MaxSizeMB); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer src.Close()
	payload, err := io.ReadAll(src)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := validateUpload(fileHeader.Filename, int64(len(payload)), formats, cfg.UploadOptions.MaxSizeMB); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	record := models.UploadModel{
		Type:       kind,
		Size:       int64(len(payload)),
		UploaderID: middleware.CurrentUserID(c),
	}

	store, storeErr := newObjectStore(cfg.S3Options)
	if storeErr == nil {
		key := buildObjectKey(kind, fileHeader.Filename, time.Now())
		contentType := detectContentType(fileHeader.Filename, payload, fileHeader.Header.Get("Content-Type"))
		s3URL, err := store.Put(c.Request.Context(), key, payload, contentType)
		if err == nil {
			record.FileName = key
			record.FileURL = s3URL
			record.Storage = "s3"
			h.finishUpload(c, &record)
			return
		}
		if !cfg.UploadOptions.ServeLocalWhenNoCloud {
			h.logger.Error("s3 upload failed", zap.String("key", key), zap.Error(err))
			response.InternalError(c, err)
			return
		}
		h.logger.Warn("s3 upload failed, saving locally", zap.String("key", key), zap.Error(err))
	}

	filename := buildFileName(fileHeader.Filename)
	dir := filepath.Join(h.staticDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		response.InternalError(c, err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, filename), payload, 0o644); err != nil {
		response.InternalError(c, err)
		return
	}

	record.FileName = filename
	record.FileURL = "/api/v1/files/" + kind + "/" + filename
	record.Storage = "local"
	h.finishUpload(c, &record)
}

func (h *Handler) finishUpload(c *gin.Context, record *models.UploadModel) {
	if err := h.db.Create(record).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(record))
}

func (h *Handler) list(c *gin.Context) {
	tx := h.db.Model(&models.UploadModel{}).Order("created_at DESC")
	if kind := normalizeKind(c.Query("type")); kind != "" && c.Query("type") != "" {
		tx = tx.Where("type = ?", kind)
	}

	var uploads []models.UploadModel
	meta, err := pagination.Paginate(tx, pagination.FromContext(c), &uploads)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]*uploadResponse, len(uploads))
	for i := range uploads {
		items[i] = toResponse(&uploads[i])
	}
	response.Paged(c, items, meta)
}

func (h *Handler) remove(c *gin.Context) {
	var record models.UploadModel
	err := h.db.Where("id = ?", c.Param("id")).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	switch record.Storage {
	case "s3":
		cfg, err := h.cfgSvc.Get()
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if store, err := newObjectStore(cfg.S3Options); err == nil {
			if err := store.Delete(c.Request.Context(), record.FileName); err != nil {
				h.logger.Warn("s3 object removal failed",
					zap.String("key", record.FileName), zap.Error(err))
			}
		}
	default:
		if name := safeName(record.FileName); name != "" {
			_ = os.Remove(filepath.Join(h.staticDir, record.Type, name))
		}
	}

	if err := h.db.Delete(&models.UploadModel{}, "id = ?", record.ID).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
