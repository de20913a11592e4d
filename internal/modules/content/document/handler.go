package document

import (
	"errors"
	"io"

	"github.com/eduspace/core/internal/middleware"
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/modules/processing/ai"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc        *Service
	summarizer *ai.Service
}

func NewHandler(svc *Service, summarizer *ai.Service) *Handler {
	return &Handler{svc: svc, summarizer: summarizer}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	staffMW := middleware.RequireRoles(h.svc.db, models.RoleInstructor, models.RoleAdmin)

	bySection := rg.Group("/sections/:id/documents")
	bySection.GET("", h.listBySection)
	bySection.POST("", authMW, staffMW, h.create)
	bySection.PUT("/reorder", authMW, staffMW, h.reorder)

	g := rg.Group("/documents")
	g.GET("/:id", h.get)
	g.PATCH("/:id", authMW, staffMW, h.update)
	g.DELETE("/:id", authMW, staffMW, h.delete)
	g.POST("/:id/summarize", authMW, h.summarize)
}

func (h *Handler) listBySection(c *gin.Context) {
	docs, err := h.svc.ListBySection(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]*documentResponse, len(docs))
	for i := range docs {
		items[i] = toResponse(&docs[i])
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
	var dto CreateDocumentDTO
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

	if h.summarizer != nil {
		h.summarizer.MaybeAutoGenerate(m.ID)
	}
	response.Created(c, toResponse(m))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateDocumentDTO
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
			response.BadRequest(c, "Reorder list must contain every document of the section exactly once.")
			return
		}
		h.writeError(c, err)
		return
	}
	response.OK(c, gin.H{"status": true})
}

// summarize returns the document summary, generating it when needed. Failures
// inside the pipeline degrade to a fallback summary rather than an error; the
// only client error is a summary request with nothing to summarize.
func (h *Handler) summarize(c *gin.Context) {
	// The request body is optional; an absent body means default options.
	var dto SummarizeDTO
	if err := c.ShouldBindJSON(&dto); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.summarizer.Summarize(c.Request.Context(), ai.SummarizeRequest{
		DocumentID:   c.Param("id"),
		SuppliedText: dto.Text,
		ForceNew:     dto.ForceNew,
	})
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrEmptyInput):
			response.BadRequest(c, "Nothing to summarize. Provide text or attach an extractable file.")
		case errors.Is(err, ai.ErrSummaryDisabled):
			response.ForbiddenMsg(c, "Document summarization is disabled.")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, summaryResponse{
		Summary:    result.Summary,
		Provenance: string(result.Provenance),
	})
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
