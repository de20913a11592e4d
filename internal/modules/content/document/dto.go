package document

import (
	"time"

	"github.com/eduspace/core/internal/models"
)

type CreateDocumentDTO struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	FileURL     string `json:"file_url"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size" binding:"min=0"`
	Order       *int   `json:"order"`
}

type UpdateDocumentDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	FileURL     *string `json:"file_url"`
	FileType    *string `json:"file_type"`
	FileSize    *int64  `json:"file_size"`
	Order       *int    `json:"order"`
}

type ReorderDTO struct {
	// IDs in the desired order; every document of the section must appear once.
	IDs []string `json:"ids" binding:"required,min=1"`
}

type SummarizeDTO struct {
	// Text lets the caller hand over the document body directly, bypassing
	// fetch and extraction. Required for non-PDF file types.
	Text     string `json:"text"`
	ForceNew bool   `json:"force_new"`
}

type documentResponse struct {
	ID          string    `json:"id"`
	SectionID   string    `json:"section_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"file_url"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	Order       int       `json:"order"`
	Summary     *string   `json:"summary"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

type summaryResponse struct {
	Summary    string `json:"summary"`
	Provenance string `json:"provenance"`
}

func toResponse(m *models.DocumentModel) *documentResponse {
	if m == nil {
		return nil
	}
	return &documentResponse{
		ID:          m.ID,
		SectionID:   m.SectionID,
		Title:       m.Title,
		Description: m.Description,
		FileURL:     m.FileURL,
		FileType:    m.FileType,
		FileSize:    m.FileSize,
		Order:       m.Order,
		Summary:     m.Summary,
		Created:     m.CreatedAt,
		Modified:    m.UpdatedAt,
	}
}
