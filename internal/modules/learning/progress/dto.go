package progress

import (
	"time"

	"github.com/eduspace/core/internal/models"
)

const (
	ItemTypeVideo    = "video"
	ItemTypeDocument = "document"
)

type MarkDTO struct {
	ItemType string `json:"item_type" binding:"required,oneof=video document"`
	ItemID   string `json:"item_id" binding:"required"`
	// Completed defaults to true; send false to unmark.
	Completed *bool `json:"completed"`
}

type progressResponse struct {
	CourseID           string    `json:"course_id"`
	CompletedVideos    []string  `json:"completed_videos"`
	CompletedDocuments []string  `json:"completed_documents"`
	Percentage         int       `json:"progress_percentage"`
	TotalItems         int       `json:"total_items"`
	CompletedItems     int       `json:"completed_items"`
	Modified           time.Time `json:"modified"`
}

func toResponse(m *models.ProgressModel, totalItems int) *progressResponse {
	resp := &progressResponse{
		CourseID:           m.CourseID,
		CompletedVideos:    m.CompletedVideos,
		CompletedDocuments: m.CompletedDocuments,
		Percentage:         m.Percentage,
		TotalItems:         totalItems,
		CompletedItems:     len(m.CompletedVideos) + len(m.CompletedDocuments),
		Modified:           m.UpdatedAt,
	}
	if resp.CompletedVideos == nil {
		resp.CompletedVideos = []string{}
	}
	if resp.CompletedDocuments == nil {
		resp.CompletedDocuments = []string{}
	}
	return resp
}
