package video

import (
	"time"

	"github.com/eduspace/core/internal/models"
)

type CreateVideoDTO struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	URL         string `json:"url" binding:"required,url"`
	Duration    int    `json:"duration" binding:"min=0"`
	Order       *int   `json:"order"`
}

type UpdateVideoDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Duration    *int    `json:"duration"`
	Order       *int    `json:"order"`
}

type ReorderDTO struct {
	// IDs in the desired order; every video of the section must appear once.
	IDs []string `json:"ids" binding:"required,min=1"`
}

type videoResponse struct {
	ID          string    `json:"id"`
	SectionID   string    `json:"section_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Duration    int       `json:"duration"`
	Order       int       `json:"order"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

func toResponse(m *models.VideoModel) *videoResponse {
	if m == nil {
		return nil
	}
	return &videoResponse{
		ID:          m.ID,
		SectionID:   m.SectionID,
		Title:       m.Title,
		Description: m.Description,
		URL:         m.URL,
		Duration:    m.Duration,
		Order:       m.Order,
		Created:     m.CreatedAt,
		Modified:    m.UpdatedAt,
	}
}
