package section

import (
	"time"

	"github.com/eduspace/core/internal/models"
)

type CreateSectionDTO struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
}

type UpdateSectionDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

type ReorderDTO struct {
	// IDs in the desired order; every section of the course must appear once.
	IDs []string `json:"ids" binding:"required,min=1"`
}

type sectionResponse struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

func toResponse(m *models.SectionModel) *sectionResponse {
	if m == nil {
		return nil
	}
	return &sectionResponse{
		ID:          m.ID,
		CourseID:    m.CourseID,
		Title:       m.Title,
		Description: m.Description,
		Order:       m.Order,
		Created:     m.CreatedAt,
		Modified:    m.UpdatedAt,
	}
}
