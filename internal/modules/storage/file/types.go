package file

import (
	"time"

	"github.com/eduspace/core/internal/models"
)

type uploadResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	URL     string    `json:"url"`
	Type    string    `json:"type"`
	Size    int64     `json:"size"`
	Storage string    `json:"storage"`
	Created time.Time `json:"created"`
}

func toResponse(m *models.UploadModel) *uploadResponse {
	return &uploadResponse{
		ID:      m.ID,
		Name:    m.FileName,
		URL:     m.FileURL,
		Type:    m.Type,
		Size:    m.Size,
		Storage: m.Storage,
		Created: m.CreatedAt,
	}
}
