package course

import (
	"time"

	"github.com/eduspace/core/internal/models"
)

type CreateCourseDTO struct {
	Title       string   `json:"title" binding:"required,min=3,max=200"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	Category    string   `json:"category"`
	Level       string   `json:"level"`
	Price       int64    `json:"price" binding:"min=0"`
	Currency    string   `json:"currency"`
	Tags        []string `json:"tags"`
}

type UpdateCourseDTO struct {
	Title       *string   `json:"title"`
	Slug        *string   `json:"slug"`
	Description *string   `json:"description"`
	Thumbnail   *string   `json:"thumbnail"`
	Category    *string   `json:"category"`
	Level       *string   `json:"level"`
	Price       *int64    `json:"price"`
	Currency    *string   `json:"currency"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"is_published"`
}

type ListQuery struct {
	Category     string `form:"category"`
	Level        string `form:"level"`
	Keyword      string `form:"keyword"`
	InstructorID string `form:"instructor_id"`
	// Unpublished courses are only visible to instructors and admins.
	IncludeUnpublished bool `form:"include_unpublished"`
}

type courseResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Description   string             `json:"description"`
	DescriptionHTML string           `json:"description_html,omitempty"`
	Thumbnail     string             `json:"thumbnail"`
	Category      string             `json:"category"`
	Level         string             `json:"level"`
	Price         int64              `json:"price"`
	Currency      string             `json:"currency"`
	IsFree        bool               `json:"is_free"`
	InstructorID  string             `json:"instructor_id"`
	Instructor    *instructorBrief   `json:"instructor,omitempty"`
	IsPublished   bool               `json:"is_published"`
	TotalStudents int                `json:"total_students"`
	Tags          []string           `json:"tags"`
	Sections      []*sectionResponse `json:"sections,omitempty"`
	Created       time.Time          `json:"created"`
	Modified      time.Time          `json:"modified"`
}

type instructorBrief struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type sectionResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Order       int                 `json:"order"`
	Videos      []*videoBrief       `json:"videos"`
	Documents   []*documentBrief    `json:"documents"`
}

type videoBrief struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

type documentBrief struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	FileType   string `json:"file_type"`
	Order      int    `json:"order"`
	HasSummary bool   `json:"has_summary"`
}

func toResponse(m *models.CourseModel) *courseResponse {
	if m == nil {
		return nil
	}
	resp := &courseResponse{
		ID:            m.ID,
		Title:         m.Title,
		Slug:          m.Slug,
		Description:   m.Description,
		Thumbnail:     m.Thumbnail,
		Category:      m.Category,
		Level:         m.Level,
		Price:         m.Price,
		Currency:      m.Currency,
		IsFree:        m.IsFree(),
		InstructorID:  m.InstructorID,
		IsPublished:   m.IsPublished,
		TotalStudents: m.TotalStudents,
		Tags:          m.Tags,
		Created:       m.CreatedAt,
		Modified:      m.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if m.Instructor != nil {
		resp.Instructor = &instructorBrief{
			ID:     m.Instructor.ID,
			Name:   m.Instructor.Name,
			Avatar: m.Instructor.Avatar,
		}
	}
	for i := range m.Sections {
		resp.Sections = append(resp.Sections, toSectionResponse(&m.Sections[i]))
	}
	return resp
}

func toSectionResponse(s *models.SectionModel) *sectionResponse {
	resp := &sectionResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Order:       s.Order,
		Videos:      []*videoBrief{},
		Documents:   []*documentBrief{},
	}
	for i := range s.Videos {
		v := &s.Videos[i]
		resp.Videos = append(resp.Videos, &videoBrief{
			ID: v.ID, Title: v.Title, Duration: v.Duration, Order: v.Order,
		})
	}
	for i := range s.Documents {
		d := &s.Documents[i]
		resp.Documents = append(resp.Documents, &documentBrief{
			ID: d.ID, Title: d.Title, FileType: d.FileType, Order: d.Order,
			HasSummary: d.Summary != nil && *d.Summary != "",
		})
	}
	return resp
}
