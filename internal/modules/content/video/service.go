package video

import (
	"errors"
	"strings"

	"github.com/eduspace/core/internal/models"
	"gorm.io/gorm"
)

var (
	errNotOwner    = errors.New("course belongs to another instructor")
	errBadOrdering = errors.New("reorder list does not match the section videos")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) ListBySection(sectionID string) ([]models.VideoModel, error) {
	var videos []models.VideoModel
	err := s.db.Where("section_id = ?", sectionID).
		Order("`order` ASC, created_at ASC").Find(&videos).Error
	return videos, err
}

func (s *Service) GetByID(id string) (*models.VideoModel, error) {
	var m models.VideoModel
	err := s.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) Create(sectionID, actorID string, isAdmin bool, dto *CreateVideoDTO) (*models.VideoModel, error) {
	if err := s.ensureSectionEditable(sectionID, actorID, isAdmin); err != nil {
		return nil, err
	}

	order := 0
	if dto.Order != nil {
		order = *dto.Order
	} else {
		var max *int
		if err := s.db.Model(&models.VideoModel{}).Where("section_id = ?", sectionID).
			Select("MAX(`order`)").Scan(&max).Error; err != nil {
			return nil, err
		}
		if max != nil {
			order = *max + 1
		}
	}

	m := models.VideoModel{
		SectionID:   sectionID,
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		URL:         dto.URL,
		Duration:    dto.Duration,
		Order:       order,
	}
	return &m, s.db.Create(&m).Error
}

func (s *Service) Update(id, actorID string, isAdmin bool, dto *UpdateVideoDTO) (*models.VideoModel, error) {
	existing, err := s.GetByID(id)
	if err != nil || existing == nil {
		return existing, err
	}
	if err := s.ensureSectionEditable(existing.SectionID, actorID, isAdmin); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil && strings.TrimSpace(*dto.Title) != "" {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.URL != nil && *dto.URL != "" {
		updates["url"] = *dto.URL
	}
	if dto.Duration != nil && *dto.Duration >= 0 {
		updates["duration"] = *dto.Duration
	}
	if dto.Order != nil {
		updates["order"] = *dto.Order
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.VideoModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id, actorID string, isAdmin bool) error {
	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return gorm.ErrRecordNotFound
	}
	if err := s.ensureSectionEditable(existing.SectionID, actorID, isAdmin); err != nil {
		return err
	}
	return s.db.Where("id = ?", id).Delete(&models.VideoModel{}).Error
}

// Reorder rewrites the order column to match the given ID sequence.
func (s *Service) Reorder(sectionID, actorID string, isAdmin bool, ids []string) error {
	if err := s.ensureSectionEditable(sectionID, actorID, isAdmin); err != nil {
		return err
	}

	existing, err := s.ListBySection(sectionID)
	if err != nil {
		return err
	}
	if len(existing) != len(ids) {
		return errBadOrdering
	}
	known := make(map[string]bool, len(existing))
	for _, v := range existing {
		known[v.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return errBadOrdering
		}
		delete(known, id)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&models.VideoModel{}).Where("id = ?", id).
				UpdateColumn("order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) ensureSectionEditable(sectionID, actorID string, isAdmin bool) error {
	var sec models.SectionModel
	if err := s.db.Select("id", "course_id").Where("id = ?", sectionID).First(&sec).Error; err != nil {
		return err
	}
	var c models.CourseModel
	if err := s.db.Select("id", "instructor_id").Where("id = ?", sec.CourseID).First(&c).Error; err != nil {
		return err
	}
	if !isAdmin && c.InstructorID != actorID {
		return errNotOwner
	}
	return nil
}
