package section

import (
	"errors"
	"strings"

	"github.com/eduspace/core/internal/models"
	"gorm.io/gorm"
)

var (
	errNotOwner    = errors.New("course belongs to another instructor")
	errBadOrdering = errors.New("reorder list does not match the course sections")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) ListByCourse(courseID string) ([]models.SectionModel, error) {
	var sections []models.SectionModel
	err := s.db.Where("course_id = ?", courseID).
		Order("`order` ASC, created_at ASC").Find(&sections).Error
	return sections, err
}

func (s *Service) GetByID(id string) (*models.SectionModel, error) {
	var m models.SectionModel
	err := s.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) Create(courseID, actorID string, isAdmin bool, dto *CreateSectionDTO) (*models.SectionModel, error) {
	if err := s.ensureCourseEditable(courseID, actorID, isAdmin); err != nil {
		return nil, err
	}

	order := 0
	if dto.Order != nil {
		order = *dto.Order
	} else {
		// Append to the end by default.
		var max *int
		if err := s.db.Model(&models.SectionModel{}).Where("course_id = ?", courseID).
			Select("MAX(`order`)").Scan(&max).Error; err != nil {
			return nil, err
		}
		if max != nil {
			order = *max + 1
		}
	}

	m := models.SectionModel{
		CourseID:    courseID,
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Order:       order,
	}
	return &m, s.db.Create(&m).Error
}

func (s *Service) Update(id, actorID string, isAdmin bool, dto *UpdateSectionDTO) (*models.SectionModel, error) {
	existing, err := s.GetByID(id)
	if err != nil || existing == nil {
		return existing, err
	}
	if err := s.ensureCourseEditable(existing.CourseID, actorID, isAdmin); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Title != nil && strings.TrimSpace(*dto.Title) != "" {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Order != nil {
		updates["order"] = *dto.Order
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.SectionModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes a section and everything inside it.
func (s *Service) Delete(id, actorID string, isAdmin bool) error {
	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return gorm.ErrRecordNotFound
	}
	if err := s.ensureCourseEditable(existing.CourseID, actorID, isAdmin); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", id).Delete(&models.VideoModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id = ?", id).Delete(&models.DocumentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.SectionModel{}).Error
	})
}

// Reorder rewrites the order column to match the given ID sequence.
func (s *Service) Reorder(courseID, actorID string, isAdmin bool, ids []string) error {
	if err := s.ensureCourseEditable(courseID, actorID, isAdmin); err != nil {
		return err
	}

	existing, err := s.ListByCourse(courseID)
	if err != nil {
		return err
	}
	if len(existing) != len(ids) {
		return errBadOrdering
	}
	known := make(map[string]bool, len(existing))
	for _, sec := range existing {
		known[sec.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return errBadOrdering
		}
		delete(known, id)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&models.SectionModel{}).Where("id = ?", id).
				UpdateColumn("order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) ensureCourseEditable(courseID, actorID string, isAdmin bool) error {
	var c models.CourseModel
	if err := s.db.Select("id", "instructor_id").Where("id = ?", courseID).First(&c).Error; err != nil {
		return err
	}
	if !isAdmin && c.InstructorID != actorID {
		return errNotOwner
	}
	return nil
}
