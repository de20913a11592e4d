package document

import (
	"errors"
	"strings"

	"github.com/eduspace/core/internal/models"
	"gorm.io/gorm"
)

var (
	errNotOwner    = errors.New("course belongs to another instructor")
	errBadOrdering = errors.New("reorder list does not match the section documents")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) ListBySection(sectionID string) ([]models.DocumentModel, error) {
	var docs []models.DocumentModel
	err := s.db.Where("section_id = ?", sectionID).
		Order("`order` ASC, created_at ASC").Find(&docs).Error
	return docs, err
}

func (s *Service) GetByID(id string) (*models.DocumentModel, error) {
	var m models.DocumentModel
	err := s.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) Create(sectionID, actorID string, isAdmin bool, dto *CreateDocumentDTO) (*models.DocumentModel, error) {
	if err := s.ensureSectionEditable(sectionID, actorID, isAdmin); err != nil {
		return nil, err
	}

	order := 0
	if dto.Order != nil {
		order = *dto.Order
	} else {
		var max *int
		if err := s.db.Model(&models.DocumentModel{}).Where("section_id = ?", sectionID).
			Select("MAX(`order`)").Scan(&max).Error; err != nil {
			return nil, err
		}
		if max != nil {
			order = *max + 1
		}
	}

	m := models.DocumentModel{
		SectionID:   sectionID,
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		FileURL:     dto.FileURL,
		FileType:    normalizeFileType(dto.FileType),
		FileSize:    dto.FileSize,
		Order:       order,
	}
	return &m, s.db.Create(&m).Error
}

func (s *Service) Update(id, actorID string, isAdmin bool, dto *UpdateDocumentDTO) (*models.DocumentModel, error) {
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
	if dto.FileURL != nil {
		updates["file_url"] = *dto.FileURL
		// A new file invalidates any summary generated for the old one.
		updates["summary"] = nil
	}
	if dto.FileType != nil && *dto.FileType != "" {
		updates["file_type"] = normalizeFileType(*dto.FileType)
	}
	if dto.FileSize != nil && *dto.FileSize >= 0 {
		updates["file_size"] = *dto.FileSize
	}
	if dto.Order != nil {
		updates["order"] = *dto.Order
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.DocumentModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
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
	return s.db.Where("id = ?", id).Delete(&models.DocumentModel{}).Error
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
	for _, d := range existing {
		known[d.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return errBadOrdering
		}
		delete(known, id)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&models.DocumentModel{}).Where("id = ?", id).
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

func normalizeFileType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.FileTypePDF:
		return models.FileTypePDF
	case models.FileTypeDocx, "doc":
		return models.FileTypeDocx
	case models.FileTypePptx, "ppt":
		return models.FileTypePptx
	case models.FileTypeText, "text":
		return models.FileTypeText
	default:
		return models.FileTypeOther
	}
}
