package progress

import (
	"errors"

	"github.com/eduspace/core/internal/models"
	"gorm.io/gorm"
)

var (
	errNotEnrolled = errors.New("not enrolled in this course")
	errUnknownItem = errors.New("item does not belong to this course")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the user's progress row plus the course item total. Creates the
// row on demand for enrolled users whose seed row is missing.
func (s *Service) Get(userID, courseID string) (*models.ProgressModel, int, error) {
	enrolled, err := s.isEnrolled(userID, courseID)
	if err != nil {
		return nil, 0, err
	}
	if !enrolled {
		return nil, 0, errNotEnrolled
	}

	var m models.ProgressModel
	err = s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = models.ProgressModel{UserID: userID, CourseID: courseID}
		if err := s.db.Create(&m).Error; err != nil {
			return nil, 0, err
		}
	} else if err != nil {
		return nil, 0, err
	}

	videoIDs, documentIDs, err := s.courseItemIDs(courseID)
	if err != nil {
		return nil, 0, err
	}
	return &m, len(videoIDs) + len(documentIDs), nil
}

// Mark toggles completion of one item and recomputes the percentage. Item ids
// that stopped existing (deleted lessons) are pruned from the completed sets
// during recompute.
func (s *Service) Mark(userID, courseID string, dto *MarkDTO) (*models.ProgressModel, int, error) {
	m, _, err := s.Get(userID, courseID)
	if err != nil {
		return nil, 0, err
	}

	videoIDs, documentIDs, err := s.courseItemIDs(courseID)
	if err != nil {
		return nil, 0, err
	}

	completed := dto.Completed == nil || *dto.Completed

	switch dto.ItemType {
	case ItemTypeVideo:
		if !contains(videoIDs, dto.ItemID) {
			return nil, 0, errUnknownItem
		}
		m.CompletedVideos = toggle(m.CompletedVideos, dto.ItemID, completed)
	case ItemTypeDocument:
		if !contains(documentIDs, dto.ItemID) {
			return nil, 0, errUnknownItem
		}
		m.CompletedDocuments = toggle(m.CompletedDocuments, dto.ItemID, completed)
	default:
		return nil, 0, errUnknownItem
	}

	m.CompletedVideos = intersect(m.CompletedVideos, videoIDs)
	m.CompletedDocuments = intersect(m.CompletedDocuments, documentIDs)

	total := len(videoIDs) + len(documentIDs)
	m.Percentage = Percentage(len(m.CompletedVideos)+len(m.CompletedDocuments), total)

	if err := s.db.Model(&models.ProgressModel{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"completed_videos":    m.CompletedVideos,
		"completed_documents": m.CompletedDocuments,
		"percentage":          m.Percentage,
	}).Error; err != nil {
		return nil, 0, err
	}
	return m, total, nil
}

// Percentage computes completion as a rounded percent; empty courses are 0%.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int((float64(completed)/float64(total))*100 + 0.5)
}

func (s *Service) isEnrolled(userID, courseID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.EnrollmentModel{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count).Error
	return count > 0, err
}

func (s *Service) courseItemIDs(courseID string) (videos, documents []string, err error) {
	var sectionIDs []string
	if err := s.db.Model(&models.SectionModel{}).Where("course_id = ?", courseID).
		Pluck("id", &sectionIDs).Error; err != nil {
		return nil, nil, err
	}
	if len(sectionIDs) == 0 {
		return nil, nil, nil
	}

	if err := s.db.Model(&models.VideoModel{}).Where("section_id IN ?", sectionIDs).
		Pluck("id", &videos).Error; err != nil {
		return nil, nil, err
	}
	if err := s.db.Model(&models.DocumentModel{}).Where("section_id IN ?", sectionIDs).
		Pluck("id", &documents).Error; err != nil {
		return nil, nil, err
	}
	return videos, documents, nil
}

func contains(ids []string, id string) bool {
	for _, item := range ids {
		if item == id {
			return true
		}
	}
	return false
}

func toggle(set models.StringArray, id string, completed bool) models.StringArray {
	out := make(models.StringArray, 0, len(set)+1)
	for _, item := range set {
		if item != id {
			out = append(out, item)
		}
	}
	if completed {
		out = append(out, id)
	}
	return out
}

func intersect(set models.StringArray, valid []string) models.StringArray {
	out := make(models.StringArray, 0, len(set))
	for _, item := range set {
		if contains(valid, item) {
			out = append(out, item)
		}
	}
	return out
}
