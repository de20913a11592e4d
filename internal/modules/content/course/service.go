package course

import (
	"errors"
	"regexp"
	"strings"

	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/pkg/pagination"
	"github.com/eduspace/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	errSlugTaken      = errors.New("course slug already in use")
	errNotOwner       = errors.New("course belongs to another instructor")
	errHasEnrollments = errors.New("course has active enrollments")
	errNotFree        = errors.New("course requires payment")
	errAlreadyJoined  = errors.New("already enrolled in this course")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a page of courses. Unpublished courses are only included when
// staff requests them explicitly.
func (s *Service) List(query *ListQuery, pg pagination.Query, staff bool) ([]models.CourseModel, response.Pagination, error) {
	tx := s.db.Model(&models.CourseModel{}).Preload("Instructor")

	if !staff || !query.IncludeUnpublished {
		tx = tx.Where("is_published = ?", true)
	}
	if query.Category != "" {
		tx = tx.Where("category = ?", query.Category)
	}
	if query.Level != "" {
		tx = tx.Where("level = ?", query.Level)
	}
	if query.InstructorID != "" {
		tx = tx.Where("instructor_id = ?", query.InstructorID)
	}
	if kw := strings.TrimSpace(query.Keyword); kw != "" {
		like := "%" + kw + "%"
		tx = tx.Where("title LIKE ? OR description LIKE ? OR category LIKE ?", like, like, like)
	}

	var courses []models.CourseModel
	meta, err := pagination.Paginate(tx.Order("created_at DESC"), pg, &courses)
	return courses, meta, err
}

// GetByID loads a course with its full section tree. Returns (nil, nil) when
// the course does not exist.
func (s *Service) GetByID(id string) (*models.CourseModel, error) {
	var m models.CourseModel
	err := s.db.Preload("Instructor").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.order ASC, sections.created_at ASC")
		}).
		Preload("Sections.Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("videos.order ASC, videos.created_at ASC")
		}).
		Preload("Sections.Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("documents.order ASC, documents.created_at ASC")
		}).
		Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) GetBySlug(slug string) (*models.CourseModel, error) {
	var m models.CourseModel
	err := s.db.Where("slug = ?", slug).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(m.ID)
}

func (s *Service) Create(instructorID string, dto *CreateCourseDTO) (*models.CourseModel, error) {
	slug := strings.TrimSpace(dto.Slug)
	if slug == "" {
		slug = Slugify(dto.Title)
	}

	var dup int64
	if err := s.db.Model(&models.CourseModel{}).Where("slug = ?", slug).Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, errSlugTaken
	}

	level := dto.Level
	if level == "" {
		level = models.LevelBeginner
	}
	currency := strings.ToUpper(strings.TrimSpace(dto.Currency))
	if currency == "" {
		currency = "INR"
	}

	m := models.CourseModel{
		Title:        strings.TrimSpace(dto.Title),
		Slug:         slug,
		Description:  dto.Description,
		Thumbnail:    dto.Thumbnail,
		Category:     dto.Category,
		Level:        level,
		Price:        dto.Price,
		Currency:     currency,
		InstructorID: instructorID,
		Tags:         dto.Tags,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}
	return s.GetByID(m.ID)
}

// Update applies partial changes. Instructors may only edit their own courses;
// admins may edit any.
func (s *Service) Update(id, actorID string, isAdmin bool, dto *UpdateCourseDTO) (*models.CourseModel, error) {
	existing, err := s.GetByID(id)
	if err != nil || existing == nil {
		return existing, err
	}
	if !isAdmin && existing.InstructorID != actorID {
		return nil, errNotOwner
	}

	updates := map[string]interface{}{}
	if dto.Title != nil && strings.TrimSpace(*dto.Title) != "" {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Slug != nil && strings.TrimSpace(*dto.Slug) != "" {
		slug := strings.TrimSpace(*dto.Slug)
		var dup int64
		if err := s.db.Model(&models.CourseModel{}).
			Where("slug = ? AND id <> ?", slug, id).Count(&dup).Error; err != nil {
			return nil, err
		}
		if dup > 0 {
			return nil, errSlugTaken
		}
		updates["slug"] = slug
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Thumbnail != nil {
		updates["thumbnail"] = *dto.Thumbnail
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.Level != nil && *dto.Level != "" {
		updates["level"] = *dto.Level
	}
	if dto.Price != nil && *dto.Price >= 0 {
		updates["price"] = *dto.Price
	}
	if dto.Currency != nil && *dto.Currency != "" {
		updates["currency"] = strings.ToUpper(strings.TrimSpace(*dto.Currency))
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringArray(*dto.Tags)
	}
	if dto.IsPublished != nil {
		updates["is_published"] = *dto.IsPublished
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.CourseModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes a course. A course with enrollments is only removable by an
// admin passing force; sections, videos and documents go with it.
func (s *Service) Delete(id, actorID string, isAdmin, force bool) error {
	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return gorm.ErrRecordNotFound
	}
	if !isAdmin && existing.InstructorID != actorID {
		return errNotOwner
	}

	var enrolled int64
	if err := s.db.Model(&models.EnrollmentModel{}).Where("course_id = ?", id).Count(&enrolled).Error; err != nil {
		return err
	}
	if enrolled > 0 && !(isAdmin && force) {
		return errHasEnrollments
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var sectionIDs []string
		if err := tx.Model(&models.SectionModel{}).Where("course_id = ?", id).
			Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if len(sectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&models.VideoModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&models.DocumentModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&models.SectionModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.EnrollmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.ProgressModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.CourseModel{}).Error
	})
}

// EnrollFree enrolls the user in a free course. Paid courses go through the
// payment flow instead.
func (s *Service) EnrollFree(userID, courseID string) error {
	c, err := s.GetByID(courseID)
	if err != nil {
		return err
	}
	if c == nil {
		return gorm.ErrRecordNotFound
	}
	if !c.IsFree() {
		return errNotFree
	}

	enrolled, err := s.IsEnrolled(userID, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return errAlreadyJoined
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return Grant(tx, userID, courseID, "free")
	})
}

// Grant records an enrollment inside an existing transaction, seeds the
// progress row and bumps the student counter. Shared with the payment flow.
func Grant(tx *gorm.DB, userID, courseID, source string) error {
	enrollment := models.EnrollmentModel{
		UserID:   userID,
		CourseID: courseID,
		Source:   source,
	}
	if err := tx.Create(&enrollment).Error; err != nil {
		return err
	}
	progress := models.ProgressModel{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := tx.Create(&progress).Error; err != nil {
		return err
	}
	return tx.Model(&models.CourseModel{}).Where("id = ?", courseID).
		UpdateColumn("total_students", gorm.Expr("total_students + 1")).Error
}

func (s *Service) IsEnrolled(userID, courseID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.EnrollmentModel{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count).Error
	return count > 0, err
}

// MyCourses lists the courses the user is enrolled in.
func (s *Service) MyCourses(userID string, pg pagination.Query) ([]models.CourseModel, response.Pagination, error) {
	tx := s.db.Model(&models.CourseModel{}).Preload("Instructor").
		Joins("JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.deleted_at IS NULL").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.created_at DESC")
	var courses []models.CourseModel
	meta, err := pagination.Paginate(tx, pg, &courses)
	return courses, meta, err
}

// Teaching lists the courses the instructor owns, drafts included.
func (s *Service) Teaching(instructorID string, pg pagination.Query) ([]models.CourseModel, response.Pagination, error) {
	tx := s.db.Model(&models.CourseModel{}).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC")
	var courses []models.CourseModel
	meta, err := pagination.Paginate(tx, pg, &courses)
	return courses, meta, err
}

var slugCleanPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a course title.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugCleanPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "course"
	}
	return slug
}
