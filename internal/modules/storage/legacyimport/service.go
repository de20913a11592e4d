package legacyimport

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eduspace/core/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service imports mongoexport dumps from the predecessor deployment. ObjectID
// hex ids are mapped to deterministic UUIDs so re-running the import is
// idempotent and cross-collection references stay intact.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger}
}

// Import runs the whole bundle in one transaction. Users come first so course
// and payment references resolve.
func (s *Service) Import(bundle *Bundle) (*Report, error) {
	report := &Report{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.importUsers(tx, bundle.Users, report); err != nil {
			return fmt.Errorf("users: %w", err)
		}
		if err := s.importCourses(tx, bundle.Courses, report); err != nil {
			return fmt.Errorf("courses: %w", err)
		}
		if err := s.importEnrollments(tx, bundle.Enrollments, report); err != nil {
			return fmt.Errorf("enrollments: %w", err)
		}
		if err := s.importPayments(tx, bundle.Payments, report); err != nil {
			return fmt.Errorf("payments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("legacy import finished",
		zap.Int("users", report.Users.Imported),
		zap.Int("courses", report.Courses.Imported),
		zap.Int("enrollments", report.Enrollments.Imported),
		zap.Int("payments", report.Payments.Imported))
	return report, nil
}

func (s *Service) importUsers(tx *gorm.DB, raw json.RawMessage, report *Report) error {
	docs, err := decodeDocs(raw)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		id := mappedID(doc)
		email := strings.ToLower(docString(doc, "email"))
		if id == "" || email == "" {
			report.Users.Skipped++
			continue
		}

		var existing int64
		if err := tx.Model(&models.UserModel{}).
			Where("id = ? OR email = ?", id, email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			report.Users.Skipped++
			continue
		}

		u := models.UserModel{
			Email:    email,
			Name:     docString(doc, "name", "username"),
			Avatar:   docString(doc, "avatar"),
			Password: docString(doc, "password"),
			Role:     normalizeRole(docString(doc, "role")),
		}
		u.ID = id
		u.CreatedAt = docTime(doc, "createdAt", "created")
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		report.Users.Imported++

		// The legacy schema kept enrollments as an array on the user.
		for _, ref := range docSlice(doc, "enrolledCourses") {
			if courseID := mapReference(ref); courseID != "" {
				if err := s.createEnrollment(tx, id, courseID, "legacy", time.Time{}, report); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Service) importCourses(tx *gorm.DB, raw json.RawMessage, report *Report) error {
	docs, err := decodeDocs(raw)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		id := mappedID(doc)
		title := docString(doc, "title")
		if id == "" || title == "" {
			report.Courses.Skipped++
			continue
		}

		var existing int64
		if err := tx.Model(&models.CourseModel{}).Where("id = ?", id).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			report.Courses.Skipped++
			continue
		}

		slug := docString(doc, "slug")
		if slug == "" {
			slug = id
		}
		var slugTaken int64
		if err := tx.Model(&models.CourseModel{}).Where("slug = ?", slug).Count(&slugTaken).Error; err != nil {
			return err
		}
		if slugTaken > 0 {
			slug = slug + "-" + id[:8]
		}

		course := models.CourseModel{
			Title:         title,
			Slug:          slug,
			Description:   docString(doc, "description"),
			Thumbnail:     docString(doc, "thumbnail"),
			Category:      docString(doc, "category"),
			Level:         normalizeLevel(docString(doc, "level")),
			Price:         docInt64(doc, "price"),
			Currency:      defaultString(docString(doc, "currency"), "INR"),
			InstructorID:  mapReference(doc["instructor"]),
			IsPublished:   docBool(doc, "isPublished", "published"),
			TotalStudents: int(docInt64(doc, "totalStudents")),
			Tags:          models.StringArray(docStrings(doc, "tags")),
		}
		course.ID = id
		course.CreatedAt = docTime(doc, "createdAt", "created")
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		report.Courses.Imported++

		if err := s.importSections(tx, id, docSlice(doc, "sections"), report); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) importSections(tx *gorm.DB, courseID string, sections []interface{}, report *Report) error {
	for i, rawSection := range sections {
		doc, ok := rawSection.(bson.M)
		if !ok {
			report.Sections.Skipped++
			continue
		}

		id := mappedID(doc)
		if id == "" {
			id = derivedID(courseID, "section", i)
		}
		section := models.SectionModel{
			CourseID:    courseID,
			Title:       defaultString(docString(doc, "title"), fmt.Sprintf("Section %d", i+1)),
			Description: docString(doc, "description"),
			Order:       orderOrIndex(doc, i),
		}
		section.ID = id
		if err := tx.Create(&section).Error; err != nil {
			return err
		}
		report.Sections.Imported++

		for j, rawVideo := range docSlice(doc, "videos") {
			vdoc, ok := rawVideo.(bson.M)
			if !ok || docString(vdoc, "url", "videoUrl") == "" {
				report.Videos.Skipped++
				continue
			}
			video := models.VideoModel{
				SectionID:   id,
				Title:       defaultString(docString(vdoc, "title"), fmt.Sprintf("Video %d", j+1)),
				Description: docString(vdoc, "description"),
				URL:         docString(vdoc, "url", "videoUrl"),
				Duration:    int(docInt64(vdoc, "duration")),
				Order:       orderOrIndex(vdoc, j),
			}
			video.ID = childID(vdoc, id, "video", j)
			if err := tx.Create(&video).Error; err != nil {
				return err
			}
			report.Videos.Imported++
		}

		for j, rawDoc := range docSlice(doc, "documents") {
			ddoc, ok := rawDoc.(bson.M)
			if !ok {
				report.Documents.Skipped++
				continue
			}
			document := models.DocumentModel{
				SectionID:   id,
				Title:       defaultString(docString(ddoc, "title"), fmt.Sprintf("Document %d", j+1)),
				Description: docString(ddoc, "description"),
				FileURL:     docString(ddoc, "fileUrl", "url"),
				FileType:    defaultString(strings.ToLower(docString(ddoc, "fileType")), models.FileTypeOther),
				FileSize:    docInt64(ddoc, "fileSize"),
				Order:       orderOrIndex(ddoc, j),
			}
			if summary := docString(ddoc, "summary"); summary != "" {
				document.Summary = &summary
			}
			document.ID = childID(ddoc, id, "document", j)
			if err := tx.Create(&document).Error; err != nil {
				return err
			}
			report.Documents.Imported++
		}
	}
	return nil
}

func (s *Service) importEnrollments(tx *gorm.DB, raw json.RawMessage, report *Report) error {
	docs, err := decodeDocs(raw)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		userID := mapReference(firstValue(doc, "user", "userId", "student"))
		courseID := mapReference(firstValue(doc, "course", "courseId"))
		if userID == "" || courseID == "" {
			report.Enrollments.Skipped++
			continue
		}
		if err := s.createEnrollment(tx, userID, courseID,
			defaultString(docString(doc, "source"), "legacy"),
			docTime(doc, "enrolledAt", "createdAt"), report); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) createEnrollment(tx *gorm.DB, userID, courseID, source string, at time.Time, report *Report) error {
	var existing int64
	if err := tx.Model(&models.EnrollmentModel{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		report.Enrollments.Skipped++
		return nil
	}

	e := models.EnrollmentModel{UserID: userID, CourseID: courseID, Source: source}
	e.CreatedAt = at
	if err := tx.Create(&e).Error; err != nil {
		return err
	}
	p := models.ProgressModel{
		UserID:             userID,
		CourseID:           courseID,
		CompletedVideos:    models.StringArray{},
		CompletedDocuments: models.StringArray{},
	}
	if err := tx.Create(&p).Error; err != nil {
		return err
	}
	report.Enrollments.Imported++
	return nil
}

func (s *Service) importPayments(tx *gorm.DB, raw json.RawMessage, report *Report) error {
	docs, err := decodeDocs(raw)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		id := mappedID(doc)
		userID := mapReference(firstValue(doc, "user", "userId"))
		courseID := mapReference(firstValue(doc, "course", "courseId"))
		orderID := docString(doc, "orderId", "razorpayOrderId")
		if id == "" || userID == "" || courseID == "" || orderID == "" {
			report.Payments.Skipped++
			continue
		}

		var existing int64
		if err := tx.Model(&models.PaymentModel{}).
			Where("id = ? OR gateway_order_id = ?", id, orderID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			report.Payments.Skipped++
			continue
		}

		p := models.PaymentModel{
			UserID:           userID,
			CourseID:         courseID,
			GatewayOrderID:   orderID,
			GatewayPaymentID: docString(doc, "paymentId", "razorpayPaymentId"),
			Amount:           docInt64(doc, "amount"),
			Currency:         defaultString(docString(doc, "currency"), "INR"),
			Status:           normalizePaymentStatus(docString(doc, "status")),
		}
		p.ID = id
		p.CreatedAt = docTime(doc, "createdAt", "created")
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		report.Payments.Imported++
	}
	return nil
}

// decodeDocs parses one mongoexport JSON array into bson documents, keeping
// extended JSON types ($oid, $date) intact.
func decodeDocs(raw json.RawMessage) ([]bson.M, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("expected a JSON array: %w", err)
	}

	docs := make([]bson.M, 0, len(elems))
	for i, elem := range elems {
		var doc bson.M
		if err := bson.UnmarshalExtJSON(elem, false, &doc); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// mapLegacyID derives a stable UUID from a legacy identifier. The same hex id
// always maps to the same UUID, which makes re-imports idempotent.
func mapLegacyID(hex string) string {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return ""
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("eduspace-legacy:"+hex)).String()
}

func mappedID(doc bson.M) string {
	return mapReference(doc["_id"])
}

// mapReference resolves an ObjectID, extended-JSON wrapper, or plain string
// reference to its mapped UUID.
func mapReference(value interface{}) string {
	switch v := value.(type) {
	case primitive.ObjectID:
		return mapLegacyID(v.Hex())
	case bson.M:
		if oid, ok := v["$oid"].(string); ok {
			return mapLegacyID(oid)
		}
		return ""
	case string:
		return mapLegacyID(v)
	default:
		return ""
	}
}

func derivedID(parent, kind string, index int) string {
	return mapLegacyID(fmt.Sprintf("%s/%s/%d", parent, kind, index))
}

func childID(doc bson.M, parent, kind string, index int) string {
	if id := mappedID(doc); id != "" {
		return id
	}
	return derivedID(parent, kind, index)
}

func docString(doc bson.M, keys ...string) string {
	for _, key := range keys {
		if v, ok := doc[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func docInt64(doc bson.M, keys ...string) int64 {
	for _, key := range keys {
		switch v := doc[key].(type) {
		case int64:
			return v
		case int32:
			return int64(v)
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}

func docBool(doc bson.M, keys ...string) bool {
	for _, key := range keys {
		if v, ok := doc[key].(bool); ok {
			return v
		}
	}
	return false
}

func docTime(doc bson.M, keys ...string) time.Time {
	for _, key := range keys {
		switch v := doc[key].(type) {
		case primitive.DateTime:
			return v.Time()
		case time.Time:
			return v
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func docSlice(doc bson.M, key string) []interface{} {
	switch v := doc[key].(type) {
	case bson.A:
		return v
	case []interface{}:
		return v
	default:
		return nil
	}
}

func docStrings(doc bson.M, key string) []string {
	items := docSlice(doc, key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func firstValue(doc bson.M, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := doc[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func orderOrIndex(doc bson.M, index int) int {
	if v := docInt64(doc, "order"); v > 0 {
		return int(v)
	}
	return index
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func normalizeRole(raw string) string {
	switch strings.ToLower(raw) {
	case models.RoleAdmin:
		return models.RoleAdmin
	case models.RoleInstructor, "teacher":
		return models.RoleInstructor
	default:
		return models.RoleStudent
	}
}

func normalizeLevel(raw string) string {
	switch strings.ToLower(raw) {
	case "intermediate":
		return models.LevelIntermediate
	case "advanced":
		return models.LevelAdvanced
	default:
		return models.LevelBeginner
	}
}

func normalizePaymentStatus(raw string) string {
	switch strings.ToLower(raw) {
	case "completed", "paid", "captured", "success":
		return models.PaymentCompleted
	case "failed", "cancelled":
		return models.PaymentFailed
	default:
		return models.PaymentPending
	}
}
