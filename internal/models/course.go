package models

// Course difficulty levels, kept verbatim from the public API contract.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Document source types. Only PDF is automatically extractable for
// summarization; the rest degrade to caller-supplied text.
const (
	FileTypePDF   = "pdf"
	FileTypeDocx  = "docx"
	FileTypePptx  = "pptx"
	FileTypeText  = "txt"
	FileTypeOther = "other"
)

// CourseModel is a published unit of study made of ordered sections.
type CourseModel struct {
	Base
	Title         string         `json:"title"          gorm:"not null"`
	Slug          string         `json:"slug"           gorm:"uniqueIndex;not null"`
	Description   string         `json:"description"    gorm:"type:longtext"`
	Thumbnail     string         `json:"thumbnail"`
	Category      string         `json:"category"       gorm:"index"`
	Level         string         `json:"level"          gorm:"index;default:'Beginner'"`
	Price         int64          `json:"price"` // minor currency units; 0 means free
	Currency      string         `json:"currency"       gorm:"default:'INR'"`
	InstructorID  string         `json:"instructor_id"  gorm:"index;not null"`
	Instructor    *UserModel     `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	IsPublished   bool           `json:"is_published"   gorm:"index;default:false"`
	TotalStudents int            `json:"total_students" gorm:"default:0"`
	Tags          StringArray    `json:"tags"           gorm:"type:longtext"`
	Sections      []SectionModel `json:"sections,omitempty" gorm:"foreignKey:CourseID"`
}

func (CourseModel) TableName() string { return "courses" }

// IsFree reports whether enrollment requires no payment.
func (c *CourseModel) IsFree() bool { return c.Price <= 0 }

// SectionModel groups videos and documents inside a course.
type SectionModel struct {
	Base
	CourseID    string          `json:"course_id"   gorm:"index;not null"`
	Title       string          `json:"title"       gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Order       int             `json:"order"       gorm:"index;default:0"`
	Videos      []VideoModel    `json:"videos,omitempty"    gorm:"foreignKey:SectionID"`
	Documents   []DocumentModel `json:"documents,omitempty" gorm:"foreignKey:SectionID"`
}

func (SectionModel) TableName() string { return "sections" }

// VideoModel is a single playable lecture.
type VideoModel struct {
	Base
	SectionID   string `json:"section_id"  gorm:"index;not null"`
	Title       string `json:"title"       gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	URL         string `json:"url"         gorm:"not null"`
	Duration    int    `json:"duration"` // seconds
	Order       int    `json:"order"       gorm:"index;default:0"`
}

func (VideoModel) TableName() string { return "videos" }

// DocumentModel is study material attached to a section. Summary caches the
// AI-generated summary; once set it is returned verbatim until a force-new
// regeneration clears it.
type DocumentModel struct {
	Base
	SectionID   string  `json:"section_id"  gorm:"index;not null"`
	Title       string  `json:"title"       gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	FileURL     string  `json:"file_url"`
	FileType    string  `json:"file_type"   gorm:"default:'other'"`
	FileSize    int64   `json:"file_size"`
	Order       int     `json:"order"       gorm:"index;default:0"`
	Summary     *string `json:"summary"     gorm:"type:longtext"`
}

func (DocumentModel) TableName() string { return "documents" }

// EnrollmentModel links a student to a course. The original schema kept an
// enrolledCourses array on the user; a unique join row is the SQL translation.
type EnrollmentModel struct {
	Base
	UserID   string `json:"user_id"   gorm:"uniqueIndex:idx_enroll_user_course;not null"`
	CourseID string `json:"course_id" gorm:"uniqueIndex:idx_enroll_user_course;index;not null"`
	Source   string `json:"source"    gorm:"default:'payment'"` // payment | free | admin
}

func (EnrollmentModel) TableName() string { return "enrollments" }
