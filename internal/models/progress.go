package models

// ProgressModel tracks a student's completion inside one course.
// Completed ids are JSON arrays, mirroring the original document schema.
type ProgressModel struct {
	Base
	UserID             string      `json:"user_id"   gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID           string      `json:"course_id" gorm:"uniqueIndex:idx_progress_user_course;index;not null"`
	CompletedVideos    StringArray `json:"completed_videos"    gorm:"type:longtext"`
	CompletedDocuments StringArray `json:"completed_documents" gorm:"type:longtext"`
	Percentage         int         `json:"progress_percentage"`
}

func (ProgressModel) TableName() string { return "progress" }
