package models

// UploadModel tracks every uploaded asset (thumbnails, documents, misc files)
// so admin tooling can list and clean them regardless of storage backend.
type UploadModel struct {
	Base
	FileName   string `json:"file_name" gorm:"not null"`
	FileURL    string `json:"file_url"  gorm:"index;not null"`
	Type       string `json:"type"      gorm:"index"` // thumbnail | document | video | file
	Size       int64  `json:"size"`
	Storage    string `json:"storage"   gorm:"default:'local'"` // local | s3
	UploaderID string `json:"uploader_id" gorm:"index"`
}

func (UploadModel) TableName() string { return "uploads" }
