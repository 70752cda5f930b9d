package model

import "github.com/google/uuid"

// StoredFile is the registry entry for an uploaded file on disk
type StoredFile struct {
	BaseModel
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	OriginalName string     `gorm:"type:varchar(255);not null" json:"original_name"`
	Category     string     `gorm:"type:varchar(100);not null;default:'general'" json:"category"`
	Size         int64      `gorm:"not null" json:"size"`
	MimeType     string     `gorm:"type:varchar(100)" json:"mime_type"`
	Path         string     `gorm:"type:varchar(500);not null" json:"path"`
	UploadedBy   *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`
}
