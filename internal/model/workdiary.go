package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Diary priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Diary lifecycle: pending → in_progress (first assignee read) → completed
const (
	DiaryPending    = "pending"
	DiaryInProgress = "in_progress"
	DiaryCompleted  = "completed"
)

// Visibility scopes for diary listing
const (
	VisibilityPrivate    = "private"
	VisibilityDepartment = "department"
	VisibilityPublic     = "public"
)

// Notification types
const (
	NotifyNewDiary     = "new_diary"
	NotifyStatusChange = "status_change"
	NotifyComment      = "comment"
	NotifyMention      = "mention"
)

// UUIDSlice stores a JSON array of user IDs in a single column
type UUIDSlice []uuid.UUID

func (s UUIDSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *UUIDSlice) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return errors.New("unsupported type for UUIDSlice")
}

// Contains reports whether the slice holds the given id
func (s UUIDSlice) Contains(id uuid.UUID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// StringSlice stores a JSON array of strings in a single column
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return errors.New("unsupported type for StringSlice")
}

// WorkDiary is a dated work log with assignees, a visibility scope, and an
// automatic pending → in_progress transition on first assignee read.
type WorkDiary struct {
	BaseModel
	Title      string      `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Content    string      `gorm:"type:text;not null" json:"content" validate:"required"`
	Category   string      `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Priority   string      `gorm:"type:varchar(20);not null;default:'normal'" json:"priority" validate:"required,oneof=low normal high urgent"`
	Status     string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	WorkDate   time.Time   `gorm:"not null;index" json:"work_date" validate:"required"`
	Tags       StringSlice `gorm:"type:text" json:"tags"`
	AuthorID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"author_id" validate:"uuid_required"`
	AssignedTo UUIDSlice   `gorm:"type:text" json:"assigned_to"`
	Visibility string      `gorm:"type:varchar(20);not null;default:'department'" json:"visibility" validate:"required,oneof=private department public"`
}

// WorkDiaryComment is one comment under a diary entry
type WorkDiaryComment struct {
	BaseModel
	DiaryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"diary_id" validate:"uuid_required"`
	Content  string    `gorm:"type:text;not null" json:"content" validate:"required"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"author_id" validate:"uuid_required"`
}

// WorkNotification targets a single user about a diary event
type WorkNotification struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	DiaryID uuid.UUID `gorm:"type:uuid;not null" json:"diary_id" validate:"uuid_required"`
	Type    string    `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=new_diary status_change comment mention"`
	Message string    `gorm:"type:text;not null" json:"message" validate:"required"`
	Read    bool      `gorm:"default:false" json:"read"`
}
