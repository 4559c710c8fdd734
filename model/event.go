package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventType string

const (
	EventTypeExam       EventType = "exam"
	EventTypeDS         EventType = "ds"
	EventTypeAssignment EventType = "assignment"
)

// ValidEventType reports whether t is one of the three event kinds.
func ValidEventType(t string) bool {
	switch EventType(t) {
	case EventTypeExam, EventTypeDS, EventTypeAssignment:
		return true
	}
	return false
}

type Event struct {
	EventID     string    `gorm:"column:event_id;type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Type        EventType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Date        string    `gorm:"column:date;type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD, no time component
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	SubjectID   string    `gorm:"column:subject_id;type:uuid;not null;index" json:"subjectId"`
	UserID      string    `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relations
	Subject Subject `gorm:"foreignKey:SubjectID;references:SubjectID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	User    User    `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	return nil
}
