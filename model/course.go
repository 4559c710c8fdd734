package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	CourseID    string     `gorm:"column:course_id;type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string     `gorm:"column:description;type:text" json:"description,omitempty"`
	OrderNumber int        `gorm:"column:order_number;default:0" json:"orderNumber"`
	SubjectID   string     `gorm:"column:subject_id;type:uuid;not null;index" json:"subjectId"`
	LastStudied *time.Time `gorm:"column:last_studied" json:"lastStudied"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	// Relations
	Subject Subject `gorm:"foreignKey:SubjectID;references:SubjectID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.CourseID == "" {
		c.CourseID = uuid.NewString()
	}
	return nil
}
