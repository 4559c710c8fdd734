package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subject struct {
	SubjectID string    `gorm:"column:subject_id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Color     string    `gorm:"column:color;type:varchar(20);default:'#3498db'" json:"color"`
	Semester  string    `gorm:"column:semester;type:varchar(100)" json:"semester,omitempty"`
	Professor string    `gorm:"column:professor;type:varchar(255)" json:"professor,omitempty"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
}

func (Subject) TableName() string {
	return "subjects"
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.SubjectID == "" {
		s.SubjectID = uuid.NewString()
	}
	return nil
}
