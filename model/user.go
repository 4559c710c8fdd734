package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	UserID        string     `gorm:"column:user_id;type:uuid;primaryKey" json:"id"`
	Email         string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"column:password;type:varchar(255);not null" json:"-"`
	FullName      string     `gorm:"column:full_name;type:varchar(255);not null" json:"fullName"`
	CurrentStreak int        `gorm:"column:current_streak;default:0" json:"currentStreak"`
	LongestStreak int        `gorm:"column:longest_streak;default:0" json:"longestStreak"`
	LastActive    *time.Time `gorm:"column:last_active" json:"lastActive"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}
