package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeUrgent  NotificationType = "urgent"  // event is today
	NotificationTypeWarning NotificationType = "warning" // event tomorrow or in 3 days
	NotificationTypeInfo    NotificationType = "info"    // event in a week, general info
)

// ValidNotificationType reports whether t is a known notification kind.
func ValidNotificationType(t string) bool {
	switch NotificationType(t) {
	case NotificationTypeUrgent, NotificationTypeWarning, NotificationTypeInfo:
		return true
	}
	return false
}

type Notification struct {
	NotificationID string           `gorm:"column:notification_id;type:uuid;primaryKey" json:"id"`
	Title          string           `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message        string           `gorm:"column:message;type:text;not null" json:"message"`
	Type           NotificationType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	IsRead         bool             `gorm:"column:is_read;default:false" json:"isRead"`
	UserID         string           `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	EventID        *string          `gorm:"column:event_id;type:uuid;index" json:"eventId"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	// Relations. The event link survives event deletion as NULL so read
	// notifications stay queryable.
	User  User   `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	Event *Event `gorm:"foreignKey:EventID;references:EventID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE" json:"event,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	return nil
}
