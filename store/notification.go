package store

import (
	"context"
	"errors"
	"time"

	"studymate/model"

	"gorm.io/gorm"
)

type NotificationStorage struct {
	db *gorm.DB
}

func NewNotificationStorage(db *gorm.DB) *NotificationStorage {
	return &NotificationStorage{
		db: db,
	}
}

func (s *NotificationStorage) Create(ctx context.Context, notification *model.Notification) error {
	return s.db.WithContext(ctx).Create(notification).Error
}

// FindExisting looks up a notification for the same event, user and type
// created inside [start, end]. Returns nil without error when none exists.
func (s *NotificationStorage) FindExisting(ctx context.Context, eventID, userID string, notificationType model.NotificationType, start, end time.Time) (*model.Notification, error) {
	var notification model.Notification
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND type = ?", eventID, userID, notificationType).
		Where("created_at >= ? AND created_at <= ?", start, end).
		First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}
