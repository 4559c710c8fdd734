package store

import (
	"context"

	"studymate/model"

	"gorm.io/gorm"
)

type EventStorage struct {
	db *gorm.DB
}

func NewEventStorage(db *gorm.DB) *EventStorage {
	return &EventStorage{
		db: db,
	}
}

// FindByDate returns every event, across all users, whose date column
// equals the given YYYY-MM-DD string exactly.
func (s *EventStorage) FindByDate(ctx context.Context, date string) ([]model.Event, error) {
	var events []model.Event
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("date = ?", date).
		Find(&events).Error
	return events, err
}
