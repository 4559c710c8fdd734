package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"studymate/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventFinder is the slice of event storage the reminder job needs.
type EventFinder interface {
	FindByDate(ctx context.Context, date string) ([]model.Event, error)
}

// NotificationStore persists reminder notifications and answers the
// duplicate check.
type NotificationStore interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindExisting(ctx context.Context, eventID, userID string, notificationType model.NotificationType, start, end time.Time) (*model.Notification, error)
}

// Pusher delivers a named event to every live connection of one user.
type Pusher interface {
	EmitToUser(userID, event string, payload interface{})
}

type threshold struct {
	daysAhead int
	typ       model.NotificationType
	label     string
	ending    string
}

// Checked in ascending lead-time order, today first.
var thresholds = []threshold{
	{0, model.NotificationTypeUrgent, "TODAY", "is happening TODAY!"},
	{1, model.NotificationTypeWarning, "TOMORROW", "is happening TOMORROW! Final preparations!"},
	{3, model.NotificationTypeWarning, "IN 3 DAYS", "is in 3 days. Time to prepare intensively!"},
	{7, model.NotificationTypeInfo, "IN 1 WEEK", "is in 1 week. Start preparing now!"},
}

// ReminderService runs the daily upcoming-event check. One instance is
// built at startup and shared by the cron trigger and the manual endpoint;
// the mutex keeps overlapping runs from racing the duplicate check.
type ReminderService struct {
	events        EventFinder
	notifications NotificationStore
	pusher        Pusher
	log           *zap.SugaredLogger

	mu  sync.Mutex
	now func() time.Time
}

func NewReminderService(events EventFinder, notifications NotificationStore, pusher Pusher, log *zap.SugaredLogger) *ReminderService {
	return &ReminderService{
		events:        events,
		notifications: notifications,
		pusher:        pusher,
		log:           log,
		now:           time.Now,
	}
}

// Run executes one reminder pass: for each lead-time threshold, find the
// events landing on that date and create one notification per event,
// skipping any (event, user, type) already notified today. A failure on
// one event never aborts the rest of the run.
func (s *ReminderService) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Running notification reminder job...")

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := today.Add(24*time.Hour - time.Nanosecond)

	totalCreated := 0
	counts := make([]int, len(thresholds))

	for i, th := range thresholds {
		target := today.AddDate(0, 0, th.daysAhead).Format("2006-01-02")

		events, err := s.events.FindByDate(ctx, target)
		if err != nil {
			s.log.Errorf("Failed to query events for %s: %v", target, err)
			continue
		}
		counts[i] = len(events)

		for _, event := range events {
			created, err := s.createNotification(ctx, event, th, today, todayEnd)
			if err != nil {
				s.log.Errorf("Failed to process event %s (%s): %v", event.EventID, th.label, err)
				continue
			}
			if created {
				totalCreated++
			}
		}
	}

	s.log.Infof("Created %d notifications: Today: %d, Tomorrow: %d, +3 days: %d, +7 days: %d",
		totalCreated, counts[0], counts[1], counts[2], counts[3])
	return nil
}

// createNotification persists and pushes one reminder unless the same
// (event, user, type) was already notified within today's bounds.
func (s *ReminderService) createNotification(ctx context.Context, event model.Event, th threshold, todayStart, todayEnd time.Time) (bool, error) {
	existing, err := s.notifications.FindExisting(ctx, event.EventID, event.UserID, th.typ, todayStart, todayEnd)
	if err != nil {
		return false, err
	}
	if existing != nil {
		s.log.Debugf("Skipping duplicate notification for event %s (%s)", event.EventID, th.label)
		return false, nil
	}

	subjectName := event.Subject.Name
	if subjectName == "" {
		subjectName = "Subject"
	}

	eventID := event.EventID
	notification := model.Notification{
		Title:   fmt.Sprintf("%s: %s", th.label, strings.ToUpper(string(event.Type))),
		Message: fmt.Sprintf("%s (%s) %s", event.Title, subjectName, th.ending),
		Type:    th.typ,
		UserID:  event.UserID,
		EventID: &eventID,
	}

	if err := s.notifications.Create(ctx, &notification); err != nil {
		return false, err
	}

	s.pusher.EmitToUser(event.UserID, "notification:new", NotificationPayload(notification, &event))

	s.log.Debugf("Created notification for user %s: %s", event.UserID, notification.Title)
	return true, nil
}

// NotificationPayload is the socket payload for notification:new: the
// stored notification plus a denormalized snapshot of its event.
func NotificationPayload(notification model.Notification, event *model.Event) gin.H {
	payload := gin.H{
		"id":        notification.NotificationID,
		"title":     notification.Title,
		"message":   notification.Message,
		"type":      notification.Type,
		"isRead":    notification.IsRead,
		"userId":    notification.UserID,
		"eventId":   notification.EventID,
		"createdAt": notification.CreatedAt,
	}

	if event == nil {
		payload["event"] = nil
		return payload
	}

	var subject gin.H
	if event.Subject.SubjectID != "" {
		subject = gin.H{
			"id":    event.Subject.SubjectID,
			"name":  event.Subject.Name,
			"color": event.Subject.Color,
		}
	}
	payload["event"] = gin.H{
		"id":      event.EventID,
		"title":   event.Title,
		"date":    event.Date,
		"type":    event.Type,
		"subject": subject,
	}
	return payload
}
