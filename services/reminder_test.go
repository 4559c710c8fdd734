package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studymate/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEventFinder struct {
	byDate map[string][]model.Event
	err    error
}

func (f *fakeEventFinder) FindByDate(ctx context.Context, date string) ([]model.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byDate[date], nil
}

type fakeNotificationStore struct {
	existing  map[string]*model.Notification // key: eventID|userID|type
	created   []*model.Notification
	createErr map[string]error // key: eventID
}

func dedupKey(eventID, userID string, typ model.NotificationType) string {
	return eventID + "|" + userID + "|" + string(typ)
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	if f.createErr != nil && n.EventID != nil {
		if err, ok := f.createErr[*n.EventID]; ok {
			return err
		}
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationStore) FindExisting(ctx context.Context, eventID, userID string, typ model.NotificationType, start, end time.Time) (*model.Notification, error) {
	if f.existing == nil {
		return nil, nil
	}
	return f.existing[dedupKey(eventID, userID, typ)], nil
}

type fakePusher struct {
	emissions []emission
}

type emission struct {
	userID  string
	event   string
	payload interface{}
}

func (f *fakePusher) EmitToUser(userID, event string, payload interface{}) {
	f.emissions = append(f.emissions, emission{userID, event, payload})
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
}

func newTestReminder(events *fakeEventFinder, store NotificationStore, pusher *fakePusher) *ReminderService {
	s := NewReminderService(events, store, pusher, zap.NewNop().Sugar())
	s.now = fixedNow
	return s
}

func testEvent(id, userID, date string, typ model.EventType) model.Event {
	return model.Event{
		EventID: id,
		Title:   "Linear Algebra Midterm",
		Type:    typ,
		Date:    date,
		UserID:  userID,
		Subject: model.Subject{SubjectID: "subj-1", Name: "Mathematics", Color: "#3498db"},
	}
}

func TestRunCreatesUrgentForToday(t *testing.T) {
	events := &fakeEventFinder{byDate: map[string][]model.Event{
		"2025-03-10": {testEvent("ev-1", "user-1", "2025-03-10", model.EventTypeExam)},
	}}
	store := &fakeNotificationStore{}
	pusher := &fakePusher{}

	err := newTestReminder(events, store, pusher).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	n := store.created[0]
	assert.Equal(t, "TODAY: EXAM", n.Title)
	assert.Equal(t, "Linear Algebra Midterm (Mathematics) is happening TODAY!", n.Message)
	assert.Equal(t, model.NotificationTypeUrgent, n.Type)
	assert.Equal(t, "user-1", n.UserID)
	require.NotNil(t, n.EventID)
	assert.Equal(t, "ev-1", *n.EventID)

	require.Len(t, pusher.emissions, 1)
	assert.Equal(t, "user-1", pusher.emissions[0].userID)
	assert.Equal(t, "notification:new", pusher.emissions[0].event)
}

func TestRunThresholdTypes(t *testing.T) {
	events := &fakeEventFinder{byDate: map[string][]model.Event{
		"2025-03-11": {testEvent("ev-tomorrow", "user-1", "2025-03-11", model.EventTypeDS)},
		"2025-03-13": {testEvent("ev-3days", "user-1", "2025-03-13", model.EventTypeAssignment)},
		"2025-03-17": {testEvent("ev-week", "user-1", "2025-03-17", model.EventTypeExam)},
	}}
	store := &fakeNotificationStore{}

	err := newTestReminder(events, store, &fakePusher{}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, store.created, 3)

	byEvent := make(map[string]*model.Notification)
	for _, n := range store.created {
		byEvent[*n.EventID] = n
	}

	assert.Equal(t, model.NotificationTypeWarning, byEvent["ev-tomorrow"].Type)
	assert.Equal(t, "TOMORROW: DS", byEvent["ev-tomorrow"].Title)
	assert.Equal(t, model.NotificationTypeWarning, byEvent["ev-3days"].Type)
	assert.Equal(t, "IN 3 DAYS: ASSIGNMENT", byEvent["ev-3days"].Title)
	assert.Equal(t, model.NotificationTypeInfo, byEvent["ev-week"].Type)
	assert.Equal(t, "IN 1 WEEK: EXAM", byEvent["ev-week"].Title)
}

func TestRunSkipsDuplicates(t *testing.T) {
	events := &fakeEventFinder{byDate: map[string][]model.Event{
		"2025-03-10": {testEvent("ev-1", "user-1", "2025-03-10", model.EventTypeExam)},
	}}
	store := &fakeNotificationStore{
		existing: map[string]*model.Notification{
			dedupKey("ev-1", "user-1", model.NotificationTypeUrgent): {NotificationID: "n-1"},
		},
	}
	pusher := &fakePusher{}

	err := newTestReminder(events, store, pusher).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, store.created)
	assert.Empty(t, pusher.emissions)
}

func TestRunWithNoMatchingEvents(t *testing.T) {
	store := &fakeNotificationStore{}
	pusher := &fakePusher{}

	err := newTestReminder(&fakeEventFinder{}, store, pusher).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, store.created)
	assert.Empty(t, pusher.emissions)
}

func TestRunDoubleTriggerIsIdempotent(t *testing.T) {
	events := &fakeEventFinder{byDate: map[string][]model.Event{
		"2025-03-10": {testEvent("ev-1", "user-1", "2025-03-10", model.EventTypeExam)},
	}}
	store := &fakeNotificationStore{}
	svc := newTestReminder(events, store, &fakePusher{})

	require.NoError(t, svc.Run(context.Background()))
	require.Len(t, store.created, 1)

	// Second run sees the first run's notification as existing.
	n := store.created[0]
	store.existing = map[string]*model.Notification{
		dedupKey(*n.EventID, n.UserID, n.Type): n,
	}
	require.NoError(t, svc.Run(context.Background()))
	assert.Len(t, store.created, 1)
}

func TestRunOneFailureDoesNotAbortOthers(t *testing.T) {
	events := &fakeEventFinder{byDate: map[string][]model.Event{
		"2025-03-10": {
			testEvent("ev-bad", "user-1", "2025-03-10", model.EventTypeExam),
			testEvent("ev-good", "user-2", "2025-03-10", model.EventTypeDS),
		},
	}}
	store := &fakeNotificationStore{
		createErr: map[string]error{"ev-bad": errors.New("insert failed")},
	}
	pusher := &fakePusher{}

	err := newTestReminder(events, store, pusher).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, "ev-good", *store.created[0].EventID)
	require.Len(t, pusher.emissions, 1)
	assert.Equal(t, "user-2", pusher.emissions[0].userID)
}

// blockingStore observes whether two runs ever overlap inside Create.
type blockingStore struct {
	fakeNotificationStore
	mu      sync.Mutex
	active  int
	overlap bool
}

func (b *blockingStore) Create(ctx context.Context, n *model.Notification) error {
	b.mu.Lock()
	b.active++
	if b.active > 1 {
		b.overlap = true
	}
	b.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	b.mu.Lock()
	b.active--
	b.mu.Unlock()
	return b.fakeNotificationStore.Create(ctx, n)
}

func TestRunsAreSerialized(t *testing.T) {
	events := &fakeEventFinder{byDate: map[string][]model.Event{
		"2025-03-10": {testEvent("ev-1", "user-1", "2025-03-10", model.EventTypeExam)},
	}}
	store := &blockingStore{}
	svc := newTestReminder(events, store, &fakePusher{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Run(context.Background())
		}()
	}
	wg.Wait()

	assert.False(t, store.overlap, "concurrent runs must not interleave")
}

func TestNotificationPayloadShape(t *testing.T) {
	eventID := "ev-1"
	notification := model.Notification{
		NotificationID: "n-1",
		Title:          "TODAY: EXAM",
		Message:        "Linear Algebra Midterm (Mathematics) is happening TODAY!",
		Type:           model.NotificationTypeUrgent,
		UserID:         "user-1",
		EventID:        &eventID,
	}
	event := testEvent("ev-1", "user-1", "2025-03-10", model.EventTypeExam)

	payload := NotificationPayload(notification, &event)
	assert.Equal(t, "n-1", payload["id"])
	assert.Equal(t, "TODAY: EXAM", payload["title"])
	assert.Equal(t, model.NotificationTypeUrgent, payload["type"])
	assert.Equal(t, false, payload["isRead"])

	eventPayload, ok := payload["event"].(gin.H)
	require.True(t, ok)
	assert.Equal(t, "ev-1", eventPayload["id"])
	assert.Equal(t, "2025-03-10", eventPayload["date"])

	subject, ok := eventPayload["subject"].(gin.H)
	require.True(t, ok)
	assert.Equal(t, "Mathematics", subject["name"])
}

func TestNotificationPayloadWithoutEvent(t *testing.T) {
	payload := NotificationPayload(model.Notification{NotificationID: "n-1"}, nil)
	assert.Nil(t, payload["event"])
}
