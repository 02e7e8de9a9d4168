package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/datastore"
	"sales_crm/internal/delivery/channels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordNotifier struct {
	created []*notifmodels.Notification
	failFor int64
}

func (r *recordNotifier) Create(_ context.Context, n *notifmodels.Notification) error {
	if n.UserID == r.failFor {
		return errors.New("boom")
	}
	r.created = append(r.created, n)
	return nil
}

type recordMailer struct{ to []string }

func (m *recordMailer) Send(_ context.Context, msg channels.EmailMessage) error {
	m.to = append(m.to, msg.To)
	return nil
}

type failingStore struct{ datastore.Store }

func (failingStore) FindUsers(context.Context, datastore.UserFilter) ([]authmodels.User, error) {
	return nil, errors.New("db down")
}

func seedStore(t *testing.T, day time.Time) *datastore.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := datastore.NewMemoryStore()
	users := []*authmodels.User{
		{Name: "An", Email: "an@example.com", Role: "sales", EnableNotifications: true},
		{Name: "Binh", Email: "binh@example.com", Role: "sales", EnableNotifications: true},
		{Name: "Chi", Email: "chi@example.com", Role: "admin", EnableNotifications: true},
		{Name: "Dung", Email: "dung@example.com", Role: "sales", EnableNotifications: false},
	}
	for _, u := range users {
		require.NoError(t, s.InsertUser(ctx, u))
	}
	require.NoError(t, s.CreateAttendance(ctx, &attmodels.Attendance{UserID: users[0].ID, Date: day.Add(-2 * time.Hour), Status: attmodels.AttendancePresent}))
	return s
}

func TestAttendanceReminder_RemindsMissingOncePerDay(t *testing.T) {
	now := time.Date(2024, 5, 6, 11, 0, 0, 0, time.UTC)
	store := seedStore(t, now)
	notifier := &recordNotifier{}
	mailer := &recordMailer{}
	w := NewAttendanceReminderWorker(store, notifier, mailer, 10, time.Minute)
	w.now = func() time.Time { return now }

	sent, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, notifier.created, 1)
	assert.Equal(t, notifmodels.NotificationAttendanceReminder, notifier.created[0].Type)
	assert.Equal(t, []string{"binh@example.com"}, mailer.to)

	sent, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	now = now.AddDate(0, 0, 1)
	sent, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestAttendanceReminder_BeforeHour(t *testing.T) {
	now := time.Date(2024, 5, 6, 9, 59, 0, 0, time.UTC)
	notifier := &recordNotifier{}
	w := NewAttendanceReminderWorker(seedStore(t, now), notifier, nil, 10, time.Minute)
	w.now = func() time.Time { return now }

	sent, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, notifier.created)
}

func TestAttendanceReminder_StoreErrorRetries(t *testing.T) {
	now := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	w := NewAttendanceReminderWorker(failingStore{}, &recordNotifier{}, nil, 10, time.Minute)
	w.now = func() time.Time { return now }

	_, err := w.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Empty(t, w.lastDay)
}

func TestAttendanceReminder_NotifierFailureSkipsUser(t *testing.T) {
	now := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	store := seedStore(t, now)
	notifier := &recordNotifier{failFor: 2}
	w := NewAttendanceReminderWorker(store, notifier, nil, 0, time.Minute)
	w.now = func() time.Time { return now }

	sent, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Equal(t, "2024-05-06", w.lastDay)
}

func TestAttendanceReminder_StartStops(t *testing.T) {
	w := NewAttendanceReminderWorker(datastore.NewMemoryStore(), &recordNotifier{}, nil, 0, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
