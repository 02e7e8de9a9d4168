package notifsvc

import (
	"context"
	"testing"
	"time"

	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore đếm số lần đọc xuống store để kiểm tra cache
type countingStore struct {
	datastore.NotificationStore
	lists, counts int
}

func (c *countingStore) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]notifmodels.Notification, error) {
	c.lists++
	return c.NotificationStore.ListNotifications(ctx, userID, unreadOnly, limit)
}

func (c *countingStore) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	c.counts++
	return c.NotificationStore.CountUnreadNotifications(ctx, userID)
}

func newNotificationFixture(t *testing.T) (*NotificationService, *countingStore) {
	t.Helper()
	store := &countingStore{NotificationStore: datastore.NewMemoryStore()}
	svc := NewNotificationService(store, time.Minute)
	t.Cleanup(svc.Close)
	return svc, store
}

func TestNotificationService_CacheInvalidation(t *testing.T) {
	svc, store := newNotificationFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &notifmodels.Notification{UserID: 1, Title: "Hello"}))
	require.NoError(t, svc.Create(ctx, &notifmodels.Notification{UserID: 2, Title: "Other"}))

	count, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	_, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, store.counts, "lần đọc thứ hai phải lấy từ cache")

	items, err := svc.List(ctx, 1, false, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, notifmodels.NotificationInfo, items[0].Type)

	require.NoError(t, svc.MarkRead(ctx, 1, items[0].ID))

	count, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 2, store.counts)

	items, err = svc.List(ctx, 1, false, 0)
	require.NoError(t, err)
	assert.True(t, items[0].Read)
	assert.Equal(t, 2, store.lists)
}

func TestNotificationService_OtherUsersNotification(t *testing.T) {
	svc, _ := newNotificationFixture(t)
	ctx := context.Background()

	n := &notifmodels.Notification{UserID: 2, Title: "Private"}
	require.NoError(t, svc.Create(ctx, n))

	assert.ErrorIs(t, svc.MarkRead(ctx, 1, n.ID), common.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1, n.ID), common.ErrNotFound)

	count, err := svc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.Delete(ctx, 2, n.ID))
	count, err = svc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, _ := newNotificationFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Create(ctx, &notifmodels.Notification{UserID: 5, Title: "n"}))
	}
	unread, err := svc.List(ctx, 5, true, 10)
	require.NoError(t, err)
	assert.Len(t, unread, 3)

	changed, err := svc.MarkAllRead(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), changed)

	unread, err = svc.List(ctx, 5, true, 10)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationService_CreateValidation(t *testing.T) {
	svc, _ := newNotificationFixture(t)
	err := svc.Create(context.Background(), &notifmodels.Notification{UserID: 1})
	assert.ErrorIs(t, err, common.ErrInvalidRequest)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, NormalizeLimit(0))
	assert.Equal(t, MaxListLimit, NormalizeLimit(10000))
	assert.Equal(t, 20, NormalizeLimit(20))
}

// racingStore chạy duringRead sau khi đọc xong, trước khi kết quả về tới service
type racingStore struct {
	datastore.NotificationStore
	duringRead func()
}

func (r *racingStore) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	n, err := r.NotificationStore.CountUnreadNotifications(ctx, userID)
	if r.duringRead != nil {
		hook := r.duringRead
		r.duringRead = nil
		hook()
	}
	return n, err
}

func TestNotificationService_WriteDuringReadSkipsCacheFill(t *testing.T) {
	store := &racingStore{NotificationStore: datastore.NewMemoryStore()}
	svc := NewNotificationService(store, time.Minute)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &notifmodels.Notification{UserID: 1, Title: "Hello"}))
	store.duringRead = func() {
		_, err := svc.MarkAllRead(ctx, 1)
		require.NoError(t, err)
	}

	count, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "giá trị đọc trước lần ghi")

	count, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count, "giá trị cũ không được nằm lại trong cache")
}
