// Package notifsvc - thông báo in-app theo user, đọc qua cache và xóa cache khi ghi.
package notifsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"
	"sales_crm/internal/logger"
	"sales_crm/internal/utility"

	"github.com/sirupsen/logrus"
)

// Giới hạn số thông báo trả về mỗi lần
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// NotificationService CRUD thông báo của một user. Mọi ghi của user sẽ xóa toàn bộ key cache của user đó.
type NotificationService struct {
	store datastore.NotificationStore
	cache *utility.Cache

	// gen tăng mỗi lần invalidate; lần đọc chỉ ghi cache nếu gen không đổi trong lúc đọc store
	mu  sync.Mutex
	gen map[int64]uint64
}

// NewNotificationService tạo service. ttl <= 0 tắt cache.
func NewNotificationService(store datastore.NotificationStore, ttl time.Duration) *NotificationService {
	s := &NotificationService{store: store, gen: make(map[int64]uint64)}
	if ttl > 0 {
		s.cache = utility.NewCache(ttl, 2*ttl)
	}
	return s
}

// Close dừng goroutine dọn cache
func (s *NotificationService) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

func userPrefix(userID int64) string {
	return fmt.Sprintf("notifications:user:%d:", userID)
}

func listKey(userID int64, unreadOnly bool, limit int) string {
	return fmt.Sprintf("%slist:%t:%d", userPrefix(userID), unreadOnly, limit)
}

func countKey(userID int64) string {
	return userPrefix(userID) + "unread-count"
}

// invalidate xóa mọi key cache của user
func (s *NotificationService) invalidate(userID int64) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[userID]++
	s.cache.DeletePrefix(userPrefix(userID))
}

func (s *NotificationService) generation(userID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen[userID]
}

// fill ghi cache khi chưa có lần ghi nào của user xen vào kể từ gen
func (s *NotificationService) fill(userID int64, gen uint64, key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[userID] != gen {
		return
	}
	s.cache.Set(key, value)
}

// NormalizeLimit đưa limit về [1, MaxListLimit], mặc định DefaultListLimit
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// List thông báo mới nhất trước
func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]notifmodels.Notification, error) {
	limit = NormalizeLimit(limit)
	key := listKey(userID, unreadOnly, limit)
	var gen uint64
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			items := cached.([]notifmodels.Notification)
			return append([]notifmodels.Notification(nil), items...), nil
		}
		gen = s.generation(userID)
	}

	items, err := s.store.ListNotifications(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	if s.cache != nil {
		s.fill(userID, gen, key, append([]notifmodels.Notification(nil), items...))
	}
	return items, nil
}

// UnreadCount số thông báo chưa đọc
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	key := countKey(userID)
	var gen uint64
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.(int64), nil
		}
		gen = s.generation(userID)
	}
	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, wrapStoreError(err)
	}
	if s.cache != nil {
		s.fill(userID, gen, key, count)
	}
	return count, nil
}

// Create tạo thông báo cho user
func (s *NotificationService) Create(ctx context.Context, n *notifmodels.Notification) error {
	if n.UserID == 0 || strings.TrimSpace(n.Title) == "" {
		return common.Wrap(common.ErrInvalidRequest, nil, "userId và title là bắt buộc")
	}
	if n.Type == "" {
		n.Type = notifmodels.NotificationInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	defer s.invalidate(n.UserID)
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return wrapStoreError(err)
	}
	return nil
}

// MarkRead đánh dấu đã đọc. Thông báo của user khác -> ErrNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	defer s.invalidate(userID)
	if err := s.store.MarkNotificationRead(ctx, userID, id); err != nil {
		return wrapStoreError(err)
	}
	return nil
}

// MarkAllRead đánh dấu mọi thông báo của user là đã đọc, trả về số bản ghi thay đổi
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	defer s.invalidate(userID)
	n, err := s.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, wrapStoreError(err)
	}
	return n, nil
}

// Delete xóa thông báo. Thông báo của user khác -> ErrNotFound.
func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	defer s.invalidate(userID)
	if err := s.store.DeleteNotification(ctx, userID, id); err != nil {
		return wrapStoreError(err)
	}
	return nil
}

// wrapStoreError lỗi đã phân loại (not found, ...) giữ nguyên
func wrapStoreError(err error) error {
	var e *common.Error
	if errors.As(err, &e) {
		return err
	}
	logger.GetAppLogger().WithFields(logrus.Fields{
		"error": err.Error(),
	}).Error("🔔 [NOTIFICATION] Lỗi truy cập store")
	return common.Wrap(common.ErrDataAccess, err, nil)
}
