// Package worker chứa các tác vụ chạy nền của server.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	notifmodels "sales_crm/internal/api/notification/models"
	reportsvc "sales_crm/internal/api/report/service"
	"sales_crm/internal/datastore"
	"sales_crm/internal/delivery/channels"
	"sales_crm/internal/logger"
	"sales_crm/internal/utility"

	"github.com/sirupsen/logrus"
)

// ReminderStore dữ liệu worker cần đọc
type ReminderStore interface {
	FindUsers(ctx context.Context, f datastore.UserFilter) ([]authmodels.User, error)
	FindAttendances(ctx context.Context, q datastore.Query) ([]attmodels.Attendance, error)
}

// Notifier tạo thông báo in-app (NotificationService, xoá cache của user)
type Notifier interface {
	Create(ctx context.Context, n *notifmodels.Notification) error
}

// AttendanceReminderWorker mỗi ngày (UTC), sau giờ cấu hình, nhắc những user trong pool chưa chấm công.
// Mỗi ngày chỉ nhắc một lần; lần quét lỗi sẽ được thử lại ở tick kế tiếp.
type AttendanceReminderWorker struct {
	store    ReminderStore
	notifier Notifier
	mailer   channels.Mailer
	hour     int
	interval time.Duration
	link     string
	now      func() time.Time

	mu      sync.Mutex
	lastDay string
}

// NewAttendanceReminderWorker tạo worker.
// Tham số:
//   - hour: giờ UTC bắt đầu nhắc (0..23)
//   - interval: khoảng giữa các lần kiểm tra (tối thiểu 1 phút, mặc định 15 phút)
func NewAttendanceReminderWorker(store ReminderStore, notifier Notifier, mailer channels.Mailer, hour int, interval time.Duration) *AttendanceReminderWorker {
	if interval < time.Minute {
		interval = 15 * time.Minute
	}
	if mailer == nil {
		mailer = channels.NoopMailer{}
	}
	return &AttendanceReminderWorker{
		store:    store,
		notifier: notifier,
		mailer:   mailer,
		hour:     hour,
		interval: interval,
		link:     "/attendance",
		now:      time.Now,
	}
}

// Start chạy vòng lặp đến khi ctx bị huỷ
func (w *AttendanceReminderWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(logrus.Fields{
		"interval": w.interval.String(),
		"hour":     w.hour,
	}).Info("⏰ [ATTENDANCE_REMINDER] Starting Attendance Reminder Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("⏰ [ATTENDANCE_REMINDER] Attendance Reminder Worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *AttendanceReminderWorker) tick(ctx context.Context) {
	log := logger.GetAppLogger()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("⏰ [ATTENDANCE_REMINDER] Panic khi gửi nhắc, sẽ thử lại ở lần chạy tiếp theo")
		}
	}()
	if _, err := w.RunOnce(ctx); err != nil {
		log.WithError(err).Error("⏰ [ATTENDANCE_REMINDER] Lỗi khi quét chấm công")
	}
}

// RunOnce nhắc nếu đã qua giờ nhắc và hôm nay chưa nhắc. Trả số user được nhắc.
func (w *AttendanceReminderWorker) RunOnce(ctx context.Context) (int, error) {
	now := w.now().UTC()
	day := now.Format("2006-01-02")

	w.mu.Lock()
	defer w.mu.Unlock()
	if now.Hour() < w.hour || w.lastDay == day {
		return 0, nil
	}

	sent, err := w.remind(ctx, now)
	if err != nil {
		return sent, err
	}
	w.lastDay = day
	return sent, nil
}

// remind gửi nhắc cho pool chưa chấm công trong ngày của now
func (w *AttendanceReminderWorker) remind(ctx context.Context, now time.Time) (int, error) {
	enabled := true
	users, err := w.store.FindUsers(ctx, datastore.UserFilter{NotificationsEnabled: &enabled})
	if err != nil {
		return 0, fmt.Errorf("find users: %w", err)
	}
	pool := reportsvc.AttendancePool(users, reportsvc.Scope{})
	if len(pool) == 0 {
		return 0, nil
	}

	ids := make([]int64, len(pool))
	for i, u := range pool {
		ids[i] = u.ID
	}
	attendances, err := w.store.FindAttendances(ctx, datastore.Query{
		From:    utility.StartOfDay(now),
		To:      utility.EndOfDay(now),
		UserIDs: ids,
	})
	if err != nil {
		return 0, fmt.Errorf("find attendances: %w", err)
	}

	_, missing := reportsvc.MissingForDay(pool, attendances, now)
	log := logger.GetAppLogger()
	sent := 0
	for _, u := range missing {
		n := &notifmodels.Notification{
			UserID:  u.ID,
			Title:   "Nhắc chấm công",
			Message: fmt.Sprintf("Bạn chưa chấm công ngày %s.", now.Format("02/01/2006")),
			Type:    notifmodels.NotificationAttendanceReminder,
			Link:    w.link,
		}
		if err := w.notifier.Create(ctx, n); err != nil {
			log.WithError(err).WithField("userId", u.ID).Warn("⏰ [ATTENDANCE_REMINDER] Tạo thông báo thất bại")
			continue
		}
		sent++
		if err := w.mailer.Send(ctx, channels.EmailMessage{
			To:      u.Email,
			Subject: n.Title,
			Title:   n.Title,
			Body:    n.Message,
			Link:    n.Link,
		}); err != nil {
			log.WithError(err).WithField("userId", u.ID).Warn("⏰ [ATTENDANCE_REMINDER] Gửi email thất bại")
		}
	}

	log.WithFields(logrus.Fields{
		"pool":     len(pool),
		"missing":  len(missing),
		"notified": sent,
		"day":      now.Format("2006-01-02"),
	}).Info("⏰ [ATTENDANCE_REMINDER] Đã gửi nhắc chấm công")
	return sent, nil
}
