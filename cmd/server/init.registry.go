package main

import (
	"context"
	"time"

	attendancesvc "sales_crm/internal/api/attendance/service"
	authsvc "sales_crm/internal/api/auth/service"
	notifsvc "sales_crm/internal/api/notification/service"
	reportsvc "sales_crm/internal/api/report/service"
	"sales_crm/internal/datastore"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/registry"
)

// Services các service dùng chung của server
type Services struct {
	Token        *authsvc.TokenService
	Report       *reportsvc.ReportService
	Notification *notifsvc.NotificationService
	Attendance   *attendancesvc.AttendanceService
}

// closers các hàm dọn dẹp theo tên, chạy khi tắt server
var closers = registry.NewRegistry[func(ctx context.Context) error]()

// InitRegistry khởi tạo services và đăng ký hàm đóng của chúng
func InitRegistry(store datastore.Store) *Services {
	cfg := global.ServerConfig
	s := &Services{
		Token: authsvc.NewTokenService(cfg.JwtSecret,
			time.Duration(cfg.JwtTTLHours)*time.Hour, store,
			time.Duration(cfg.RoleCacheTTL)*time.Second),
		Report:       reportsvc.NewReportService(store),
		Notification: notifsvc.NewNotificationService(store, time.Duration(cfg.NotificationCacheTTL)*time.Second),
		Attendance:   attendancesvc.NewAttendanceService(store),
	}

	closers.MustRegister("token_cache", func(context.Context) error { s.Token.Close(); return nil })
	closers.MustRegister("notification_cache", func(context.Context) error { s.Notification.Close(); return nil })
	closers.MustRegister("store", store.Close)

	logger.GetAppLogger().WithField("reportTypes", s.Report.ReportTypes()).Info("Initialized service registry")
	return s
}

// CloseAll chạy mọi hàm đóng đã đăng ký, store đóng sau cùng
func CloseAll(ctx context.Context) {
	log := logger.GetAppLogger()
	names := closers.Keys()
	ordered := make([]string, 0, len(names))
	for _, n := range names {
		if n != "store" {
			ordered = append(ordered, n)
		}
	}
	ordered = append(ordered, "store")

	for _, name := range ordered {
		fn, ok := closers.Get(name)
		if !ok {
			continue
		}
		if err := fn(ctx); err != nil {
			log.WithError(err).WithField("closer", name).Warn("Close failed")
		}
	}
}
