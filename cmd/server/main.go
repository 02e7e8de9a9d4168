package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	attendancerouter "sales_crm/internal/api/attendance/router"
	"sales_crm/internal/api/middleware"
	notifrouter "sales_crm/internal/api/notification/router"
	reportrouter "sales_crm/internal/api/report/router"
	systemrouter "sales_crm/internal/api/system/router"
	"sales_crm/internal/datastore"
	"sales_crm/internal/delivery/channels"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
	"sales_crm/internal/worker"

	"github.com/gofiber/fiber/v3"
)

// startReminderWorker chạy worker nhắc chấm công trong goroutine riêng
func startReminderWorker(ctx context.Context, store datastore.Store, svc *Services) {
	cfg := global.ServerConfig
	log := logger.GetAppLogger()
	if !cfg.AttendanceReminderEnabled {
		log.Info("⏰ [ATTENDANCE_REMINDER] Disabled")
		return
	}
	w := worker.NewAttendanceReminderWorker(store, svc.Notification, channels.NewMailer(cfg),
		cfg.AttendanceReminderHour, time.Duration(cfg.AttendanceReminderInterval)*time.Minute)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("⏰ [ATTENDANCE_REMINDER] Worker goroutine panic")
			}
		}()
		w.Start(ctx)
	}()
}

// Hàm main
func main() {
	InitGlobal()
	initLogger()
	defer logger.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := InitStore(ctx)
	InitDefaultData(ctx, store)
	svc := InitRegistry(store)

	app, err := InitFiberApp(middleware.AuthMiddleware(svc.Token),
		systemrouter.Register(store, global.ServerConfig.DBDriver),
		reportrouter.Register(svc.Report),
		notifrouter.Register(svc.Notification),
		attendancerouter.Register(svc.Attendance),
	)
	log := logger.GetAppLogger()
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	startReminderWorker(ctx, store, svc)

	errCh := make(chan error, 1)
	go func() {
		address := global.ServerConfig.Address
		log.WithField("address", address).Info("Starting server with HTTP")
		errCh <- app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("Error in Fiber Listen")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("Fiber shutdown error")
	}
	CloseAll(shutdownCtx)
	log.Info("Server stopped")
}
