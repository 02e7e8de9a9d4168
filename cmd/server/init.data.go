package main

import (
	"context"

	"sales_crm/internal/api/initsvc"
	"sales_crm/internal/datastore"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"
)

// InitDefaultData tạo admin từ ADMIN_EMAIL và sinh dữ liệu demo khi store chưa có user nào
func InitDefaultData(ctx context.Context, store datastore.Store) {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")
	cfg := global.ServerConfig
	initService := initsvc.NewInitService(store)

	users, err := store.FindUsers(ctx, datastore.UserFilter{})
	if err != nil {
		log.Fatalf("Failed to read users: %v", err)
	}
	empty := len(users) == 0

	if cfg.AdminEmail != "" {
		if _, created, err := initService.InitAdminUser(ctx, cfg.AdminEmail, cfg.AdminName); err != nil {
			log.WithError(err).Warn("⚠️ [INIT] Không tạo được admin user")
		} else if !created {
			log.Info("✅ [INIT] Admin user đã tồn tại")
		}
	} else {
		log.Info("ADMIN_EMAIL not set, bỏ qua tạo admin")
	}

	if cfg.SeedDemoData && empty {
		if _, err := initService.SeedDemo(ctx, initsvc.SeedOptions{}); err != nil {
			log.WithError(err).Error("❌ [INIT] Sinh dữ liệu demo thất bại")
		}
	}
	log.Info("✅ [INIT] InitDefaultData done")
}
