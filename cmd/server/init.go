package main

import (
	"context"
	"fmt"
	"time"

	"sales_crm/config"
	"sales_crm/internal/datastore"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initConfig()    // Khởi tạo cấu hình server
	initValidator() // Khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.WithFields(logrus.Fields{
		"env":    global.ServerConfig.Environment,
		"driver": global.ServerConfig.DBDriver,
	}).Info("Initialized server config")
}

// Hàm khởi tạo validator (report_type, report_period, report_date, no_xss)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// initLogger khởi tạo logger sau khi env đã được load
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// InitStore mở datastore theo DB_DRIVER và tạo bảng / index
func InitStore(ctx context.Context) datastore.Store {
	log := logger.GetAppLogger()
	store, err := datastore.Open(ctx, global.ServerConfig)
	if err != nil {
		log.Fatalf("Failed to open datastore: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Fatalf("Datastore ping failed: %v", err)
	}
	log.WithField("driver", global.ServerConfig.DBDriver).Info("🗄️ [STORE] Connected to datastore")
	return store
}
