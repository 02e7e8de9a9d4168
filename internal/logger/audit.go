package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction ghi một hành động vào audit log
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	fields := logrus.Fields{
		"action":     action,
		"ip":         c.IP(),
		"user_agent": c.Get(fiber.HeaderUserAgent),
		"timestamp":  time.Now().UTC(),
	}
	if userID := c.Locals("user_id"); userID != nil {
		fields["user_id"] = userID
	}
	if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
		fields["request_id"] = requestID
	}
	for k, v := range details {
		fields[k] = v
	}
	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogReport ghi audit cho một lần sinh báo cáo
func LogReport(c fiber.Ctx, reportType, period string) {
	LogAction("report_generate", c, map[string]interface{}{
		"reportType": reportType,
		"period":     period,
	})
}

// LogCRUD ghi audit cho thao tác ghi dữ liệu
func LogCRUD(operation, resourceType string, resourceID int64, c fiber.Ctx) {
	LogAction("crud_"+operation, c, map[string]interface{}{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
}
