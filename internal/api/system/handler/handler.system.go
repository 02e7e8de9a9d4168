// Package systemhdl chứa handler cho các route hệ thống (không cần đăng nhập).
package systemhdl

import (
	"context"
	"time"

	"sales_crm/internal/common"

	"github.com/gofiber/fiber/v3"
)

// Pinger kiểm tra kết nối tới nơi lưu trữ
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	store   Pinger
	driver  string
	timeout time.Duration
}

// NewSystemHandler tạo một instance mới của SystemHandler
func NewSystemHandler(store Pinger, driver string) *SystemHandler {
	return &SystemHandler{store: store, driver: driver, timeout: 2 * time.Second}
}

// HandleHealth kiểm tra tình trạng hệ thống
// @Summary Kiểm tra tình trạng hệ thống
// @Description Kiểm tra trạng thái của API và kết nối database
// @Produce json
// @Success 200 {object} map[string]interface{} "Hệ thống hoạt động bình thường"
// @Failure 503 {object} map[string]interface{} "Hệ thống đang gặp sự cố"
// @Router /system/health [get]
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"driver":    h.driver,
		"services":  services,
	}

	if h.store == nil {
		healthData["status"] = "degraded"
		services["database"] = "not_initialized"
		return c.Status(common.StatusServiceUnavailable).JSON(healthData)
	}
	if err := h.store.Ping(ctx); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		healthData["database_error"] = err.Error()
		return c.Status(common.StatusServiceUnavailable).JSON(healthData)
	}
	services["database"] = "ok"
	return c.Status(common.StatusOK).JSON(healthData)
}
