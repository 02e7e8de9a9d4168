// Package router đăng ký các route hệ thống.
package router

import (
	"github.com/gofiber/fiber/v3"

	apirouter "sales_crm/internal/api/router"
	systemhdl "sales_crm/internal/api/system/handler"
)

// Register gắn GET /system/health (public)
func Register(store systemhdl.Pinger, driver string) apirouter.RegisterFunc {
	return func(v1 fiber.Router, _ *apirouter.Router) error {
		h := systemhdl.NewSystemHandler(store, driver)
		v1.Group("/system").Get("/health", h.HandleHealth)
		return nil
	}
}
