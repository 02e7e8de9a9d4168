// Package router đăng ký các route thuộc domain Notification.
package router

import (
	"github.com/gofiber/fiber/v3"

	notifhdl "sales_crm/internal/api/notification/handler"
	notifsvc "sales_crm/internal/api/notification/service"
	apirouter "sales_crm/internal/api/router"
)

// Register trả về hàm đăng ký route thông báo lên v1
func Register(svc *notifsvc.NotificationService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := notifhdl.NewNotificationHandler(svc)
		g := apirouter.NewProtectedGroup(v1, "/notifications", r.Auth())
		g.Get("", h.HandleList)
		g.Get("/unread-count", h.HandleUnreadCount)
		g.Patch("/read-all", h.HandleMarkAllRead)
		g.Patch("/:id/read", h.HandleMarkRead)
		g.Delete("/:id", h.HandleDelete)
		return nil
	}
}
