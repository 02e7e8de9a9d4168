// Package router khung đăng ký route dùng chung: prefix /api/v1, nhóm route có middleware, SetupRoutes.
package router

import (
	"github.com/gofiber/fiber/v3"
)

// LƯU Ý (Fiber v3): middleware truyền trực tiếp vào router.Get(path, mw, handler) không được gọi
// trong một số trường hợp. Luôn gắn middleware qua group.Use() như NewProtectedGroup bên dưới.

// RoutePrefix các prefix phiên bản API
type RoutePrefix struct {
	V1 string
}

// NewRoutePrefix prefix mặc định
func NewRoutePrefix() RoutePrefix {
	return RoutePrefix{V1: "/api/v1"}
}

// Router giữ app và middleware xác thực dùng chung cho các domain
type Router struct {
	app  *fiber.App
	auth fiber.Handler
}

// NewRouter tạo Router. auth = nil nghĩa là không có route nào cần xác thực.
func NewRouter(app *fiber.App, auth fiber.Handler) *Router {
	return &Router{app: app, auth: auth}
}

// Auth middleware xác thực dùng chung
func (r *Router) Auth() fiber.Handler {
	return r.auth
}

// NewProtectedGroup tạo group theo prefix và gắn middleware bằng Use() (chỉ áp dụng trong group)
func NewProtectedGroup(router fiber.Router, prefix string, middlewares ...fiber.Handler) fiber.Router {
	group := router.Group(prefix)
	for _, mw := range middlewares {
		if mw != nil {
			group.Use(mw)
		}
	}
	return group
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export).
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes thiết lập tất cả các route cho ứng dụng. Caller truyền lần lượt Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, auth fiber.Handler, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app, auth)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
