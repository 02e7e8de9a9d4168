// Package router đăng ký các route thuộc domain Attendance.
package router

import (
	"github.com/gofiber/fiber/v3"

	attendancehdl "sales_crm/internal/api/attendance/handler"
	attendancesvc "sales_crm/internal/api/attendance/service"
	apirouter "sales_crm/internal/api/router"
)

// Register trả về hàm đăng ký route chấm công lên v1
func Register(svc *attendancesvc.AttendanceService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := attendancehdl.NewAttendanceHandler(svc)
		g := apirouter.NewProtectedGroup(v1, "/attendance", r.Auth())
		g.Post("", h.HandleSubmit)
		g.Get("/today", h.HandleToday)
		return nil
	}
}
