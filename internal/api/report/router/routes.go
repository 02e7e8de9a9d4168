// Package router đăng ký các route thuộc domain Report.
package router

import (
	"github.com/gofiber/fiber/v3"

	reporthdl "sales_crm/internal/api/report/handler"
	reportsvc "sales_crm/internal/api/report/service"
	apirouter "sales_crm/internal/api/router"
)

// Register trả về hàm đăng ký route report lên v1: GET /reports, GET /reports/:reportType, POST /reports
func Register(svc *reportsvc.ReportService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := reporthdl.NewReportHandler(svc)
		reports := apirouter.NewProtectedGroup(v1, "/reports", r.Auth())
		reports.Get("", h.HandleListTypes)
		reports.Get("/:reportType", h.HandleGetReport)
		reports.Post("", h.HandlePostReport)
		return nil
	}
}
