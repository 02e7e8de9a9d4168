// Package attendancehdl chứa HTTP handler chấm công.
package attendancehdl

import (
	attendancedto "sales_crm/internal/api/attendance/dto"
	attmodels "sales_crm/internal/api/attendance/models"
	attendancesvc "sales_crm/internal/api/attendance/service"
	"sales_crm/internal/api/middleware"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// AttendanceHandler xử lý chấm công của người dùng hiện tại
type AttendanceHandler struct {
	AttendanceService *attendancesvc.AttendanceService
}

// NewAttendanceHandler tạo mới AttendanceHandler
func NewAttendanceHandler(svc *attendancesvc.AttendanceService) *AttendanceHandler {
	if global.Validate == nil {
		global.InitValidator()
	}
	return &AttendanceHandler{AttendanceService: svc}
}

// HandleSubmit POST /attendance
func (h *AttendanceHandler) HandleSubmit(c fiber.Ctx) error {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		return middleware.HandleErrorResponse(c, common.ErrUnauthorized)
	}
	var input attendancedto.AttendanceSubmitInput
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&input); err != nil {
			return middleware.HandleErrorResponse(c, common.Wrap(common.ErrInvalidFormat, err, nil))
		}
	}
	if err := global.Validate.Struct(input); err != nil {
		return middleware.HandleErrorResponse(c, common.Wrap(common.ErrInvalidRequest, nil, err.Error()))
	}

	a, err := h.AttendanceService.Submit(logger.ContextFromRequest(c), requester.ID, attmodels.AttendanceStatus(input.Status), input.Note)
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	logger.LogCRUD("create", "attendance", a.ID, c)
	return middleware.JSONResponse(c, common.StatusCreated, fiber.Map{"success": true, "data": a})
}

// HandleToday GET /attendance/today
func (h *AttendanceHandler) HandleToday(c fiber.Ctx) error {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		return middleware.HandleErrorResponse(c, common.ErrUnauthorized)
	}
	rows, err := h.AttendanceService.Today(logger.ContextFromRequest(c), requester.ID)
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	return middleware.HandleSuccessResponse(c, fiber.Map{
		"submitted": len(rows) > 0,
		"records":   rows,
	})
}
