package middleware

import (
	"errors"

	"sales_crm/internal/common"
	"sales_crm/internal/global"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// exposeDetails chỉ trả details ra client khi không chạy production
func exposeDetails() bool {
	return global.ServerConfig == nil || !global.ServerConfig.IsProduction()
}

// ErrorBody body lỗi chuẩn: {error, code, details?}
func ErrorBody(err error) (int, fiber.Map) {
	var customErr *common.Error
	if !errors.As(err, &customErr) {
		body := fiber.Map{
			"error": common.MsgInternalError,
			"code":  common.ErrCodeInternalServer.Code,
		}
		if exposeDetails() {
			body["details"] = err.Error()
		}
		return common.StatusInternalServerError, body
	}

	body := fiber.Map{
		"error": customErr.Message,
		"code":  customErr.Code.Code,
	}
	if exposeDetails() {
		switch {
		case customErr.Details != nil:
			body["details"] = customErr.Details
		case customErr.Unwrap() != nil:
			body["details"] = customErr.Unwrap().Error()
		}
	}
	status := customErr.StatusCode
	if status == 0 {
		status = common.StatusInternalServerError
	}
	return status, body
}

// HandleErrorResponse xử lý và trả về error response cho client
// Tách riêng để tránh import cycle với handler package
func HandleErrorResponse(c fiber.Ctx, err error) error {
	status, body := ErrorBody(err)
	return JSONResponse(c, status, body)
}

// HandleSuccessResponse body thành công dùng chung: {success, data}
func HandleSuccessResponse(c fiber.Ctx, data interface{}) error {
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"success": true,
		"data":    data,
	})
}
