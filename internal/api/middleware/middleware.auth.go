package middleware

import (
	"context"
	"strings"

	authmodels "sales_crm/internal/api/auth/models"
	"sales_crm/internal/common"
	"sales_crm/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// Các key lưu trong c.Locals
const (
	LocalRequester = "requester"
	LocalUserID    = "user_id"
)

// RequesterResolver giải mã credential thành danh tính người gọi
type RequesterResolver interface {
	ResolveRequester(ctx context.Context, rawCredential string) (authmodels.Requester, error)
}

// AuthMiddleware middleware xác thực Bearer JWT cho Fiber
func AuthMiddleware(resolver RequesterResolver) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		requester, err := resolver.ResolveRequester(c.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token không hợp lệ")
			return HandleErrorResponse(c, err)
		}

		c.Locals(LocalRequester, requester)
		c.Locals(LocalUserID, requester.ID)
		return c.Next()
	}
}

// RequirePrivileged chỉ cho admin/SuperAdmin đi tiếp. Dùng sau AuthMiddleware.
func RequirePrivileged() fiber.Handler {
	return func(c fiber.Ctx) error {
		r, ok := GetRequester(c)
		if !ok {
			return HandleErrorResponse(c, common.ErrUnauthorized)
		}
		if !r.IsPrivileged() {
			return HandleErrorResponse(c, common.ErrForbidden)
		}
		return c.Next()
	}
}

// GetRequester lấy danh tính đã xác thực từ context
func GetRequester(c fiber.Ctx) (authmodels.Requester, bool) {
	r, ok := c.Locals(LocalRequester).(authmodels.Requester)
	return r, ok && r.ID != 0
}
