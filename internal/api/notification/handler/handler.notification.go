// Package notifhdl chứa HTTP handler cho thông báo in-app của người dùng hiện tại.
package notifhdl

import (
	"strconv"

	"sales_crm/internal/api/middleware"
	notifdto "sales_crm/internal/api/notification/dto"
	notifsvc "sales_crm/internal/api/notification/service"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// NotificationHandler xử lý API thông báo. Mọi thao tác giới hạn trong thông báo của người gọi.
type NotificationHandler struct {
	NotificationService *notifsvc.NotificationService
}

// NewNotificationHandler tạo mới NotificationHandler
func NewNotificationHandler(svc *notifsvc.NotificationService) *NotificationHandler {
	if global.Validate == nil {
		global.InitValidator()
	}
	return &NotificationHandler{NotificationService: svc}
}

// HandleList GET /notifications?unreadOnly=true&limit=20
func (h *NotificationHandler) HandleList(c fiber.Ctx) error {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		return middleware.HandleErrorResponse(c, common.ErrUnauthorized)
	}
	var q notifdto.NotificationListQuery
	if err := c.Bind().Query(&q); err != nil {
		return middleware.HandleErrorResponse(c, common.Wrap(common.ErrInvalidFormat, err, nil))
	}
	if err := global.Validate.Struct(q); err != nil {
		return middleware.HandleErrorResponse(c, common.Wrap(common.ErrInvalidRequest, nil, err.Error()))
	}
	items, err := h.NotificationService.List(logger.ContextFromRequest(c), requester.ID, q.UnreadOnly, q.Limit)
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	return middleware.HandleSuccessResponse(c, items)
}

// HandleUnreadCount GET /notifications/unread-count
func (h *NotificationHandler) HandleUnreadCount(c fiber.Ctx) error {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		return middleware.HandleErrorResponse(c, common.ErrUnauthorized)
	}
	count, err := h.NotificationService.UnreadCount(logger.ContextFromRequest(c), requester.ID)
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	return middleware.HandleSuccessResponse(c, notifdto.UnreadCountResponse{Count: count})
}

// HandleMarkAllRead PATCH /notifications/read-all
func (h *NotificationHandler) HandleMarkAllRead(c fiber.Ctx) error {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		return middleware.HandleErrorResponse(c, common.ErrUnauthorized)
	}
	updated, err := h.NotificationService.MarkAllRead(logger.ContextFromRequest(c), requester.ID)
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	logger.LogAction("notification_read_all", c, map[string]interface{}{"updated": updated})
	return middleware.HandleSuccessResponse(c, notifdto.MarkAllReadResponse{Updated: updated})
}

// HandleMarkRead PATCH /notifications/:id/read
func (h *NotificationHandler) HandleMarkRead(c fiber.Ctx) error {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		return middleware.HandleErrorResponse(c, common.ErrUnauthorized)
	}
	id, err := parseID(c)
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	if err := h.NotificationService.MarkRead(logger.ContextFromRequest(c), requester.ID, id); err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	logger.LogCRUD("update", "notification", id, c)
	return middleware.HandleSuccessResponse(c, fiber.Map{"id": id, "read": true})
}

// HandleDelete DELETE /notifications/:id
func (h *NotificationHandler) HandleDelete(c fiber.Ctx) error {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		return middleware.HandleErrorResponse(c, common.ErrUnauthorized)
	}
	id, err := parseID(c)
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	if err := h.NotificationService.Delete(logger.ContextFromRequest(c), requester.ID, id); err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	logger.LogCRUD("delete", "notification", id, c)
	return middleware.HandleSuccessResponse(c, fiber.Map{"id": id, "deleted": true})
}

func parseID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.Wrap(common.ErrInvalidFormat, err, "id phải là số nguyên dương")
	}
	return id, nil
}
