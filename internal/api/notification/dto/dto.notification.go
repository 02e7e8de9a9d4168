// Package notifdto chứa DTO cho domain Notification.
package notifdto

// NotificationListQuery query cho GET /notifications
type NotificationListQuery struct {
	UnreadOnly bool `query:"unreadOnly"`
	Limit      int  `query:"limit" validate:"omitempty,min=1,max=200"`
}

// UnreadCountResponse body cho GET /notifications/unread-count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse body cho PATCH /notifications/read-all
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
