package models

import "time"

// NotificationType phân loại thông báo trong ứng dụng
type NotificationType string

const (
	NotificationInfo               NotificationType = "INFO"
	NotificationAttendanceReminder NotificationType = "ATTENDANCE_REMINDER"
	NotificationPipelineUpdate     NotificationType = "PIPELINE_UPDATE"
)

// Notification thông báo in-app gửi tới một user
type Notification struct {
	ID        int64            `json:"id" bson:"_id"`
	UserID    int64            `json:"userId" bson:"userId" index:"single:1,compound:notification_user_created"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	Type      NotificationType `json:"type" bson:"type"`
	Link      string           `json:"link,omitempty" bson:"link,omitempty"`
	Read      bool             `json:"read" bson:"read" index:"single:1"`
	CreatedAt time.Time        `json:"createdAt" bson:"createdAt" index:"single:1,order:-1,compound:notification_user_created"`
}
