// Package datastore là lớp truy cập dữ liệu dùng chung cho báo cáo, thông báo và chấm công.
// Có ba cài đặt: MongoDB, SQL (postgres/mysql/sqlite) và bộ nhớ (dùng cho test, CLI demo).
package datastore

import (
	"context"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/utility"
)

// TimeField chọn trường thời gian để lọc pipeline
type TimeField string

const (
	ByUpdatedAt TimeField = "updatedAt"
	ByCreatedAt TimeField = "createdAt"
)

// Query bộ lọc chung cho các truy vấn đọc.
// From/To là biên bao gồm (gte/lte); giá trị zero = không giới hạn phía đó.
type Query struct {
	From      time.Time
	To        time.Time
	TimeField TimeField // chỉ áp dụng cho pipelines, mặc định updatedAt
	OwnerID   *int64    // nil = mọi owner
	Statuses  []string  // rỗng = mọi trạng thái
	UserIDs   []int64   // chỉ áp dụng cho attendances
}

// UserFilter bộ lọc người dùng
type UserFilter struct {
	IDs                  []int64
	NotificationsEnabled *bool
}

// ReportReader các truy vấn chỉ đọc mà engine báo cáo cần
type ReportReader interface {
	FindPipelines(ctx context.Context, q Query) ([]crmmodels.Pipeline, error)
	FindQuotations(ctx context.Context, q Query) ([]crmmodels.Quotation, error)
	FindImmediateSales(ctx context.Context, q Query) ([]crmmodels.ImmediateSale, error)
	FindLeads(ctx context.Context, q Query) ([]crmmodels.Lead, error)
	FindOpportunities(ctx context.Context, q Query) ([]crmmodels.Opportunity, error)
	FindAttendances(ctx context.Context, q Query) ([]attmodels.Attendance, error)
	FindUsers(ctx context.Context, f UserFilter) ([]authmodels.User, error)
}

// UserReader tra cứu một user (dùng cho xác thực)
type UserReader interface {
	GetUser(ctx context.Context, id int64) (*authmodels.User, error)
}

// NotificationStore CRUD thông báo. Mọi thao tác đều giới hạn theo userID;
// thông báo của user khác được coi như không tồn tại.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *notifmodels.Notification) error
	ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]notifmodels.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID int64) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, userID, id int64) error
}

// AttendanceWriter ghi bản ghi chấm công
type AttendanceWriter interface {
	CreateAttendance(ctx context.Context, a *attmodels.Attendance) error
}

// FixtureWriter ghi dữ liệu nền (seed demo, test). ID = 0 sẽ được cấp tự động.
type FixtureWriter interface {
	InsertUser(ctx context.Context, u *authmodels.User) error
	InsertPipeline(ctx context.Context, p *crmmodels.Pipeline) error
	InsertOpportunity(ctx context.Context, o *crmmodels.Opportunity) error
	InsertLead(ctx context.Context, l *crmmodels.Lead) error
	InsertQuotation(ctx context.Context, q *crmmodels.Quotation) error
	InsertImmediateSale(ctx context.Context, s *crmmodels.ImmediateSale) error
}

// Store tập hợp mọi khả năng của một datastore
type Store interface {
	ReportReader
	UserReader
	NotificationStore
	AttendanceWriter
	FixtureWriter
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Tên collection / bảng
const (
	CollectionUsers          = "users"
	CollectionPipelines      = "pipelines"
	CollectionOpportunities  = "opportunities"
	CollectionLeads          = "leads"
	CollectionQuotations     = "quotations"
	CollectionImmediateSales = "immediate_sales"
	CollectionAttendances    = "attendances"
	CollectionNotifications  = "notifications"
)

func (q Query) pipelineTimeField() TimeField {
	if q.TimeField == ByCreatedAt {
		return ByCreatedAt
	}
	return ByUpdatedAt
}

// inRange so sánh bao gồm hai biên
func (q Query) inRange(t time.Time) bool {
	if !q.From.IsZero() && t.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && t.After(q.To) {
		return false
	}
	return true
}

func (q Query) ownerMatches(ownerID int64) bool {
	return q.OwnerID == nil || *q.OwnerID == ownerID
}

func (q Query) statusMatches(status string) bool {
	return len(q.Statuses) == 0 || utility.Contains(q.Statuses, status)
}

func (q Query) userMatches(userID int64) bool {
	return len(q.UserIDs) == 0 || utility.Contains(q.UserIDs, userID)
}

func (f UserFilter) matches(u authmodels.User) bool {
	if f.NotificationsEnabled != nil && u.EnableNotifications != *f.NotificationsEnabled {
		return false
	}
	return len(f.IDs) == 0 || utility.Contains(f.IDs, u.ID)
}
