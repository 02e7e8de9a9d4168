// Package models - các thực thể CRM (pipelines, opportunities, leads, quotations, immediate_sales).
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PipelineStatus trạng thái sản xuất/giao hàng của một pipeline
type PipelineStatus string

const (
	PipelineProductionStarted PipelineStatus = "PRODUCTION_STARTED"
	PipelineQualityCheck      PipelineStatus = "QUALITY_CHECK"
	PipelinePackingShipping   PipelineStatus = "PACKING_SHIPPING"
	PipelineShipped           PipelineStatus = "SHIPPED"
	PipelineProjectComplete   PipelineStatus = "PROJECT_COMPLETE"
	PipelinePaymentReceived   PipelineStatus = "PAYMENT_RECEIVED"
)

// PipelineStatuses thứ tự chuẩn của các trạng thái pipeline
var PipelineStatuses = []PipelineStatus{
	PipelineProductionStarted,
	PipelineQualityCheck,
	PipelinePackingShipping,
	PipelineShipped,
	PipelineProjectComplete,
	PipelinePaymentReceived,
}

// Ordinal trả về vị trí của status trong PipelineStatuses, -1 nếu không xác định
func (s PipelineStatus) Ordinal() int {
	for i, v := range PipelineStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// IsClosed deal được coi là đã chốt khi hoàn tất dự án hoặc đã nhận thanh toán
func (s PipelineStatus) IsClosed() bool {
	return s == PipelineProjectComplete || s == PipelinePaymentReceived
}

// ClosedPipelineStatuses các trạng thái được tính là deal đã chốt
var ClosedPipelineStatuses = []PipelineStatus{PipelineProjectComplete, PipelinePaymentReceived}

// Pipeline bản ghi sản xuất/giao hàng, tạo ra khi một opportunity được chốt.
// UpdatedAt được dùng làm thời điểm chốt deal (không có trường closedAt riêng).
type Pipeline struct {
	ID            int64           `json:"id" bson:"_id"`
	OpportunityID int64           `json:"opportunityId" bson:"opportunityId" index:"single:1"`
	Status        PipelineStatus  `json:"status" bson:"status" index:"single:1"`
	OwnerID       int64           `json:"ownerId" bson:"ownerId" index:"single:1,compound:pipeline_owner_updated"`
	OrderValue    decimal.Decimal `json:"orderValue" bson:"orderValue"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt     time.Time       `json:"updatedAt" bson:"updatedAt" index:"single:1,compound:pipeline_owner_updated"`
}
