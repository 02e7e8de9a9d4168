package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus trạng thái báo giá
type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "DRAFT"
	QuotationSent     QuotationStatus = "SENT"
	QuotationAccepted QuotationStatus = "ACCEPTED"
	QuotationRejected QuotationStatus = "REJECTED"
	QuotationExpired  QuotationStatus = "EXPIRED"
)

// Quotation báo giá gửi khách ở giai đoạn đề xuất
type Quotation struct {
	ID            int64           `json:"id" bson:"_id"`
	OpportunityID int64           `json:"opportunityId" bson:"opportunityId"`
	OwnerID       int64           `json:"ownerId" bson:"ownerId" index:"single:1"`
	Status        QuotationStatus `json:"status" bson:"status"`
	TotalValue    decimal.Decimal `json:"totalValue" bson:"totalValue"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" bson:"updatedAt" index:"single:1"`
}

// ImmediateSale đơn bán trực tiếp, không đi qua pipeline
type ImmediateSale struct {
	ID           int64           `json:"id" bson:"_id"`
	OwnerID      int64           `json:"ownerId" bson:"ownerId" index:"single:1"`
	CustomerName string          `json:"customerName" bson:"customerName"`
	Amount       decimal.Decimal `json:"amount" bson:"amount"`
	SoldAt       time.Time       `json:"soldAt" bson:"soldAt" index:"single:1"`
}
