package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValueBreakdown số lượng và tổng giá trị của một nhóm
type ValueBreakdown struct {
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// OwnerBreakdown nhóm theo người phụ trách
type OwnerBreakdown struct {
	OwnerID   int64           `json:"ownerId"`
	OwnerName string          `json:"ownerName"`
	Count     int             `json:"count"`
	Value     decimal.Decimal `json:"value"`
}

// ImmediateSalesSummary tổng hợp đơn bán trực tiếp trong kỳ
type ImmediateSalesSummary struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// SalesReport báo cáo doanh số (pipelines) hoặc báo giá (quotations)
type SalesReport struct {
	TotalValue     decimal.Decimal           `json:"totalValue"`
	DealCount      int                       `json:"dealCount"`
	ByStatus       map[string]ValueBreakdown `json:"byStatus"`
	ByOwner        map[int64]OwnerBreakdown  `json:"byOwner"`
	ImmediateSales *ImmediateSalesSummary    `json:"immediateSales,omitempty"`
}

// FunnelStage một tầng của phễu
type FunnelStage struct {
	Stage string          `json:"stage"`
	Label string          `json:"label"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// StatusCount số pipeline theo từng trạng thái
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

// ConversionSummary tỉ lệ chuyển đổi giữa các bước (phần trăm, 2 chữ số)
type ConversionSummary struct {
	Leads                  int     `json:"leads"`
	QualifiedLeads         int     `json:"qualifiedLeads"`
	Opportunities          int     `json:"opportunities"`
	OpportunitiesFromLeads int     `json:"opportunitiesFromLeads"`
	Pipelines              int     `json:"pipelines"`
	ClosedPipelines        int     `json:"closedPipelines"`
	QualificationRate      float64 `json:"qualificationRate"` // qualifiedLeads / leads
	OpportunityRate        float64 `json:"opportunityRate"`   // opportunitiesFromLeads / leads
	PipelineRate           float64 `json:"pipelineRate"`      // pipelines / opportunities
	CloseRate              float64 `json:"closeRate"`         // closedPipelines / pipelines
}

// FunnelReport báo cáo phễu bán hàng
type FunnelReport struct {
	Stages       []FunnelStage     `json:"stages"`
	Statuses     []StatusCount     `json:"statuses"`
	Unclassified int               `json:"unclassified"`
	Conversion   ConversionSummary `json:"conversion"`
}

// ForecastReport dự báo kỳ tiếp theo dựa trên tốc độ chốt deal
type ForecastReport struct {
	DealsPerMonth    float64         `json:"dealsPerMonth"`
	ClosedDeals      int             `json:"closedDeals"`
	HistoricalValue  decimal.Decimal `json:"historicalValue"`
	AverageDealValue decimal.Decimal `json:"averageDealValue"`
	PeriodDays       float64         `json:"periodDays"`
	ProjectedDeals   float64         `json:"projectedDeals"`
	ProjectedValue   decimal.Decimal `json:"projectedValue"`
	NextPeriodStart  time.Time       `json:"nextPeriodStart"`
	NextPeriodEnd    time.Time       `json:"nextPeriodEnd"`
}

// AttendanceDay số liệu chấm công của một ngày
type AttendanceDay struct {
	Date           string `json:"date"` // YYYY-MM-DD (UTC)
	ExpectedCount  int    `json:"expectedCount"`
	SubmittedCount int    `json:"submittedCount"`
	MissingCount   int    `json:"missingCount"`
}

// MissingUser người dùng thiếu chấm công ít nhất một ngày trong kỳ
type MissingUser struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	DaysSubmitted int    `json:"daysSubmitted"`
	DaysMissed    int    `json:"daysMissed"`
}

// AttendanceReport báo cáo chấm công. SubmittedCount = số người đủ mọi ngày trong kỳ.
type AttendanceReport struct {
	ExpectedCount  int             `json:"expectedCount"`
	SubmittedCount int             `json:"submittedCount"`
	MissingUsers   []MissingUser   `json:"missingUsers"`
	TotalDays      int             `json:"totalDays"`
	SubmissionRate float64         `json:"submissionRate"`
	Days           []AttendanceDay `json:"days"`
}
