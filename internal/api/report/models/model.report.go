// Package models - kiểu dữ liệu của engine báo cáo: loại báo cáo, kỳ, khoảng thời gian, yêu cầu và kết quả.
package models

import (
	"strings"
	"time"

	authmodels "sales_crm/internal/api/auth/models"
)

// ReportType loại báo cáo
type ReportType string

const (
	ReportSales      ReportType = "sales"
	ReportQuotation  ReportType = "quotation"
	ReportAttendance ReportType = "attendance"
	ReportPipeline   ReportType = "pipeline"
	ReportForecast   ReportType = "forecast"
)

// ReportTypes danh sách loại báo cáo hỗ trợ
var ReportTypes = []ReportType{ReportSales, ReportQuotation, ReportAttendance, ReportPipeline, ReportForecast}

// ParseReportType chuẩn hóa (lowercase, trim) và kiểm tra loại báo cáo
func ParseReportType(s string) (ReportType, bool) {
	t := ReportType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ReportTypes {
		if v == t {
			return t, true
		}
	}
	return t, false
}

// Period kỳ báo cáo có độ dài cố định tính lùi từ hiện tại
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	// PeriodCustom khoảng thời gian do người gọi chỉ định
	PeriodCustom Period = "custom"
)

// DefaultPeriod kỳ dùng khi period rỗng hoặc không hợp lệ
const DefaultPeriod = PeriodMonth

// PeriodDays số ngày của từng kỳ
var PeriodDays = map[Period]int{
	PeriodWeek:    7,
	PeriodMonth:   30,
	PeriodQuarter: 90,
	PeriodYear:    365,
}

// NormalizePeriod trả về kỳ hợp lệ, mặc định month
func NormalizePeriod(s string) Period {
	if !IsKnownPeriod(s) {
		return DefaultPeriod
	}
	return Period(strings.ToLower(strings.TrimSpace(s)))
}

// IsKnownPeriod period có thuộc week/month/quarter/year không
func IsKnownPeriod(s string) bool {
	_, ok := PeriodDays[Period(strings.ToLower(strings.TrimSpace(s)))]
	return ok
}

// DateRange khoảng thời gian tường minh do người gọi gửi lên
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Interval khoảng thời gian đã resolve. So sánh luôn bao gồm hai biên.
type Interval struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Period Period    `json:"period"`
}

// Contains start <= t <= end
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

// Empty khoảng rỗng khi start > end
func (i Interval) Empty() bool {
	return i.Start.After(i.End)
}

// Days độ dài khoảng tính bằng ngày (có thể lẻ, có thể âm)
func (i Interval) Days() float64 {
	return i.End.Sub(i.Start).Hours() / 24
}

// ReportRequest yêu cầu sinh báo cáo (không lưu trữ)
type ReportRequest struct {
	Type      ReportType
	Period    string
	Range     *DateRange
	Requester authmodels.Requester
}

// ReportResult kết quả trả về cho tầng HTTP
type ReportResult struct {
	ReportType  ReportType  `json:"reportType"`
	Period      Period      `json:"period"`
	Interval    Interval    `json:"interval"`
	Data        interface{} `json:"data"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// ResolvedPeriod khoảng thời gian cụ thể mà engine dùng cho một lần sinh báo cáo
type ResolvedPeriod = Interval
