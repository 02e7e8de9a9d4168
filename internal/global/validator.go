package global

import (
	"strings"
	"time"

	reportmodels "sales_crm/internal/api/report/models"

	"github.com/go-playground/validator/v10"
)

// DateLayout định dạng ngày ngắn gọn chấp nhận cho startDate/endDate
const DateLayout = "2006-01-02"

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("report_type", validateReportType)
	_ = Validate.RegisterValidation("report_period", validateReportPeriod)
	_ = Validate.RegisterValidation("report_date", validateReportDate)
	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
}

// ParseReportDate chấp nhận YYYY-MM-DD (00:00 UTC) hoặc RFC 3339
func ParseReportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// validateReportType kiểm tra loại báo cáo nằm trong danh sách hỗ trợ
func validateReportType(fl validator.FieldLevel) bool {
	_, ok := reportmodels.ParseReportType(fl.Field().String())
	return ok
}

// validateReportPeriod chỉ giới hạn độ dài; period lạ vẫn hợp lệ và được resolve về month
func validateReportPeriod(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= 32
}

// validateReportDate chuỗi rỗng được bỏ qua; còn lại phải parse được
func validateReportDate(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	_, err := ParseReportDate(v)
	return err == nil
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"eval(",
		"document.cookie",
		"<iframe",
		"<object",
		"<embed",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}
