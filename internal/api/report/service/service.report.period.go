package reportsvc

import (
	"strings"
	"time"

	reportmodels "sales_crm/internal/api/report/models"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/utility"
)

// ResolvePeriod chuyển period (hoặc khoảng tường minh) thành khoảng thời gian cụ thể.
//   - explicit có đủ hai biên: trả nguyên văn, nhãn custom. start > end không bị từ chối.
//   - còn lại: end = now, start = now - N ngày (week 7, month 30, quarter 90, year 365), mặc định month.
func ResolvePeriod(period string, explicit *reportmodels.DateRange, now time.Time) (reportmodels.ResolvedPeriod, error) {
	if explicit != nil {
		if explicit.Start.IsZero() || explicit.End.IsZero() {
			return reportmodels.ResolvedPeriod{}, common.Wrap(common.ErrInvalidDateRange, nil, "startDate và endDate phải đi cùng nhau")
		}
		return reportmodels.ResolvedPeriod{
			Start:  explicit.Start,
			End:    explicit.End,
			Period: reportmodels.PeriodCustom,
		}, nil
	}

	p := reportmodels.NormalizePeriod(period)
	days := reportmodels.PeriodDays[p]
	return reportmodels.ResolvedPeriod{
		Start:  now.Add(-time.Duration(days) * 24 * time.Hour),
		End:    now,
		Period: p,
	}, nil
}

// ParseDateRange đọc startDate/endDate từ request.
// Cả hai rỗng -> nil. Chỉ có một, hoặc không parse được -> ErrInvalidDateRange.
// endDate dạng YYYY-MM-DD bao gồm cả ngày đó (tới 23:59:59.999 UTC).
func ParseDateRange(startDate, endDate string) (*reportmodels.DateRange, error) {
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)
	if startDate == "" && endDate == "" {
		return nil, nil
	}
	if startDate == "" || endDate == "" {
		return nil, common.Wrap(common.ErrInvalidDateRange, nil, "startDate và endDate phải đi cùng nhau")
	}
	start, err := global.ParseReportDate(startDate)
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidDateRange, err, "startDate không đúng định dạng YYYY-MM-DD hoặc RFC 3339")
	}
	end, err := global.ParseReportDate(endDate)
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidDateRange, err, "endDate không đúng định dạng YYYY-MM-DD hoặc RFC 3339")
	}
	if _, err := time.Parse(global.DateLayout, endDate); err == nil {
		end = utility.EndOfDay(end)
	}
	return &reportmodels.DateRange{Start: start, End: end}, nil
}
