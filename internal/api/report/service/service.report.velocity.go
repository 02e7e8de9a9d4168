package reportsvc

import (
	"context"
	"time"

	crmmodels "sales_crm/internal/api/crm/models"
	reportmodels "sales_crm/internal/api/report/models"
	"sales_crm/internal/datastore"

	"github.com/shopspring/decimal"
)

// VelocityUnitDays đơn vị chuẩn hóa tốc độ (deal / 30 ngày)
const VelocityUnitDays = 30

// windowDays độ dài khoảng tính bằng ngày, tối thiểu 1
func windowDays(start, end time.Time) float64 {
	days := reportmodels.Interval{Start: start, End: end}.Days()
	if days < 1 {
		return 1
	}
	return days
}

// ComputeVelocity số mốc thời gian trong [start, end] chia cho số ngày, nhân 30
func ComputeVelocity(closedAt []time.Time, start, end time.Time) float64 {
	iv := reportmodels.Interval{Start: start, End: end}
	count := 0
	for _, t := range closedAt {
		if iv.Contains(t) {
			count++
		}
	}
	return float64(count) / windowDays(start, end) * VelocityUnitDays
}

// generateForecast đọc các pipeline đã chốt có updatedAt trong khoảng.
// updatedAt được xem là thời điểm chốt; pipeline bị sửa sau khi chốt sẽ dịch sang kỳ khác.
func (s *ReportService) generateForecast(ctx context.Context, iv reportmodels.Interval, scope Scope) (interface{}, error) {
	q := scope.query(iv, datastore.ByUpdatedAt)
	for _, st := range crmmodels.ClosedPipelineStatuses {
		q.Statuses = append(q.Statuses, string(st))
	}
	pipelines, err := s.store.FindPipelines(ctx, q)
	if err != nil {
		return nil, err
	}
	return BuildForecast(pipelines, iv), nil
}

// BuildForecast dự báo kỳ kế tiếp có cùng độ dài với khoảng lịch sử
func BuildForecast(pipelines []crmmodels.Pipeline, iv reportmodels.Interval) *reportmodels.ForecastReport {
	var closedAt []time.Time
	historical := decimal.Zero
	for _, p := range pipelines {
		if !p.Status.IsClosed() || !iv.Contains(p.UpdatedAt) {
			continue
		}
		closedAt = append(closedAt, p.UpdatedAt)
		historical = historical.Add(p.OrderValue)
	}

	velocity := ComputeVelocity(closedAt, iv.Start, iv.End)
	days := windowDays(iv.Start, iv.End)

	// kỳ kế tiếp dài bằng kỳ lịch sử
	nextDays := days
	projectedDeals := velocity / VelocityUnitDays * nextDays

	// projectedValue = historical * nextDays / days, chỉ làm tròn một lần ở cuối
	average, projectedValue := decimal.Zero, decimal.Zero
	if n := len(closedAt); n > 0 {
		average = historical.DivRound(decimal.NewFromInt(int64(n)), 2)
		projectedValue = historical.Mul(decimal.NewFromFloat(nextDays)).
			DivRound(decimal.NewFromFloat(days), 2)
	}

	return &reportmodels.ForecastReport{
		DealsPerMonth:    round2(velocity),
		ClosedDeals:      len(closedAt),
		HistoricalValue:  historical,
		AverageDealValue: average,
		PeriodDays:       round2(days),
		ProjectedDeals:   round2(projectedDeals),
		ProjectedValue:   projectedValue,
		NextPeriodStart:  iv.End,
		NextPeriodEnd:    iv.End.Add(time.Duration(nextDays * float64(24*time.Hour))),
	}
}
