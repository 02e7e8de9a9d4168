package reportsvc

import (
	"testing"
	"time"

	crmmodels "sales_crm/internal/api/crm/models"
	reportmodels "sales_crm/internal/api/report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dailyClosures một mốc mỗi ngày, giữa ngày, trong [end-days, end]
func dailyClosures(end time.Time, days int) []time.Time {
	out := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, end.Add(-time.Duration(i)*24*time.Hour-12*time.Hour))
	}
	return out
}

func TestComputeVelocity_SameRateAcrossWindows(t *testing.T) {
	week := ComputeVelocity(dailyClosures(fixedNow, 7), fixedNow.AddDate(0, 0, -7), fixedNow)
	month := ComputeVelocity(dailyClosures(fixedNow, 30), fixedNow.AddDate(0, 0, -30), fixedNow)
	assert.InDelta(t, 30.0, week, 1e-9)
	assert.InDelta(t, week, month, 1e-9)
}

func TestComputeVelocity_Edges(t *testing.T) {
	// khoảng ngắn hơn một ngày vẫn chia cho 1
	v := ComputeVelocity([]time.Time{fixedNow}, fixedNow.Add(-time.Hour), fixedNow)
	assert.InDelta(t, 30.0, v, 1e-9)

	// mốc ngoài khoảng không được tính
	v = ComputeVelocity([]time.Time{fixedNow.Add(time.Second)}, fixedNow.AddDate(0, 0, -7), fixedNow)
	assert.Zero(t, v)

	assert.Zero(t, ComputeVelocity(nil, fixedNow.AddDate(0, 0, -30), fixedNow))
}

func TestBuildForecast_NoClosedDeals(t *testing.T) {
	iv := reportmodels.Interval{Start: fixedNow.AddDate(0, 0, -30), End: fixedNow}
	open := []crmmodels.Pipeline{{Status: crmmodels.PipelineShipped, OrderValue: dec("500"), UpdatedAt: fixedNow}}

	f := BuildForecast(open, iv)
	assert.Equal(t, 0, f.ClosedDeals)
	assert.True(t, f.AverageDealValue.IsZero())
	assert.True(t, f.ProjectedValue.IsZero())
	assert.Zero(t, f.ProjectedDeals)
	assert.Equal(t, fixedNow, f.NextPeriodStart)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), f.NextPeriodEnd)
}

func TestBuildForecast_Projection(t *testing.T) {
	iv := reportmodels.Interval{Start: fixedNow.AddDate(0, 0, -30), End: fixedNow}
	pipelines := []crmmodels.Pipeline{
		{Status: crmmodels.PipelineProjectComplete, OrderValue: dec("100.00"), UpdatedAt: fixedNow.AddDate(0, 0, -1)},
		{Status: crmmodels.PipelinePaymentReceived, OrderValue: dec("200.00"), UpdatedAt: fixedNow.AddDate(0, 0, -2)},
		{Status: crmmodels.PipelinePaymentReceived, OrderValue: dec("300.00"), UpdatedAt: fixedNow.AddDate(0, 0, -3)},
		{Status: crmmodels.PipelinePaymentReceived, OrderValue: dec("999.00"), UpdatedAt: fixedNow.AddDate(0, 0, -40)},
	}

	f := BuildForecast(pipelines, iv)
	require.Equal(t, 3, f.ClosedDeals)
	assert.InDelta(t, 3.0, f.DealsPerMonth, 1e-9)
	assert.True(t, f.HistoricalValue.Equal(dec("600")))
	assert.True(t, f.AverageDealValue.Equal(dec("200")))
	assert.InDelta(t, 3.0, f.ProjectedDeals, 1e-9)
	assert.True(t, f.ProjectedValue.Equal(dec("600")), f.ProjectedValue.String())
}

func TestBuildForecast_WeekWindow(t *testing.T) {
	iv := reportmodels.Interval{Start: fixedNow.AddDate(0, 0, -7), End: fixedNow}
	pipelines := []crmmodels.Pipeline{
		{Status: crmmodels.PipelineProjectComplete, OrderValue: dec("70"), UpdatedAt: fixedNow.Add(-time.Hour)},
	}
	f := BuildForecast(pipelines, iv)
	// 1 deal / 7 ngày -> ~4.29 deal / 30 ngày, kỳ sau 7 ngày -> 1 deal
	assert.InDelta(t, 4.29, f.DealsPerMonth, 1e-9)
	assert.InDelta(t, 1.0, f.ProjectedDeals, 1e-9)
	assert.True(t, f.ProjectedValue.Equal(dec("70")), f.ProjectedValue.String())
	assert.Equal(t, 7.0, f.PeriodDays)
}

func TestBuildForecast_NonTerminatingAverage(t *testing.T) {
	iv := reportmodels.Interval{Start: fixedNow.AddDate(0, 0, -30), End: fixedNow}
	pipelines := []crmmodels.Pipeline{
		{Status: crmmodels.PipelineProjectComplete, OrderValue: dec("33.33"), UpdatedAt: fixedNow.AddDate(0, 0, -1)},
		{Status: crmmodels.PipelinePaymentReceived, OrderValue: dec("33.33"), UpdatedAt: fixedNow.AddDate(0, 0, -2)},
		{Status: crmmodels.PipelinePaymentReceived, OrderValue: dec("33.34"), UpdatedAt: fixedNow.AddDate(0, 0, -3)},
	}

	f := BuildForecast(pipelines, iv)
	assert.True(t, f.HistoricalValue.Equal(dec("100")))
	// trung bình hiển thị được làm tròn, giá trị dự báo thì không bị lệch theo
	assert.True(t, f.AverageDealValue.Equal(dec("33.33")), f.AverageDealValue.String())
	assert.InDelta(t, 3.0, f.ProjectedDeals, 1e-9)
	assert.True(t, f.ProjectedValue.Equal(dec("100")), f.ProjectedValue.String())
}
