package reportsvc

import (
	"testing"
	"time"

	crmmodels "sales_crm/internal/api/crm/models"
	reportmodels "sales_crm/internal/api/report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthWindow() reportmodels.Interval {
	return reportmodels.Interval{Start: fixedNow.AddDate(0, 0, -30), End: fixedNow, Period: reportmodels.PeriodMonth}
}

func TestAggregateSales_DecimalSumsAndUnknownOwner(t *testing.T) {
	iv := monthWindow()
	pipelines := []crmmodels.Pipeline{
		{OwnerID: 7, Status: crmmodels.PipelineShipped, OrderValue: dec("0.10"), UpdatedAt: iv.Start},
		{OwnerID: 7, Status: crmmodels.PipelineShipped, OrderValue: dec("0.20"), UpdatedAt: iv.End},
		{OwnerID: 9, Status: crmmodels.PipelineQualityCheck, OrderValue: dec("5"), UpdatedAt: iv.End.Add(time.Millisecond)},
	}

	r := AggregateSales(pipelines, map[int64]string{}, iv)
	assert.Equal(t, 2, r.DealCount)
	assert.Equal(t, "0.3", r.TotalValue.String())
	assert.Equal(t, UnknownOwnerName, r.ByOwner[7].OwnerName)
	_, counted := r.ByStatus[string(crmmodels.PipelineQualityCheck)]
	assert.False(t, counted)
}

func TestAggregateQuotations(t *testing.T) {
	iv := monthWindow()
	quotations := []crmmodels.Quotation{
		{OwnerID: 2, Status: crmmodels.QuotationSent, TotalValue: dec("1200.50"), UpdatedAt: fixedNow.AddDate(0, 0, -1)},
		{OwnerID: 2, Status: crmmodels.QuotationAccepted, TotalValue: dec("99.50"), UpdatedAt: fixedNow.AddDate(0, 0, -2)},
		{OwnerID: 3, Status: crmmodels.QuotationSent, TotalValue: dec("10"), UpdatedAt: fixedNow.AddDate(0, 0, -90)},
	}
	r := AggregateQuotations(quotations, map[int64]string{2: "Alice"}, iv)
	assert.Equal(t, 2, r.DealCount)
	assert.True(t, r.TotalValue.Equal(dec("1300")))
	assert.Equal(t, "Alice", r.ByOwner[2].OwnerName)
	assert.Nil(t, r.ImmediateSales)
}

func TestSummarizeImmediateSales(t *testing.T) {
	iv := monthWindow()
	sales := []crmmodels.ImmediateSale{
		{Amount: dec("15.25"), SoldAt: fixedNow.AddDate(0, 0, -3)},
		{Amount: dec("4.75"), SoldAt: fixedNow.AddDate(0, 0, -4)},
		{Amount: dec("100"), SoldAt: fixedNow.AddDate(0, 0, 1)},
	}
	sum := SummarizeImmediateSales(sales, iv)
	assert.Equal(t, 2, sum.Count)
	assert.True(t, sum.TotalValue.Equal(dec("20")))
}

func TestBuildFunnel_StageMapping(t *testing.T) {
	iv := monthWindow()
	at := fixedNow.AddDate(0, 0, -5)
	leadID := int64(1)
	leads := []crmmodels.Lead{
		{Status: crmmodels.LeadNew, CreatedDate: at},
		{Status: crmmodels.LeadContacted, CreatedDate: at},
		{Status: crmmodels.LeadUnqualified, CreatedDate: at},
		{Status: crmmodels.LeadQualified, CreatedDate: at},
		{Status: crmmodels.LeadConverted, CreatedDate: at},
	}
	opportunities := []crmmodels.Opportunity{
		{LeadID: &leadID, CreatedAt: at},
		{CreatedAt: at},
	}
	pipelines := []crmmodels.Pipeline{
		{Status: crmmodels.PipelineProductionStarted, OrderValue: dec("10"), CreatedAt: at},
		{Status: crmmodels.PipelineQualityCheck, OrderValue: dec("20"), CreatedAt: at},
		{Status: crmmodels.PipelinePackingShipping, OrderValue: dec("30"), CreatedAt: at},
		{Status: crmmodels.PipelineShipped, OrderValue: dec("40"), CreatedAt: at},
		{Status: crmmodels.PipelineProjectComplete, OrderValue: dec("50"), CreatedAt: at},
		{Status: crmmodels.PipelinePaymentReceived, OrderValue: dec("60"), CreatedAt: at},
		{Status: "ON_HOLD", OrderValue: dec("70"), CreatedAt: at},
		// tạo ngoài khoảng, chỉ updatedAt nằm trong khoảng
		{Status: crmmodels.PipelineShipped, OrderValue: dec("80"), CreatedAt: fixedNow.AddDate(-1, 0, 0), UpdatedAt: at},
	}

	f := BuildFunnel(leads, opportunities, pipelines, iv)
	require.Len(t, f.Stages, 5)
	byStage := map[string]reportmodels.FunnelStage{}
	for _, st := range f.Stages {
		byStage[st.Stage] = st
	}
	assert.Equal(t, 3, byStage[StageLead].Count)
	assert.Equal(t, 2, byStage[StageQualification].Count)
	assert.Equal(t, 3, byStage[StageProduction].Count)
	assert.True(t, byStage[StageProduction].Value.Equal(dec("60")))
	assert.Equal(t, 1, byStage[StageShipped].Count)
	assert.Equal(t, 2, byStage[StageClosed].Count)
	assert.True(t, byStage[StageClosed].Value.Equal(dec("110")))
	assert.Equal(t, 1, f.Unclassified)

	for _, sc := range f.Statuses {
		assert.Equal(t, 1, sc.Count, sc.Status)
	}

	c := f.Conversion
	assert.Equal(t, 5, c.Leads)
	assert.Equal(t, 2, c.QualifiedLeads)
	assert.Equal(t, 2, c.Opportunities)
	assert.Equal(t, 1, c.OpportunitiesFromLeads)
	assert.Equal(t, 7, c.Pipelines)
	assert.Equal(t, 2, c.ClosedPipelines)
	assert.Equal(t, 40.0, c.QualificationRate)
	assert.Equal(t, 20.0, c.OpportunityRate)
	assert.Equal(t, 350.0, c.PipelineRate)
	assert.Equal(t, 28.57, c.CloseRate)
}

func TestStageForPipeline(t *testing.T) {
	assert.Equal(t, StageProduction, stageForPipeline(crmmodels.PipelineQualityCheck))
	assert.Equal(t, StageShipped, stageForPipeline(crmmodels.PipelineShipped))
	assert.Equal(t, StageClosed, stageForPipeline(crmmodels.PipelinePaymentReceived))
	assert.Equal(t, "", stageForPipeline("LOST"))
}
