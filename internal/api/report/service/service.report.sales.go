package reportsvc

import (
	"context"
	"math"

	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	reportmodels "sales_crm/internal/api/report/models"
	"sales_crm/internal/datastore"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// UnknownOwnerName tên hiển thị khi owner không còn trong bảng users
const UnknownOwnerName = "Unknown"

// Các tầng của phễu, theo thứ tự cố định
const (
	StageLead          = "lead"
	StageQualification = "qualification"
	StageProduction    = "production"
	StageShipped       = "shipped"
	StageClosed        = "closed"
)

type funnelStageDef struct {
	key   string
	label string
	color string
}

var funnelStages = []funnelStageDef{
	{StageLead, "Leads", "#94a3b8"},
	{StageQualification, "Qualified", "#60a5fa"},
	{StageProduction, "In Production", "#f59e0b"},
	{StageShipped, "Shipped", "#8b5cf6"},
	{StageClosed, "Closed", "#22c55e"},
}

var pipelineStatusColors = map[crmmodels.PipelineStatus]string{
	crmmodels.PipelineProductionStarted: "#fbbf24",
	crmmodels.PipelineQualityCheck:      "#f97316",
	crmmodels.PipelinePackingShipping:   "#a855f7",
	crmmodels.PipelineShipped:           "#6366f1",
	crmmodels.PipelineProjectComplete:   "#10b981",
	crmmodels.PipelinePaymentReceived:   "#059669",
}

// stageForPipeline ánh xạ ordinal trạng thái vào tầng phễu; "" nếu trạng thái lạ
func stageForPipeline(s crmmodels.PipelineStatus) string {
	switch o := s.Ordinal(); {
	case o < 0:
		return ""
	case o <= crmmodels.PipelinePackingShipping.Ordinal():
		return StageProduction
	case o == crmmodels.PipelineShipped.Ordinal():
		return StageShipped
	default:
		return StageClosed
	}
}

// generateSales đọc pipelines (updatedAt), đơn bán trực tiếp và tên owner song song rồi gộp
func (s *ReportService) generateSales(ctx context.Context, iv reportmodels.Interval, scope Scope) (interface{}, error) {
	var (
		pipelines []crmmodels.Pipeline
		sales     []crmmodels.ImmediateSale
		users     []authmodels.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pipelines, err = s.store.FindPipelines(gctx, scope.query(iv, datastore.ByUpdatedAt))
		return err
	})
	g.Go(func() (err error) {
		sales, err = s.store.FindImmediateSales(gctx, scope.query(iv, ""))
		return err
	})
	g.Go(func() (err error) {
		users, err = s.store.FindUsers(gctx, scope.userFilter())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := AggregateSales(pipelines, ownerNames(users), iv)
	report.ImmediateSales = SummarizeImmediateSales(sales, iv)
	return report, nil
}

// generateQuotation cùng cấu trúc với sales nhưng trên quotations, không có immediateSales
func (s *ReportService) generateQuotation(ctx context.Context, iv reportmodels.Interval, scope Scope) (interface{}, error) {
	var (
		quotations []crmmodels.Quotation
		users      []authmodels.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		quotations, err = s.store.FindQuotations(gctx, scope.query(iv, ""))
		return err
	})
	g.Go(func() (err error) {
		users, err = s.store.FindUsers(gctx, scope.userFilter())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return AggregateQuotations(quotations, ownerNames(users), iv), nil
}

// generatePipeline báo cáo phễu: leads theo createdDate, opportunities và pipelines theo createdAt
func (s *ReportService) generatePipeline(ctx context.Context, iv reportmodels.Interval, scope Scope) (interface{}, error) {
	var (
		leads         []crmmodels.Lead
		opportunities []crmmodels.Opportunity
		pipelines     []crmmodels.Pipeline
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		leads, err = s.store.FindLeads(gctx, scope.query(iv, ""))
		return err
	})
	g.Go(func() (err error) {
		opportunities, err = s.store.FindOpportunities(gctx, scope.query(iv, ""))
		return err
	})
	g.Go(func() (err error) {
		pipelines, err = s.store.FindPipelines(gctx, scope.query(iv, datastore.ByCreatedAt))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return BuildFunnel(leads, opportunities, pipelines, iv), nil
}

func ownerNames(users []authmodels.User) map[int64]string {
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

func newSalesReport() *reportmodels.SalesReport {
	return &reportmodels.SalesReport{
		TotalValue: decimal.Zero,
		ByStatus:   make(map[string]reportmodels.ValueBreakdown),
		ByOwner:    make(map[int64]reportmodels.OwnerBreakdown),
	}
}

func (s Scope) userFilter() datastore.UserFilter {
	if s.OwnerID == nil {
		return datastore.UserFilter{}
	}
	return datastore.UserFilter{IDs: []int64{*s.OwnerID}}
}

// addDeal cộng một deal vào tổng, nhóm theo status và owner
func addDeal(r *reportmodels.SalesReport, status string, ownerID int64, value decimal.Decimal, names map[int64]string) {
	r.TotalValue = r.TotalValue.Add(value)
	r.DealCount++

	b := r.ByStatus[status]
	b.Count++
	b.Value = b.Value.Add(value)
	r.ByStatus[status] = b

	o, ok := r.ByOwner[ownerID]
	if !ok {
		name, found := names[ownerID]
		if !found || name == "" {
			name = UnknownOwnerName
		}
		o = reportmodels.OwnerBreakdown{OwnerID: ownerID, OwnerName: name, Value: decimal.Zero}
	}
	o.Count++
	o.Value = o.Value.Add(value)
	r.ByOwner[ownerID] = o
}

// AggregateSales gộp các pipeline có updatedAt trong khoảng
func AggregateSales(pipelines []crmmodels.Pipeline, names map[int64]string, iv reportmodels.Interval) *reportmodels.SalesReport {
	r := newSalesReport()
	for _, p := range pipelines {
		if !iv.Contains(p.UpdatedAt) {
			continue
		}
		addDeal(r, string(p.Status), p.OwnerID, p.OrderValue, names)
	}
	return r
}

// AggregateQuotations gộp các báo giá có updatedAt trong khoảng
func AggregateQuotations(quotations []crmmodels.Quotation, names map[int64]string, iv reportmodels.Interval) *reportmodels.SalesReport {
	r := newSalesReport()
	for _, q := range quotations {
		if !iv.Contains(q.UpdatedAt) {
			continue
		}
		addDeal(r, string(q.Status), q.OwnerID, q.TotalValue, names)
	}
	return r
}

// SummarizeImmediateSales đếm và cộng đơn bán trực tiếp theo soldAt
func SummarizeImmediateSales(sales []crmmodels.ImmediateSale, iv reportmodels.Interval) *reportmodels.ImmediateSalesSummary {
	sum := &reportmodels.ImmediateSalesSummary{TotalValue: decimal.Zero}
	for _, s := range sales {
		if !iv.Contains(s.SoldAt) {
			continue
		}
		sum.Count++
		sum.TotalValue = sum.TotalValue.Add(s.Amount)
	}
	return sum
}

// BuildFunnel luôn trả đủ 5 tầng và đủ 6 trạng thái pipeline, kể cả khi bằng 0
func BuildFunnel(leads []crmmodels.Lead, opportunities []crmmodels.Opportunity, pipelines []crmmodels.Pipeline, iv reportmodels.Interval) *reportmodels.FunnelReport {
	stages := make(map[string]*reportmodels.FunnelStage, len(funnelStages))
	out := &reportmodels.FunnelReport{
		Stages:   make([]reportmodels.FunnelStage, 0, len(funnelStages)),
		Statuses: make([]reportmodels.StatusCount, 0, len(crmmodels.PipelineStatuses)),
	}
	for _, def := range funnelStages {
		out.Stages = append(out.Stages, reportmodels.FunnelStage{
			Stage: def.key,
			Label: def.label,
			Value: decimal.Zero,
			Color: def.color,
		})
	}
	for i := range out.Stages {
		stages[out.Stages[i].Stage] = &out.Stages[i]
	}

	conv := &out.Conversion
	for _, l := range leads {
		if !iv.Contains(l.CreatedDate) {
			continue
		}
		conv.Leads++
		if l.Status.IsQualified() {
			conv.QualifiedLeads++
			stages[StageQualification].Count++
		} else {
			stages[StageLead].Count++
		}
	}

	for _, o := range opportunities {
		if !iv.Contains(o.CreatedAt) {
			continue
		}
		conv.Opportunities++
		if o.LeadID != nil {
			conv.OpportunitiesFromLeads++
		}
	}

	statusCounts := make(map[crmmodels.PipelineStatus]int, len(crmmodels.PipelineStatuses))
	for _, p := range pipelines {
		if !iv.Contains(p.CreatedAt) {
			continue
		}
		conv.Pipelines++
		stage := stageForPipeline(p.Status)
		if stage == "" {
			out.Unclassified++
			continue
		}
		statusCounts[p.Status]++
		st := stages[stage]
		st.Count++
		st.Value = st.Value.Add(p.OrderValue)
		if p.Status.IsClosed() {
			conv.ClosedPipelines++
		}
	}
	for _, status := range crmmodels.PipelineStatuses {
		out.Statuses = append(out.Statuses, reportmodels.StatusCount{
			Status: string(status),
			Count:  statusCounts[status],
			Color:  pipelineStatusColors[status],
		})
	}

	conv.QualificationRate = percent(conv.QualifiedLeads, conv.Leads)
	conv.OpportunityRate = percent(conv.OpportunitiesFromLeads, conv.Leads)
	conv.PipelineRate = percent(conv.Pipelines, conv.Opportunities)
	conv.CloseRate = percent(conv.ClosedPipelines, conv.Pipelines)
	return out
}

// percent part/total*100 làm tròn 2 chữ số, 0 nếu total = 0
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
