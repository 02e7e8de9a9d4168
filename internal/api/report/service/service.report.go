// Package reportsvc engine sinh báo cáo: resolve kỳ, truy vấn store theo phạm vi người yêu cầu,
// gộp dữ liệu trong bộ nhớ và trả payload thuần cho tầng HTTP.
// File: service.report.go - façade, điểm vào duy nhất của handler.
package reportsvc

import (
	"context"
	"errors"
	"time"

	reportmodels "sales_crm/internal/api/report/models"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"
	"sales_crm/internal/logger"
	"sales_crm/internal/registry"

	"github.com/sirupsen/logrus"
)

// Generator sinh payload của một loại báo cáo trên khoảng đã resolve
type Generator func(ctx context.Context, iv reportmodels.Interval, scope Scope) (interface{}, error)

// ReportService façade báo cáo. Không giữ trạng thái giữa các request.
type ReportService struct {
	store      datastore.ReportReader
	now        func() time.Time
	generators *registry.Registry[Generator]
}

// Option tùy chỉnh ReportService
type Option func(*ReportService)

// WithClock thay đồng hồ (dùng trong test và CLI)
func WithClock(now func() time.Time) Option {
	return func(s *ReportService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReportService tạo façade và đăng ký các bộ sinh báo cáo mặc định
func NewReportService(store datastore.ReportReader, opts ...Option) *ReportService {
	s := &ReportService{
		store:      store,
		now:        time.Now,
		generators: registry.NewRegistry[Generator](),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.generators.MustRegister(string(reportmodels.ReportSales), s.generateSales)
	s.generators.MustRegister(string(reportmodels.ReportQuotation), s.generateQuotation)
	s.generators.MustRegister(string(reportmodels.ReportAttendance), s.generateAttendance)
	s.generators.MustRegister(string(reportmodels.ReportPipeline), s.generatePipeline)
	s.generators.MustRegister(string(reportmodels.ReportForecast), s.generateForecast)
	return s
}

// ReportTypes danh sách loại báo cáo đã đăng ký
func (s *ReportService) ReportTypes() []string {
	return s.generators.Keys()
}

// Generate resolve kỳ một lần, gọi bộ sinh tương ứng và đóng gói kết quả
func (s *ReportService) Generate(ctx context.Context, req reportmodels.ReportRequest) (*reportmodels.ReportResult, error) {
	log := logger.WithContext(ctx).WithFields(logrus.Fields{
		"reportType":   req.Type,
		"period":       req.Period,
		"requester_id": req.Requester.ID,
	})

	if req.Requester.ID == 0 {
		return nil, common.ErrUnauthorized
	}
	reportType, ok := reportmodels.ParseReportType(string(req.Type))
	if !ok {
		return nil, common.Wrap(common.ErrInvalidReportType, nil, map[string]interface{}{
			"reportType": req.Type,
			"supported":  s.ReportTypes(),
		})
	}
	gen, ok := s.generators.Get(string(reportType))
	if !ok {
		return nil, common.ErrInvalidReportType
	}

	iv, err := ResolvePeriod(req.Period, req.Range, s.now())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}

	started := time.Now()
	data, err := gen(ctx, iv, ScopeFor(req.Requester))
	if err != nil {
		err = asDataAccess(err)
		log.WithError(err).Error("📊 [REPORT] Sinh báo cáo thất bại")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"resolved_period": iv.Period,
		"duration_ms":     time.Since(started).Milliseconds(),
	}).Debug("📊 [REPORT] Đã sinh báo cáo")

	return &reportmodels.ReportResult{
		ReportType:  reportType,
		Period:      iv.Period,
		Interval:    iv,
		Data:        data,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// asDataAccess lỗi đã phân loại giữ nguyên, còn lại quy về ErrDataAccess
func asDataAccess(err error) error {
	var e *common.Error
	if errors.As(err, &e) {
		return err
	}
	return common.Wrap(common.ErrDataAccess, err, nil)
}
