// Package reporthdl chứa HTTP handler cho domain Report.
package reporthdl

import (
	"errors"
	"time"

	"sales_crm/internal/api/middleware"
	reportdto "sales_crm/internal/api/report/dto"
	reportmodels "sales_crm/internal/api/report/models"
	reportsvc "sales_crm/internal/api/report/service"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ReportHandler xử lý API sinh báo cáo
type ReportHandler struct {
	ReportService *reportsvc.ReportService
}

// NewReportHandler tạo mới ReportHandler
func NewReportHandler(svc *reportsvc.ReportService) *ReportHandler {
	if global.Validate == nil {
		global.InitValidator()
	}
	return &ReportHandler{ReportService: svc}
}

// HandleGetReport xử lý GET /reports/:reportType?period=&startDate=&endDate=
func (h *ReportHandler) HandleGetReport(c fiber.Ctx) error {
	var q reportdto.ReportQuery
	if err := c.Bind().Query(&q); err != nil {
		return middleware.HandleErrorResponse(c, common.Wrap(common.ErrInvalidFormat, err, nil))
	}
	q.ReportType = c.Params("reportType")
	return h.generate(c, q)
}

// HandlePostReport xử lý POST /reports với body JSON {reportType, period, startDate, endDate}
func (h *ReportHandler) HandlePostReport(c fiber.Ctx) error {
	var q reportdto.ReportQuery
	if err := c.Bind().Body(&q); err != nil {
		return middleware.HandleErrorResponse(c, common.Wrap(common.ErrInvalidFormat, err, "Body phải là JSON hợp lệ"))
	}
	return h.generate(c, q)
}

// HandleListTypes xử lý GET /reports: liệt kê loại báo cáo và kỳ hỗ trợ
func (h *ReportHandler) HandleListTypes(c fiber.Ctx) error {
	periods := []string{
		string(reportmodels.PeriodWeek),
		string(reportmodels.PeriodMonth),
		string(reportmodels.PeriodQuarter),
		string(reportmodels.PeriodYear),
	}
	return middleware.JSONResponse(c, common.StatusOK, reportdto.ReportTypesResponse{
		Success:     true,
		ReportTypes: h.ReportService.ReportTypes(),
		Periods:     periods,
	})
}

func (h *ReportHandler) generate(c fiber.Ctx, q reportdto.ReportQuery) error {
	requester, ok := middleware.GetRequester(c)
	if !ok {
		return middleware.HandleErrorResponse(c, common.ErrUnauthorized)
	}
	if err := validateQuery(q); err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	rng, err := reportsvc.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}

	res, err := h.ReportService.Generate(logger.ContextFromRequest(c), reportmodels.ReportRequest{
		Type:      reportmodels.ReportType(q.ReportType),
		Period:    q.Period,
		Range:     rng,
		Requester: requester,
	})
	if err != nil {
		if common.StatusOf(err) >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).WithFields(logrus.Fields{
				"reportType":   q.ReportType,
				"period":       q.Period,
				"requester_id": requester.ID,
			}).Error("📊 [REPORT] Request thất bại")
		}
		return middleware.HandleErrorResponse(c, err)
	}

	logger.LogReport(c, string(res.ReportType), string(res.Period))
	return middleware.JSONResponse(c, common.StatusOK, reportdto.ReportResponse{
		Success:    true,
		ReportType: string(res.ReportType),
		Period:     string(res.Period),
		Range: reportdto.ReportRange{
			Start: res.Interval.Start.UTC().Format(time.RFC3339),
			End:   res.Interval.End.UTC().Format(time.RFC3339),
		},
		Data:        res.Data,
		GeneratedAt: res.GeneratedAt.Format(time.RFC3339),
	})
}

// validateQuery chạy validator và quy lỗi về taxonomy: reportType -> ErrInvalidReportType, ngày -> ErrInvalidDateRange
func validateQuery(q reportdto.ReportQuery) error {
	err := global.Validate.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.Wrap(common.ErrInvalidRequest, err, nil)
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "ReportType":
			return common.Wrap(common.ErrInvalidReportType, nil, map[string]interface{}{
				"reportType": q.ReportType,
				"supported":  reportmodels.ReportTypes,
			})
		case "StartDate", "EndDate":
			return common.Wrap(common.ErrInvalidDateRange, nil, fe.Field()+" không đúng định dạng YYYY-MM-DD hoặc RFC 3339")
		}
	}
	return common.Wrap(common.ErrInvalidRequest, nil, verrs.Error())
}
