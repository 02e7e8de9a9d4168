package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sales_crm/config"
	authmodels "sales_crm/internal/api/auth/models"
	reportdto "sales_crm/internal/api/report/dto"
	reportmodels "sales_crm/internal/api/report/models"
	reportsvc "sales_crm/internal/api/report/service"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"

	"github.com/spf13/cobra"
)

func reportTypeNames() []string {
	names := make([]string, len(reportmodels.ReportTypes))
	for i, t := range reportmodels.ReportTypes {
		names[i] = string(t)
	}
	return names
}

func periodNames() []string {
	return []string{
		string(reportmodels.PeriodWeek),
		string(reportmodels.PeriodMonth),
		string(reportmodels.PeriodQuarter),
		string(reportmodels.PeriodYear),
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		reportType = newEnumValue("", reportTypeNames()...)
		period     = newEnumValue(string(reportmodels.DefaultPeriod), periodNames()...)
		startDate  string
		endDate    string
		asUser     int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Sinh báo cáo với quyền của một user",
		Long: `Sinh báo cáo giống GET /api/v1/reports/:reportType. Quyền xem (toàn bộ hay chỉ dữ liệu của mình)
đọc từ vai trò của user --as trong datastore.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reportType.String() == "" {
				return fmt.Errorf("--type là bắt buộc (%s)", reportType.Allowed())
			}
			rng, err := reportsvc.ParseDateRange(startDate, endDate)
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, _ *config.Configuration, store datastore.Store) error {
				requester, err := requesterFor(ctx, store, asUser)
				if err != nil {
					return err
				}
				res, err := reportsvc.NewReportService(store).Generate(ctx, reportmodels.ReportRequest{
					Type:      reportmodels.ReportType(reportType.String()),
					Period:    period.String(),
					Range:     rng,
					Requester: requester,
				})
				if err != nil {
					return err
				}
				return writeOutput(out(cmd), outputFormat.String(), reportdto.ReportResponse{
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
			})
		},
	}

	cmd.Flags().Var(reportType, "type", "Loại báo cáo: "+reportType.Allowed())
	cmd.Flags().Var(period, "period", "Kỳ báo cáo: "+period.Allowed())
	cmd.Flags().StringVar(&startDate, "start", "", "Ngày bắt đầu (YYYY-MM-DD hoặc RFC 3339), đi cùng --end")
	cmd.Flags().StringVar(&endDate, "end", "", "Ngày kết thúc (YYYY-MM-DD hoặc RFC 3339), đi cùng --start")
	cmd.Flags().Int64Var(&asUser, "as", 0, "ID user thực hiện (bắt buộc)")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

// requesterFor đọc vai trò từ bản ghi user, giống middleware xác thực
func requesterFor(ctx context.Context, store datastore.UserReader, id int64) (authmodels.Requester, error) {
	u, err := store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return authmodels.Requester{}, fmt.Errorf("không tìm thấy user %d", id)
		}
		return authmodels.Requester{}, err
	}
	role, err := authmodels.ParseRole(strings.TrimSpace(u.Role))
	if err != nil {
		return authmodels.Requester{}, common.Wrap(common.ErrUnknownRole, err, nil)
	}
	return authmodels.Requester{ID: u.ID, Role: role}, nil
}
