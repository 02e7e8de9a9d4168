// Script kiểm tra chất lượng dữ liệu đầu vào của báo cáo.
// Chạy: go run scripts/check_report_data.go
// Cần: cấu hình giống server (config/env/<GO_ENV>.env hoặc biến môi trường)
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"sales_crm/config"
	authmodels "sales_crm/internal/api/auth/models"
	reportmodels "sales_crm/internal/api/report/models"
	reportsvc "sales_crm/internal/api/report/service"
	"sales_crm/internal/datastore"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.NewConfig()
	if cfg == nil {
		log.Fatal("Cấu hình không hợp lệ")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store, err := datastore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Mở datastore lỗi: %v", err)
	}
	defer store.Close(context.Background())
	fmt.Printf("✓ Đã kết nối %s\n\n", cfg.DBDriver)

	// 1. Users: role rỗng sẽ bị từ chối khi xác thực
	users, err := store.FindUsers(ctx, datastore.UserFilter{})
	if err != nil {
		log.Fatalf("Đọc users lỗi: %v", err)
	}
	fmt.Println("=== users ===")
	fmt.Printf("Tổng số: %d\n", len(users))
	var admin *authmodels.User
	for i, u := range users {
		role, err := u.ParsedRole()
		if err != nil {
			fmt.Printf("  ⚠️ user %d (%s) không có role\n", u.ID, u.Email)
			continue
		}
		if admin == nil && authmodels.IsPrivileged(role) {
			admin = &users[i]
		}
	}
	fmt.Println()

	// 2. Pipelines: status ngoài danh sách chuẩn sẽ không vào funnel
	pipelines, err := store.FindPipelines(ctx, datastore.Query{})
	if err != nil {
		log.Fatalf("Đọc pipelines lỗi: %v", err)
	}
	fmt.Println("=== pipelines ===")
	fmt.Printf("Tổng số: %d\n", len(pipelines))
	unknown := 0
	for _, p := range pipelines {
		if p.Status.Ordinal() < 0 {
			unknown++
			if unknown <= 5 {
				fmt.Printf("  ⚠️ pipeline %d có status lạ %q\n", p.ID, p.Status)
			}
		}
		if p.OrderValue.IsNegative() {
			fmt.Printf("  ⚠️ pipeline %d có orderValue âm %s\n", p.ID, p.OrderValue)
		}
	}
	fmt.Printf("Status không xác định: %d\n\n", unknown)

	// 3. Đối chiếu tổng sales tháng này với tổng cộng trực tiếp
	if admin == nil {
		fmt.Println("Không có admin, bỏ qua đối chiếu báo cáo")
		return
	}
	svc := reportsvc.NewReportService(store)
	res, err := svc.Generate(ctx, reportmodels.ReportRequest{
		Type:      reportmodels.ReportSales,
		Period:    string(reportmodels.PeriodMonth),
		Requester: authmodels.Requester{ID: admin.ID, Role: authmodels.RoleAdmin},
	})
	if err != nil {
		log.Fatalf("Sinh báo cáo lỗi: %v", err)
	}
	sales := res.Data.(*reportmodels.SalesReport)

	direct := decimal.Zero
	count := 0
	for _, p := range pipelines {
		if res.Interval.Contains(p.UpdatedAt) {
			direct = direct.Add(p.OrderValue)
			count++
		}
	}
	fmt.Println("=== sales (month) ===")
	fmt.Printf("Báo cáo: %s / %d deal\n", sales.TotalValue.StringFixed(2), sales.DealCount)
	fmt.Printf("Cộng trực tiếp: %s / %d deal\n", direct.StringFixed(2), count)
	if !direct.Equal(sales.TotalValue) || count != sales.DealCount {
		fmt.Println("  ❌ Lệch số liệu")
	} else {
		fmt.Println("  ✓ Khớp")
	}

	fmt.Println("\n✓ Đã kiểm tra xong")
}
