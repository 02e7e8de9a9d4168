// Package initsvc khởi tạo dữ liệu ban đầu: tài khoản admin đầu tiên và bộ dữ liệu demo cho báo cáo.
// Dùng chung cho server (lúc khởi động) và reportctl seed.
package initsvc

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	"sales_crm/internal/datastore"
	"sales_crm/internal/logger"
	"sales_crm/internal/utility"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store các thao tác ghi/đọc cần cho khởi tạo
type Store interface {
	datastore.FixtureWriter
	datastore.AttendanceWriter
	FindUsers(ctx context.Context, f datastore.UserFilter) ([]authmodels.User, error)
}

// InitService khởi tạo dữ liệu ban đầu
type InitService struct {
	store Store
}

// NewInitService tạo InitService
func NewInitService(store Store) *InitService {
	return &InitService{store: store}
}

// InitAdminUser đảm bảo có user admin với email cho trước. created = false nếu email đã tồn tại.
func (h *InitService) InitAdminUser(ctx context.Context, email, name string) (user *authmodels.User, created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, fmt.Errorf("admin email rỗng")
	}
	users, err := h.store.FindUsers(ctx, datastore.UserFilter{})
	if err != nil {
		return nil, false, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], false, nil
		}
	}
	if name == "" {
		name = "Administrator"
	}
	u := &authmodels.User{Name: name, Email: email, Role: "admin", EnableNotifications: false}
	if err := h.store.InsertUser(ctx, u); err != nil {
		return nil, false, err
	}
	logger.GetAppLogger().WithFields(logrus.Fields{"userId": u.ID, "email": email}).Info("✅ [INIT] Đã tạo admin user")
	return u, true, nil
}

// SeedOptions tham số sinh dữ liệu demo
type SeedOptions struct {
	Users int       // Số nhân viên sales (mặc định 5)
	Days  int       // Số ngày lùi về quá khứ (mặc định 90)
	Now   time.Time // Mốc thời gian (mặc định time.Now)
	Seed  uint64    // Seed để kết quả lặp lại được
}

// SeedSummary số bản ghi đã tạo theo loại
type SeedSummary struct {
	Users          int `json:"users" yaml:"users"`
	Leads          int `json:"leads" yaml:"leads"`
	Opportunities  int `json:"opportunities" yaml:"opportunities"`
	Quotations     int `json:"quotations" yaml:"quotations"`
	Pipelines      int `json:"pipelines" yaml:"pipelines"`
	ImmediateSales int `json:"immediateSales" yaml:"immediateSales"`
	Attendances    int `json:"attendances" yaml:"attendances"`
}

var (
	demoNames     = []string{"An", "Bình", "Chi", "Dũng", "Giang", "Hà", "Khoa", "Lan", "Minh", "Nga"}
	demoCustomers = []string{"Công ty Sao Mai", "Nhà hàng Hồng Phát", "Khách lẻ", "Shop Hoa Mai", "Xưởng Tân Tiến"}
)

// SeedDemo sinh dữ liệu CRM giả lập: leads -> opportunities -> quotations/pipelines, bán trực tiếp và chấm công
func (h *InitService) SeedDemo(ctx context.Context, opts SeedOptions) (SeedSummary, error) {
	if opts.Users <= 0 {
		opts.Users = 5
	}
	if opts.Days <= 0 {
		opts.Days = 90
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	now := opts.Now.UTC()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	var sum SeedSummary

	at := func() time.Time {
		return now.Add(-time.Duration(rng.Int64N(int64(opts.Days) * int64(24*time.Hour))))
	}
	money := func(lo, hi int64) decimal.Decimal {
		cents := lo*100 + rng.Int64N((hi-lo)*100+1)
		return decimal.New(cents, -2)
	}

	sales := make([]authmodels.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		name := demoNames[i%len(demoNames)]
		u := &authmodels.User{
			Name:                name,
			Email:               fmt.Sprintf("sales%d@demo.local", i+1),
			Role:                "sales",
			EnableNotifications: i%4 != 3,
		}
		if err := h.store.InsertUser(ctx, u); err != nil {
			return sum, err
		}
		sales = append(sales, *u)
		sum.Users++
	}

	leadStatuses := []crmmodels.LeadStatus{crmmodels.LeadNew, crmmodels.LeadContacted, crmmodels.LeadQualified, crmmodels.LeadUnqualified, crmmodels.LeadConverted}
	for _, owner := range sales {
		for i := 0; i < 8+rng.IntN(8); i++ {
			lead := &crmmodels.Lead{
				Name:        fmt.Sprintf("Lead %s #%d", owner.Name, i+1),
				Status:      leadStatuses[rng.IntN(len(leadStatuses))],
				OwnerID:     owner.ID,
				CreatedDate: at(),
			}
			if err := h.store.InsertLead(ctx, lead); err != nil {
				return sum, err
			}
			sum.Leads++
			if !lead.Status.IsQualified() {
				continue
			}

			leadID := lead.ID
			opp := &crmmodels.Opportunity{
				Name:      "Cơ hội từ " + lead.Name,
				OwnerID:   owner.ID,
				LeadID:    &leadID,
				CreatedAt: lead.CreatedDate.Add(time.Duration(rng.IntN(72)) * time.Hour),
			}
			if err := h.store.InsertOpportunity(ctx, opp); err != nil {
				return sum, err
			}
			sum.Opportunities++

			if err := h.seedDeal(ctx, rng, opp, money, now, &sum); err != nil {
				return sum, err
			}
		}

		for i := 0; i < rng.IntN(4); i++ {
			sale := &crmmodels.ImmediateSale{
				OwnerID:      owner.ID,
				CustomerName: demoCustomers[rng.IntN(len(demoCustomers))],
				Amount:       money(50, 800),
				SoldAt:       at(),
			}
			if err := h.store.InsertImmediateSale(ctx, sale); err != nil {
				return sum, err
			}
			sum.ImmediateSales++
		}
	}

	// chấm công: ~80% ngày làm việc trong 14 ngày gần nhất
	for _, day := range utility.DaysBetween(now.AddDate(0, 0, -13), now) {
		for _, u := range sales {
			if rng.IntN(10) >= 8 {
				continue
			}
			a := &attmodels.Attendance{
				UserID: u.ID,
				Date:   utility.StartOfDay(day).Add(time.Duration(8+rng.IntN(3)) * time.Hour),
				Status: attmodels.AttendancePresent,
			}
			if rng.IntN(5) == 0 {
				a.Status = attmodels.AttendanceRemote
			}
			if err := h.store.CreateAttendance(ctx, a); err != nil {
				return sum, err
			}
			sum.Attendances++
		}
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"users":     sum.Users,
		"leads":     sum.Leads,
		"pipelines": sum.Pipelines,
	}).Info("🌱 [SEED] Đã sinh dữ liệu demo")
	return sum, nil
}

// seedDeal báo giá cho opportunity, nếu chấp nhận thì tạo pipeline ở một trạng thái ngẫu nhiên
func (h *InitService) seedDeal(ctx context.Context, rng *rand.Rand, opp *crmmodels.Opportunity, money func(int64, int64) decimal.Decimal, now time.Time, sum *SeedSummary) error {
	quoteStatuses := []crmmodels.QuotationStatus{crmmodels.QuotationSent, crmmodels.QuotationAccepted, crmmodels.QuotationAccepted, crmmodels.QuotationRejected}
	value := money(500, 20000)
	quotedAt := clampNow(opp.CreatedAt.Add(time.Duration(24+rng.IntN(96))*time.Hour), now)
	q := &crmmodels.Quotation{
		OpportunityID: opp.ID,
		OwnerID:       opp.OwnerID,
		Status:        quoteStatuses[rng.IntN(len(quoteStatuses))],
		TotalValue:    value,
		CreatedAt:     quotedAt,
		UpdatedAt:     quotedAt,
	}
	if err := h.store.InsertQuotation(ctx, q); err != nil {
		return err
	}
	sum.Quotations++
	if q.Status != crmmodels.QuotationAccepted {
		return nil
	}

	status := crmmodels.PipelineStatuses[rng.IntN(len(crmmodels.PipelineStatuses))]
	p := &crmmodels.Pipeline{
		OpportunityID: opp.ID,
		Status:        status,
		OwnerID:       opp.OwnerID,
		OrderValue:    value,
		CreatedAt:     quotedAt,
		UpdatedAt:     clampNow(quotedAt.Add(time.Duration(rng.IntN(30*24))*time.Hour), now),
	}
	if err := h.store.InsertPipeline(ctx, p); err != nil {
		return err
	}
	sum.Pipelines++
	return nil
}

func clampNow(t, now time.Time) time.Time {
	if t.After(now) {
		return now
	}
	return t
}
