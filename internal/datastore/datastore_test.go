package datastore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_crm/config"
	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/database"
)

var base = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	d, err := database.DialectFor(config.DriverSQLite)
	require.NoError(t, err)
	db, err := database.OpenSQLWithDialect(d, ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, d))
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db, d)
}

func ptr[T any](v T) *T { return &v }

// runStoreContract chạy cùng một bộ kiểm tra cho mọi cài đặt Store
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	users := []*authmodels.User{
		{Name: "An", Email: "an@example.com", Role: "sales", EnableNotifications: true},
		{Name: "Binh", Email: "binh@example.com", Role: "admin", EnableNotifications: true},
		{Name: "Chi", Email: "chi@example.com", Role: "sales", EnableNotifications: false},
	}
	for _, u := range users {
		require.NoError(t, s.InsertUser(ctx, u))
		assert.NotZero(t, u.ID)
	}

	pipelines := []*crmmodels.Pipeline{
		{OwnerID: users[0].ID, Status: crmmodels.PipelineShipped, OrderValue: decimal.RequireFromString("100.10"), CreatedAt: base.AddDate(0, 0, -5), UpdatedAt: base.AddDate(0, 0, -1)},
		{OwnerID: users[0].ID, Status: crmmodels.PipelinePaymentReceived, OrderValue: decimal.RequireFromString("200.20"), CreatedAt: base.AddDate(0, 0, -40), UpdatedAt: base},
		{OwnerID: users[2].ID, Status: crmmodels.PipelineQualityCheck, OrderValue: decimal.RequireFromString("50"), CreatedAt: base.AddDate(0, 0, -2), UpdatedAt: base.AddDate(0, 0, -60)},
	}
	for _, p := range pipelines {
		require.NoError(t, s.InsertPipeline(ctx, p))
	}

	t.Run("pipelines by updatedAt inclusive", func(t *testing.T) {
		got, err := s.FindPipelines(ctx, Query{From: base.AddDate(0, 0, -1), To: base})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].OrderValue.Equal(decimal.RequireFromString("100.10")))
		assert.True(t, got[1].UpdatedAt.Equal(base))
	})

	t.Run("pipelines by createdAt and owner", func(t *testing.T) {
		got, err := s.FindPipelines(ctx, Query{From: base.AddDate(0, 0, -10), To: base, TimeField: ByCreatedAt, OwnerID: ptr(users[0].ID)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, crmmodels.PipelineShipped, got[0].Status)
	})

	t.Run("pipelines by status", func(t *testing.T) {
		got, err := s.FindPipelines(ctx, Query{Statuses: []string{string(crmmodels.PipelinePaymentReceived), string(crmmodels.PipelineProjectComplete)}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pipelines[1].ID, got[0].ID)
	})

	t.Run("users filter", func(t *testing.T) {
		got, err := s.FindUsers(ctx, UserFilter{NotificationsEnabled: ptr(true)})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = s.FindUsers(ctx, UserFilter{IDs: []int64{users[2].ID}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Chi", got[0].Name)

		u, err := s.GetUser(ctx, users[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "admin", u.Role)

		_, err = s.GetUser(ctx, 9999)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("attendances", func(t *testing.T) {
		for _, a := range []*attmodels.Attendance{
			{UserID: users[0].ID, Date: base, Status: attmodels.AttendancePresent},
			{UserID: users[0].ID, Date: base.Add(time.Hour), Status: attmodels.AttendanceRemote, Note: "dup"},
			{UserID: users[2].ID, Date: base.AddDate(0, 0, -3), Status: attmodels.AttendancePresent},
		} {
			require.NoError(t, s.CreateAttendance(ctx, a))
		}
		got, err := s.FindAttendances(ctx, Query{From: base.Truncate(24 * time.Hour), To: base.Truncate(24 * time.Hour).Add(24*time.Hour - time.Millisecond)})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = s.FindAttendances(ctx, Query{UserIDs: []int64{users[2].ID}})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("sales sources", func(t *testing.T) {
		leadID := int64(77)
		require.NoError(t, s.InsertLead(ctx, &crmmodels.Lead{ID: leadID, Name: "Lead", Status: crmmodels.LeadQualified, OwnerID: users[0].ID, CreatedDate: base}))
		require.NoError(t, s.InsertOpportunity(ctx, &crmmodels.Opportunity{Name: "Opp", OwnerID: users[0].ID, LeadID: &leadID, CreatedAt: base}))
		require.NoError(t, s.InsertQuotation(ctx, &crmmodels.Quotation{OwnerID: users[0].ID, Status: crmmodels.QuotationSent, TotalValue: decimal.RequireFromString("12.5"), CreatedAt: base, UpdatedAt: base}))
		require.NoError(t, s.InsertImmediateSale(ctx, &crmmodels.ImmediateSale{OwnerID: users[2].ID, CustomerName: "Walk-in", Amount: decimal.RequireFromString("9.99"), SoldAt: base}))

		q := Query{From: base.AddDate(0, 0, -1), To: base}
		leads, err := s.FindLeads(ctx, q)
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, leadID, leads[0].ID)

		opps, err := s.FindOpportunities(ctx, q)
		require.NoError(t, err)
		require.Len(t, opps, 1)
		require.NotNil(t, opps[0].LeadID)
		assert.Equal(t, leadID, *opps[0].LeadID)

		quotes, err := s.FindQuotations(ctx, q)
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.True(t, quotes[0].TotalValue.Equal(decimal.RequireFromString("12.50")))

		sales, err := s.FindImmediateSales(ctx, Query{From: q.From, To: q.To, OwnerID: ptr(users[0].ID)})
		require.NoError(t, err)
		assert.Empty(t, sales)
	})

	t.Run("notifications scoped by user", func(t *testing.T) {
		owner, other := users[0].ID, users[2].ID
		first := &notifmodels.Notification{UserID: owner, Title: "a", Message: "m", Type: notifmodels.NotificationInfo, CreatedAt: base}
		second := &notifmodels.Notification{UserID: owner, Title: "b", Message: "m", Type: notifmodels.NotificationInfo, CreatedAt: base.Add(time.Minute)}
		foreign := &notifmodels.Notification{UserID: other, Title: "c", Message: "m", Type: notifmodels.NotificationInfo, CreatedAt: base}
		for _, n := range []*notifmodels.Notification{first, second, foreign} {
			require.NoError(t, s.CreateNotification(ctx, n))
		}

		list, err := s.ListNotifications(ctx, owner, false, 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b", list[0].Title)

		assert.True(t, errors.Is(s.MarkNotificationRead(ctx, owner, foreign.ID), common.ErrNotFound))
		require.NoError(t, s.MarkNotificationRead(ctx, owner, first.ID))

		unread, err := s.CountUnreadNotifications(ctx, owner)
		require.NoError(t, err)
		assert.EqualValues(t, 1, unread)

		n, err := s.MarkAllNotificationsRead(ctx, owner)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		list, err = s.ListNotifications(ctx, owner, true, 10)
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.True(t, errors.Is(s.DeleteNotification(ctx, other, first.ID), common.ErrNotFound))
		require.NoError(t, s.DeleteNotification(ctx, owner, first.ID))
		list, err = s.ListNotifications(ctx, owner, false, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestSQLStore_SQLite(t *testing.T) {
	runStoreContract(t, newSQLiteStore(t))
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().FindPipelines(ctx, Query{})
	assert.True(t, errors.Is(err, common.ErrDataAccess))
}
