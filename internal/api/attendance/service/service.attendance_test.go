package attendancesvc

import (
	"context"
	"testing"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceService_SubmitAndToday(t *testing.T) {
	store := datastore.NewMemoryStore()
	svc := NewAttendanceService(store)
	now := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	a, err := svc.Submit(ctx, 4, "remote", "  wfh  ")
	require.NoError(t, err)
	assert.Equal(t, attmodels.AttendanceRemote, a.Status)
	assert.Equal(t, "wfh", a.Note)
	assert.NotZero(t, a.ID)

	// nộp lần hai vẫn được ghi nhận
	_, err = svc.Submit(ctx, 4, "", "")
	require.NoError(t, err)

	// bản ghi hôm qua không thuộc hôm nay
	require.NoError(t, store.CreateAttendance(ctx, &attmodels.Attendance{UserID: 4, Date: now.AddDate(0, 0, -1), Status: attmodels.AttendancePresent}))

	rows, err := svc.Today(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.Today(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAttendanceService_SubmitValidation(t *testing.T) {
	svc := NewAttendanceService(datastore.NewMemoryStore())
	_, err := svc.Submit(context.Background(), 4, "ON_VACATION", "")
	assert.ErrorIs(t, err, common.ErrInvalidRequest)

	_, err = svc.Submit(context.Background(), 0, "PRESENT", "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
