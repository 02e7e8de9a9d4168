// Package attendancesvc - chấm công hằng ngày của người dùng.
package attendancesvc

import (
	"context"
	"errors"
	"strings"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"
	"sales_crm/internal/utility"
)

// Store các thao tác store mà service cần
type Store interface {
	datastore.AttendanceWriter
	FindAttendances(ctx context.Context, q datastore.Query) ([]attmodels.Attendance, error)
}

// AttendanceService ghi và đọc chấm công. Không chặn trùng trong ngày: báo cáo đếm theo user.
type AttendanceService struct {
	store Store
	now   func() time.Time
}

// NewAttendanceService tạo service với đồng hồ hệ thống
func NewAttendanceService(store Store) *AttendanceService {
	return &AttendanceService{store: store, now: time.Now}
}

// Submit ghi chấm công hôm nay cho user. Status rỗng = PRESENT.
func (s *AttendanceService) Submit(ctx context.Context, userID int64, status attmodels.AttendanceStatus, note string) (*attmodels.Attendance, error) {
	if userID == 0 {
		return nil, common.ErrUnauthorized
	}
	status = attmodels.AttendanceStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if status == "" {
		status = attmodels.AttendancePresent
	}
	if !status.Valid() {
		return nil, common.Wrap(common.ErrInvalidRequest, nil, "status phải là PRESENT, REMOTE hoặc LEAVE")
	}
	a := &attmodels.Attendance{
		UserID: userID,
		Date:   s.now().UTC(),
		Status: status,
		Note:   strings.TrimSpace(note),
	}
	if err := s.store.CreateAttendance(ctx, a); err != nil {
		return nil, asStoreError(err)
	}
	return a, nil
}

// Today các bản ghi của user trong ngày UTC hiện tại
func (s *AttendanceService) Today(ctx context.Context, userID int64) ([]attmodels.Attendance, error) {
	now := s.now()
	rows, err := s.store.FindAttendances(ctx, datastore.Query{
		From:    utility.StartOfDay(now),
		To:      utility.EndOfDay(now),
		UserIDs: []int64{userID},
	})
	if err != nil {
		return nil, asStoreError(err)
	}
	return rows, nil
}

func asStoreError(err error) error {
	var e *common.Error
	if errors.As(err, &e) {
		return err
	}
	return common.Wrap(common.ErrDataAccess, err, nil)
}
