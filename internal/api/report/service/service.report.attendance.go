package reportsvc

import (
	"context"
	"math"
	"sort"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	reportmodels "sales_crm/internal/api/report/models"
	"sales_crm/internal/datastore"
	"sales_crm/internal/utility"
)

// AttendancePool người dùng cần chấm công: bật thông báo và không thuộc nhóm admin.
// Người yêu cầu không phải admin chỉ thấy chính mình.
func AttendancePool(users []authmodels.User, scope Scope) []authmodels.User {
	pool := make([]authmodels.User, 0, len(users))
	for _, u := range users {
		if !u.EnableNotifications || isPrivilegedUser(u) {
			continue
		}
		if scope.OwnerID != nil && u.ID != *scope.OwnerID {
			continue
		}
		pool = append(pool, u)
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool
}

// isPrivilegedUser role rỗng được xem như người dùng thường
func isPrivilegedUser(u authmodels.User) bool {
	role, err := u.ParsedRole()
	return err == nil && authmodels.IsPrivileged(role)
}

// submittedOn tập user id (không trùng) có bản ghi chấm công trong ngày
func submittedOn(attendances []attmodels.Attendance, day time.Time) map[int64]bool {
	from, to := utility.StartOfDay(day), utility.EndOfDay(day)
	seen := make(map[int64]bool)
	for _, a := range attendances {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		seen[a.UserID] = true
	}
	return seen
}

// MissingForDay tách pool thành người đã nộp và người chưa nộp trong ngày (UTC).
// Nhiều bản ghi của cùng một user chỉ tính một lần.
func MissingForDay(pool []authmodels.User, attendances []attmodels.Attendance, day time.Time) (submitted, missing []authmodels.User) {
	seen := submittedOn(attendances, day)
	for _, u := range pool {
		if seen[u.ID] {
			submitted = append(submitted, u)
		} else {
			missing = append(missing, u)
		}
	}
	return submitted, missing
}

// generateAttendance đọc pool và chấm công của các ngày phủ bởi khoảng
func (s *ReportService) generateAttendance(ctx context.Context, iv reportmodels.Interval, scope Scope) (interface{}, error) {
	enabled := true
	users, err := s.store.FindUsers(ctx, datastore.UserFilter{NotificationsEnabled: &enabled})
	if err != nil {
		return nil, err
	}
	pool := AttendancePool(users, scope)
	if len(pool) == 0 || iv.Empty() {
		return BuildAttendanceReport(pool, nil, iv), nil
	}

	ids := make([]int64, 0, len(pool))
	for _, u := range pool {
		ids = append(ids, u.ID)
	}
	attendances, err := s.store.FindAttendances(ctx, datastore.Query{
		From:    utility.StartOfDay(iv.Start),
		To:      utility.EndOfDay(iv.End),
		UserIDs: ids,
	})
	if err != nil {
		return nil, err
	}
	return BuildAttendanceReport(pool, attendances, iv), nil
}

// BuildAttendanceReport tính số ngày thiếu của từng user trên mọi ngày UTC mà khoảng chạm tới.
// Ngày đầu và ngày cuối được tính trọn ngày, nên kỳ week (now-7d..now) gồm 8 ngày, kể cả hôm nay.
func BuildAttendanceReport(pool []authmodels.User, attendances []attmodels.Attendance, iv reportmodels.Interval) *reportmodels.AttendanceReport {
	var days []time.Time
	if !iv.Empty() {
		days = utility.DaysBetween(iv.Start, iv.End)
	}
	report := &reportmodels.AttendanceReport{
		ExpectedCount: len(pool),
		MissingUsers:  []reportmodels.MissingUser{},
		TotalDays:     len(days),
		Days:          make([]reportmodels.AttendanceDay, 0, len(days)),
	}

	submittedDays := make(map[int64]int, len(pool))
	totalSubmissions := 0
	for _, day := range days {
		submitted, missing := MissingForDay(pool, attendances, day)
		for _, u := range submitted {
			submittedDays[u.ID]++
		}
		totalSubmissions += len(submitted)
		report.Days = append(report.Days, reportmodels.AttendanceDay{
			Date:           day.Format("2006-01-02"),
			ExpectedCount:  len(pool),
			SubmittedCount: len(submitted),
			MissingCount:   len(missing),
		})
	}

	if len(days) == 0 {
		return report
	}
	for _, u := range pool {
		done := submittedDays[u.ID]
		if done == len(days) {
			report.SubmittedCount++
			continue
		}
		report.MissingUsers = append(report.MissingUsers, reportmodels.MissingUser{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			DaysSubmitted: done,
			DaysMissed:    len(days) - done,
		})
	}
	sort.SliceStable(report.MissingUsers, func(i, j int) bool {
		return report.MissingUsers[i].DaysMissed > report.MissingUsers[j].DaysMissed
	})

	if slots := len(pool) * len(days); slots > 0 {
		report.SubmissionRate = math.Round(float64(totalSubmissions)/float64(slots)*10000) / 10000
	}
	return report
}
