// Package models - bản ghi chấm công hằng ngày (attendances).
package models

import "time"

// AttendanceStatus hình thức làm việc trong ngày
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceRemote  AttendanceStatus = "REMOTE"
	AttendanceLeave   AttendanceStatus = "LEAVE"
)

// Valid kiểm tra status có thuộc tập cho phép
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceRemote, AttendanceLeave:
		return true
	}
	return false
}

// Attendance bản ghi chấm công. Không có ràng buộc unique theo (userId, ngày):
// các báo cáo phải đếm user phân biệt thay vì đếm bản ghi.
type Attendance struct {
	ID     int64            `json:"id" bson:"_id"`
	UserID int64            `json:"userId" bson:"userId" index:"single:1,compound:attendance_user_date"`
	Date   time.Time        `json:"date" bson:"date" index:"single:1,compound:attendance_user_date"`
	Status AttendanceStatus `json:"status" bson:"status"`
	Note   string           `json:"note,omitempty" bson:"note,omitempty"`
}
