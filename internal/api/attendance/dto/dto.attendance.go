// Package attendancedto chứa DTO cho domain Attendance.
package attendancedto

// AttendanceSubmitInput body cho POST /attendance
type AttendanceSubmitInput struct {
	Status string `json:"status" validate:"omitempty,oneof=PRESENT REMOTE LEAVE present remote leave"`
	Note   string `json:"note" validate:"omitempty,max=500,no_xss"`
}
