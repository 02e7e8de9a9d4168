package utility

import "time"

// StartOfDay trả về 00:00:00.000 UTC của ngày chứa t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay trả về 23:59:59.999 UTC của ngày chứa t (biên bao gồm, độ chính xác millisecond)
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// DaysBetween liệt kê các ngày (00:00 UTC) từ ngày của start tới ngày của end, rỗng nếu start > end
func DaysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	last := StartOfDay(end)
	for d := StartOfDay(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
