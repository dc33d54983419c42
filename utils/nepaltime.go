package utils

import "time"

// NepalLocation is the fixed UTC+5:45 offset used for all customer-facing
// timestamps. Nepal does not observe DST, so a fixed zone is sufficient.
var NepalLocation = time.FixedZone("Asia/Kathmandu", (5*60+45)*60)

// NepalTime shifts t into Nepal local time
func NepalTime(t time.Time) time.Time {
	return t.In(NepalLocation)
}

// FormatNepalDateTime formats t as "2006-01-02 15:04" in Nepal time
func FormatNepalDateTime(t time.Time) string {
	return NepalTime(t).Format("2006-01-02 15:04")
}

// FormatNepalDate formats t as "2006-01-02" in Nepal time
func FormatNepalDate(t time.Time) string {
	return NepalTime(t).Format("2006-01-02")
}

// FormatNepalClock formats t as a 12-hour clock reading, e.g. "2:05 PM"
func FormatNepalClock(t time.Time) string {
	return NepalTime(t).Format("3:04 PM")
}

// FormatNepalDateReadable formats t as "2 Jan 2006" in Nepal time
func FormatNepalDateReadable(t time.Time) string {
	return NepalTime(t).Format("2 Jan 2006")
}

// SameNepalDay reports whether a and b fall on the same Nepal calendar day
func SameNepalDay(a, b time.Time) bool {
	ay, am, ad := NepalTime(a).Date()
	by, bm, bd := NepalTime(b).Date()
	return ay == by && am == bm && ad == bd
}

// IsToday reports whether t falls on today's Nepal calendar day
func IsToday(t time.Time) bool {
	return SameNepalDay(t, time.Now())
}
