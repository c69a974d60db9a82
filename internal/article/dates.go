package article

import (
	"fmt"
	"strings"
	"time"
)

// MonthNames are the Indonesian month names used by the archive selector.
var MonthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var monthShort = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// layouts without a zone are read in the site time zone
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate accepts the date shapes found in artikel.json. A bare date is
// midnight UTC, a zone-less timestamp is site-local.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = DefaultLocation
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC1123Z, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatShort renders dd.mm.yy, the table-of-contents date label.
func FormatShort(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(orDefault(loc)).Format("02.01.06")
}

// FormatLong renders "2 Januari 2025".
func FormatLong(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(orDefault(loc))
	return fmt.Sprintf("%d %s %d", t.Day(), MonthNames[t.Month()-1], t.Year())
}

// FormatMonthDay renders "2 Jan" for the sidebar.
func FormatMonthDay(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(orDefault(loc))
	return fmt.Sprintf("%d %s", t.Day(), monthShort[t.Month()-1])
}

// FormatISO8601 renders a timestamp with an explicit offset, e.g.
// 2025-01-02T10:00:00.000+07:00.
func FormatISO8601(t time.Time, loc *time.Location) string {
	return t.In(orDefault(loc)).Format("2006-01-02T15:04:05.000-07:00")
}

func orDefault(loc *time.Location) *time.Location {
	if loc == nil {
		return DefaultLocation
	}
	return loc
}
