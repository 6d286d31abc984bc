package domain

import "time"

type SelectionType string

const (
	SelectionToday    SelectionType = "today"
	SelectionDate     SelectionType = "date"
	SelectionInterval SelectionType = "interval"
)

// DateRange is the resolved report window. Start and End are calendar dates
// stored as midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
	Type  SelectionType
}

// CivilDate drops the clock part of t, keeping the date as seen in t's location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
