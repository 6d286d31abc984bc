package daterange

import (
	"time"

	"github.com/de-tools/zimport/pkg/models/domain"
)

// JournalLookback is how far before the report window the journal listing
// starts. Postings are often dated before the report is confirmed.
const JournalLookback = 14 * 24 * time.Hour

// Resolve turns optional start/end dates into a concrete report window.
//
// When both dates are given they are used as-is, even if start is after end.
// When only end is given and it lies after today the window runs from today;
// otherwise it collapses to the single day end.
func Resolve(start, end *time.Time, today time.Time) domain.DateRange {
	today = domain.CivilDate(today)

	var from, to time.Time
	switch {
	case start != nil && end != nil:
		from, to = domain.CivilDate(*start), domain.CivilDate(*end)
	case start != nil:
		from, to = domain.CivilDate(*start), today
	case end != nil:
		e := domain.CivilDate(*end)
		if today.Before(e) {
			from, to = today, e
		} else {
			from, to = e, e
		}
	default:
		from, to = today, today
	}

	return domain.DateRange{
		Start: from,
		End:   to,
		Type:  classify(from, to, today),
	}
}

func classify(from, to, today time.Time) domain.SelectionType {
	if !from.Equal(to) {
		return domain.SelectionInterval
	}
	if from.Equal(today) {
		return domain.SelectionToday
	}
	return domain.SelectionDate
}

// LookbackStart returns the first date to list journal entries from.
func LookbackStart(r domain.DateRange) time.Time {
	return r.Start.Add(-JournalLookback)
}
