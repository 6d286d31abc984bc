package daterange

import (
	"testing"
	"time"

	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestResolve(t *testing.T) {
	today := time.Date(2025, 3, 14, 15, 30, 0, 0, time.Local)

	tests := []struct {
		name      string
		start     *time.Time
		end       *time.Time
		wantStart string
		wantEnd   string
		wantType  domain.SelectionType
	}{
		{
			name:      "neither given",
			wantStart: "2025-03-14",
			wantEnd:   "2025-03-14",
			wantType:  domain.SelectionToday,
		},
		{
			name:      "both given",
			start:     ptr("2025-03-01"),
			end:       ptr("2025-03-10"),
			wantStart: "2025-03-01",
			wantEnd:   "2025-03-10",
			wantType:  domain.SelectionInterval,
		},
		{
			name:      "both given same past day",
			start:     ptr("2025-03-10"),
			end:       ptr("2025-03-10"),
			wantStart: "2025-03-10",
			wantEnd:   "2025-03-10",
			wantType:  domain.SelectionDate,
		},
		{
			name:      "only start",
			start:     ptr("2025-03-01"),
			wantStart: "2025-03-01",
			wantEnd:   "2025-03-14",
			wantType:  domain.SelectionInterval,
		},
		{
			name:      "only start today",
			start:     ptr("2025-03-14"),
			wantStart: "2025-03-14",
			wantEnd:   "2025-03-14",
			wantType:  domain.SelectionToday,
		},
		{
			name:      "only end in the past collapses to that day",
			end:       ptr("2025-03-02"),
			wantStart: "2025-03-02",
			wantEnd:   "2025-03-02",
			wantType:  domain.SelectionDate,
		},
		{
			name:      "only end today",
			end:       ptr("2025-03-14"),
			wantStart: "2025-03-14",
			wantEnd:   "2025-03-14",
			wantType:  domain.SelectionToday,
		},
		{
			name:      "only end in the future runs from today",
			end:       ptr("2025-03-20"),
			wantStart: "2025-03-14",
			wantEnd:   "2025-03-20",
			wantType:  domain.SelectionInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.start, tt.end, today)

			assert.Equal(t, tt.wantStart, domain.FormatDate(got.Start))
			assert.Equal(t, tt.wantEnd, domain.FormatDate(got.End))
			assert.Equal(t, tt.wantType, got.Type)
		})
	}
}

func TestResolve_NeverInvertsWhenOneSideMissing(t *testing.T) {
	today := date("2025-03-14")
	for offset := -40; offset <= 40; offset++ {
		d := today.AddDate(0, 0, offset)

		for _, r := range []domain.DateRange{
			Resolve(&d, nil, today),
			Resolve(nil, &d, today),
		} {
			if d.After(today) && r.Start.Equal(d) {
				// only-start in the future is the caller's responsibility
				continue
			}
			assert.False(t, r.Start.After(r.End), "offset %d: %s > %s", offset, r.Start, r.End)
		}
	}
}

func TestResolve_BothGivenIsPassedThrough(t *testing.T) {
	got := Resolve(ptr("2025-03-10"), ptr("2025-03-01"), date("2025-03-14"))

	assert.Equal(t, "2025-03-10", domain.FormatDate(got.Start))
	assert.Equal(t, "2025-03-01", domain.FormatDate(got.End))
	assert.Equal(t, domain.SelectionInterval, got.Type)
}

func TestLookbackStart(t *testing.T) {
	r := Resolve(ptr("2025-03-10"), ptr("2025-03-12"), date("2025-03-14"))

	assert.Equal(t, "2025-02-24", domain.FormatDate(LookbackStart(r)))
}
