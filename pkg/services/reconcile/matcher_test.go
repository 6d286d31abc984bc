package reconcile

import (
	"testing"

	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report(seq uint32) domain.Report {
	return domain.Report{
		SequenceNumber:     seq,
		StoreNumber:        1,
		CashRegisterNumber: 1,
		FirstReceipt:       seq * 10,
		LastReceipt:        seq*10 + 9,
		DateCreated:        "2025-03-14T20:00:00",
	}
}

func entry(title string, reversed bool) domain.JournalEntry {
	e := domain.JournalEntry{
		ID:                 uuid.New(),
		JournalEntryNumber: "V" + title[len(title)-2:],
		Title:              title,
	}
	if reversed {
		by := uuid.New()
		e.ReversedBy = &by
	}
	return e
}

func TestMatcher_Match(t *testing.T) {
	reports := []domain.Report{report(1), report(2), report(3)}
	live := entry(report(1).Label(), false)
	reversed := entry(report(2).Label(), true)
	unrelated := entry("Z, Bu: 9 Ka: 9 Nr: 9 Kv: 90 - 99", false)

	records := NewMatcher(nil).Match([]domain.JournalEntry{unrelated, reversed, live}, reports)

	require.Len(t, records, 3)
	assert.Equal(t, uint32(1), records[0].Report.SequenceNumber)
	require.NotNil(t, records[0].Entry)
	assert.Equal(t, live.ID, records[0].Entry.ID)
	assert.Nil(t, records[1].Entry, "reversed entries never match")
	assert.Nil(t, records[2].Entry)
}

func TestMatcher_FirstMatchWins(t *testing.T) {
	first := entry(report(1).Label(), false)
	second := entry(report(1).Label(), false)

	got := NewMatcher(TitleIdentity).Find(report(1), []domain.JournalEntry{first, second})

	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestMatcher_SkipsReversedBeforeLiveDuplicate(t *testing.T) {
	reversed := entry(report(4).Label(), true)
	live := entry(report(4).Label(), false)

	got := NewMatcher(nil).Find(report(4), []domain.JournalEntry{reversed, live})

	require.NotNil(t, got)
	assert.Equal(t, live.ID, got.ID)
}

func TestMatcher_IsIdempotent(t *testing.T) {
	reports := []domain.Report{report(1), report(2)}
	entries := []domain.JournalEntry{entry(report(2).Label(), false)}
	m := NewMatcher(nil)

	first := m.Match(entries, reports)
	second := m.Match(entries, reports)

	assert.Equal(t, first, second)
}

func TestMatcher_TitleRequiresExactEquality(t *testing.T) {
	drifted := entry("Z, Bu: 1  Ka: 1 Nr: 1 Kv: 10 - 19", false)

	assert.Nil(t, NewMatcher(TitleIdentity).Find(report(1), []domain.JournalEntry{drifted}))
	assert.NotNil(t, NewMatcher(SequenceIdentity).Find(report(1), []domain.JournalEntry{drifted}))
}

func TestSequenceIdentity(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{name: "canonical", title: "Z, Bu: 1 Ka: 1 Nr: 7 Kv: 70 - 79", want: true},
		{name: "other receipt range", title: "Z, Bu: 1 Ka: 1 Nr: 7 Kv: 1 - 2", want: true},
		{name: "other register", title: "Z, Bu: 1 Ka: 2 Nr: 7 Kv: 70 - 79", want: false},
		{name: "longer sequence", title: "Z, Bu: 1 Ka: 1 Nr: 77 Kv: 70 - 79", want: false},
		{name: "not a z report", title: "Kassainsättning", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SequenceIdentity(report(7), domain.JournalEntry{Title: tt.title}))
		})
	}
}

func TestLookupIdentity(t *testing.T) {
	fn, err := LookupIdentity("")
	require.NoError(t, err)
	assert.True(t, fn(report(1), domain.JournalEntry{Title: report(1).Label()}))

	_, err = LookupIdentity("fuzzy")
	assert.ErrorContains(t, err, `unknown match strategy "fuzzy"`)
	assert.Equal(t, []string{"sequence", "title"}, IdentityNames())
}

func TestUnmatchedAndPending(t *testing.T) {
	records := NewMatcher(nil).Match(
		[]domain.JournalEntry{entry(report(2).Label(), false)},
		[]domain.Report{report(1), report(2), report(3)},
	)

	assert.Equal(t, []uint32{1, 3}, Unmatched(records))
	assert.Equal(t, 1, CountImported(records))
	assert.Nil(t, PendingBySequence(records, 2))
	assert.Same(t, records[2], PendingBySequence(records, 3))
}
