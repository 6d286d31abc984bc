package reconcile

import (
	"github.com/de-tools/zimport/pkg/models/domain"
)

// Matcher pairs fetched reports with existing journal entries
type Matcher struct {
	Identity IdentityFunc
}

// NewMatcher creates a matcher, falling back to TitleIdentity.
func NewMatcher(identity IdentityFunc) *Matcher {
	if identity == nil {
		identity = TitleIdentity
	}
	return &Matcher{Identity: identity}
}

// Find returns the first live entry recording the report, or nil.
func (m *Matcher) Find(report domain.Report, entries []domain.JournalEntry) *domain.JournalEntry {
	for i := range entries {
		if entries[i].IsReversed() {
			continue
		}
		if m.Identity(report, entries[i]) {
			entry := entries[i]
			return &entry
		}
	}
	return nil
}

// Match builds one import record per report, preserving report order.
func (m *Matcher) Match(entries []domain.JournalEntry, reports []domain.Report) []*domain.ImportRecord {
	records := make([]*domain.ImportRecord, 0, len(reports))
	for _, report := range reports {
		records = append(records, &domain.ImportRecord{
			Report: report,
			Entry:  m.Find(report, entries),
		})
	}
	return records
}

// CountImported returns how many records already have a live journal entry.
func CountImported(records []*domain.ImportRecord) int {
	n := 0
	for _, rec := range records {
		if rec.Imported() {
			n++
		}
	}
	return n
}

// Unmatched returns the sequence numbers of records without a journal entry, in record order.
func Unmatched(records []*domain.ImportRecord) []uint32 {
	var seqs []uint32
	for _, rec := range records {
		if !rec.Imported() {
			seqs = append(seqs, rec.Report.SequenceNumber)
		}
	}
	return seqs
}

// PendingBySequence returns the first not yet imported record with the given
// sequence number, or nil.
func PendingBySequence(records []*domain.ImportRecord, seq uint32) *domain.ImportRecord {
	for _, rec := range records {
		if rec.Report.SequenceNumber == seq && !rec.Imported() {
			return rec
		}
	}
	return nil
}
