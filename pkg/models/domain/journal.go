package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalEntry is an existing verification in the bookkeeping service
type JournalEntry struct {
	ID                 uuid.UUID
	JournalEntryNumber string
	Title              string
	Date               string
	ReversedBy         *uuid.UUID
}

// IsReversed reports whether a later entry cancels this one.
func (e JournalEntry) IsReversed() bool {
	return e.ReversedBy != nil
}

// JournalDraft is a journal entry that has not been submitted yet
type JournalDraft struct {
	Title    string
	Date     string
	Postings []Posting
}

// Posting is one debit/credit line of a journal entry
type Posting struct {
	Account int32
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// ImportRecord pairs a fetched report with the journal entry it was booked as, if any.
type ImportRecord struct {
	Report Report
	Entry  *JournalEntry
}

// Imported reports whether the report already has a live journal entry.
func (r *ImportRecord) Imported() bool {
	return r.Entry != nil && !r.Entry.IsReversed()
}
