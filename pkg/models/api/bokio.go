package api

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amount is a decimal that goes on the wire as a JSON number.
type Amount decimal.Decimal

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = Amount(d)
	return nil
}

type JournalEntryItem struct {
	ID      *uuid.UUID `json:"id,omitempty"`
	Account int32      `json:"account"`
	Debit   Amount     `json:"debit"`
	Credit  Amount     `json:"credit"`
}

type JournalEntry struct {
	ID                       uuid.UUID          `json:"id"`
	Title                    string             `json:"title"`
	JournalEntryNumber       string             `json:"journalEntryNumber"`
	Date                     string             `json:"date"`
	Items                    []JournalEntryItem `json:"items,omitempty"`
	ReversedByJournalEntryID *uuid.UUID         `json:"reversedByJournalEntryId,omitempty"`
	ReversingJournalEntryID  *uuid.UUID         `json:"reversingJournalEntryId,omitempty"`
}

type CreateJournalEntryRequest struct {
	Title string             `json:"title"`
	Date  string             `json:"date"`
	Items []JournalEntryItem `json:"items"`
}

type JournalEntryListResponse struct {
	TotalItems  uint32         `json:"totalItems"`
	TotalPages  uint32         `json:"totalPages"`
	CurrentPage uint32         `json:"currentPage"`
	Items       []JournalEntry `json:"items"`
}

type Upload struct {
	ID             uuid.UUID  `json:"id"`
	Description    string     `json:"description"`
	ContentType    string     `json:"contentType"`
	JournalEntryID *uuid.UUID `json:"journalEntryId,omitempty"`
}
