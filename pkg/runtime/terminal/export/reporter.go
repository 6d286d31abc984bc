package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/zimport/pkg/models/domain"
)

// ReportRow is one Z-report and its matched journal entry, if any.
type ReportRow struct {
	SequenceNumber     uint32            `json:"sequence_number"`
	StoreNumber        uint32            `json:"store_number"`
	CashRegisterNumber uint32            `json:"cash_register_number"`
	Date               string            `json:"date"`
	Title              string            `json:"title"`
	Accounts           map[uint16]string `json:"accounts"`
	Imported           bool              `json:"imported"`
	JournalEntryNumber string            `json:"journal_entry_number,omitempty"`
	JournalEntryID     string            `json:"journal_entry_id,omitempty"`
}

// Listing is the document written by Handle.
type Listing struct {
	Company   string      `json:"company"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Selection string      `json:"selection"`
	Imported  int         `json:"imported"`
	Pending   int         `json:"pending"`
	Reports   []ReportRow `json:"reports"`
}

// Reporter writes the reconciliation state as a JSON document.
type Reporter struct {
	writer io.Writer
}

// NewReporter writes to writer, stdout when nil.
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

// Handle encodes the records of one session as an indented Listing.
func (c *Reporter) Handle(company string, dates domain.DateRange, records []*domain.ImportRecord) error {
	listing := Listing{
		Company:   company,
		StartDate: domain.FormatDate(dates.Start),
		EndDate:   domain.FormatDate(dates.End),
		Selection: string(dates.Type),
		Reports:   make([]ReportRow, 0, len(records)),
	}

	for _, rec := range records {
		row := ReportRow{
			SequenceNumber:     rec.Report.SequenceNumber,
			StoreNumber:        rec.Report.StoreNumber,
			CashRegisterNumber: rec.Report.CashRegisterNumber,
			Date:               rec.Report.Date(),
			Title:              rec.Report.Label(),
			Accounts:           make(map[uint16]string),
			Imported:           rec.Imported(),
		}
		for _, account := range rec.Report.Accounts() {
			row.Accounts[account] = rec.Report.AccountTotal(account).StringFixed(2)
		}
		if row.Imported {
			row.JournalEntryNumber = rec.Entry.JournalEntryNumber
			row.JournalEntryID = rec.Entry.ID.String()
			listing.Imported++
		} else {
			listing.Pending++
		}
		listing.Reports = append(listing.Reports, row)
	}

	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(listing); err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	return nil
}
