package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Well known ledger accounts shown in the report table.
const (
	AccountCard  uint16 = 1580
	AccountCash  uint16 = 1911
	AccountSwish uint16 = 1932
)

// Report represents a Z-report (end-of-day register closing) fetched from the cashier service
type Report struct {
	SequenceNumber     uint32
	StoreNumber        uint32
	CashRegisterNumber uint32
	FirstReceipt       uint32
	LastReceipt        uint32
	DateCreated        string
	CompanyName        string
	CorporateIdentity  string
	Lines              []ReportLine

	// Raw holds the report exactly as the cashier service returned it.
	Raw []byte
}

// ReportLine is a single transaction total booked on one ledger account
type ReportLine struct {
	AccountNumber uint16
	Amount        decimal.Decimal
}

// Label returns the verification title used both when creating the journal
// entry and when looking for an existing one.
func (r Report) Label() string {
	return fmt.Sprintf("Z, Bu: %d Ka: %d Nr: %d Kv: %d - %d",
		r.StoreNumber,
		r.CashRegisterNumber,
		r.SequenceNumber,
		r.FirstReceipt,
		r.LastReceipt,
	)
}

// Date returns the YYYY-MM-DD prefix of DateCreated.
func (r Report) Date() string {
	if len(r.DateCreated) < 10 {
		return r.DateCreated
	}
	return r.DateCreated[:10]
}

// AccountTotal sums all lines booked on the given account.
func (r Report) AccountTotal(account uint16) decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Lines {
		if line.AccountNumber == account {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// Accounts returns the distinct account numbers in order of first appearance.
func (r Report) Accounts() []uint16 {
	seen := make(map[uint16]struct{}, len(r.Lines))
	accounts := make([]uint16, 0, len(r.Lines))
	for _, line := range r.Lines {
		if _, ok := seen[line.AccountNumber]; ok {
			continue
		}
		seen[line.AccountNumber] = struct{}{}
		accounts = append(accounts, line.AccountNumber)
	}
	return accounts
}

// ReportPage is one page of a paginated report listing
type ReportPage struct {
	CurrentPage    uint32
	TotalPages     uint32
	TotalResources uint32
	Items          []Report
}

// PageRequest selects a page of a paginated listing
type PageRequest struct {
	Page uint32
	Size uint32
}
