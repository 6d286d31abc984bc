package journal

import (
	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Build converts a report into a journal entry draft.
// Every report line becomes its own posting, in order. Lines sharing an
// account are not merged.
func Build(report domain.Report) domain.JournalDraft {
	postings := make([]domain.Posting, 0, len(report.Lines))
	for _, line := range report.Lines {
		postings = append(postings, posting(line))
	}

	return domain.JournalDraft{
		Title:    report.Label(),
		Date:     report.Date(),
		Postings: postings,
	}
}

func posting(line domain.ReportLine) domain.Posting {
	return domain.Posting{
		Account: int32(line.AccountNumber),
		Debit:   decimal.Max(line.Amount, decimal.Zero),
		Credit:  decimal.Min(line.Amount, decimal.Zero).Abs(),
	}
}

// Imbalance returns total debit minus total credit. Zero for a balanced draft.
func Imbalance(draft domain.JournalDraft) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range draft.Postings {
		sum = sum.Add(p.Debit).Sub(p.Credit)
	}
	return sum
}
