package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var tableTemplate = template.Must(template.New("reports").Funcs(template.FuncMap{
	"pad":    func(width int, s string) string { return fmt.Sprintf("%-*s", width, s) },
	"amount": func(width int, d decimal.Decimal) string { return fmt.Sprintf("%*s", width, d.StringFixed(2)) },
	"num":    func(width int, n uint32) string { return fmt.Sprintf("%*d", width, n) },
	"dashes": func(width int) string { return strings.Repeat("-", width) },
}).Parse(`| ✅ |   NR | DATE       | {{pad 39 "TITLE"}} |     CARD |     CASH |   SWISH | VERNR |
|---|------|------------|-{{dashes 39}}-|----------|----------|---------|-------|
{{range .}}| {{.Marker}} | {{num 4 .Report.SequenceNumber}} | {{pad 10 .Report.Date}} | {{pad 39 .Report.Label}} | {{amount 8 .Card}} | {{amount 8 .Cash}} | {{amount 7 .Swish}} | {{pad 5 .Number}} |
{{end}}`))

type reportRow struct {
	Marker string
	Report domain.Report
	Card   decimal.Decimal
	Cash   decimal.Decimal
	Swish  decimal.Decimal
	Number string
}

// Reporter prints the report table and session summaries
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

// Present prints one row per record, marking the imported ones.
func (r *Reporter) Present(records []*domain.ImportRecord) error {
	rows := make([]reportRow, 0, len(records))
	for _, rec := range records {
		row := reportRow{
			Marker: " ",
			Report: rec.Report,
			Card:   rec.Report.AccountTotal(domain.AccountCard),
			Cash:   rec.Report.AccountTotal(domain.AccountCash),
			Swish:  rec.Report.AccountTotal(domain.AccountSwish),
		}
		if rec.Imported() {
			row.Marker = "✅"
			row.Number = rec.Entry.JournalEntryNumber
		}
		rows = append(rows, row)
	}

	if err := tableTemplate.Execute(r.writer, rows); err != nil {
		return fmt.Errorf("failed to render report table: %w", err)
	}
	return nil
}

// Header prints what was fetched.
func (r *Reporter) Header(count int, company string, dates domain.DateRange) {
	_, _ = fmt.Fprintf(r.writer, "%d Z-reports for %s (%s - %s)\n",
		count, company, domain.FormatDate(dates.Start), domain.FormatDate(dates.End))
}

// Summary prints how many reports were imported in this session.
func (r *Reporter) Summary(imported, skipped int) {
	_, _ = fmt.Fprintln(r.writer)
	_, _ = fmt.Fprintf(r.writer, "%d Z-reports imported\n", imported)
	if skipped > 0 {
		_, _ = fmt.Fprintf(r.writer, "%d Z-reports already imported\n", skipped)
	}
}
