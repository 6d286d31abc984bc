package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/zimport/pkg/adapters"
	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/de-tools/zimport/pkg/services/journal"
	"github.com/de-tools/zimport/pkg/services/reconcile"
	"github.com/de-tools/zimport/pkg/store/artifacts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const pdfMimeType = "application/pdf"

// CashierService is the part of the cashier back office the import needs.
type CashierService interface {
	FetchReportPDF(ctx context.Context, report domain.Report) ([]byte, string, error)
}

// JournalService is the part of the bookkeeping service the import needs.
type JournalService interface {
	CreateJournalEntry(ctx context.Context, draft domain.JournalDraft) (*domain.JournalEntry, error)
	UploadAttachment(ctx context.Context, filename string, data []byte, mimeType string, journalEntryID uuid.UUID) error
}

// ArtifactStore persists the local evidence of an import.
type ArtifactStore interface {
	SaveFile(name string, data []byte) (string, error)
	SaveRawJSON(name string, raw []byte) (string, error)
	SaveJSON(name string, v any) (string, error)
}

// Selector asks which of the candidate sequence numbers to import.
// An empty selection ends the session.
type Selector interface {
	Select(candidates []uint32) ([]uint32, error)
}

// Presenter shows the current state of all records.
type Presenter interface {
	Present(records []*domain.ImportRecord) error
}

// Dependencies are the collaborators of an Importer.
type Dependencies struct {
	Cashier   CashierService
	Journal   JournalService
	Artifacts ArtifactStore
	Selector  Selector
	Presenter Presenter
	Output    io.Writer
}

// Importer drives the present, select and import loop.
type Importer struct {
	cashier   CashierService
	journal   JournalService
	artifacts ArtifactStore
	selector  Selector
	presenter Presenter
	out       io.Writer
}

// New creates an Importer. Progress goes to deps.Output, stdout when nil.
func New(deps Dependencies) *Importer {
	if deps.Output == nil {
		deps.Output = os.Stdout
	}
	return &Importer{
		cashier:   deps.Cashier,
		journal:   deps.Journal,
		artifacts: deps.Artifacts,
		selector:  deps.Selector,
		presenter: deps.Presenter,
		out:       deps.Output,
	}
}

// Result summarises one session.
type Result struct {
	// Imported is the number of reports booked during the session.
	Imported int
	// Skipped is the number of reports that were already booked before it.
	Skipped int
}

// ImportError reports a failed import of a single report.
type ImportError struct {
	Sequence uint32
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("z-report %d: %v", e.Sequence, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Run loops until the selector returns nothing or no unmatched report is left.
// Within a batch the first failed report stops the batch; reports imported
// before it stay imported. Artifact write failures end the session.
func (i *Importer) Run(ctx context.Context, records []*domain.ImportRecord) (Result, error) {
	logger := zerolog.Ctx(ctx)
	skipped := reconcile.CountImported(records)
	result := Result{Skipped: skipped}

	for {
		if err := i.presenter.Present(records); err != nil {
			return result, fmt.Errorf("failed to present reports: %w", err)
		}

		candidates := reconcile.Unmatched(records)
		if len(candidates) == 0 {
			break
		}

		selected, err := i.selector.Select(candidates)
		if err != nil {
			return result, fmt.Errorf("failed to read selection: %w", err)
		}
		if len(selected) == 0 {
			break
		}

		for _, seq := range selected {
			rec := reconcile.PendingBySequence(records, seq)
			if rec == nil {
				continue
			}

			entry, err := i.ImportOne(ctx, rec)
			if err != nil {
				if errors.Is(err, domain.ErrArtifactWrite) {
					result.Imported = reconcile.CountImported(records) - skipped
					return result, err
				}
				logger.Error().Err(err).Uint32("sequence", seq).Msg("import failed, skipping the rest of the selection")
				break
			}
			rec.Entry = entry
		}
	}

	result.Imported = reconcile.CountImported(records) - skipped
	return result, nil
}

// ImportOne fetches the PDF, writes the local artifacts, books the journal
// entry and attaches the PDF to it. A failed upload is logged and does not
// fail the import.
func (i *Importer) ImportOne(ctx context.Context, rec *domain.ImportRecord) (*domain.JournalEntry, error) {
	logger := zerolog.Ctx(ctx)
	report := rec.Report
	seq := report.SequenceNumber

	_, _ = fmt.Fprintf(i.out, "Importing Z-report %d ...\n", seq)

	_, _ = fmt.Fprint(i.out, "* Fetching PDF... ")
	pdf, pdfName, err := i.cashier.FetchReportPDF(ctx, report)
	if err != nil {
		_, _ = fmt.Fprintln(i.out)
		return nil, &ImportError{Sequence: seq, Err: fmt.Errorf("%w: %w", domain.ErrPDFFetch, err)}
	}
	_, _ = fmt.Fprintln(i.out, pdfName)

	if _, err := i.artifacts.SaveFile(pdfName, pdf); err != nil {
		return nil, &ImportError{Sequence: seq, Err: err}
	}

	reportName := artifacts.ReportSnapshotName(pdfName)
	_, _ = fmt.Fprintf(i.out, "* Saving %s...", reportName)
	if _, err := i.artifacts.SaveRawJSON(reportName, report.Raw); err != nil {
		_, _ = fmt.Fprintln(i.out)
		return nil, &ImportError{Sequence: seq, Err: err}
	}

	draft := journal.Build(report)
	if imbalance := journal.Imbalance(draft); !imbalance.IsZero() {
		logger.Debug().Uint32("sequence", seq).Str("imbalance", imbalance.String()).Msg("journal draft does not balance")
	}

	journalName := artifacts.JournalSnapshotName(pdfName)
	_, _ = fmt.Fprintf(i.out, " %s...\n", journalName)
	if _, err := i.artifacts.SaveJSON(journalName, adapters.MapDomainJournalDraftToAPI(draft)); err != nil {
		return nil, &ImportError{Sequence: seq, Err: err}
	}

	_, _ = fmt.Fprintf(i.out, "* Booking Z-report %d... ", seq)
	entry, err := i.journal.CreateJournalEntry(ctx, draft)
	if err != nil {
		_, _ = fmt.Fprintln(i.out)
		return nil, &ImportError{Sequence: seq, Err: fmt.Errorf("%w: %w", domain.ErrJournalCreate, err)}
	}
	_, _ = fmt.Fprintln(i.out, entry.JournalEntryNumber)

	_, _ = fmt.Fprintln(i.out, "* Uploading evidence")
	if err := i.journal.UploadAttachment(ctx, pdfName, pdf, pdfMimeType, entry.ID); err != nil {
		logger.Error().Err(err).
			Uint32("sequence", seq).
			Str("journal_entry", entry.JournalEntryNumber).
			Msg("failed to upload pdf to journal entry")
	}

	return entry, nil
}
