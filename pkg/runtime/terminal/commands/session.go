package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/de-tools/zimport/pkg/services/config"
	"github.com/de-tools/zimport/pkg/services/daterange"
	"github.com/de-tools/zimport/pkg/services/importer"
	"github.com/de-tools/zimport/pkg/services/reconcile"
	"github.com/de-tools/zimport/pkg/store/client"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// Reporter renders the report table and the session summary.
type Reporter interface {
	importer.Presenter
	Header(count int, company string, dates domain.DateRange)
	Summary(imported, skipped int)
}

// UI bundles the operator facing parts the commands need.
type UI struct {
	Prompter config.CredentialPrompter
	Selector importer.Selector
	Reporter Reporter
	Output   io.Writer
	// Now returns the current time; the report window is resolved against it.
	Now        func() time.Time
	HTTPClient *http.Client
}

func (ui UI) now() time.Time {
	if ui.Now == nil {
		return time.Now()
	}
	return ui.Now()
}

// session is a logged in pair of services together with the reconciled
// reports of the requested window.
type session struct {
	settings *config.Settings
	cashier  *client.EasyCashier
	bokio    *client.Bokio
	dates    domain.DateRange
	records  []*domain.ImportRecord
}

func openSession(ctx context.Context, flags *pflag.FlagSet, ui UI) (*session, error) {
	logger := zerolog.Ctx(ctx)

	settings, err := config.Load(ctx, flags)
	if err != nil {
		return nil, err
	}
	if err := settings.Complete(ui.Prompter); err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	identity, err := reconcile.LookupIdentity(settings.Match)
	if err != nil {
		return nil, err
	}

	start, end, err := settings.Dates()
	if err != nil {
		return nil, err
	}
	dates := daterange.Resolve(start, end, ui.now())

	httpClient := ui.HTTPClient
	if httpClient == nil {
		httpClient = client.NewHTTPClient()
	}

	cashier, err := client.LoginEasyCashier(ctx, httpClient,
		settings.EasyCashierURL, settings.EasyCashierUsername, settings.EasyCashierPassword, settings.EasyCashierCompany)
	if err != nil {
		return nil, err
	}
	bokio := client.NewBokio(httpClient, settings.BokioAPIURL, settings.BokioCompanyID, settings.BokioAPIToken)

	lookback := daterange.LookbackStart(dates)
	entries, err := bokio.ListJournalEntries(ctx, &lookback, &dates.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	reports, err := cashier.ListAllReports(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to list z-reports: %w", err)
	}

	records := reconcile.NewMatcher(identity).Match(entries, reports)
	logger.Debug().
		Str("selection", string(dates.Type)).
		Int("journal_entries", len(entries)).
		Int("reports", len(records)).
		Int("imported", reconcile.CountImported(records)).
		Msg("reconciled z-reports")

	return &session{
		settings: settings,
		cashier:  cashier,
		bokio:    bokio,
		dates:    dates,
		records:  records,
	}, nil
}

func addSessionFlags(flags *pflag.FlagSet) {
	config.RegisterFlags(flags)
	flags.String(config.KeyMatch, reconcile.DefaultIdentity,
		fmt.Sprintf("How reports are matched to journal entries %v", reconcile.IdentityNames()))
}
