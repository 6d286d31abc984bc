package commands

import (
	"github.com/de-tools/zimport/pkg/runtime/terminal/export"
	"github.com/de-tools/zimport/pkg/services/config"
	"github.com/spf13/cobra"
)

// ListCmd shows the reconciliation without importing anything.
type ListCmd struct {
	ui     UI
	asJSON bool
}

func NewListCmd(ui UI) *cobra.Command {
	lc := &ListCmd{ui: ui}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the Z-reports of the selected dates and whether they are booked",
		Args:  cobra.NoArgs,
		RunE:  lc.run,
	}

	addSessionFlags(cmd.Flags())
	cmd.Flags().BoolVar(&lc.asJSON, "json", false, "Print the listing as JSON")

	cmd.MarkFlagsMutuallyExclusive(config.KeyDate, config.KeyStartDate)
	cmd.MarkFlagsMutuallyExclusive(config.KeyDate, config.KeyEndDate)

	return cmd
}

func (lc *ListCmd) run(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context(), cmd.Flags(), lc.ui)
	if err != nil {
		return err
	}

	if lc.asJSON {
		return export.NewReporter(lc.ui.Output).Handle(s.cashier.Company(), s.dates, s.records)
	}

	lc.ui.Reporter.Header(len(s.records), s.cashier.Company(), s.dates)
	return lc.ui.Reporter.Present(s.records)
}
