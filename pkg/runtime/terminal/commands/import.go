package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/de-tools/zimport/pkg/services/config"
	"github.com/de-tools/zimport/pkg/services/importer"
	"github.com/de-tools/zimport/pkg/store/artifacts"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	ui UI
}

func NewImportCmd(ui UI) *cobra.Command {
	ic := &ImportCmd{ui: ui}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Book EasyCashier Z-reports as Bokio journal entries",
		Long: `Lists the Z-reports of the selected dates, shows which of them already have a
journal entry in Bokio and asks which of the remaining ones to import.

Every imported report leaves its PDF, the raw report and the journal entry
request in the output directory.`,
		Args: cobra.NoArgs,
		RunE: ic.run,
	}

	addSessionFlags(cmd.Flags())
	cmd.Flags().String(config.KeyOutputDir, ".", "Directory the PDF and JSON artifacts are written to")

	cmd.MarkFlagsMutuallyExclusive(config.KeyDate, config.KeyStartDate)
	cmd.MarkFlagsMutuallyExclusive(config.KeyDate, config.KeyEndDate)

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, err := openSession(ctx, cmd.Flags(), ic.ui)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.settings.OutputDir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrArtifactWrite, err)
	}

	ic.ui.Reporter.Header(len(s.records), s.cashier.Company(), s.dates)
	if len(s.records) == 0 {
		return nil
	}

	imp := importer.New(importer.Dependencies{
		Cashier:   s.cashier,
		Journal:   s.bokio,
		Artifacts: artifacts.NewStore(s.settings.OutputDir),
		Selector:  ic.ui.Selector,
		Presenter: ic.ui.Reporter,
		Output:    ic.ui.Output,
	})

	result, err := imp.Run(ctx, s.records)
	ic.ui.Reporter.Summary(result.Imported, result.Skipped)
	return err
}
