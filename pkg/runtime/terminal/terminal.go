package terminal

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/de-tools/zimport/pkg/runtime/terminal/commands"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	ui      commands.UI
	logOut  io.Writer
	verbose bool
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	// Input is read for prompts and selections. Masked input is only used
	// when it is a terminal.
	Input *os.File
	// Output receives tables and progress.
	Output io.Writer
	// LogOutput receives log lines, stderr when nil.
	LogOutput io.Writer

	Now        func() time.Time
	HTTPClient *http.Client
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	reader := bufio.NewReader(opts.Input)
	cli := &CLI{
		ui: commands.UI{
			Prompter:   NewPrompter(opts.Input, reader, opts.Output),
			Selector:   NewSelector(reader, opts.Output),
			Reporter:   NewReporter(opts.Output),
			Output:     opts.Output,
			Now:        opts.Now,
			HTTPClient: opts.HTTPClient,
		},
		logOut: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.ExecuteContext(context.Background())
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zimport",
		Short:         "Import EasyCashier Z-reports into Bokio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.InfoLevel
			if cli.verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.logOut, TimeFormat: time.TimeOnly}).
				Level(level).
				With().Timestamp().Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	cmd.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(commands.NewImportCmd(cli.ui))
	cmd.AddCommand(commands.NewListCmd(cli.ui))
	cmd.AddCommand(commands.NewProfilesCmd(cli.ui))

	return cmd
}

// SetArgs overrides the command line arguments, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}
