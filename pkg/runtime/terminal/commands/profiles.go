package commands

import (
	"fmt"

	"github.com/de-tools/zimport/pkg/services/config"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	ui   UI
	path string
}

func NewProfilesCmd(ui UI) *cobra.Command {
	pc := &ProfilesCmd{ui: ui}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the credential profiles of the profile file",
		Args:  cobra.NoArgs,
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.path, config.KeyConfig, config.DefaultConfigPath(), "Path to the credential profile file")

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	registry, err := config.NewRegistry(pc.path)
	if err != nil {
		return fmt.Errorf("failed to load profile file %s: %w", pc.path, err)
	}

	profiles, err := registry.GetProfiles(cmd.Context())
	if err != nil {
		return err
	}

	for _, name := range profiles {
		values, err := registry.GetProfile(cmd.Context(), name)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(pc.ui.Output, "%s (%d keys)\n", name, len(values))
	}
	return nil
}
