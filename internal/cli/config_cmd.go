package cli

import (
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pixelbar/internal/config"
)

func newConfigCmd() *cobra.Command {
	f := &RunFlags{}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration a run would use after applying PIXELBAR_*
environment variables and flags, and check it the way run would.

Examples:
  pixelbar config
  pixelbar config --filler rainbow --bar load
  PIXELBAR_DISPLAY_WIDTH=16 pixelbar config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	AddRunFlags(cmd, f)
	return cmd
}
