package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build caches and outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, _ := cmd.Flags().GetBool("cache")
			outputs, _ := cmd.Flags().GetBool("outputs")
			configFile, _ := cmd.Flags().GetString("config")

			opts := app.CleanOptions{
				ConfigFile: configFile,
				Cache:      cache,
				Outputs:    outputs,
			}
			if !cache && !outputs {
				// Default behavior: clean everything
				opts.Cache = true
				opts.Outputs = true
			}

			cwd, err := workingDir()
			if err != nil {
				return err
			}
			return c.app.Clean(cmd.Context(), cwd, opts)
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to forge.yaml, instead of searching upwards")
	cmd.Flags().Bool("cache", false, "Remove the dependency cache and the target history")
	cmd.Flags().Bool("outputs", false, "Remove the object directory")

	return cmd
}
