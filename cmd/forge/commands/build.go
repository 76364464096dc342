package commands

import "github.com/spf13/cobra"

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Recompile every stale target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir()
			if err != nil {
				return err
			}
			return c.app.Build(cmd.Context(), cwd, buildOptions(cmd))
		},
	}
	addBuildFlags(cmd)
	addRelentlessFlag(cmd)
	return cmd
}
