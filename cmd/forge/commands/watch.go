package commands

import "github.com/spf13/cobra"

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir()
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), cwd, buildOptions(cmd))
		},
	}
	addBuildFlags(cmd)
	addRelentlessFlag(cmd)
	return cmd
}
