package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a build would recompile, without running any tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir()
			if err != nil {
				return err
			}
			plan, err := c.app.Plan(cmd.Context(), cwd, buildOptions(cmd))
			if err != nil {
				return err
			}
			PrintPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}
	addBuildFlags(cmd)
	return cmd
}

// PrintPlan writes the rebuild groups of plan in execution order.
func PrintPlan(w io.Writer, plan *domain.Plan) {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())

	header := style.GroupHeader.Renderer(r)
	stale := style.Stale.Renderer(r)
	current := style.Current.Renderer(r)
	muted := style.Muted.Renderer(r)

	for _, group := range plan.Groups {
		_, _ = fmt.Fprintf(w, "%s %s\n",
			header.Render(group.Config.Name()),
			muted.Render(fmt.Sprintf("(%s, %d files)", group.Config.Kind(), len(group.Targets))),
		)
		for _, target := range group.Targets {
			_, _ = fmt.Fprintf(w, "  %s %s\n", stale.Render(style.Tilde), domain.RelativePath(plan.Root, target.Output))
		}
	}

	_, _ = fmt.Fprintf(w, "%s %d to recompile, %d up to date\n",
		current.Render(style.Check), plan.RebuildCount(), len(plan.UpToDate))
	if !plan.Authoritative {
		_, _ = fmt.Fprintf(w, "%s partial analysis, %d files evaluated\n", stale.Render(style.Warning), plan.Evaluated)
	}
}
