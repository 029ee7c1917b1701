package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pixelbar/internal/animation"
	"github.com/rileyhilliard/pixelbar/internal/ui"
)

func newRoutinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routines",
		Short: "List the available fillers and bars",
		Long: `List every animation routine pixelbar knows, grouped by role, with the
metrics each one follows.

Examples:
  pixelbar routines`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderRoutineTable(routineRows()))
			fmt.Fprintf(cmd.OutOrStdout(), "sparkle colors: %v\n", animation.ColorFuncNames())
			return nil
		},
	}
}

// routineRows lists fillers first, then bars.
func routineRows() []ui.RoutineRow {
	var rows []ui.RoutineRow
	for _, role := range []animation.Role{animation.RoleFiller, animation.RoleBar} {
		for _, f := range animation.Factories(role) {
			metrics := make([]string, len(f.Metrics))
			for i, m := range f.Metrics {
				metrics[i] = string(m)
			}
			rows = append(rows, ui.RoutineRow{
				Name:        f.Name,
				Role:        string(f.Role),
				Metrics:     metrics,
				Description: f.Description,
			})
		}
	}
	return rows
}
