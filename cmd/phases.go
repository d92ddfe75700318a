package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var phasesCmd = &cobra.Command{
	Use:     "phases [ID]",
	Aliases: []string{"order"},
	Short:   "Show the plan's phase placement",
	Long: `Computes the dependency-respecting task order and buckets it into
beginning, middle, and end phases. With an ID argument, shows the placement
of a single task. Requires a valid dependency graph.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPhases,
}

func init() {
	rootCmd.AddCommand(phasesCmd)
}

// phaseRow is the JSON shape for one placed task.
type phaseRow struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Phase phase.Phase `json:"phase"`
	Index int         `json:"index"`
}

func runPhases(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tasks, err := task.ReadAll(cfg.TasksPath())
	if err != nil {
		return err
	}

	// Placement is only defined on a valid graph.
	if result := plan.ValidateGraph(tasks); !result.OK {
		return plan.GraphError(result)
	}

	placement := plan.Placement(tasks)

	if len(args) == 1 {
		return outputSinglePosition(placement, tasks, args[0])
	}

	if outputFormat() == output.FormatJSON {
		byID := task.ByID(tasks)
		rows := make([]phaseRow, 0, len(tasks))
		for _, id := range placement.Order() {
			pos, ok := placement.Position(id)
			if !ok {
				continue
			}
			title := ""
			if t, found := byID[id]; found {
				title = t.Title
			}
			rows = append(rows, phaseRow{ID: id, Title: title, Phase: pos.Phase, Index: pos.Index})
		}
		return output.JSON(os.Stdout, rows)
	}

	output.PlacementTable(os.Stdout, placement, tasks)
	return nil
}

func outputSinglePosition(placement phase.Placement, tasks []*task.Task, id string) error {
	if err := task.ValidateID(id); err != nil {
		return err
	}

	pos, ok := placement.Position(id)
	if !ok {
		return clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
			WithDetails(map[string]any{"id": id})
	}

	if outputFormat() == output.FormatJSON {
		row := phaseRow{ID: id, Phase: pos.Phase, Index: pos.Index}
		if t, found := task.ByID(tasks)[id]; found {
			row.Title = t.Title
		}
		return output.JSON(os.Stdout, row)
	}

	output.PositionLine(os.Stdout, id, pos)
	return nil
}
