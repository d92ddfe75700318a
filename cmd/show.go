package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single task including its markdown body
and, when the dependency graph validates, its phase placement.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	if err := task.ValidateID(args[0]); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := task.FindByID(cfg.TasksPath(), args[0])
	if err != nil {
		return err
	}

	t, err := task.Read(path)
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, t)
		return nil
	}

	output.TaskDetail(os.Stdout, t)
	printShowPosition(cfg, t)
	return nil
}

// printShowPosition appends the task's phase placement when the graph is
// valid. A broken graph just omits the line; validate reports the details.
func printShowPosition(cfg *config.Config, t *task.Task) {
	tasks, _, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return
	}
	if result := plan.ValidateGraph(tasks); !result.OK {
		return
	}
	if pos, ok := plan.Placement(tasks).Position(t.ID); ok {
		output.PositionLine(os.Stdout, t.ID, pos)
	}
}
