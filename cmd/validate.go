package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the dependency graph",
	Long: `Checks the plan's dependency graph: every referenced task must exist,
no task may depend on itself, no dependency may be declared twice, and the
graph must be acyclic. Reports the first offending edge on failure.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Strict read: a malformed task file hides edges, which would turn a
	// broken graph into a falsely valid one.
	tasks, err := task.ReadAll(cfg.TasksPath())
	if err != nil {
		return err
	}

	result := plan.ValidateGraph(tasks)

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, result); err != nil {
			return err
		}
		if !result.OK {
			return &clierr.SilentError{Code: 1}
		}
		return nil
	}

	output.ValidationLine(os.Stdout, result)
	if !result.OK {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
