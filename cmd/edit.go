package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var editCmd = &cobra.Command{
	Use:     "edit ID",
	Aliases: []string{"update"},
	Short:   "Edit an existing task",
	Long: `Updates fields of an existing task. Only the provided flags change;
everything else keeps its current value.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new task title")
	editCmd.Flags().String("status", "", "new status")
	editCmd.Flags().Int("points", 0, "new story points (1, 2, 3, 5, 8)")
	editCmd.Flags().String("assignee", "", "new assignee (must be a team member)")
	editCmd.Flags().Bool("clear-assignee", false, "remove the assignee")
	editCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().Bool("clear-due", false, "remove the due date")
	editCmd.Flags().StringSlice("depends-on", nil, "replace dependency IDs (comma-separated)")
	editCmd.Flags().StringSlice("skill", nil, "replace skill requirements (id:weight, repeatable)")
	editCmd.Flags().String("body", "", "new task body (markdown)")
	editCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "skills":
			name = "skill"
		case "description":
			name = "body"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if err := task.ValidateID(args[0]); err != nil {
		return err
	}

	dir, err := resolveDir()
	if err != nil {
		return err
	}
	unlock, err := lockPlan(dir)
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	cfg, err := config.Load(dir)
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

	team, err := loadTeam(cfg)
	if err != nil {
		return err
	}
	if err := applyTaskFlags(cmd, t, cfg, team); err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("title"); v != "" {
		t.Title = v
	}
	if v, _ := cmd.Flags().GetBool("clear-assignee"); v {
		t.Assignee = ""
	}
	if v, _ := cmd.Flags().GetBool("clear-due"); v {
		t.Due = nil
	}

	if cmd.Flags().Changed("depends-on") {
		existing, _, err := task.ReadAllLenient(cfg.TasksPath())
		if err != nil {
			return err
		}
		if err := validateDepIDs(existing, t.ID, t.DependsOn); err != nil {
			return err
		}
		// The new edges must not make the stored graph cyclic.
		for i, et := range existing {
			if et.ID == t.ID {
				existing[i] = t
			}
		}
		if result := plan.ValidateGraph(existing); !result.OK {
			return plan.GraphError(result)
		}
	}

	t.Updated = time.Now()

	if err := task.Write(path, t); err != nil {
		return fmt.Errorf("writing task: %w", err)
	}

	logActivity(cfg, "edit", t.ID, t.Title)

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, t)
		return nil
	}
	output.Messagef(os.Stdout, "Updated task %s: %s", t.ID, t.Title)
	return nil
}
