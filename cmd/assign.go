package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/assign"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var assignCmd = &cobra.Command{
	Use:     "assign",
	Aliases: []string{"match"},
	Short:   "Match open tasks to team members",
	Long: `Ranks every unassigned todo task against the team and proposes one
assignee per task: best skill fit first, then lowest running workload, then
member id. Use --dry-run to see the proposal without writing anything.`,
	RunE: runAssign,
}

func init() {
	assignCmd.Flags().Bool("dry-run", false, "propose assignments without writing them")
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

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

	tasks, err := task.ReadAll(cfg.TasksPath())
	if err != nil {
		return err
	}

	team, err := loadTeam(cfg)
	if err != nil {
		return err
	}
	globalLevels, err := loadGlobalLevels()
	if err != nil {
		return err
	}

	input := plan.BuildAssignInput(cfg, team, globalLevels, tasks)
	assignments := assign.Match(input)

	if !dryRun {
		now := time.Now()
		for _, t := range plan.ApplyAssignments(tasks, assignments) {
			t.Updated = now
			if err := task.Write(t.File, t); err != nil {
				return fmt.Errorf("writing task %s: %w", t.ID, err)
			}
		}
		for _, a := range assignments {
			logActivity(cfg, "assign", a.TaskID, a.MemberID)
		}
	}

	return outputAssignments(assignments, dryRun)
}

func outputAssignments(assignments []assign.Assignment, dryRun bool) error {
	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"assignments": assignments,
			"dry_run":     dryRun,
		})
	}
	if format == output.FormatCompact {
		output.AssignmentCompact(os.Stdout, assignments)
		return nil
	}

	if dryRun {
		output.Messagef(os.Stdout, "Proposed assignments (dry run):")
	}
	output.AssignmentTable(os.Stdout, assignments)
	return nil
}
