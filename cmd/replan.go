package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/replan"
)

var replanCmd = &cobra.Command{
	Use:   "replan [FILE]",
	Short: "Reconcile a full task set against the stored plan",
	Long: `Reads a complete task set (YAML) from FILE or stdin and reconciles it
against the stored plan: tasks with an id update the stored task, tasks
without an id are inserted with generated ids, and stored tasks missing
from the submission are deleted.

The assignee of an in_progress task is never changed by a replan; a
conflicting submission keeps the stored assignee. Nothing is written when
the post-replan dependency graph fails validation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplan,
}

func init() {
	replanCmd.Flags().Bool("dry-run", false, "report the reconciliation without writing it")
	rootCmd.AddCommand(replanCmd)
}

func runReplan(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	incoming, err := readReplanInput(args)
	if err != nil {
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
	team, err := loadTeam(cfg)
	if err != nil {
		return err
	}

	report, err := plan.ApplyReplan(cfg, team, incoming, time.Now(), dryRun)
	if err != nil {
		return err
	}

	return outputReplanReport(report)
}

// replanFile is the YAML shape of a replan submission.
type replanFile struct {
	Tasks []replan.TaskInput `yaml:"tasks"`
}

// readReplanInput reads the submission from the FILE argument or stdin.
// Both a bare task list and a top-level "tasks:" key are accepted.
func readReplanInput(args []string) ([]replan.TaskInput, error) {
	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("reading replan file: %w", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	}

	var file replanFile
	if err := yaml.Unmarshal(data, &file); err == nil && file.Tasks != nil {
		return file.Tasks, nil
	}

	var list []replan.TaskInput
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing replan submission: %w", err)
	}
	return list, nil
}

func outputReplanReport(report *plan.ReplanReport) error {
	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, report)
	}

	if report.DryRun {
		output.Messagef(os.Stdout, "Dry run: would update %d, insert %d, delete %d",
			len(report.Updated), len(report.Inserted), len(report.Deleted))
	} else {
		output.Messagef(os.Stdout, "Updated %d, inserted %d, deleted %d",
			len(report.Updated), len(report.Inserted), len(report.Deleted))
	}
	if len(report.Inserted) > 0 {
		output.Messagef(os.Stdout, "  Inserted: %s", strings.Join(report.Inserted, ", "))
	}
	if len(report.Deleted) > 0 {
		output.Messagef(os.Stdout, "  Deleted:  %s", strings.Join(report.Deleted, ", "))
	}
	return nil
}
