package cmd

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks with optional filtering, sorting, and output format control.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().String("assignee", "", "filter by assignee")
	listCmd.Flags().Bool("unassigned", false, "show only unassigned tasks")
	listCmd.Flags().String("phase", "", "filter by phase (beginning, middle, end)")
	listCmd.Flags().Bool("overdue", false, "show only overdue tasks")
	listCmd.Flags().StringP("search", "s", "", "search tasks by title or body (case-insensitive)")
	listCmd.Flags().String("sort", "id", "sort field ("+strings.Join(plan.ValidSortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(plan.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	statuses, _ := cmd.Flags().GetStringSlice("status")
	assignee, _ := cmd.Flags().GetString("assignee")
	unassigned, _ := cmd.Flags().GetBool("unassigned")
	phaseName, _ := cmd.Flags().GetString("phase")
	overdue, _ := cmd.Flags().GetBool("overdue")
	search, _ := cmd.Flags().GetString("search")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	groupBy, _ := cmd.Flags().GetString("group-by")

	for _, s := range statuses {
		if err := task.ValidateStatus(s); err != nil {
			return err
		}
	}
	if phaseName != "" && !slices.Contains(phase.All(), phase.Phase(phaseName)) {
		return clierr.Newf(clierr.InvalidInput, "invalid --phase %q; valid: beginning, middle, end", phaseName)
	}
	if groupBy != "" && !slices.Contains(plan.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(plan.ValidGroupByFields(), ", "))
	}
	if sortBy != "" && !slices.Contains(plan.ValidSortFields(), sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(plan.ValidSortFields(), ", "))
	}

	opts := plan.ListOptions{
		Filter: plan.FilterOptions{
			Statuses:   statuses,
			Assignee:   assignee,
			Unassigned: unassigned,
			Search:     search,
			Phase:      phaseName,
			Overdue:    overdue,
			Now:        time.Now(),
		},
		SortBy:  sortBy,
		Reverse: reverse,
		Limit:   limit,
	}

	tasks, warnings, err := plan.List(cfg, opts)
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if groupBy != "" {
		return outputGroupedList(tasks, groupBy)
	}

	return outputTaskList(tasks)
}

func outputGroupedList(tasks []*task.Task, groupBy string) error {
	// Phase grouping needs a placement, which is only defined for a
	// valid graph.
	var phases map[string]phase.Phase
	if groupBy == "phase" {
		if result := plan.ValidateGraph(tasks); result.OK {
			phases = plan.Placement(tasks).Phases()
		}
	}

	grouped := plan.GroupBy(tasks, groupBy, phases)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, grouped)
	}
	output.GroupedTable(os.Stdout, grouped)
	return nil
}

func outputTaskList(tasks []*task.Task) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks)
	return nil
}
