package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
	"github.com/twiced-technology-gmbh/planwright/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show plan summary",
	Long: `Displays a summary of the plan: task counts per status, unassigned and
overdue counts, phase buckets, and the dependency graph state.

Use --watch to keep the display live-updating. The summary re-renders
automatically whenever task files change on disk. Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the summary on file changes")
	boardCmd.Flags().String("group-by", "", "group summary by field ("+strings.Join(plan.ValidGroupByFields(), ", ")+")")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(plan.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(plan.ValidGroupByFields(), ", "))
	}

	// Render once.
	if err := renderBoard(cfg, groupBy); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}

	return watchBoard(cfg, groupBy)
}

func renderBoard(cfg *config.Config, groupBy string) error {
	tasks, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return err
	}
	printWarnings(warnings)
	if tasks == nil {
		tasks = []*task.Task{}
	}

	if groupBy != "" {
		return renderGroupedBoard(tasks, groupBy)
	}

	summary := plan.Summary(cfg, tasks, time.Now())

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, summary)
	}
	if format == output.FormatCompact {
		output.OverviewCompact(os.Stdout, summary)
		return nil
	}

	output.OverviewTable(os.Stdout, summary)
	return nil
}

func renderGroupedBoard(tasks []*task.Task, groupBy string) error {
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

func watchBoard(cfg *config.Config, groupBy string) error {
	// Watch both the tasks directory and the config file's directory.
	watchPaths := []string{cfg.TasksPath(), cfg.Dir()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watchPaths, func() {
		clearScreen()
		// Re-load config in case skills or defaults changed.
		freshCfg, loadErr := config.Load(cfg.Dir())
		if loadErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: reloading config: %v\n", loadErr)
			freshCfg = cfg
		}
		if renderErr := renderBoard(freshCfg, groupBy); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering summary: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
