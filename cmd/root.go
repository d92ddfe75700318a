// Package cmd implements the planwright CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/filelock"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/skill"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "planwright",
	Short: "Dependency-aware task planning for small teams",
	Long: `planwright keeps a project plan as markdown task files with a dependency
graph on top: it validates the graph, places tasks into beginning/middle/end
phases, matches open tasks to team members by skill fit, and reconciles
full replan submissions against the stored plan.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to plan directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError — exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	// Determine if JSON mode is active.
	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("PLANWRIGHT_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error — wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// defaultHomeDir returns the path to ~/.config/planwright, where the global
// skill level file lives.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config/planwright"), nil
}

// globalTeamPath returns the path of the global skill level file.
func globalTeamPath() (string, error) {
	dir, err := defaultHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.TeamFileName), nil
}

// resolveDir returns the absolute path to the plan directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	return config.FindDir(cwd)
}

// loadConfig finds and loads the plan config.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	return config.Load(dir)
}

// loadTeam loads the project team file next to the config.
func loadTeam(cfg *config.Config) (*plan.Team, error) {
	return plan.LoadTeam(cfg.TeamPath())
}

// loadGlobalLevels loads skill levels from ~/.config/planwright/team.yml.
// A missing file yields no levels.
func loadGlobalLevels() ([]skill.Level, error) {
	path, err := globalTeamPath()
	if err != nil {
		return nil, err
	}
	return plan.LoadGlobalLevels(path)
}

// lockPlan takes the exclusive plan lock. Every read-mutate-write sequence
// (create, edit, delete, assign, replan) runs under it.
func lockPlan(dir string) (func() error, error) {
	unlock, err := filelock.Lock(filepath.Join(dir, ".lock"))
	if err != nil {
		return nil, fmt.Errorf("acquiring plan lock: %w", err)
	}
	return unlock, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes task read warnings to stderr.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed file %s: %v\n", w.File, w.Err)
	}
}

// logActivity appends an entry to the activity log. Errors are silently
// discarded because logging should never fail a command.
func logActivity(cfg *config.Config, action, taskID, detail string) {
	plan.LogMutation(cfg.Dir(), action, taskID, detail)
}

// validateDepIDs checks that every dependency id refers to an existing task
// and that none is the task itself.
func validateDepIDs(tasks []*task.Task, selfID string, ids []string) error {
	byID := task.ByID(tasks)
	for _, id := range ids {
		if id == selfID {
			return clierr.Newf(clierr.InvalidInput, "task cannot depend on itself").
				WithDetails(map[string]any{"id": id})
		}
		if _, ok := byID[id]; !ok {
			return clierr.Newf(clierr.TaskNotFound, "dependency %s does not exist", id).
				WithDetails(map[string]any{"id": id})
		}
	}
	return nil
}
