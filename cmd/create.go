package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/date"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task file with the given title and optional fields.

Title can be provided as a positional argument or via --title flag.
Skill requirements are given as id:weight pairs, e.g. --skill go:3.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().String("status", "", "task status (default from config)")
	createCmd.Flags().Int("points", 0, "story points (1, 2, 3, 5, 8; default from config)")
	createCmd.Flags().String("assignee", "", "task assignee (must be a team member)")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().StringSlice("depends-on", nil, "dependency task IDs (comma-separated)")
	createCmd.Flags().StringSlice("skill", nil, "skill requirement (id:weight, repeatable)")
	createCmd.Flags().String("body", "", "task body/description (markdown)")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "skills":
			name = "skill"
		case "description":
			name = "body"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	// Acquire an exclusive lock to prevent concurrent creates from
	// reading the same next_id and generating duplicate task IDs.
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

	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}
	now := time.Now()

	t := &task.Task{
		ID:      cfg.NextTaskID(),
		Title:   title,
		Status:  cfg.Defaults.Status,
		Points:  cfg.Defaults.Points,
		Created: now,
		Updated: now,
	}

	team, err := loadTeam(cfg)
	if err != nil {
		return err
	}
	if err := applyTaskFlags(cmd, t, cfg, team); err != nil {
		return err
	}

	// Validate dependency references against the stored plan, then check
	// the full graph with the new task's edges included. Nothing is written
	// when either check fails.
	if len(t.DependsOn) > 0 {
		existing, _, err := task.ReadAllLenient(cfg.TasksPath())
		if err != nil {
			return err
		}
		if err := validateDepIDs(existing, t.ID, t.DependsOn); err != nil {
			return err
		}
		if result := plan.ValidateGraph(append(existing, t)); !result.OK {
			return plan.GraphError(result)
		}
	}

	// Generate filename and write.
	slug := task.GenerateSlug(title)
	filename := task.GenerateFilename(t.ID, slug)
	path := filepath.Join(cfg.TasksPath(), filename)
	t.File = path

	if err := task.Write(path, t); err != nil {
		return fmt.Errorf("writing task: %w", err)
	}

	// Increment next_id and save config.
	cfg.NextID++
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	logActivity(cfg, "create", t.ID, t.Title)

	return outputCreateResult(t, path)
}

func outputCreateResult(t *task.Task, path string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Created task %s: %s", t.ID, t.Title)
	output.Messagef(os.Stdout, "  File: %s", path)
	output.Messagef(os.Stdout, "  Status: %s | Points: %d", t.Status, t.Points)
	if t.Assignee != "" {
		output.Messagef(os.Stdout, "  Assignee: %s", t.Assignee)
	}
	if len(t.DependsOn) > 0 {
		output.Messagef(os.Stdout, "  Depends on: %s", strings.Join(t.DependsOn, ", "))
	}
	return nil
}

// resolveCreateTitle returns the task title from either the positional arg or --title flag.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", errors.New("title is required: provide it as an argument or with --title")
	}
}

// applyTaskFlags applies the shared task field flags onto t. Used by both
// create and edit.
func applyTaskFlags(cmd *cobra.Command, t *task.Task, cfg *config.Config, team *plan.Team) error {
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		if err := task.ValidateStatus(v); err != nil {
			return err
		}
		t.Status = v
	}
	if cmd.Flags().Changed("points") {
		v, _ := cmd.Flags().GetInt("points")
		if err := task.ValidatePoints(v); err != nil {
			return err
		}
		t.Points = v
	}
	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		if !team.HasMember(v) {
			return clierr.Newf(clierr.UnknownMember, "unknown member %q", v).
				WithDetails(map[string]any{"member": v})
		}
		t.Assignee = v
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		d, err := date.Parse(v)
		if err != nil {
			return task.FormatDueDate(v, err)
		}
		t.Due = &d
	}
	if cmd.Flags().Changed("depends-on") {
		v, _ := cmd.Flags().GetStringSlice("depends-on")
		for _, id := range v {
			if err := task.ValidateID(id); err != nil {
				return err
			}
		}
		t.DependsOn = v
	}
	if cmd.Flags().Changed("skill") {
		v, _ := cmd.Flags().GetStringSlice("skill")
		skills, err := parseSkillWeights(v, cfg)
		if err != nil {
			return err
		}
		t.Skills = skills
	}
	if v, _ := cmd.Flags().GetString("body"); v != "" {
		t.Body = v
	}
	return nil
}

// parseSkillWeights parses "id:weight" pairs into skill requirements,
// checking each skill against the config declarations.
func parseSkillWeights(pairs []string, cfg *config.Config) ([]task.SkillWeight, error) {
	skills := make([]task.SkillWeight, 0, len(pairs))
	for _, pair := range pairs {
		id, weightStr, found := strings.Cut(pair, ":")
		if !found || id == "" {
			return nil, clierr.Newf(clierr.InvalidInput,
				"invalid skill requirement %q (expected id:weight)", pair)
		}
		weight, err := strconv.Atoi(weightStr)
		if err != nil {
			return nil, clierr.Newf(clierr.InvalidSkillWeight,
				"invalid weight %q in %q: must be an integer", weightStr, pair)
		}
		if !cfg.HasSkill(id) {
			return nil, clierr.Newf(clierr.UnknownSkill, "unknown skill %q", id).
				WithDetails(map[string]any{"skill": id})
		}
		if err := task.ValidateSkillWeight(id, weight); err != nil {
			return nil, err
		}
		skills = append(skills, task.SkillWeight{ID: id, Weight: weight})
	}
	return skills, nil
}
