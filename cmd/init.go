package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/skill"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new plan",
	Long: `Creates a plan directory with config.yml, team.yml, and a tasks/
subdirectory.

Skills are declared as id:name pairs (the name part is optional), members
as id:name pairs likewise.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "project name (defaults to current directory name)")
	initCmd.Flags().String("description", "", "project description")
	initCmd.Flags().StringSlice("skills", nil, "skill declarations (id:name, comma-separated)")
	initCmd.Flags().StringSlice("members", nil, "team members (id:name, comma-separated)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.PlanAlreadyExists, "plan already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)
	cfg.Project.Description, _ = cmd.Flags().GetString("description")

	if pairs, _ := cmd.Flags().GetStringSlice("skills"); len(pairs) > 0 {
		skills, err := parseSkillDecls(pairs)
		if err != nil {
			return err
		}
		cfg.Skills = skills
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directories.
	tasksDir := cfg.TasksPath()
	const dirMode = 0o750
	if err := os.MkdirAll(tasksDir, dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	team := &plan.Team{}
	if pairs, _ := cmd.Flags().GetStringSlice("members"); len(pairs) > 0 {
		team.Members = parseMemberDecls(pairs)
	}
	if err := plan.SaveTeam(cfg.TeamPath(), team); err != nil {
		return fmt.Errorf("writing team file: %w", err)
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    absDir,
			"name":   name,
			"config": cfg.ConfigPath(),
			"tasks":  tasksDir,
			"team":   cfg.TeamPath(),
			"skills": strings.Join(cfg.SkillIDs(), ","),
		})
	}

	output.Messagef(os.Stdout, "Initialized plan %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config: %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Tasks:  %s", tasksDir)
	output.Messagef(os.Stdout, "  Team:   %s", cfg.TeamPath())
	if len(cfg.Skills) > 0 {
		output.Messagef(os.Stdout, "  Skills: %s", strings.Join(cfg.SkillIDs(), ", "))
	}
	return nil
}

// parseSkillDecls parses "id" or "id:name" pairs into skill declarations.
func parseSkillDecls(pairs []string) ([]skill.Skill, error) {
	skills := make([]skill.Skill, 0, len(pairs))
	for _, pair := range pairs {
		id, skillName, _ := strings.Cut(pair, ":")
		if id == "" {
			return nil, clierr.Newf(clierr.InvalidInput, "invalid skill declaration %q (expected id or id:name)", pair)
		}
		if skillName == "" {
			skillName = id
		}
		skills = append(skills, skill.Skill{ID: id, Name: skillName})
	}
	return skills, nil
}

// parseMemberDecls parses "id" or "id:name" pairs into team members.
func parseMemberDecls(pairs []string) []plan.Member {
	members := make([]plan.Member, 0, len(pairs))
	for _, pair := range pairs {
		id, memberName, _ := strings.Cut(pair, ":")
		if id == "" {
			continue
		}
		if memberName == "" {
			memberName = id
		}
		members = append(members, plan.Member{ID: id, Name: memberName})
	}
	return members
}
