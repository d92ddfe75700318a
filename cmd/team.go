package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/skill"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show the team and effective skill levels",
	Long: `Displays team members with their effective skill level for every
declared skill: a project override when one exists, the global level
otherwise, zero when neither is set.`,
	RunE: runTeamShow,
}

var teamAddCmd = &cobra.Command{
	Use:   "add ID [NAME]",
	Short: "Add a team member",
	Args:  cobra.RangeArgs(1, 2), //nolint:mnd // id and optional name
	RunE:  runTeamAdd,
}

var teamSetSkillCmd = &cobra.Command{
	Use:   "set-skill MEMBER SKILL LEVEL",
	Short: "Set a skill level",
	Long: `Sets a member's level for a skill. By default this writes a project
override; with --global it writes the member's global level in
~/.config/planwright/team.yml instead.`,
	Args: cobra.ExactArgs(3), //nolint:mnd // member, skill, level
	RunE: runTeamSetSkill,
}

func init() {
	teamSetSkillCmd.Flags().Bool("global", false, "set the global level instead of a project override")
	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamSetSkillCmd)
	rootCmd.AddCommand(teamCmd)
}

func runTeamShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
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

	skillIDs := cfg.SkillIDs()
	levels := make(map[string]map[string]int, len(team.Members))
	for _, m := range team.Members {
		levels[m.ID] = skill.EffectiveLevels(m.ID, skillIDs, globalLevels, team.Overrides)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"members": team.Members,
			"skills":  skillIDs,
			"levels":  levels,
		})
	}

	output.TeamTable(os.Stdout, team.Members, skillIDs, levels)
	return nil
}

func runTeamAdd(_ *cobra.Command, args []string) error {
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

	id := args[0]
	if team.HasMember(id) {
		return clierr.Newf(clierr.InvalidInput, "member %q already exists", id)
	}
	memberName := id
	if len(args) == 2 { //nolint:mnd // optional name argument
		memberName = args[1]
	}

	team.Members = append(team.Members, plan.Member{ID: id, Name: memberName})
	if err := plan.SaveTeam(cfg.TeamPath(), team); err != nil {
		return fmt.Errorf("writing team file: %w", err)
	}

	logActivity(cfg, "team-add", "", id)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, team.Members)
	}
	output.Messagef(os.Stdout, "Added member %s", id)
	return nil
}

func runTeamSetSkill(cmd *cobra.Command, args []string) error {
	memberID, skillID := args[0], args[1]
	level, err := strconv.Atoi(args[2])
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid level %q: must be an integer", args[2])
	}
	if level < 0 {
		return clierr.Newf(clierr.InvalidInput, "invalid level %d: must not be negative", level)
	}

	global, _ := cmd.Flags().GetBool("global")

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
	if !cfg.HasSkill(skillID) {
		return clierr.Newf(clierr.UnknownSkill, "unknown skill %q", skillID).
			WithDetails(map[string]any{"skill": skillID})
	}

	team, err := loadTeam(cfg)
	if err != nil {
		return err
	}
	if !team.HasMember(memberID) {
		return clierr.Newf(clierr.UnknownMember, "unknown member %q", memberID).
			WithDetails(map[string]any{"member": memberID})
	}

	row := skill.Level{MemberID: memberID, SkillID: skillID, Level: level}

	if global {
		path, err := globalTeamPath()
		if err != nil {
			return err
		}
		const dirMode = 0o750
		if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		levels, err := plan.LoadGlobalLevels(path)
		if err != nil {
			return err
		}
		if err := plan.SaveGlobalLevels(path, plan.SetLevel(levels, row)); err != nil {
			return fmt.Errorf("writing global levels: %w", err)
		}
	} else {
		team.Overrides = plan.SetLevel(team.Overrides, row)
		if err := plan.SaveTeam(cfg.TeamPath(), team); err != nil {
			return fmt.Errorf("writing team file: %w", err)
		}
	}

	logActivity(cfg, "set-skill", "", memberID+":"+skillID+"="+args[2])

	if outputFormat() == output.FormatJSON {
		scope := "project"
		if global {
			scope = "global"
		}
		return output.JSON(os.Stdout, map[string]any{
			"member": memberID,
			"skill":  skillID,
			"level":  level,
			"scope":  scope,
		})
	}

	if global {
		output.Messagef(os.Stdout, "Set global level %s/%s = %d", memberID, skillID, level)
	} else {
		output.Messagef(os.Stdout, "Set project override %s/%s = %d", memberID, skillID, level)
	}
	return nil
}
