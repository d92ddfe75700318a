package plan

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/planwright/internal/skill"
)

const teamFileMode = 0o600

// Member is one project member eligible for assignment.
type Member struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Team is the project team file: membership plus project-scoped skill
// overrides. Overrides take precedence over the global baseline levels for
// this project only.
type Team struct {
	Members   []Member      `yaml:"members"`
	Overrides []skill.Level `yaml:"skill_overrides,omitempty"`
}

// LoadTeam reads the project team file. A missing file is an empty team,
// not an error.
func LoadTeam(path string) (*Team, error) {
	data, err := os.ReadFile(path) //nolint:gosec // team path from trusted plan dir
	if err != nil {
		if os.IsNotExist(err) {
			return &Team{}, nil
		}
		return nil, fmt.Errorf("reading team file: %w", err)
	}

	var team Team
	if err := yaml.Unmarshal(data, &team); err != nil {
		return nil, fmt.Errorf("parsing team file: %w", err)
	}
	return &team, nil
}

// SaveTeam writes the project team file.
func SaveTeam(path string, team *Team) error {
	data, err := yaml.Marshal(team)
	if err != nil {
		return fmt.Errorf("marshaling team file: %w", err)
	}
	return os.WriteFile(path, data, teamFileMode)
}

// MemberIDs returns the member ids in file order.
func (t *Team) MemberIDs() []string {
	ids := make([]string, len(t.Members))
	for i, m := range t.Members {
		ids[i] = m.ID
	}
	return ids
}

// HasMember reports whether a member id belongs to the team.
func (t *Team) HasMember(id string) bool {
	for _, m := range t.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// globalLevelsFile is the shape of the global team file: the baseline skill
// levels shared by every project.
type globalLevelsFile struct {
	Levels []skill.Level `yaml:"levels"`
}

// LoadGlobalLevels reads baseline skill levels from the global team file.
// A missing file means no baseline (all levels resolve to overrides or 0).
func LoadGlobalLevels(path string) ([]skill.Level, error) {
	data, err := os.ReadFile(path) //nolint:gosec // global config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading global team file: %w", err)
	}

	var file globalLevelsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing global team file: %w", err)
	}
	return file.Levels, nil
}

// SaveGlobalLevels writes baseline skill levels to the global team file.
func SaveGlobalLevels(path string, levels []skill.Level) error {
	data, err := yaml.Marshal(globalLevelsFile{Levels: levels})
	if err != nil {
		return fmt.Errorf("marshaling global team file: %w", err)
	}
	return os.WriteFile(path, data, teamFileMode)
}

// SetLevel inserts or replaces a (member, skill) level row and returns the
// updated slice.
func SetLevel(levels []skill.Level, row skill.Level) []skill.Level {
	for i, l := range levels {
		if l.MemberID == row.MemberID && l.SkillID == row.SkillID {
			levels[i] = row
			return levels
		}
	}
	return append(levels, row)
}
