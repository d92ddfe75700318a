// Package skill resolves effective skill levels for project members.
//
// A member has a global baseline level per skill; a project can override
// individual levels for that project only. The effective level used for
// matching is: project override if present, else global level, else 0.
// Zero means "no credit toward matching" — it is not an error.
package skill

// Skill identifies a named skill, global to the system.
type Skill struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Level is one (member, skill, level) row, either from the global baseline
// or from a project override.
type Level struct {
	MemberID string `yaml:"member" json:"member"`
	SkillID  string `yaml:"skill" json:"skill"`
	Level    int    `yaml:"level" json:"level"`
}

// EffectiveLevels merges global levels with project overrides into one
// level-per-skill view for a member. The result has an entry for every
// requested skill id; skills the member lacks resolve to 0.
func EffectiveLevels(memberID string, skillIDs []string, global, overrides []Level) map[string]int {
	base := make(map[string]int, len(skillIDs))
	for _, l := range global {
		if l.MemberID == memberID {
			base[l.SkillID] = l.Level
		}
	}
	// Overrides win. Later rows for the same skill win within each tier,
	// matching last-write semantics of a layered map.
	for _, l := range overrides {
		if l.MemberID == memberID {
			base[l.SkillID] = l.Level
		}
	}

	effective := make(map[string]int, len(skillIDs))
	for _, id := range skillIDs {
		effective[id] = base[id] // absent ⇒ 0
	}
	return effective
}
