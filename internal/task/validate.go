package task

import (
	"regexp"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
)

// idRe matches generated task ids: "T" followed by digits.
var idRe = regexp.MustCompile(`^[Tt][0-9]+$`)

// ValidateStatus checks that a status is one of the fixed status set.
func ValidateStatus(status string) error {
	for _, s := range Statuses() {
		if s == status {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": Statuses(),
		})
}

// ValidatePoints checks that difficulty points are on the allowed scale.
func ValidatePoints(points int) error {
	for _, p := range ValidPoints {
		if p == points {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidPoints, "invalid difficulty points %d", points).
		WithDetails(map[string]any{
			"points":  points,
			"allowed": ValidPoints,
		})
}

// ValidateID checks that a task id has the generated form ("T42").
func ValidateID(id string) error {
	if idRe.MatchString(id) {
		return nil
	}
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", id).
		WithDetails(map[string]any{"input": id})
}

// ValidateSkillWeight checks that a requirement weight is within [1,5].
func ValidateSkillWeight(skillID string, weight int) error {
	const minWeight, maxWeight = 1, 5
	if weight >= minWeight && weight <= maxWeight {
		return nil
	}
	return clierr.Newf(clierr.InvalidSkillWeight,
		"invalid weight %d for skill %q (must be %d-%d)", weight, skillID, minWeight, maxWeight).
		WithDetails(map[string]any{"skill": skillID, "weight": weight})
}

// FormatDueDate returns a CLIError for invalid due date input.
func FormatDueDate(input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid due date: %v", err).
		WithDetails(map[string]any{"input": input})
}
