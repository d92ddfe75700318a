// Package config handles plan directory configuration.
package config

const (
	// DefaultDir is the default plan directory name.
	DefaultDir = "plan"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultStatus is the default status for new tasks.
	DefaultStatus = "todo"
	// DefaultPoints is the default difficulty for new tasks.
	DefaultPoints = 3

	// ConfigFileName is the name of the config file within the plan directory.
	ConfigFileName = "config.yml"
	// TeamFileName is the name of the team file, both in the plan directory
	// (membership and project overrides) and in the global config directory
	// (baseline skill levels).
	TeamFileName = "team.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	// IDPrefix is the prefix of generated task identifiers.
	IDPrefix = "T"
)
