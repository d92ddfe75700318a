package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/planwright/internal/skill"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no plan found (run 'planwright init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the plan directory configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Project  ProjectConfig  `yaml:"project"`
	TasksDir string         `yaml:"tasks_dir"`
	Skills   []skill.Skill  `yaml:"skills,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults"`
	NextID   int            `yaml:"next_id"`

	// dir is the absolute path to the plan directory (not serialized).
	dir string `yaml:"-"`
}

// ProjectConfig holds project metadata.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Status string `yaml:"status"`
	Points int    `yaml:"points"`
}

// Dir returns the absolute path to the plan directory.
func (c *Config) Dir() string {
	return c.dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// TeamPath returns the absolute path to the project team file.
func (c *Config) TeamPath() string {
	return filepath.Join(c.dir, TeamFileName)
}

// SetDir sets the plan directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:  CurrentVersion,
		Project:  ProjectConfig{Name: name},
		TasksDir: DefaultTasksDir,
		Defaults: DefaultsConfig{
			Status: DefaultStatus,
			Points: DefaultPoints,
		},
		NextID: 1,
	}
}

// SkillIDs returns the declared skill ids in config order.
func (c *Config) SkillIDs() []string {
	ids := make([]string, len(c.Skills))
	for i, s := range c.Skills {
		ids[i] = s.ID
	}
	return ids
}

// HasSkill reports whether a skill id is declared for this project.
func (c *Config) HasSkill(id string) bool {
	for _, s := range c.Skills {
		if s.ID == id {
			return true
		}
	}
	return false
}

// NextTaskID returns the identifier the next inserted task receives.
// Callers must hold the plan lock and bump NextID after use.
func (c *Config) NextTaskID() string {
	return IDPrefix + strconv.Itoa(c.NextID)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Project.Name == "" {
		return fmt.Errorf("%w: project.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if err := c.validateSkills(); err != nil {
		return err
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if c.NextID < 1 {
		return fmt.Errorf("%w: next_id must be >= 1", ErrInvalid)
	}
	return nil
}

func (c *Config) validateSkills() error {
	seen := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		if s.ID == "" {
			return fmt.Errorf("%w: skill id is required", ErrInvalid)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate skill id %q", ErrInvalid, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

func (c *Config) validateDefaults() error {
	if err := task.ValidateStatus(c.Defaults.Status); err != nil {
		return fmt.Errorf("%w: default status %q is not a valid status", ErrInvalid, c.Defaults.Status)
	}
	if err := task.ValidatePoints(c.Defaults.Points); err != nil {
		return fmt.Errorf("%w: default points %d not on the 1/2/3/5/8 scale", ErrInvalid, c.Defaults.Points)
	}
	return nil
}

// Load reads, migrates, and validates the config from a plan directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(absDir, ConfigFileName)) //nolint:gosec // config path from trusted dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.dir = absDir
	return &cfg, nil
}

// Save writes the config back to its plan directory.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// FindDir walks up from startDir looking for a directory containing a plan
// (a subdirectory with a config file, or the config file itself).
func FindDir(startDir string) (string, error) {
	dir := startDir
	for {
		// plan/config.yml below the current directory.
		candidate := filepath.Join(dir, DefaultDir)
		if _, err := os.Stat(filepath.Join(candidate, ConfigFileName)); err == nil {
			return candidate, nil
		}
		// config.yml directly in the current directory.
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}
