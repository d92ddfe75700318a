// Package task handles task files and their frontmatter.
package task

import (
	"time"

	"github.com/twiced-technology-gmbh/planwright/internal/date"
)

// Task statuses. The set is fixed: the scheduling and assignment engine
// keys its protection rules off these exact values.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusBlocked    = "blocked"
	StatusDone       = "done"
)

// Statuses returns the status names in board column order.
func Statuses() []string {
	return []string{StatusTodo, StatusInProgress, StatusBlocked, StatusDone}
}

// ValidPoints is the allowed difficulty scale (Fibonacci-like effort steps).
var ValidPoints = []int{1, 2, 3, 5, 8}

// SkillWeight is one weighted skill requirement in task frontmatter.
type SkillWeight struct {
	ID     string `yaml:"id" json:"id"`
	Weight int    `yaml:"weight" json:"weight"`
}

// Task represents a plan task parsed from a markdown file.
type Task struct {
	ID        string        `yaml:"id" json:"id"`
	Title     string        `yaml:"title" json:"title"`
	Status    string        `yaml:"status" json:"status"`
	Points    int           `yaml:"points" json:"points"`
	Created   time.Time     `yaml:"created" json:"created"`
	Updated   time.Time     `yaml:"updated" json:"updated"`
	Due       *date.Date    `yaml:"due,omitempty" json:"due,omitempty"`
	Assignee  string        `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	DependsOn []string      `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Skills    []SkillWeight `yaml:"skills,omitempty" json:"skills,omitempty"`

	// Body is the markdown description below the frontmatter (not in YAML).
	Body string `yaml:"-" json:"body,omitempty"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// DueTime returns the due date as a *time.Time for the engine packages.
func (t *Task) DueTime() *time.Time {
	if t.Due == nil {
		return nil
	}
	due := t.Due.Time
	return &due
}

// IsCandidate reports whether the task is eligible for automatic
// assignment: status todo and no assignee to protect.
func (t *Task) IsCandidate() bool {
	return t.Status == StatusTodo && t.Assignee == ""
}
