package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
)

// FindByID scans the tasks directory for a file matching the given task id.
// Task filenames carry the lowercased id as a prefix ("t12-fix-auth.md").
// Returns the full path to the task file.
func FindByID(tasksDir, id string) (string, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return "", fmt.Errorf("reading tasks directory: %w", err)
	}

	want := strings.ToLower(id)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		// Match both "t12-fix-auth.md" and the slugless "t12.md" form.
		stem := strings.TrimSuffix(name, ".md")
		if dash := strings.IndexByte(stem, '-'); dash > 0 {
			stem = stem[:dash]
		}
		if stem == want {
			return filepath.Join(tasksDir, name), nil
		}
	}

	return "", clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
		WithDetails(map[string]any{"id": id})
}

// ByID indexes tasks by their identifier.
func ByID(tasks []*Task) map[string]*Task {
	m := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return m
}
