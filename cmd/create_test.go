package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// newTestPlanDir creates a plan directory with a saved config and an empty
// tasks directory.
func newTestPlanDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefault("demo")
	cfg.SetDir(dir)
	if err := os.MkdirAll(cfg.TasksPath(), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	return dir
}

// runPlanwright executes the CLI with the given arguments.
func runPlanwright(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	rootCmd.SetArgs(nil)
	return err
}

func TestCreateRejectsDuplicateDependencies(t *testing.T) {
	dir := newTestPlanDir(t)

	if err := runPlanwright(t, "create", "base task", "--dir", dir); err != nil {
		t.Fatalf("creating base task: %v", err)
	}

	// Listing the same dependency twice is a duplicate edge; the write must
	// be blocked so the stored graph stays valid.
	err := runPlanwright(t, "create", "dup deps", "--dir", dir, "--depends-on", "T1,T1")
	if err == nil {
		t.Fatal("create succeeded with duplicate dependencies, want error")
	}

	tasks, err := task.ReadAll(filepath.Join(dir, config.DefaultTasksDir))
	if err != nil {
		t.Fatalf("reading tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "T1" {
		t.Fatalf("persisted %d tasks, want only T1", len(tasks))
	}
	if result := plan.ValidateGraph(tasks); !result.OK {
		t.Errorf("stored graph invalid after rejected create: %+v", result)
	}
}
