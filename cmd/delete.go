package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/output"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Deletes a task file and strips the task from every remaining
dependency list. Prompts for confirmation in interactive mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := task.ValidateID(args[0]); err != nil {
		return err
	}

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

	path, err := task.FindByID(cfg.TasksPath(), args[0])
	if err != nil {
		return err
	}

	t, err := task.Read(path)
	if err != nil {
		return err
	}

	// Warn if other tasks reference this one as a dependency.
	warnDependents(cfg, t.ID)

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task %s %q? [y/N] ", t.ID, t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if err := plan.DeleteTask(cfg, t.ID); err != nil {
		return err
	}

	logActivity(cfg, "delete", t.ID, t.Title)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}

	output.Messagef(os.Stdout, "Deleted task %s: %s", t.ID, t.Title)
	return nil
}

func warnDependents(cfg *config.Config, id string) {
	tasks, _, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return
	}
	for _, msg := range plan.FindDependents(tasks, id) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}
