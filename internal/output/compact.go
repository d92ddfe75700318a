package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/planwright/internal/assign"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	ts := "  created:" + t.Created.Format("2006-01-02") +
		" updated:" + t.Updated.Format("2006-01-02")
	fmt.Fprintln(w, ts)

	if len(t.DependsOn) > 0 {
		fmt.Fprintln(w, "  deps:"+strings.Join(t.DependsOn, ","))
	}

	if t.Body != "" {
		for _, bodyLine := range strings.Split(t.Body, "\n") {
			fmt.Fprintln(w, "  "+bodyLine)
		}
	}
}

// OverviewCompact renders a plan summary in compact format.
func OverviewCompact(w io.Writer, s plan.Overview) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.ProjectName, s.TotalTasks)

	for _, ss := range s.Statuses {
		line := "  " + ss.Status + ": " + strconv.Itoa(ss.Count)
		var annotations []string
		if ss.Unassigned > 0 {
			annotations = append(annotations, strconv.Itoa(ss.Unassigned)+" unassigned")
		}
		if ss.Overdue > 0 {
			annotations = append(annotations, strconv.Itoa(ss.Overdue)+" overdue")
		}
		if len(annotations) > 0 {
			line += " (" + strings.Join(annotations, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}

	if !s.Graph.OK {
		line := "graph: " + s.Graph.Reason
		if s.Graph.Edge != nil {
			line += " " + s.Graph.Edge.From + "->" + s.Graph.Edge.To
		}
		fmt.Fprintln(w, line)
		return
	}

	if len(s.Phases) > 0 {
		parts := make([]string, 0, len(s.Phases))
		for _, ps := range s.Phases {
			parts = append(parts, string(ps.Phase)+"="+strconv.Itoa(ps.Count))
		}
		fmt.Fprintln(w, "Phases: "+strings.Join(parts, " "))
	}
}

// AssignmentCompact renders matcher output one line per assignment.
func AssignmentCompact(w io.Writer, assignments []assign.Assignment) {
	for _, a := range assignments {
		fmt.Fprintln(w, a.TaskID+" -> "+a.MemberID)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := t.ID + " [" + t.Status + "/" + strconv.Itoa(t.Points) + "pt] " + t.Title

	if t.Assignee != "" {
		line += " @" + t.Assignee
	}
	if t.Due != nil {
		line += " due:" + t.Due.String()
	}

	return line
}
