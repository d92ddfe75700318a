package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/planwright/internal/assign"
	"github.com/twiced-technology-gmbh/planwright/internal/graph"
	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)

	statusStyles = map[string]lipgloss.Style{
		task.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusBlocked:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	phaseStyles = map[string]lipgloss.Style{
		string(phase.Beginning): lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		string(phase.Middle):    lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		string(phase.End):       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}

	assigneeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	errStyle = lipgloss.NewStyle()
	okStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	phaseStyles = map[string]lipgloss.Style{}
	assigneeStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, statusW, ptsW, assigneeW, titleW, dueW := 4, 8, 5, 10, 7, 12
	for _, t := range tasks {
		idW = max(idW, len(t.ID)+pad)
		statusW = max(statusW, len(t.Status)+pad)
		assigneeW = max(assigneeW, len(t.Assignee)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s",
		idW, "ID", statusW, "STATUS", ptsW, "PTS",
		assigneeW, "ASSIGNEE", titleW, "TITLE", dueW, "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		assignee := t.Assignee
		if assignee == "" {
			assignee = dimStyle.Render("--")
		} else {
			assignee = assigneeStyle.Render(assignee)
		}
		due := dimStyle.Render("--")
		if t.Due != nil {
			due = t.Due.String()
		}

		row := fmt.Sprintf("%-*s %s %-*d %s %s %s",
			idW, t.ID,
			padRight(styledValue(t.Status, statusStyles), statusW),
			ptsW, t.Points,
			padRight(assignee, assigneeW),
			padRight(title, titleW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The markdown body is
// rendered through glamour when writing to a styled terminal.
func TaskDetail(w io.Writer, t *task.Task) {
	titleLine := fmt.Sprintf("Task %s: %s", t.ID, t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "Status", styledValue(t.Status, statusStyles))
	printField(w, "Points", strconv.Itoa(t.Points))
	printField(w, "Assignee", stringOrDash(t.Assignee))
	if t.Due != nil {
		printField(w, "Due", t.Due.String())
	} else {
		printField(w, "Due", dimStyle.Render("--"))
	}
	if len(t.DependsOn) > 0 {
		printField(w, "Depends on", strings.Join(t.DependsOn, ", "))
	}
	if len(t.Skills) > 0 {
		parts := make([]string, len(t.Skills))
		for i, s := range t.Skills {
			parts[i] = s.ID + "×" + strconv.Itoa(s.Weight)
		}
		printField(w, "Skills", strings.Join(parts, ", "))
	}
	printField(w, "Created", t.Created.Format("2006-01-02 15:04"))
	printField(w, "Updated", t.Updated.Format("2006-01-02 15:04"))

	if t.Body != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, MarkdownBody(t.Body))
	}
}

// PlacementTable renders the dependency-respecting execution order with
// phase buckets.
func PlacementTable(w io.Writer, placement phase.Placement, tasks []*task.Task) {
	byID := task.ByID(tasks)
	order := placement.Order()
	if len(order) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks to place.")
		return
	}

	header := fmt.Sprintf("%-5s %-10s %-6s %s", "SEQ", "PHASE", "ID", "TITLE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for i, id := range order {
		p, _ := placement.PhaseOf(id)
		title := ""
		if t, ok := byID[id]; ok {
			title = t.Title
		}
		row := fmt.Sprintf("%-5s %s %-6s %s",
			strconv.Itoa(i+1)+"/"+strconv.Itoa(len(order)),
			padRight(styledValue(string(p), phaseStyles), 10), //nolint:mnd // phase column width
			id, title)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// PositionLine renders a single task's placement lookup.
func PositionLine(w io.Writer, id string, pos phase.Position) {
	fmt.Fprintf(w, "%s: %s (%d/%d)\n",
		id, styledValue(string(pos.Phase), phaseStyles), pos.Index, pos.Total)
}

// AssignmentTable renders matcher output.
func AssignmentTable(w io.Writer, assignments []assign.Assignment) {
	if len(assignments) == 0 {
		fmt.Fprintln(os.Stderr, "No assignments produced.")
		return
	}

	header := fmt.Sprintf("%-8s %s", "TASK", "ASSIGNEE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, a := range assignments {
		fmt.Fprintf(w, "%-8s %s\n", a.TaskID, assigneeStyle.Render(a.MemberID))
	}
}

// ValidationLine renders a graph validation result.
func ValidationLine(w io.Writer, result graph.Result) {
	if result.OK {
		fmt.Fprintln(w, okStyle.Render("ok")+" dependency graph is valid")
		return
	}
	line := errStyle.Render(result.Reason)
	if result.Edge != nil {
		line += fmt.Sprintf(" %s → %s", result.Edge.From, result.Edge.To)
	}
	fmt.Fprintln(w, line)
}

// OverviewTable renders a plan summary as a formatted dashboard.
func OverviewTable(w io.Writer, s plan.Overview) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(s.ProjectName))
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.TotalTasks)

	header := fmt.Sprintf("%-14s %6s %11s %8s", "STATUS", "COUNT", "UNASSIGNED", "OVERDUE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, ss := range s.Statuses {
		const statusColW = 14
		fmt.Fprintf(w, "%s %6d %11d %8d\n",
			padRight(styledValue(ss.Status, statusStyles), statusColW),
			ss.Count, ss.Unassigned, ss.Overdue)
	}

	if !s.Graph.OK {
		fmt.Fprintln(w)
		ValidationLine(w, s.Graph)
		return
	}

	fmt.Fprintln(w)
	phaseHeader := fmt.Sprintf("%-14s %6s %7s", "PHASE", "COUNT", "POINTS")
	fmt.Fprintln(w, headerStyle.Render(phaseHeader))
	for _, ps := range s.Phases {
		const phaseColW = 14
		fmt.Fprintf(w, "%s %6d %7d\n",
			padRight(styledValue(string(ps.Phase), phaseStyles), phaseColW),
			ps.Count, ps.Points)
	}
}

// GroupedTable renders a grouped view with per-group status breakdowns.
func GroupedTable(w io.Writer, gs plan.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d tasks, %d pts)", g.Key, g.Total, g.Points)
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))

		for _, sc := range g.Statuses {
			if sc.Count == 0 {
				continue
			}
			const groupStatusW = 14
			fmt.Fprintf(w, "  %s %d\n",
				padRight(styledValue(sc.Status, statusStyles), groupStatusW), sc.Count)
		}
	}
}

// TeamTable renders members with their effective skill levels.
func TeamTable(w io.Writer, members []plan.Member, skillIDs []string, levels map[string]map[string]int) {
	if len(members) == 0 {
		fmt.Fprintln(os.Stderr, "No members found.")
		return
	}

	cols := make([]string, 0, len(skillIDs)+1)
	cols = append(cols, fmt.Sprintf("%-12s", "MEMBER"))
	for _, id := range skillIDs {
		cols = append(cols, fmt.Sprintf("%8s", strings.ToUpper(id)))
	}
	fmt.Fprintln(w, headerStyle.Render(strings.Join(cols, " ")))

	for _, m := range members {
		row := fmt.Sprintf("%-12s", m.ID)
		for _, id := range skillIDs {
			row += fmt.Sprintf(" %8d", levels[m.ID][id])
		}
		fmt.Fprintln(w, row)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

func styledValue(value string, styles map[string]lipgloss.Style) string {
	if style, ok := styles[value]; ok {
		return style.Render(value)
	}
	return value
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
