// Package tui implements a terminal UI for planwright phase boards.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/plan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewConfirmDelete
)

// Key and layout constants.
const (
	keyEsc = "esc"

	boardChrome = 2 // blank line + status bar below the column area
	errorChrome = 1 // extra line when error toast is displayed
)

// Board is the top-level bubbletea model. Columns are plan phases in
// dependency order: beginning, middle, end.
type Board struct {
	cfg       *config.Config
	tasks     []*task.Task
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	graphErr  string
	now       func() time.Time

	// Delete confirmation.
	deleteID    string
	deleteTitle string
}

// column groups tasks belonging to a single phase.
type column struct {
	phase     phase.Phase
	tasks     []*task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a new Board model from a config.
func NewBoard(cfg *config.Config) *Board {
	b := &Board{cfg: cfg, now: time.Now}
	b.loadTasks()
	return b
}

// SetNow overrides the clock used for overdue highlighting (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil
	case ReloadMsg:
		b.loadTasks()
		return b, nil
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	if b.view == viewConfirmDelete {
		return b.viewDeleteConfirm()
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	switch b.view {
	case viewBoard:
		return b.handleBoardKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	}

	return b, nil
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc:
		return b, tea.Quit
	case "h", "left":
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case "l", "right":
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case "j", "down":
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", "up":
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case "s":
		b.cycleStatus()
	case "d", "D":
		b.handleDeleteStart()
	case "r":
		b.loadTasks()
	}
	return b, nil
}

// cycleStatus advances the selected task to the next status in board order.
func (b *Board) cycleStatus() {
	t := b.selectedTask()
	if t == nil {
		return
	}

	statuses := task.Statuses()
	next := statuses[0]
	for i, s := range statuses {
		if s == t.Status {
			next = statuses[(i+1)%len(statuses)]
			break
		}
	}

	t.Status = next
	t.Updated = b.now()
	if err := task.Write(t.File, t); err != nil {
		b.err = fmt.Errorf("updating task %s: %w", t.ID, err)
		return
	}
	plan.LogMutation(b.cfg.Dir(), "status", t.ID, next)
	b.loadTasks()
}

func (b *Board) handleDeleteStart() {
	if t := b.selectedTask(); t != nil {
		b.deleteID = t.ID
		b.deleteTitle = t.Title
		b.view = viewConfirmDelete
	}
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return b.executeDelete()
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) executeDelete() (tea.Model, tea.Cmd) {
	if err := plan.DeleteTask(b.cfg, b.deleteID); err != nil {
		b.err = fmt.Errorf("deleting task %s: %w", b.deleteID, err)
	} else {
		plan.LogMutation(b.cfg.Dir(), "delete", b.deleteID, b.deleteTitle)
	}

	b.view = viewBoard
	b.loadTasks()
	return b, nil
}

// loadTasks reads all tasks and organizes them into phase columns.
func (b *Board) loadTasks() {
	tasks, _, err := task.ReadAllLenient(b.cfg.TasksPath())
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	b.graphErr = ""
	b.tasks = tasks

	b.columns = make([]column, len(phase.All()))
	for i, ph := range phase.All() {
		b.columns[i] = column{phase: ph}
	}

	res := plan.ValidateGraph(tasks)
	if !res.OK {
		// Without a valid graph there is no placement; show every task in
		// the first column and surface the validation failure.
		b.graphErr = res.Reason
		if res.Edge != nil {
			b.graphErr += " " + res.Edge.From + "->" + res.Edge.To
		}
		b.columns[0].tasks = tasks
		b.clampRow()
		return
	}

	placement := plan.Placement(tasks)
	byID := task.ByID(tasks)
	for _, id := range placement.Order() {
		t, ok := byID[id]
		if !ok {
			continue
		}
		ph, ok := placement.PhaseOf(id)
		if !ok {
			continue
		}
		for i := range b.columns {
			if b.columns[i].phase == ph {
				b.columns[i].tasks = append(b.columns[i].tasks, t)
				break
			}
		}
	}

	b.clampRow()
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.tasks) {
		return col.tasks[b.activeRow]
	}
	return nil
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// chromeHeight returns the number of lines consumed by non-card elements below
// the column area: blank line + status bar (+ error line when an error is shown).
func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil || b.graphErr != "" {
		h += errorChrome
	}
	return h
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines ("↑ N more" / "↓ N more") that
// consume vertical space.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.height - b.chromeHeight()
	if budget < 1 {
		return 1
	}

	// Always need 1 line for column header.
	avail := budget - 1

	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)

	if col.scrollOff+n < len(col.tasks) {
		// Re-compute with 1 fewer line for the down indicator.
		n = b.fitCardsInHeight(col, avail-1, width)
		if n < 1 {
			n = 1
		}
	}

	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	w := b.columnWidth()

	for range len(col.tasks) + 1 {
		maxVis := b.visibleCardsForColumn(col, w)

		switch {
		case b.activeRow >= col.scrollOff+maxVis:
			col.scrollOff = b.activeRow - maxVis + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return // selected row is visible
		}
	}
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.tasks) == 0 {
		return 1
	}
	if avail < 1 {
		return 1
	}

	used := 0
	count := 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		cardLines := b.cardHeight(col.tasks[i], width)
		if count > 0 && used+cardLines > avail {
			break
		}
		count++
		used += cardLines
		if used >= avail {
			break
		}
	}

	if count < 1 {
		return 1
	}
	return count
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	paths := []string{b.cfg.TasksPath()}
	if b.cfg.Dir() != b.cfg.TasksPath() {
		paths = append(paths, b.cfg.Dir())
	}
	return paths
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginBottom(0)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1).
			MarginBottom(0)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusCardStyles = map[string]lipgloss.Style{
		task.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusBlocked:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	}

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

// --- View rendering ---

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	// Ensure the board view fits within the available height. At very small
	// terminal sizes, a single card can exceed the budget. Clamp from the
	// bottom (keeping headers at the top) and pad if needed.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	statusBar := b.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", statusBar)
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	w := b.width / len(b.columns)
	const maxColWidth = 75
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	headerText := fmt.Sprintf("%s (%d)", col.phase, len(col.tasks))
	// Truncate to fit within padding (1 left + 1 right).
	const headerPad = 2
	headerText = truncate(headerText, width-headerPad)

	var header string
	if colIdx == b.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	} else {
		header = columnHeaderStyle.Width(width).Render(headerText)
	}

	maxVis := b.visibleCardsForColumn(&col, width)
	start := col.scrollOff
	end := start + maxVis
	if end > len(col.tasks) {
		end = len(col.tasks)
	}
	if start > len(col.tasks) {
		start = len(col.tasks)
	}

	parts := []string{header}

	if start > 0 {
		indicator := fmt.Sprintf("  ↑ %d more", start)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	} else {
		for rowIdx := start; rowIdx < end; rowIdx++ {
			t := col.tasks[rowIdx]
			active := colIdx == b.activeCol && rowIdx == b.activeRow
			parts = append(parts, b.renderCard(t, active, width))
		}
	}

	if end < len(col.tasks) {
		remaining := len(col.tasks) - end
		indicator := fmt.Sprintf("  ↓ %d more", remaining)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t *task.Task, active bool, width int) string {
	contentLines := b.cardContentLines(t, width)
	content := strings.Join(contentLines, "\n")

	style := cardStyle
	if active {
		style = activeCardStyle
	}

	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) cardHeight(t *task.Task, width int) int {
	contentLines := b.cardContentLines(t, width)
	return len(contentLines) + 2 //nolint:mnd // top and bottom borders
}

func (b *Board) cardContentLines(t *task.Task, width int) []string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := width - cardChrome
	if cardWidth < 1 {
		cardWidth = 1
	}

	const maxTitleLines = 2

	var contentLines []string

	// First line: ID + status + points.
	statusStyle, ok := statusCardStyles[t.Status]
	if !ok {
		statusStyle = dimStyle
	}
	head := t.ID + " " + statusStyle.Render(t.Status) + " " +
		dimStyle.Render(strconv.Itoa(t.Points)+"pt")
	contentLines = append(contentLines, head)

	// Title, wrapped.
	for _, line := range wrapTitle(t.Title, cardWidth, maxTitleLines) {
		contentLines = append(contentLines, line)
	}

	// Assignee and due date on one dim line when present.
	var meta []string
	if t.Assignee != "" {
		meta = append(meta, "@"+t.Assignee)
	}
	if t.Due != nil {
		due := "due:" + t.Due.String()
		if t.DueTime() != nil && t.DueTime().Before(b.now()) && t.Status != task.StatusDone {
			due = overdueStyle.Render(due)
		} else {
			due = dimStyle.Render(due)
		}
		meta = append(meta, due)
	}
	if len(meta) > 0 {
		contentLines = append(contentLines, strings.Join(meta, " "))
	}

	if len(t.DependsOn) > 0 {
		deps := "deps: " + strings.Join(t.DependsOn, ",")
		contentLines = append(contentLines, dimStyle.Render(truncate(deps, cardWidth)))
	}

	return contentLines
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(title) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
		} else {
			lines = append(lines, truncate(current.String(), maxWidth))
			current.Reset()
			current.WriteString(word)
			if len(lines) == maxLines-1 {
				// Last line: append all remaining words.
				for _, w := range words[i+1:] {
					current.WriteByte(' ')
					current.WriteString(w)
				}
				break
			}
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func (b *Board) renderStatusBar() string {
	total := len(b.tasks)
	status := fmt.Sprintf(" %s | %d tasks | s:status d:del r:reload q:quit",
		b.cfg.Project.Name, total)
	status = truncate(status, b.width)

	if b.graphErr != "" {
		errStr := errorStyle.Render(truncate("Graph: "+b.graphErr, b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}

	return statusBarStyle.Render(status)
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s: %s", b.deleteID, b.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := maxLen - 3 //nolint:mnd // room for "..."
	if target > len(runes) {
		target = len(runes)
	}
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
