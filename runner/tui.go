package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// TUIFormatter implements Formatter with an animated terminal UI. The
// condition tree is not known before execution — conditions are discovered
// while examples run — so nodes are added as events arrive.
type TUIFormatter struct {
	program  *tea.Program
	model    *tuiModel
	mu       sync.Mutex
	finished bool
}

// NewTUIFormatter creates a TUI formatter with animations.
func NewTUIFormatter(w io.Writer) *TUIFormatter {
	model := newTUIModel()

	opts := []tea.ProgramOption{
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
		tea.WithAltScreen(), // Use alternate screen so animation doesn't pollute scrollback
	}

	// Only use input if we have a TTY
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		// TTY mode - full interactive
	} else {
		// Non-TTY mode - disable input
		opts = append(opts, tea.WithInput(nil))
	}

	p := tea.NewProgram(model, opts...)

	return &TUIFormatter{
		program: p,
		model:   model,
	}
}

// Start begins the TUI event loop. Call this before running scenarios.
func (t *TUIFormatter) Start() error {
	go func() {
		_, _ = t.program.Run()
	}()

	// Give the program a moment to initialize
	time.Sleep(20 * time.Millisecond)

	return nil
}

// Format sends an event to the TUI.
func (t *TUIFormatter) Format(event Event, _ *Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return nil
	}

	t.program.Send(conditionEventMsg(event))

	return nil
}

// Summary waits for completion and renders final output.
func (t *TUIFormatter) Summary(result *Result) error {
	t.mu.Lock()
	t.finished = true
	t.mu.Unlock()

	// Send done signal
	t.program.Send(doneMsg{result: result})
	time.Sleep(50 * time.Millisecond)

	// Quit and wait for program to exit cleanly
	t.program.Quit()
	time.Sleep(50 * time.Millisecond)

	// Print the final static output. The TUI used the alternate screen,
	// so exiting it returns us to the main screen with clean scrollback.
	fmt.Println(t.model.FinalView())

	return nil
}

// -----------------------------------------------------------------------------
// Tree Model - grown from events as they arrive
// -----------------------------------------------------------------------------

// nodeKind identifies what type of tree node this is.
type nodeKind int

const (
	kindScenario nodeKind = iota
	kindExample
	kindCondition
)

// nodeStatus tracks the state of a node.
type nodeStatus int

const (
	statusWaiting nodeStatus = iota
	statusRunning
	statusPass
	statusFail
	statusPending
	statusSkip
	statusError
)

func statusOf(a Action) nodeStatus {
	switch a {
	case ActionRun:
		return statusRunning
	case ActionPass:
		return statusPass
	case ActionFail:
		return statusFail
	case ActionPending:
		return statusPending
	case ActionSkip:
		return statusSkip
	case ActionError:
		return statusError
	default:
		return statusWaiting
	}
}

// treeNode represents a single node in the condition tree.
type treeNode struct {
	name     string
	kind     nodeKind
	status   nodeStatus
	children []*treeNode
	elapsed  time.Duration
	err      error
}

func (n *treeNode) child(name string, kind nodeKind) *treeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}

	c := &treeNode{name: name, kind: kind}
	n.children = append(n.children, c)

	return c
}

// -----------------------------------------------------------------------------
// Bubbletea Model
// -----------------------------------------------------------------------------

// tuiModel is the bubbletea model for the runner UI.
type tuiModel struct {
	styles  *Styles
	spinner spinner.Model

	width  int
	height int

	root *treeNode

	counters counters

	startTime time.Time
	endTime   time.Time

	finalResult *Result
	isDone      bool
}

type counters struct {
	passed  int
	failed  int
	pending int
	skipped int
	errors  int
}

func (c counters) done() int {
	return c.passed + c.failed + c.pending + c.skipped + c.errors
}

// Messages
type (
	tickMsg           time.Time
	conditionEventMsg Event
	doneMsg           struct{ result *Result }
)

func newTUIModel() *tuiModel {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: SpinnerFrames(),
		FPS:    time.Second / 10,
	}
	s.Style = DefaultStyles().Running

	return &tuiModel{
		styles:    DefaultStyles(),
		spinner:   s,
		root:      &treeNode{},
		startTime: time.Now(),
		width:     80,
		height:    24,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.tick(),
	)
}

func (m *tuiModel) tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.QuitMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case tickMsg:
		if !m.isDone {
			cmds = append(cmds, m.tick())
		}

	case spinner.TickMsg:
		if !m.isDone {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case conditionEventMsg:
		m.handleEvent(Event(msg))

	case doneMsg:
		m.isDone = true
		m.endTime = time.Now()
		m.finalResult = msg.result
	}

	return m, tea.Batch(cmds...)
}

func (m *tuiModel) handleEvent(event Event) {
	if len(event.Path) == 0 {
		return
	}

	scenario := m.root.child(event.Path[0], kindScenario)

	if len(event.Path) == 1 {
		// Scenario-level event: started, or a structural error.
		scenario.status = statusOf(event.Action)
		scenario.err = event.Error

		if event.Action == ActionError {
			m.counters.errors++
		}

		return
	}

	example := scenario.child(event.Path[1], kindExample)
	example.status = statusRunning

	if len(event.Path) < 3 {
		return
	}

	condition := example.child(event.Path[2], kindCondition)
	condition.status = statusOf(event.Action)
	condition.elapsed = event.Elapsed
	condition.err = event.Error

	switch event.Action {
	case ActionPass:
		m.counters.passed++
	case ActionFail:
		m.counters.failed++
	case ActionPending:
		m.counters.pending++
	case ActionSkip:
		m.counters.skipped++
	case ActionError:
		m.counters.errors++
	case ActionRun:
	}
}

// clearEOL is the ANSI escape sequence to clear from cursor to end of line.
const clearEOL = "\033[K"

// FinalView renders the complete final output for printing after the TUI
// exits.
func (m *tuiModel) FinalView() string {
	var lines []string

	lines = append(lines, m.renderHeader())
	lines = append(lines, m.renderProgress())
	lines = append(lines, "")

	treeLines := strings.Split(strings.TrimSuffix(m.renderTree(), "\n"), "\n")
	lines = append(lines, treeLines...)

	lines = append(lines, "")
	lines = append(lines, m.renderSummary())

	return strings.Join(lines, "\n")
}

func (m *tuiModel) View() string {
	var lines []string

	lines = append(lines, m.renderHeader())
	lines = append(lines, m.renderProgress())
	lines = append(lines, "")

	treeLines := strings.Split(strings.TrimSuffix(m.renderTree(), "\n"), "\n")
	lines = append(lines, treeLines...)

	if m.isDone {
		lines = append(lines, "")
		lines = append(lines, m.renderSummary())
	}

	// Add clear-to-EOL to each line to prevent rendering artifacts
	for i := range lines {
		lines[i] += clearEOL
	}

	return strings.Join(lines, "\n") + "\n"
}

func (m *tuiModel) renderHeader() string {
	logo := m.styles.Bold.Render("bspec")
	subtitle := m.styles.Dim.Render(" run")

	var status string

	switch {
	case m.isDone && (m.counters.failed > 0 || m.counters.errors > 0):
		status = m.styles.Fail.Render("FAIL")
	case m.isDone:
		status = m.styles.Pass.Render("PASS")
	default:
		running := m.countRunning()
		if running > 0 {
			status = m.styles.Running.Render(fmt.Sprintf("running %d", running))
		} else {
			status = m.styles.Dim.Render("starting")
		}
	}

	return fmt.Sprintf("%s%s  %s", logo, subtitle, status)
}

func (m *tuiModel) countRunning() int {
	count := 0

	for _, s := range m.root.children {
		if s.status == statusRunning {
			count++
		}
	}

	return count
}

func (m *tuiModel) renderProgress() string {
	done := m.counters.done()

	// Elapsed time
	elapsed := time.Since(m.startTime)
	if !m.endTime.IsZero() {
		elapsed = m.endTime.Sub(m.startTime)
	}

	elapsedStr := m.styles.Dim.Render(fmt.Sprintf("[%s]", formatDuration(elapsed)))

	// The total is unknown until execution ends, so the bar fills only on
	// completion.
	barWidth := 30
	filled := 0

	if m.isDone {
		filled = barWidth
	}

	filledChar, emptyChar := ProgressChars()

	bar := m.styles.ProgressFilled.Render(strings.Repeat(filledChar, filled)) +
		m.styles.ProgressEmpty.Render(strings.Repeat(emptyChar, barWidth-filled))

	counter := m.styles.Muted.Render(fmt.Sprintf("%d done", done))

	return fmt.Sprintf("%s %s %s", elapsedStr, bar, counter)
}

func (m *tuiModel) renderTree() string {
	var b strings.Builder

	for _, scenario := range m.root.children {
		b.WriteString(m.renderSymbol(scenario))
		b.WriteString(" ")
		b.WriteString(m.styles.Bold.Render(scenario.name))
		b.WriteString("\n")

		if scenario.err != nil {
			b.WriteString("   ")
			b.WriteString(m.styles.Error.Render(scenario.err.Error()))
			b.WriteString("\n")
		}

		for i, child := range scenario.children {
			isLast := i == len(scenario.children)-1
			m.renderNode(&b, child, "", isLast)
		}

		b.WriteString("\n")
	}

	return b.String()
}

// computeStatus calculates status for a branch node from its children.
func (m *tuiModel) computeStatus(node *treeNode) nodeStatus {
	if node.kind == kindCondition {
		return node.status
	}

	if len(node.children) == 0 {
		return node.status
	}

	hasRunning := false
	hasFailed := false
	hasPending := false
	allPassed := true

	for _, child := range node.children {
		switch m.computeStatus(child) {
		case statusRunning, statusWaiting:
			hasRunning = true
			allPassed = false
		case statusFail, statusError:
			hasFailed = true
			allPassed = false
		case statusPending:
			hasPending = true
			allPassed = false
		case statusSkip:
			// Skip doesn't affect pass status
		case statusPass:
			// Good
		}
	}

	switch {
	case hasRunning:
		return statusRunning
	case hasFailed:
		return statusFail
	case hasPending:
		return statusPending
	case allPassed:
		return statusPass
	default:
		return statusSkip
	}
}

func (m *tuiModel) renderNode(b *strings.Builder, node *treeNode, prefix string, isLast bool) {
	branch := "├─"
	if isLast {
		branch = "╰─"
	}

	symbol := m.renderSymbol(node)

	name := node.name

	switch node.kind {
	case kindExample:
		name = m.styles.Muted.Render(name)
	case kindCondition:
		name = m.styles.Path.Render(name)
	case kindScenario:
	}

	dur := ""
	if node.kind == kindCondition && node.elapsed > 0 {
		dur = m.styles.Dim.Render(fmt.Sprintf("  [%s]", formatDuration(node.elapsed)))
	}

	b.WriteString(m.styles.Dim.Render(prefix + branch + " "))
	b.WriteString(symbol)
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(dur)
	b.WriteString("\n")

	// Failure details (indented under the condition)
	if (node.status == statusFail || node.status == statusError) && node.err != nil {
		detailPrefix := prefix
		if isLast {
			detailPrefix += "  "
		} else {
			detailPrefix += "│ "
		}

		b.WriteString(m.styles.Dim.Render(detailPrefix + "   "))
		b.WriteString(m.styles.Fail.Render(firstLine(node.err.Error())))
		b.WriteString("\n")
	}

	childPrefix := prefix
	if isLast {
		childPrefix += "  "
	} else {
		childPrefix += "│ "
	}

	for i, child := range node.children {
		childIsLast := i == len(node.children)-1
		m.renderNode(b, child, childPrefix, childIsLast)
	}
}

func (m *tuiModel) renderSymbol(node *treeNode) string {
	status := node.status
	if node.kind != kindCondition {
		status = m.computeStatus(node)
	}

	switch status {
	case statusWaiting:
		return m.styles.Dim.Render("⋯")
	case statusRunning:
		return m.spinner.View()
	case statusPass:
		return m.styles.Pass.Render(m.styles.SymbolPass)
	case statusFail:
		return m.styles.Fail.Render(m.styles.SymbolFail)
	case statusPending:
		return m.styles.Pending.Render(m.styles.SymbolPending)
	case statusSkip:
		return m.styles.Skip.Render(m.styles.SymbolSkip)
	case statusError:
		return m.styles.Error.Render(m.styles.SymbolFail)
	default:
		return " "
	}
}

func (m *tuiModel) renderSummary() string {
	var parts []string

	if m.counters.passed > 0 {
		parts = append(parts, m.styles.Pass.Render(fmt.Sprintf("%d passed", m.counters.passed)))
	}

	if m.counters.failed > 0 {
		parts = append(parts, m.styles.Fail.Render(fmt.Sprintf("%d failed", m.counters.failed)))
	}

	if m.counters.pending > 0 {
		parts = append(parts, m.styles.Pending.Render(fmt.Sprintf("%d pending", m.counters.pending)))
	}

	if m.counters.skipped > 0 {
		parts = append(parts, m.styles.Skip.Render(fmt.Sprintf("%d skipped", m.counters.skipped)))
	}

	if m.counters.errors > 0 {
		parts = append(parts, m.styles.Error.Render(fmt.Sprintf("%d errors", m.counters.errors)))
	}

	if len(parts) == 0 {
		return "  " + m.styles.Dim.Render("No conditions run")
	}

	total := m.styles.Muted.Render(fmt.Sprintf("(%d total)", m.counters.done()))
	sep := m.styles.Dim.Render(" │ ")

	return "  " + strings.Join(parts, sep) + " " + total
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}

	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}

	return s
}

// -----------------------------------------------------------------------------
// TUIHandler - Bridges TUI to Handler interface
// -----------------------------------------------------------------------------

// TUIHandler wraps TUIFormatter to implement Handler.
type TUIHandler struct {
	formatter *TUIFormatter
	stderr    io.Writer
}

// NewTUIHandler creates a handler that uses the TUI formatter.
func NewTUIHandler(w io.Writer, stderr io.Writer) *TUIHandler {
	return &TUIHandler{
		formatter: NewTUIFormatter(w),
		stderr:    stderr,
	}
}

// Start initializes the TUI.
func (h *TUIHandler) Start() error {
	return h.formatter.Start()
}

// Event sends an event to the TUI.
func (h *TUIHandler) Event(_ context.Context, event Event, result *Result) error {
	return h.formatter.Format(event, result)
}

// Err writes to stderr.
func (h *TUIHandler) Err(text string) error {
	_, err := h.stderr.Write([]byte(text + "\n"))

	return err
}

// Summary renders the final summary.
func (h *TUIHandler) Summary(result *Result) error {
	return h.formatter.Summary(result)
}
