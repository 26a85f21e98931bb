package runner

import "github.com/charmbracelet/lipgloss"

// Styles is the lipgloss style set shared by the pretty formatter and the
// TUI.
type Styles struct {
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Skip    lipgloss.Style
	Pending lipgloss.Style
	Error   lipgloss.Style
	Running lipgloss.Style

	Bold  lipgloss.Style
	Dim   lipgloss.Style
	Muted lipgloss.Style
	Path  lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style

	SymbolPass    string
	SymbolFail    string
	SymbolSkip    string
	SymbolPending string
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Skip:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("105")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		Running: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),

		Bold:  lipgloss.NewStyle().Bold(true),
		Dim:   lipgloss.NewStyle().Faint(true),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Path:  lipgloss.NewStyle().Faint(true).Italic(true),

		ProgressFilled: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		ProgressEmpty:  lipgloss.NewStyle().Faint(true),

		SymbolPass:    "✓",
		SymbolFail:    "✗",
		SymbolSkip:    "−",
		SymbolPending: "…",
	}
}

// SpinnerFrames returns the spinner animation frames.
func SpinnerFrames() []string {
	return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
}

// ProgressChars returns the filled and empty progress bar characters.
func ProgressChars() (string, string) {
	return "█", "░"
}
