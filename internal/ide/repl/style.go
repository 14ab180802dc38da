package repl

import (
	"io"

	"ojide/internal/ide/display"
	"ojide/internal/ide/judge"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	accepted lipgloss.Style
	failed   lipgloss.Style
	compile  lipgloss.Style
	system   lipgloss.Style
	pending  lipgloss.Style
	dim      lipgloss.Style
}

// newStyles binds the palette to out so colors are dropped when out is not a
// terminal.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		accepted: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ecc71")),
		failed:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#e74c3c")),
		compile:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#f1c40f")),
		system:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#e056fd")),
		pending:  r.NewStyle().Foreground(lipgloss.Color("#3498db")),
		dim:      r.NewStyle().Faint(true),
	}
}

func (s styles) forKind(kind judge.Kind) lipgloss.Style {
	switch kind {
	case judge.KindAccepted:
		return s.accepted
	case judge.KindWrongAnswer, judge.KindRuntimeFailure:
		return s.failed
	case judge.KindCompileError, display.KindTimeout:
		return s.compile
	case judge.KindPending:
		return s.pending
	default:
		return s.system
	}
}
