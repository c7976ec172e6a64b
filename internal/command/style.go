package command

import (
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/exectails/Yggdrasil-sub001/internal/behavior"
)

// palette colours command output. The zero value renders plain text.
type palette struct {
	enabled bool
	success lipgloss.Style
	failure lipgloss.Style
	running lipgloss.Style
	heading lipgloss.Style
	faint   lipgloss.Style
}

// newPalette resolves a color mode (auto, always, never) against out. In
// auto mode colour is used only when out is a terminal.
func newPalette(mode string, out io.Writer) palette {
	var enabled bool
	switch mode {
	case "always":
		enabled = true
	case "never":
		enabled = false
	default:
		f, ok := out.(*os.File)
		enabled = ok && term.IsTerminal(int(f.Fd()))
	}
	if !enabled {
		return palette{}
	}
	return palette{
		enabled: true,
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		running: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		heading: lipgloss.NewStyle().Bold(true).Underline(true),
		faint:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (p palette) render(s lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return s.Render(text)
}

// status renders a traversal status in its colour.
func (p palette) status(s behavior.Status) string {
	switch s {
	case behavior.Success:
		return p.render(p.success, s.String())
	case behavior.Failure:
		return p.render(p.failure, s.String())
	case behavior.Running:
		return p.render(p.running, s.String())
	default:
		return p.render(p.faint, "-")
	}
}

func (p palette) ok(text string) string { return p.render(p.success, text) }
func (p palette) bad(text string) string { return p.render(p.failure, text) }
func (p palette) title(text string) string { return p.render(p.heading, text) }
func (p palette) subtle(text string) string { return p.render(p.faint, text) }
