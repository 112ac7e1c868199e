package console

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette styles the command output.
type Palette struct {
	Title lipgloss.Style
	OK    lipgloss.Style
	Warn  lipgloss.Style
	Faint lipgloss.Style
}

// NewPalette builds a palette from foreground colors.
func NewPalette(title, ok, warn, faint string) *Palette {
	return &Palette{
		Title: newStyle(title).Bold(true),
		OK:    newStyle(ok).Bold(true),
		Warn:  newStyle(warn),
		Faint: newStyle(faint).Italic(true),
	}
}

// DefaultPalette is used for terminal output.
func DefaultPalette() *Palette {
	return NewPalette("#1DB954", "#04B575", "#FFA500", "#626262")
}

// PlainPalette renders text unchanged.
func PlainPalette() *Palette {
	plain := lipgloss.NewStyle()
	return &Palette{Title: plain, OK: plain, Warn: plain, Faint: plain}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
