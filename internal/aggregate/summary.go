package aggregate

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGold = lipgloss.Color("220")
	colorCyan = lipgloss.Color("86")
	colorDim  = lipgloss.Color("242")
)

// Styles holds the summary styles.
type Styles struct {
	Title  lipgloss.Style
	Award  lipgloss.Style
	Label  lipgloss.Style
	Winner lipgloss.Style
	Empty  lipgloss.Style
}

// DefaultStyles returns the terminal look.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colorGold).MarginBottom(1),
		Award:  lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		Label:  lipgloss.NewStyle().Foreground(colorDim).Width(12),
		Winner: lipgloss.NewStyle().Bold(true),
		Empty:  lipgloss.NewStyle().Foreground(colorDim).Italic(true),
	}
}

// PlainStyles renders without any escape codes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Title: plain, Award: plain, Label: plain.Width(12), Winner: plain, Empty: plain}
}

// RenderSummary writes a human-readable report of f.
func RenderSummary(w io.Writer, f Final, s Styles) error {
	var b strings.Builder
	b.WriteString(s.Title.Render("Golden Globes"))
	b.WriteString("\n")
	b.WriteString(s.Label.Render("Hosts") + list(f.Hosts, s) + "\n\n")

	for _, a := range f.Awards {
		b.WriteString(s.Award.Render(a.Name) + "\n")
		winner := s.Empty.Render("unknown")
		if a.Winner != "" {
			winner = s.Winner.Render(a.Winner)
		}
		b.WriteString(s.Label.Render("  Winner") + winner + "\n")
		b.WriteString(s.Label.Render("  Nominees") + list(a.Nominees, s) + "\n")
		b.WriteString(s.Label.Render("  Presenters") + list(a.Presenters, s) + "\n")
	}
	if len(f.Awards) == 0 {
		b.WriteString(s.Empty.Render("no awards detected") + "\n")
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}

func list(items []string, s Styles) string {
	if len(items) == 0 {
		return s.Empty.Render("none")
	}
	return strings.Join(items, ", ")
}
