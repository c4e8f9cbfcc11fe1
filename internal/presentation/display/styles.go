package display

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/penwyp/go-timeline-clock/internal/presentation/layout"
)

// Palette
var (
	colorTick     = lipgloss.AdaptiveColor{Light: "#9ca0b0", Dark: "#45475a"}
	colorRule     = lipgloss.AdaptiveColor{Light: "#8c8fa1", Dark: "#6c7086"}
	colorHourRule = lipgloss.AdaptiveColor{Light: "#5c5f77", Dark: "#a6adc8"}
	colorLabel    = lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#bac2de"}
	colorHour     = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}
	colorLine     = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorReadout  = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorStatus   = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"}
	colorHelpBg   = lipgloss.AdaptiveColor{Light: "#e6e9ef", Dark: "#313244"}
)

// Styles maps grid roles to lipgloss styles.
type Styles struct {
	roles map[layout.Role]lipgloss.Style
	plain bool
}

// NewStyles builds the role styles for output written to w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	// Query the background now, before the keyboard reader owns stdin
	r.HasDarkBackground()
	return newStyles(r, false)
}

// PlainStyles renders every role without escape sequences.
func PlainStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.Ascii)
	return newStyles(r, true)
}

func newStyles(r *lipgloss.Renderer, plain bool) Styles {
	return Styles{
		plain: plain,
		roles: map[layout.Role]lipgloss.Style{
			layout.RoleTick:      r.NewStyle().Foreground(colorTick),
			layout.RoleRule:      r.NewStyle().Foreground(colorRule),
			layout.RoleHourRule:  r.NewStyle().Foreground(colorHourRule),
			layout.RoleLabel:     r.NewStyle().Foreground(colorLabel),
			layout.RoleHourLabel: r.NewStyle().Foreground(colorHour).Bold(true),
			layout.RoleLine:      r.NewStyle().Foreground(colorLine).Bold(true),
			layout.RoleReadout:   r.NewStyle().Foreground(colorReadout).Bold(true),
			layout.RoleStatus:    r.NewStyle().Foreground(colorStatus),
			layout.RoleHelp:      r.NewStyle().Foreground(colorLabel).Background(colorHelpBg),
		},
	}
}

// Render styles text drawn with role.
func (s Styles) Render(role layout.Role, text string) string {
	if s.plain || role == layout.RoleBlank {
		return text
	}
	style, ok := s.roles[role]
	if !ok {
		return text
	}
	return style.Render(text)
}

// RenderRow styles one grid row.
func (s Styles) RenderRow(g *layout.Grid, row int) string {
	var sb strings.Builder
	for _, run := range g.Runs(row) {
		sb.WriteString(s.Render(run.Role, run.Text))
	}
	return sb.String()
}
