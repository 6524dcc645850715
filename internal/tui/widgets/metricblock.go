// ABOUTME: Bordered KPI block with the title set into the top border
// ABOUTME: Used for headline sales, tonnage and profit figures on dashboards

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
)

// DefaultBlockWidth fits four blocks across an 100-column terminal.
const DefaultBlockWidth = 24

// MetricBlock renders:
//
//	┌─ $ Total Sales ──────┐
//	│ UGX 1,500,000        │
//	│ last 30 days         │
//	└──────────────────────┘
func MetricBlock(icon icons.Icon, title, value, subtitle string, width int) string {
	if width <= 0 {
		width = DefaultBlockWidth
	}
	inner := width - 4

	border := lipgloss.NewStyle().Foreground(styles.Muted)
	titleText := truncate(icon.String()+" "+title, inner-1)
	top := border.Render("┌─ ") +
		lipgloss.NewStyle().Foreground(styles.Primary).Render(titleText) +
		border.Render(" "+strings.Repeat("─", max(0, width-5-lipgloss.Width(titleText)))+"┐")

	line := func(s string, style lipgloss.Style) string {
		s = truncate(s, inner)
		pad := strings.Repeat(" ", max(0, inner-lipgloss.Width(s)))
		return border.Render("│ ") + style.Render(s) + pad + border.Render(" │")
	}

	return strings.Join([]string{
		top,
		line(value, styles.ValueStyle),
		line(subtitle, lipgloss.NewStyle().Foreground(styles.Muted)),
		border.Render("└" + strings.Repeat("─", width-2) + "┘"),
	}, "\n")
}

// Row lays blocks out side by side with a one-space gap.
func Row(blocks ...string) string {
	spaced := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
