// ABOUTME: Horizontal bars for share-of-total and capacity displays
// ABOUTME: Branch sales share on the CEO board and agent slots per branch

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
)

// Bar renders value/total as a filled bar of width cells.
func Bar(value, total float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if total > 0 {
		filled = int(value / total * float64(width))
	}
	filled = max(0, min(filled, width))

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("░", width-filled))
}

// Capacity renders used/limit slots, e.g. "●● 2/2", coloured by fullness.
func Capacity(used, limit int) string {
	used = max(0, used)
	color := styles.Success
	switch {
	case used >= limit:
		color = styles.Danger
	case used > 0:
		color = styles.Warning
	}
	dots := strings.Repeat("●", min(used, limit)) + strings.Repeat("○", max(0, limit-used))
	return lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%s %d/%d", dots, used, limit))
}
