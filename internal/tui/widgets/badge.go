// ABOUTME: Coloured inline badges for payment and credit statuses
// ABOUTME: Unknown statuses render neutral so new backend values still display

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
)

// Level is a badge severity.
type Level int

const (
	LevelNeutral Level = iota
	LevelOK
	LevelWarning
	LevelCritical
)

// StatusLevel maps a sale or credit status to a level.
func StatusLevel(status string) Level {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "paid", "completed", "cleared":
		return LevelOK
	case "pending", "partial", "partially paid", "unpaid":
		return LevelWarning
	case "overdue", "defaulted":
		return LevelCritical
	}
	return LevelNeutral
}

// Badge renders text on a background matching level.
func Badge(text string, level Level) string {
	bg, fg := styles.Muted, lipgloss.Color("#FFFFFF")
	switch level {
	case LevelOK:
		bg = styles.Success
	case LevelWarning:
		bg, fg = styles.Warning, lipgloss.Color("#000000")
	case LevelCritical:
		bg = styles.Danger
	}
	return lipgloss.NewStyle().Background(bg).Foreground(fg).Padding(0, 1).Bold(true).Render(text)
}

// StatusBadge is Badge(status, StatusLevel(status)); empty status renders "-".
func StatusBadge(status string) string {
	if status == "" {
		return "-"
	}
	return Badge(status, StatusLevel(status))
}
