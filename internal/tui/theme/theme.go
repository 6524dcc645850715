// ABOUTME: huh form theme matching the gcdl palette
// ABOUTME: Shared by the login, signup, menu and entry forms

package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
)

// Form returns the huh theme for every gcdl form.
func Form() *huh.Theme {
	t := huh.ThemeBase()

	gold := styles.Secondary
	green := styles.Primary
	light := lipgloss.Color("#E5E7EB")

	t.Group.Title = lipgloss.NewStyle().Foreground(green).Bold(true).MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().Foreground(styles.Muted).MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(green)
	t.Focused.Title = lipgloss.NewStyle().Foreground(gold).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(styles.Danger).SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(styles.Danger)

	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(green).SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().Foreground(light)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(green).Bold(true)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(gold)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(green)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(light)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(green).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(styles.Muted).
		Background(styles.Surface).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(styles.Muted).SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().Foreground(styles.Muted)

	return t
}
