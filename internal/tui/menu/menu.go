// ABOUTME: Navigation menu listing the routes visible to the current role
// ABOUTME: A huh select embedded as a bubbletea model that emits the chosen action

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/theme"
)

// Action values that are not paths.
const (
	ActionLogout = "logout"
	ActionQuit   = "quit"
)

// NavigateMsg asks the app to resolve Path.
type NavigateMsg struct{ Path string }

// LogoutMsg asks the app to end the session.
type LogoutMsg struct{}

// QuitMsg asks the app to exit.
type QuitMsg struct{}

// CancelledMsg is sent when the menu is dismissed.
type CancelledMsg struct{}

// Menu is the navigation menu for one identity.
type Menu struct {
	items    []routing.NavItem
	selected string
	form     *huh.Form
}

// New builds the menu from the nav items visible to identity. current is
// preselected.
func New(identity *session.Identity, current string) *Menu {
	m := &Menu{items: routing.NavItems(identity), selected: current}

	opts := make([]huh.Option[string], 0, len(m.items)+2)
	for _, it := range m.items {
		opts = append(opts, huh.NewOption(it.Title, it.Path))
	}
	opts = append(opts,
		huh.NewOption("Log out", ActionLogout),
		huh.NewOption("Quit", ActionQuit),
	)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Go to").
				Options(opts...).
				Value(&m.selected),
		),
	).WithTheme(theme.Form()).WithShowHelp(false)
	return m
}

// Items returns the navigation entries, excluding logout and quit.
func (m *Menu) Items() []routing.NavItem {
	return m.items
}

func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, Choose(m.selected)
	}
	return m, cmd
}

// Choose converts a menu value into the message it triggers.
func Choose(value string) tea.Cmd {
	return func() tea.Msg {
		switch value {
		case ActionLogout:
			return LogoutMsg{}
		case ActionQuit:
			return QuitMsg{}
		default:
			return NavigateMsg{Path: value}
		}
	}
}

func (m *Menu) View() string {
	return m.form.View()
}
