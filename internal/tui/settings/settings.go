// ABOUTME: Settings screen with the change-password form
// ABOUTME: A successful change ends the session so the user signs in again

package settings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/theme"
)

// Messages shown after a change attempt.
const (
	MismatchMessage = "New passwords do not match"
	ChangedMessage  = "Password changed successfully. Please log in again."
)

// SubmitMsg asks the app to change the password.
type SubmitMsg struct {
	Current string
	New     string
}

// CancelledMsg is sent on esc.
type CancelledMsg struct{}

// Settings is the settings screen.
type Settings struct {
	identity *session.Identity
	current  string
	next     string
	confirm  string
	errMsg   string
	success  string
	pending  bool
	form     *huh.Form
}

func New(identity *session.Identity) *Settings {
	s := &Settings{identity: identity}
	s.form = s.build()
	return s
}

func (s *Settings) build() *huh.Form {
	s.current, s.next, s.confirm = "", "", ""
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).
			Value(&s.current).Validate(huh.ValidateNotEmpty()),
		huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).
			Value(&s.next).Validate(huh.ValidateMinLength(6)),
		huh.NewInput().Title("Confirm new password").EchoMode(huh.EchoModePassword).
			Value(&s.confirm),
	).Title(icons.Lock.String() + " Change Password")).
		WithTheme(theme.Form()).
		WithShowHelp(false)
}

// SetError shows msg over a fresh form.
func (s *Settings) SetError(msg string) tea.Cmd {
	s.pending = false
	s.success = ""
	s.errMsg = msg
	s.form = s.build()
	return s.form.Init()
}

// SetChanged shows the success message. The app logs out afterwards.
func (s *Settings) SetChanged() {
	s.pending = false
	s.errMsg = ""
	s.success = ChangedMessage
}

func (s *Settings) Init() tea.Cmd {
	return s.form.Init()
}

func (s *Settings) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s.pending || s.success != "" {
		return s, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return s, func() tea.Msg { return CancelledMsg{} }
	}
	model, cmd := s.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		return s, s.submit()
	}
	return s, cmd
}

func (s *Settings) submit() tea.Cmd {
	if s.next != s.confirm {
		return s.SetError(MismatchMessage)
	}
	s.pending = true
	s.errMsg = ""
	out := SubmitMsg{Current: s.current, New: s.next}
	return func() tea.Msg { return out }
}

func (s *Settings) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Settings.String() + " Settings"))
	sb.WriteString("\n")
	if s.identity != nil {
		sb.WriteString(styles.KeyStyle.Render("Name  ") + styles.ValueStyle.Render(s.identity.FullName) + "\n")
		sb.WriteString(styles.KeyStyle.Render("Email ") + styles.ValueStyle.Render(s.identity.Email) + "\n")
		sb.WriteString(styles.KeyStyle.Render("Role  ") + styles.ValueStyle.Render(s.identity.Role.String()) + "\n")
	}
	sb.WriteString("\n")
	switch {
	case s.success != "":
		sb.WriteString(styles.SuccessText.Render(icons.CheckOK.String() + " " + s.success))
		return sb.String()
	case s.errMsg != "":
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + s.errMsg))
		sb.WriteString("\n\n")
	}
	if s.pending {
		sb.WriteString(styles.HintText.Render("Saving…"))
		return sb.String()
	}
	sb.WriteString(s.form.View())
	return sb.String()
}
