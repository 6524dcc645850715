// ABOUTME: Login screen: email and password form with a spinner while signing in
// ABOUTME: Emits SubmitMsg; the app performs the login and reports back via SetError

package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/theme"
)

// SubmitMsg carries the entered credentials.
type SubmitMsg struct {
	Email    string
	Password string
}

// SignupMsg is sent when the user asks to create an account.
type SignupMsg struct{}

// Login is the login screen model.
type Login struct {
	email    string
	password string
	errMsg   string
	notice   string
	pending  bool
	spinner  spinner.Model
	form     *huh.Form
}

// New returns a login screen with email prefilled.
func New(email string) *Login {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.HintText
	l := &Login{email: email, spinner: s}
	l.form = l.buildForm()
	return l
}

func (l *Login) buildForm() *huh.Form {
	l.password = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@gcdl.co.ug").
				Value(&l.email).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(huh.ValidateNotEmpty()),
		).Title(icons.Lock.String() + " Sign in").
			Description("Golden Crop Distributors Ltd"),
	).WithTheme(theme.Form()).WithShowHelp(false)
}

// SetError shows msg above a fresh form. The email is kept.
func (l *Login) SetError(msg string) tea.Cmd {
	l.errMsg = msg
	l.pending = false
	l.form = l.buildForm()
	return l.form.Init()
}

// SetNotice shows an informational line, e.g. after signing up.
func (l *Login) SetNotice(msg string) {
	l.notice = msg
}

// SetPending toggles the in-flight spinner.
func (l *Login) SetPending(pending bool) tea.Cmd {
	l.pending = pending
	if pending {
		l.errMsg = ""
		return l.spinner.Tick
	}
	return nil
}

// Email returns the email currently entered.
func (l *Login) Email() string {
	return l.email
}

// Error returns the message being shown, if any.
func (l *Login) Error() string {
	return l.errMsg
}

func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+n" && !l.pending {
		return l, func() tea.Msg { return SignupMsg{} }
	}
	if l.pending {
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd
	}

	model, cmd := l.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		l.form = f
	}
	if l.form.State == huh.StateCompleted {
		email, password := strings.TrimSpace(l.email), l.password
		return l, func() tea.Msg { return SubmitMsg{Email: email, Password: password} }
	}
	return l, cmd
}

func (l *Login) View() string {
	var sb strings.Builder
	if l.notice != "" {
		sb.WriteString(styles.SuccessText.Render(l.notice))
		sb.WriteString("\n\n")
	}
	if l.errMsg != "" {
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + l.errMsg))
		sb.WriteString("\n\n")
	}
	if l.pending {
		sb.WriteString(l.spinner.View() + " Signing in as " + l.email + "…")
		return sb.String()
	}
	sb.WriteString(l.form.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("ctrl+n create an account"))
	return sb.String()
}
