// ABOUTME: Create Manager form shown beside the users list for the CEO
// ABOUTME: Runs the signup checks locally and offers only branches without a manager

package users

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/KayembaIsaacFrank/gcdl/internal/advisory"
	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/theme"
)

// FailedMessage is shown when the server rejects the request without a reason.
const FailedMessage = "Failed to create manager"

// SubmitMsg carries a checked create-manager body.
type SubmitMsg struct {
	Input client.CreateManagerInput
}

// CancelledMsg is sent on esc.
type CancelledMsg struct{}

// Options are the lists used to offer branches.
type Options struct {
	Branches []client.Branch
	Managers []client.StaffMember
}

// CreateManager is the create-manager form.
type CreateManager struct {
	opts    Options
	form    advisory.SignupForm
	errMsg  string
	notice  string
	pending bool
	huh     *huh.Form
}

func New(opts Options) *CreateManager {
	m := &CreateManager{opts: opts}
	m.form.Kind = advisory.SignupManager
	m.huh = m.build()
	return m
}

// AvailableBranches returns the branches that still have no manager.
func (m *CreateManager) AvailableBranches() []client.Branch {
	return advisory.BranchesWithoutManager(m.opts.Branches, m.opts.Managers)
}

func (m *CreateManager) build() *huh.Form {
	branches := m.AvailableBranches()
	opts := make([]huh.Option[int64], 0, len(branches))
	for _, b := range branches {
		opts = append(opts, huh.NewOption(b.Name, b.ID))
	}
	if len(opts) == 0 {
		opts = append(opts, huh.NewOption("(every branch has a manager)", int64(0)))
	}
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Full name").Value(&m.form.FullName),
		huh.NewInput().Title("Email").Value(&m.form.Email),
		huh.NewInput().Title("Phone").Description("Optional").Value(&m.form.Phone),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.form.Password),
		huh.NewSelect[int64]().Title("Branch").Options(opts...).Value(&m.form.BranchID),
	).Title(icons.User.String() + " Create Manager")).
		WithTheme(theme.Form()).
		WithShowHelp(false)
}

// SetError shows msg and reopens the form with the entered values kept.
func (m *CreateManager) SetError(msg string) tea.Cmd {
	m.pending = false
	m.notice = ""
	m.errMsg = msg
	m.huh = m.build()
	return m.huh.Init()
}

// SetCreated clears the form and refreshes the branch choices.
func (m *CreateManager) SetCreated(opts Options, name string) tea.Cmd {
	m.opts = opts
	m.pending = false
	m.errMsg = ""
	m.notice = "Manager " + name + " created"
	m.form = advisory.SignupForm{Kind: advisory.SignupManager}
	m.huh = m.build()
	return m.huh.Init()
}

func (m *CreateManager) Pending() bool { return m.pending }

func (m *CreateManager) Init() tea.Cmd {
	return m.huh.Init()
}

func (m *CreateManager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	model, cmd := m.huh.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.huh = f
	}
	if m.huh.State == huh.StateCompleted {
		return m, m.submit()
	}
	return m, cmd
}

func (m *CreateManager) submit() tea.Cmd {
	m.form.FullName = strings.TrimSpace(m.form.FullName)
	m.form.Email = strings.TrimSpace(m.form.Email)
	m.form.Phone = strings.TrimSpace(m.form.Phone)
	m.form.ConfirmPassword = m.form.Password
	if err := m.form.Validate(); err != nil {
		return m.SetError(err.Error())
	}
	m.pending = true
	m.errMsg = ""
	out := SubmitMsg{Input: m.form.ManagerInput()}
	return func() tea.Msg { return out }
}

func (m *CreateManager) View() string {
	var sb strings.Builder
	if m.notice != "" {
		sb.WriteString(styles.SuccessText.Render(icons.CheckOK.String() + " " + m.notice))
		sb.WriteString("\n\n")
	}
	if m.errMsg != "" {
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + m.errMsg))
		sb.WriteString("\n\n")
	}
	if m.pending {
		sb.WriteString(styles.HintText.Render("Creating…"))
		return sb.String()
	}
	sb.WriteString(m.huh.View())
	return sb.String()
}
