// ABOUTME: Multi-step signup wizard as a bubbletea model
// ABOUTME: Account details, branch choice for managers and agents, then password

package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/KayembaIsaacFrank/gcdl/internal/advisory"
	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/theme"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/widgets"
)

// CompleteMsg carries a form that passed the advisory checks.
type CompleteMsg struct {
	Form advisory.SignupForm
}

// CancelledMsg is sent when the wizard is abandoned.
type CancelledMsg struct{}

// Options are the lists used to offer branches.
type Options struct {
	Branches []client.Branch
	Managers []client.StaffMember
	Agents   []client.StaffMember
}

const (
	stepAccount = iota + 1
	stepBranch
	stepPassword
)

var stepNames = []string{"Account", "Branch", "Password"}

// Wizard collects a SignupForm.
type Wizard struct {
	opts   Options
	form   advisory.SignupForm
	step   int
	width  int
	errMsg string
	huh    *huh.Form

	branch int64
}

// New starts the wizard with kind preselected.
func New(kind advisory.SignupKind, opts Options) *Wizard {
	w := &Wizard{opts: opts, form: advisory.SignupForm{Kind: kind}}
	w.goTo(stepAccount)
	return w
}

// Form returns the values collected so far.
func (w *Wizard) Form() advisory.SignupForm {
	return w.form
}

// Step returns the current step, starting at 1.
func (w *Wizard) Step() int {
	return w.step
}

// AvailableBranches returns the branches offered for the selected kind.
func (w *Wizard) AvailableBranches() []client.Branch {
	switch w.form.Kind {
	case advisory.SignupManager:
		return advisory.BranchesWithoutManager(w.opts.Branches, w.opts.Managers)
	case advisory.SignupAgent:
		return advisory.BranchesWithAgentCapacity(w.opts.Branches, w.opts.Agents)
	}
	return nil
}

// SetError shows msg and returns to the first step with values kept.
func (w *Wizard) SetError(msg string) tea.Cmd {
	w.errMsg = msg
	return w.goTo(stepAccount)
}

func (w *Wizard) goTo(step int) tea.Cmd {
	w.step = step
	switch step {
	case stepAccount:
		w.huh = w.accountForm()
	case stepBranch:
		w.huh = w.branchForm()
	default:
		w.huh = w.passwordForm()
	}
	return w.huh.Init()
}

func (w *Wizard) accountForm() *huh.Form {
	kinds := make([]huh.Option[advisory.SignupKind], 0, len(advisory.SignupKinds))
	for _, k := range advisory.SignupKinds {
		kinds = append(kinds, huh.NewOption(k.String(), k))
	}
	return w.wrap(huh.NewGroup(
		huh.NewSelect[advisory.SignupKind]().
			Title("Account type").
			Options(kinds...).
			Value(&w.form.Kind),
		huh.NewInput().
			Title("Full name").
			Value(&w.form.FullName).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Email").
			Value(&w.form.Email).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Phone").
			Description("Optional, e.g. 0772 123456").
			Value(&w.form.Phone).
			Validate(func(s string) error {
				if s != "" && !advisory.ValidPhone(s) {
					return fmt.Errorf("enter a valid phone number")
				}
				return nil
			}),
	).Title("Step 1: Account").Description("Who is signing up?"))
}

func (w *Wizard) branchForm() *huh.Form {
	branches := w.AvailableBranches()
	opts := make([]huh.Option[int64], 0, len(branches))
	counts := advisory.AgentCounts(w.opts.Agents)
	for _, b := range branches {
		label := b.Name
		if w.form.Kind == advisory.SignupAgent {
			label += "  " + widgets.Capacity(counts[b.ID], advisory.MaxAgentsPerBranch)
		}
		opts = append(opts, huh.NewOption(label, b.ID))
	}
	w.branch = w.form.BranchID

	desc := "Branches already at capacity are hidden"
	if len(opts) == 0 {
		desc = "No branch is currently accepting this role"
		opts = append(opts, huh.NewOption("(none available)", int64(0)))
	}
	return w.wrap(huh.NewGroup(
		huh.NewSelect[int64]().
			Title("Branch").
			Options(opts...).
			Value(&w.branch),
	).Title("Step 2: Branch").Description(desc))
}

func (w *Wizard) passwordForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&w.form.Password).
			Validate(huh.ValidateMinLength(6)),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&w.form.ConfirmPassword),
	}
	if w.form.Kind == advisory.SignupBuyer {
		fields = append([]huh.Field{
			huh.NewInput().Title("Location").Value(&w.form.Location),
		}, fields...)
	}
	return w.wrap(huh.NewGroup(fields...).
		Title("Step 3: Password").
		Description("At least 6 characters"))
}

func (w *Wizard) wrap(g *huh.Group) *huh.Form {
	return huh.NewForm(g).WithTheme(theme.Form()).WithShowHelp(false)
}

func (w *Wizard) Init() tea.Cmd {
	return w.huh.Init()
}

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
	}

	model, cmd := w.huh.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		w.huh = f
	}
	if w.huh.State == huh.StateCompleted {
		return w, w.advance()
	}
	return w, cmd
}

// advance moves past the completed step. The branch step is skipped for
// accounts without a branch.
func (w *Wizard) advance() tea.Cmd {
	switch w.step {
	case stepAccount:
		w.form.FullName = strings.TrimSpace(w.form.FullName)
		w.form.Email = strings.TrimSpace(w.form.Email)
		if w.form.Kind.NeedsBranch() {
			return w.goTo(stepBranch)
		}
		w.form.BranchID = 0
		return w.goTo(stepPassword)
	case stepBranch:
		w.form.BranchID = w.branch
		return w.goTo(stepPassword)
	}
	return w.finish()
}

func (w *Wizard) finish() tea.Cmd {
	if err := w.form.Validate(); err != nil {
		return w.SetError(err.Error())
	}
	w.errMsg = ""
	form := w.form
	return func() tea.Msg { return CompleteMsg{Form: form} }
}

func (w *Wizard) View() string {
	var sb strings.Builder
	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	if w.errMsg != "" {
		sb.WriteString(styles.ErrorText.Render(icons.Critical.String() + " " + w.errMsg))
		sb.WriteString("\n\n")
	}
	sb.WriteString(w.huh.View())
	return sb.String()
}

// renderProgress draws the step indicator panel.
func (w *Wizard) renderProgress() string {
	width := max(60, w.width-1)

	border := lipgloss.NewStyle().Foreground(styles.Muted)
	var steps []string
	for i, name := range stepNames {
		n := i + 1
		var mark string
		var style lipgloss.Style
		switch {
		case n == stepBranch && !w.form.Kind.NeedsBranch():
			mark, style = "–", lipgloss.NewStyle().Foreground(styles.Muted)
		case n < w.step:
			mark, style = icons.CheckOK.String(), lipgloss.NewStyle().Foreground(styles.Success)
		case n == w.step:
			mark, style = "●", lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			mark, style = "○", lipgloss.NewStyle().Foreground(styles.Muted)
		}
		steps = append(steps, style.Render(mark+" "+name))
	}
	line := strings.Join(steps, "    ")

	title := fmt.Sprintf("%s signup", w.form.Kind)
	top := "┌─ " + lipgloss.NewStyle().Foreground(styles.Primary).Render(title) + " " +
		strings.Repeat("─", max(0, width-5-lipgloss.Width(title))) + "┐"
	mid := "│ " + line + strings.Repeat(" ", max(0, width-4-lipgloss.Width(line))) + " │"
	bottom := "└" + strings.Repeat("─", width-2) + "┘"

	return border.Render(strings.Join([]string{top, mid, bottom}, "\n"))
}
