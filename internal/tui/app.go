// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Resolves every navigation through the router and renders the active screen

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KayembaIsaacFrank/gcdl/internal/advisory"
	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/format"
	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/dashboard"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/entry"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/login"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/menu"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/reports"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/resource"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/settings"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/users"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSignup
	ScreenDashboard
	ScreenResource
	ScreenEntry
	ScreenReports
	ScreenSettings
	ScreenUnauthorized
	ScreenNotFound
	ScreenMenu
	ScreenCreateManager
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum frame width
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// API is every backend call the screens make.
type API interface {
	dashboard.API
	resource.API
	Branches(ctx context.Context) ([]client.Branch, error)
	Produce(ctx context.Context) ([]client.Produce, error)
	RecordProcurement(ctx context.Context, in client.ProcurementInput) error
	RecordSale(ctx context.Context, in client.SaleInput) error
	RecordCreditSale(ctx context.Context, in client.CreditSaleInput) error
	Buyers(ctx context.Context) ([]client.Buyer, error)
	AgentsByBranch(ctx context.Context, branchID int64) ([]client.StaffMember, error)
	CreateManager(ctx context.Context, in client.CreateManagerInput) error
	ChangePassword(ctx context.Context, current, next string) error
	DownloadSalesReport(ctx context.Context, format string, f client.Filter) (*client.Report, error)
}

// Options configures the application.
type Options struct {
	Session *session.Session
	API     API
	Router  *routing.Router
	// StartPath is resolved first; empty means the dashboard.
	StartPath string
	// ReportDir is the default directory for saved reports.
	ReportDir string
	// Recent remembers saved reports; nil disables the list.
	Recent *reports.Recent
}

// snapshotMsg carries a session change.
type snapshotMsg session.Snapshot

type loginDoneMsg struct{ err error }

type signupOptionsMsg struct {
	seq  int
	opts wizard.Options
}

type signupDoneMsg struct {
	kind advisory.SignupKind
	err  error
}

type boardLoadedMsg struct {
	seq  int
	data *dashboard.Data
	err  error
}

type listLoadedMsg struct {
	seq     int
	listing *resource.Listing
	err     error
}

type entryOptionsMsg struct {
	seq  int
	opts entry.Options
}

type entrySavedMsg struct {
	seq int
	err error
}

type reportOptionsMsg struct {
	seq      int
	branches []client.Branch
	agents   []client.StaffMember
	recent   []string
}

type reportSavedMsg struct {
	path   string
	recent []string
	err    error
}

type passwordChangedMsg struct{ err error }

type managerOptionsMsg struct {
	seq  int
	opts users.Options
}

type managerCreatedMsg struct {
	seq  int
	name string
	opts users.Options
	err  error
}

type logoutMsg struct{}

// App is the root model for the TUI
type App struct {
	ctx       context.Context
	session   *session.Session
	api       API
	router    *routing.Router
	reportDir string
	recent    *reports.Recent
	startPath string

	screen     Screen
	prevScreen Screen
	path       string
	view       routing.ViewID
	width      int
	height     int
	snap       session.Snapshot
	snaps      <-chan session.Snapshot
	unsub      func()
	lastUpdate time.Time
	// seq tags async loads so results for a screen the user already left
	// are dropped.
	seq int

	// Child models
	login    *login.Login
	wizard   *wizard.Wizard
	signup   advisory.SignupKind
	board    *dashboard.Board
	list     *resource.List
	entry    *entry.Entry
	reports  *reports.Reports
	settings *settings.Settings
	manager  *users.CreateManager
	menu     *menu.Menu
}

// New creates the application and resolves the start path.
func New(ctx context.Context, opts Options) *App {
	router := opts.Router
	if router == nil {
		router = routing.NewRouter(nil)
	}
	a := &App{
		ctx:       ctx,
		session:   opts.Session,
		api:       opts.API,
		router:    router,
		reportDir: opts.ReportDir,
		recent:    opts.Recent,
		startPath: opts.StartPath,
		snap:      opts.Session.Snapshot(),
	}
	a.snaps, a.unsub = opts.Session.Subscribe()
	return a
}

// Screen returns the active screen.
func (a *App) Screen() Screen { return a.screen }

// Path returns the path of the active screen.
func (a *App) Path() string { return a.path }

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	start := a.startPath
	if start == "" {
		start = routing.DashboardPath
	}
	return tea.Batch(a.navigate(start), waitForSnapshot(a.snaps))
}

func waitForSnapshot(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// navigate resolves path for the current identity and switches screens.
func (a *App) navigate(path string) tea.Cmd {
	a.seq++
	a.menu = nil
	identity := a.session.Identity()
	res := a.router.Resolve(path, identity)
	slog.Debug("Navigate", "path", res.Path, "found", res.Found, "decision", res.Decision.String(), "view", string(res.View))

	a.path = res.Path
	a.view = res.View
	if !res.Found {
		a.screen = ScreenNotFound
		return nil
	}

	switch res.View {
	case routing.LoginView:
		if res.Decision == routing.RedirectToLogin {
			a.path = "/login"
		}
		return a.showLogin()
	case routing.UnauthorizedView:
		a.screen = ScreenUnauthorized
		return nil
	case routing.CEOSignupView:
		return a.showSignup(advisory.SignupCEO)
	case routing.ManagerSignupView:
		return a.showSignup(advisory.SignupManager)
	case routing.AgentSignupView:
		return a.showSignup(advisory.SignupAgent)
	case routing.BuyerSignupView:
		return a.showSignup(advisory.SignupBuyer)
	case routing.ReportsView:
		a.screen = ScreenReports
		a.reports = reports.New(nil, a.reportDir)
		return tea.Batch(a.reports.Init(), a.loadReportOptions(identity))
	case routing.SettingsView:
		a.screen = ScreenSettings
		a.settings = settings.New(identity)
		return a.settings.Init()
	case routing.ProcurementView:
		return a.showEntry(entry.KindProcurement, res.View, identity)
	case routing.SalesView:
		return a.showEntry(entry.KindSale, res.View, identity)
	case routing.CreditSalesView:
		if identity.Role == session.RoleSalesAgent {
			return a.showEntry(entry.KindCreditSale, res.View, identity)
		}
	}

	if _, ok := resource.KindForView(res.View); ok {
		a.screen = ScreenResource
		return a.showList(res.View, identity)
	}

	// Dashboards and analytics
	a.screen = ScreenDashboard
	kind := dashboard.KindFor(res.View, identity.Role)
	a.board = dashboard.New(kind, identity, a.dashboardWidth(), a.contentHeight())
	return a.loadBoard(kind, identity)
}

func (a *App) showLogin() tea.Cmd {
	a.screen = ScreenLogin
	a.login = login.New(a.snap.Hint)
	return a.login.Init()
}

func (a *App) showSignup(kind advisory.SignupKind) tea.Cmd {
	a.screen = ScreenSignup
	a.signup = kind
	a.wizard = nil
	return a.loadSignupOptions()
}

func (a *App) showList(view routing.ViewID, identity *session.Identity) tea.Cmd {
	kind, _ := resource.KindForView(view)
	a.list = resource.New(kind, a.listWidth(), a.contentHeight())
	return a.loadList(kind, identity)
}

// filterFor scopes list and dashboard queries to the user's branch.
func filterFor(identity *session.Identity) client.Filter {
	if identity.HasBranch() {
		return client.Filter{BranchID: *identity.BranchID}
	}
	return client.Filter{}
}

func (a *App) loadBoard(kind dashboard.Kind, identity *session.Identity) tea.Cmd {
	seq := a.seq
	f := filterFor(identity)
	if kind == dashboard.KindCompany {
		f = client.Filter{}
	}
	return func() tea.Msg {
		data, err := dashboard.Load(a.ctx, a.api, kind, f, identity.BranchID)
		return boardLoadedMsg{seq: seq, data: data, err: err}
	}
}

func (a *App) loadList(kind resource.Kind, identity *session.Identity) tea.Cmd {
	seq := a.seq
	f := filterFor(identity)
	return func() tea.Msg {
		listing, err := resource.Fetch(a.ctx, a.api, kind, f)
		return listLoadedMsg{seq: seq, listing: listing, err: err}
	}
}

// loadSignupOptions fetches the branch lists offered by the wizard. Failures
// leave the lists empty.
func (a *App) loadSignupOptions() tea.Cmd {
	seq := a.seq
	return func() tea.Msg {
		var opts wizard.Options
		var err error
		if opts.Branches, err = a.api.Branches(a.ctx); err != nil {
			slog.Debug("Branches unavailable for signup", "error", err)
		}
		if opts.Managers, err = a.api.Managers(a.ctx); err != nil {
			slog.Debug("Managers unavailable for signup", "error", err)
		}
		if opts.Agents, err = a.api.Agents(a.ctx); err != nil {
			slog.Debug("Agents unavailable for signup", "error", err)
		}
		return signupOptionsMsg{seq: seq, opts: opts}
	}
}

// showEntry opens a data entry form beside the matching list.
func (a *App) showEntry(kind entry.Kind, view routing.ViewID, identity *session.Identity) tea.Cmd {
	a.screen = ScreenEntry
	a.entry = entry.New(kind, entry.Options{BranchID: identity.BranchID})
	return tea.Batch(a.entry.Init(), a.loadEntryOptions(kind, identity), a.showList(view, identity))
}

func (a *App) loadEntryOptions(kind entry.Kind, identity *session.Identity) tea.Cmd {
	seq := a.seq
	return func() tea.Msg {
		opts := entry.Options{BranchID: identity.BranchID}
		var err error
		if opts.Branches, err = a.api.Branches(a.ctx); err != nil {
			slog.Debug("Branches unavailable", "error", err)
		}
		if opts.Produce, err = a.api.Produce(a.ctx); err != nil {
			slog.Debug("Produce unavailable", "error", err)
		}
		if kind == entry.KindCreditSale {
			if opts.Buyers, err = a.api.Buyers(a.ctx); err != nil {
				slog.Debug("Buyers unavailable", "error", err)
			}
		}
		return entryOptionsMsg{seq: seq, opts: opts}
	}
}

// loadReportOptions fetches the report filters. Branch staff pick among
// their own branch's agents; sales agents get no agent filter.
func (a *App) loadReportOptions(identity *session.Identity) tea.Cmd {
	seq := a.seq
	return func() tea.Msg {
		branches, err := a.api.Branches(a.ctx)
		if err != nil {
			slog.Debug("Branches unavailable for reports", "error", err)
		}
		var agents []client.StaffMember
		var agentErr error
		switch {
		case identity.Role == session.RoleSalesAgent || identity.Role == session.RoleBuyer:
		case identity.HasBranch():
			agents, agentErr = a.api.AgentsByBranch(a.ctx, *identity.BranchID)
		default:
			agents, agentErr = a.api.Agents(a.ctx)
		}
		if err = agentErr; err != nil {
			slog.Debug("Agents unavailable for reports", "error", err)
		}
		return reportOptionsMsg{seq: seq, branches: branches, agents: agents, recent: a.recent.List(a.ctx)}
	}
}

func (a *App) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.session.Login(a.ctx, email, password)
		return loginDoneMsg{err: err}
	}
}

func (a *App) doSignup(form advisory.SignupForm) tea.Cmd {
	return func() tea.Msg {
		_, err := a.session.Signup(a.ctx, form.Kind.Endpoint(), form.Payload())
		return signupDoneMsg{kind: form.Kind, err: err}
	}
}

func (a *App) doRecord(msg entry.SubmitMsg) tea.Cmd {
	seq := a.seq
	return func() tea.Msg {
		var err error
		switch {
		case msg.Sale != nil:
			err = a.api.RecordSale(a.ctx, *msg.Sale)
		case msg.CreditSale != nil:
			err = a.api.RecordCreditSale(a.ctx, *msg.CreditSale)
		case msg.Procurement != nil:
			err = a.api.RecordProcurement(a.ctx, *msg.Procurement)
		}
		return entrySavedMsg{seq: seq, err: err}
	}
}

func (a *App) doReport(req reports.RequestMsg) tea.Cmd {
	dir := req.Dir
	if dir == "" {
		dir = a.reportDir
	}
	return func() tea.Msg {
		rep, err := a.api.DownloadSalesReport(a.ctx, req.Format, req.Filter)
		if err != nil {
			return reportSavedMsg{err: err}
		}
		path, err := reports.Save(dir, rep)
		if err != nil {
			return reportSavedMsg{err: err}
		}
		recent, err := a.recent.Add(a.ctx, path)
		if err != nil {
			slog.Warn("Failed to remember report", "path", path, "error", err)
		}
		return reportSavedMsg{path: path, recent: recent}
	}
}

// canCreateManager reports whether the CEO is looking at the users list.
func (a *App) canCreateManager() bool {
	identity := a.session.Identity()
	return a.screen == ScreenResource && a.list != nil && a.list.Kind() == resource.KindUsers &&
		identity != nil && identity.Role == session.RoleCEO
}

// showCreateManager opens the create-manager form beside the users list.
func (a *App) showCreateManager() tea.Cmd {
	a.screen = ScreenCreateManager
	a.manager = users.New(users.Options{})
	a.list.SetSize(a.listWidth(), a.contentHeight())
	return tea.Batch(a.manager.Init(), a.loadManagerOptions())
}

// fetchManagerOptions lists branches and managers. Failures leave lists empty.
func (a *App) fetchManagerOptions() users.Options {
	var opts users.Options
	var err error
	if opts.Branches, err = a.api.Branches(a.ctx); err != nil {
		slog.Debug("Branches unavailable for create manager", "error", err)
	}
	if opts.Managers, err = a.api.Managers(a.ctx); err != nil {
		slog.Debug("Managers unavailable for create manager", "error", err)
	}
	return opts
}

func (a *App) loadManagerOptions() tea.Cmd {
	seq := a.seq
	return func() tea.Msg {
		return managerOptionsMsg{seq: seq, opts: a.fetchManagerOptions()}
	}
}

func (a *App) doCreateManager(msg users.SubmitMsg) tea.Cmd {
	seq := a.seq
	return func() tea.Msg {
		if err := a.api.CreateManager(a.ctx, msg.Input); err != nil {
			return managerCreatedMsg{seq: seq, err: err}
		}
		return managerCreatedMsg{seq: seq, name: msg.Input.FullName, opts: a.fetchManagerOptions()}
	}
}

func (a *App) doChangePassword(msg settings.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		return passwordChangedMsg{err: a.api.ChangePassword(a.ctx, msg.Current, msg.New)}
	}
}

func (a *App) logout() tea.Cmd {
	a.session.Logout(a.ctx)
	a.snap = a.session.Snapshot()
	return a.navigate("/login")
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.board != nil {
			a.board.SetSize(a.dashboardWidth(), a.contentHeight())
		}
		if a.list != nil {
			a.list.SetSize(a.listWidth(), a.contentHeight())
		}
		if a.wizard != nil {
			a.wizard.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case snapshotMsg:
		return a, a.handleSnapshot(session.Snapshot(msg))

	case login.SubmitMsg:
		if a.login == nil {
			return a, nil
		}
		return a, tea.Batch(a.login.SetPending(true), a.doLogin(msg.Email, msg.Password))

	case login.SignupMsg:
		return a, a.navigate("/ceo-signup")

	case loginDoneMsg:
		if msg.err != nil {
			if a.login != nil {
				return a, a.login.SetError(msg.err.Error())
			}
			return a, nil
		}
		a.snap = a.session.Snapshot()
		return a, a.navigate(routing.DashboardPath)

	case signupOptionsMsg:
		if msg.seq != a.seq || a.screen != ScreenSignup {
			return a, nil
		}
		a.wizard = wizard.New(a.signup, msg.opts)
		a.wizard.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.wizard.Init()

	case wizard.CompleteMsg:
		return a, a.doSignup(msg.Form)

	case wizard.CancelledMsg:
		return a, a.navigate("/login")

	case signupDoneMsg:
		if msg.err != nil {
			if a.wizard != nil {
				return a, a.wizard.SetError(msg.err.Error())
			}
			return a, nil
		}
		cmd := a.navigate("/login")
		if a.login != nil {
			a.login.SetNotice(fmt.Sprintf("%s created successfully! Please login.", msg.kind))
		}
		return a, cmd

	case boardLoadedMsg:
		if msg.seq != a.seq || a.board == nil {
			return a, nil
		}
		if msg.err != nil {
			a.board.SetError(errors.New(client.ErrorMessage(msg.err, msg.err.Error())))
			return a, nil
		}
		a.board.SetData(msg.data)
		a.lastUpdate = time.Now()
		return a, nil

	case listLoadedMsg:
		if msg.seq != a.seq || a.list == nil {
			return a, nil
		}
		if msg.err != nil {
			a.list.SetError(msg.err)
			return a, nil
		}
		a.list.SetListing(msg.listing)
		a.lastUpdate = time.Now()
		return a, nil

	case entryOptionsMsg:
		if msg.seq != a.seq || a.entry == nil {
			return a, nil
		}
		a.entry = entry.New(a.entry.Kind(), msg.opts)
		return a, a.entry.Init()

	case entry.SubmitMsg:
		return a, a.doRecord(msg)

	case entry.CancelledMsg, reports.CancelledMsg, settings.CancelledMsg:
		return a, a.navigate(routing.DashboardPath)

	case entrySavedMsg:
		if msg.seq != a.seq || a.entry == nil {
			return a, nil
		}
		fallback, notice := "Failed to record procurement", "Procurement recorded"
		switch a.entry.Kind() {
		case entry.KindSale:
			fallback, notice = "Failed to record sale", "Sale recorded"
		case entry.KindCreditSale:
			fallback, notice = "Failed to record credit sale", "Credit sale recorded"
		}
		if msg.err != nil {
			return a, a.entry.SetError(client.ErrorMessage(msg.err, fallback))
		}
		cmds := []tea.Cmd{a.entry.SetSaved(notice)}
		if a.list != nil {
			cmds = append(cmds, a.loadList(a.list.Kind(), a.session.Identity()))
		}
		return a, tea.Batch(cmds...)

	case reportOptionsMsg:
		if msg.seq != a.seq || a.reports == nil {
			return a, nil
		}
		a.reports = reports.New(msg.branches, a.reportDir)
		a.reports.SetRecent(msg.recent)
		return a, a.reports.SetAgents(msg.agents)

	case reports.RequestMsg:
		return a, a.doReport(msg)

	case reportSavedMsg:
		if a.reports == nil {
			return a, nil
		}
		if msg.err == nil {
			slog.Info("Report saved", "path", msg.path)
			if msg.recent != nil {
				a.reports.SetRecent(msg.recent)
			}
		}
		return a, a.reports.SetResult(msg.path, msg.err)

	case settings.SubmitMsg:
		return a, a.doChangePassword(msg)

	case managerOptionsMsg:
		if msg.seq != a.seq || a.manager == nil {
			return a, nil
		}
		a.manager = users.New(msg.opts)
		return a, a.manager.Init()

	case users.SubmitMsg:
		return a, a.doCreateManager(msg)

	case managerCreatedMsg:
		if msg.seq != a.seq || a.manager == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.manager.SetError(client.ErrorMessage(msg.err, users.FailedMessage))
		}
		return a, tea.Batch(a.manager.SetCreated(msg.opts, msg.name), a.loadList(resource.KindUsers, a.session.Identity()))

	case users.CancelledMsg:
		a.screen = ScreenResource
		a.manager = nil
		if a.list != nil {
			a.list.SetSize(a.listWidth(), a.contentHeight())
		}
		return a, nil

	case passwordChangedMsg:
		if a.settings == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.settings.SetError(client.ErrorMessage(msg.err, "Failed to change password"))
		}
		a.settings.SetChanged()
		return a, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return logoutMsg{} })

	case logoutMsg, menu.LogoutMsg:
		return a, a.logout()

	case menu.NavigateMsg:
		return a, a.navigate(msg.Path)

	case menu.QuitMsg:
		return a, tea.Quit

	case menu.CancelledMsg:
		a.screen = a.prevScreen
		a.menu = nil
		return a, nil
	}

	return a, a.forward(msg)
}

// handleSnapshot reacts to session changes made outside the current screen.
// Losing the identity re-resolves the current path so protected screens
// fall back to login.
func (a *App) handleSnapshot(snap session.Snapshot) tea.Cmd {
	wasLoggedIn := a.snap.LoggedIn()
	a.snap = snap
	cmds := []tea.Cmd{waitForSnapshot(a.snaps)}
	if wasLoggedIn && !snap.LoggedIn() && a.screen != ScreenLogin && a.screen != ScreenSignup {
		cmds = append(cmds, a.navigate(a.path))
	}
	return tea.Batch(cmds...)
}

// forward passes non-key messages to the active child, which huh forms and
// spinners need for their internal ticks.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.login != nil {
			_, cmd = a.login.Update(msg)
		}
	case ScreenSignup:
		if a.wizard != nil {
			_, cmd = a.wizard.Update(msg)
		}
	case ScreenEntry:
		if a.entry != nil {
			_, cmd = a.entry.Update(msg)
		}
	case ScreenReports:
		if a.reports != nil {
			_, cmd = a.reports.Update(msg)
		}
	case ScreenSettings:
		if a.settings != nil {
			_, cmd = a.settings.Update(msg)
		}
	case ScreenMenu:
		if a.menu != nil {
			_, cmd = a.menu.Update(msg)
		}
	case ScreenCreateManager:
		if a.manager != nil {
			_, cmd = a.manager.Update(msg)
		}
	}
	return cmd
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenLogin, ScreenSignup, ScreenEntry, ScreenReports, ScreenSettings, ScreenMenu, ScreenCreateManager:
		return a, a.forward(msg)
	}

	if msg.String() == "n" && a.canCreateManager() {
		return a, a.showCreateManager()
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "m":
		return a, a.openMenu()
	case "b", "esc":
		return a, a.navigate(routing.DashboardPath)
	case "r":
		identity := a.session.Identity()
		switch {
		case a.screen == ScreenDashboard && a.board != nil:
			a.seq++
			a.board = dashboard.New(a.board.Kind(), identity, a.dashboardWidth(), a.contentHeight())
			return a, a.loadBoard(a.board.Kind(), identity)
		case a.screen == ScreenResource && a.list != nil:
			a.seq++
			return a, a.loadList(a.list.Kind(), identity)
		}
		return a, nil
	}

	if a.screen == ScreenResource && a.list != nil {
		_, cmd := a.list.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) openMenu() tea.Cmd {
	identity := a.session.Identity()
	if identity == nil {
		return a.navigate("/login")
	}
	a.prevScreen = a.screen
	a.screen = ScreenMenu
	a.menu = menu.New(identity, a.path)
	return a.menu.Init()
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenSignup:
		content = a.viewSignup()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenResource:
		content = a.viewResource()
	case ScreenEntry:
		if a.entry != nil {
			content = a.viewBesideList(a.entry)
		}
	case ScreenCreateManager:
		if a.manager != nil {
			content = a.viewBesideList(a.manager)
		}
	case ScreenReports:
		if a.reports != nil {
			content = a.viewForm(a.reports)
		}
	case ScreenSettings:
		if a.settings != nil {
			content = a.viewForm(a.settings)
		}
	case ScreenUnauthorized:
		content = a.viewUnauthorized()
	case ScreenNotFound:
		content = a.viewNotFound()
	case ScreenMenu:
		content = a.viewMenu()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.login == nil {
		return ""
	}
	return styles.ActivePanel.Width(min(60, a.contentWidth())).Render(a.login.View())
}

func (a *App) viewSignup() string {
	if a.wizard == nil {
		return styles.Subtitle.Render("Loading…")
	}
	return a.wizard.View()
}

func (a *App) viewDashboard() string {
	leftPane := ""
	if a.board != nil {
		leftPane = styles.ActivePanel.Width(a.dashboardWidth()).Render(a.board.View())
	} else {
		leftPane = styles.Panel.Width(a.dashboardWidth()).Render("Loading...")
	}
	if a.width < minTerminalWidth*3/2 {
		return leftPane
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, a.actionsPane())
}

// actionsPane lists the available actions next to the dashboard.
func (a *App) actionsPane() string {
	content := styles.Title.Render(icons.Menu.String()+" Actions") + "\n\n"
	content += icons.Refresh.String() + " r  Refresh data\n"
	content += icons.Menu.String() + " m  Open menu\n"
	content += icons.Quit.String() + " q  Quit\n"
	if !a.snap.CredentialExpiry.IsZero() {
		content += "\n" + styles.Subtitle.Render(icons.Lock.String()+" Session "+format.Until(a.snap.CredentialExpiry))
	}
	return styles.Panel.Width(a.actionsWidth()).Render(content)
}

func (a *App) viewResource() string {
	if a.list == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.list.View())
}

// viewBesideList renders a form with the current list in the side pane.
func (a *App) viewBesideList(form tea.Model) string {
	left := styles.ActivePanel.Width(a.dashboardWidth()).Render(form.View())
	if a.list == nil || a.width < minTerminalWidth*3/2 {
		return left
	}
	right := styles.Panel.Width(a.actionsWidth()).Render(a.list.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a *App) viewForm(m tea.Model) string {
	return styles.ActivePanel.Width(a.contentWidth()).Render(m.View())
}

func (a *App) viewUnauthorized() string {
	content := styles.ErrorText.Render(icons.Lock.String()+" Unauthorized Access") + "\n\n" +
		"You don't have permission to access this page.\n" +
		styles.Help.Render("Press b to return to the dashboard")
	return styles.Panel.Width(a.contentWidth()).Render(content)
}

func (a *App) viewNotFound() string {
	content := styles.ErrorText.Render(icons.Warning.String()+" Page not found") + "\n\n" +
		"Nothing lives at " + a.path + ".\n" +
		styles.Help.Render("Press b to return to the dashboard")
	return styles.Panel.Width(a.contentWidth()).Render(content)
}

func (a *App) viewMenu() string {
	if a.menu == nil {
		return ""
	}
	return styles.ActivePanel.Width(min(50, a.contentWidth())).Render(a.menu.View())
}

// frameWidth is one column short of the terminal to avoid wrapping, but
// never below minTerminalWidth.
func (a *App) frameWidth() int {
	return max(minTerminalWidth, a.width-1)
}

func (a *App) contentWidth() int {
	return a.frameWidth() - panelPadding
}

// dashboardWidth calculates the width for the main pane
func (a *App) dashboardWidth() int {
	if a.width < minTerminalWidth*3/2 {
		return a.contentWidth()
	}
	return (a.frameWidth() - panelPadding) * 2 / 3
}

// actionsWidth calculates the width for the side pane
func (a *App) actionsWidth() int {
	return a.frameWidth() - a.dashboardWidth() - 2*panelPadding
}

func (a *App) listWidth() int {
	if a.screen == ScreenEntry || a.screen == ScreenCreateManager {
		return a.actionsWidth() - panelPadding
	}
	return a.contentWidth() - panelPadding
}

// contentHeight calculates the height available for screen content:
// header, footer, two separating newlines and the panel border and padding.
func (a *App) contentHeight() int {
	return max(10, a.height-8)
}

// renderHeader creates the header bar with app branding and the identity
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Golden Crop Distributors"))

	rightText := ""
	if id := a.snap.Identity; id != nil {
		rightText = " " + contextStyle.Render(icons.User.String()+" "+id.Display()) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText))
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Enter Sign-in", "ctrl+n Signup", "ctrl+c Quit"}
	case ScreenSignup:
		shortcuts = []string{"Enter Next", "Esc Back", "ctrl+c Quit"}
	case ScreenDashboard, ScreenResource:
		shortcuts = []string{"r Refresh", "m Menu", "b Dashboard", "q Quit"}
		if a.canCreateManager() {
			shortcuts = append([]string{"n New manager"}, shortcuts...)
		}
	case ScreenEntry, ScreenReports, ScreenSettings, ScreenCreateManager:
		shortcuts = []string{"Enter Submit", "Esc Back", "ctrl+c Quit"}
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "Esc Close"}
	default:
		shortcuts = []string{"m Menu", "b Dashboard", "q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		key, label, _ := strings.Cut(s, " ")
		styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
	}
	leftText := " " + strings.Join(styled, "  ") + " "

	var status []string
	if !a.lastUpdate.IsZero() && (a.screen == ScreenDashboard || a.screen == ScreenResource) {
		status = append(status, "Updated "+format.Since(a.lastUpdate))
	}
	if a.snap.HasCredential && !a.snap.CredentialExpiry.IsZero() {
		status = append(status, "Session "+format.Until(a.snap.CredentialExpiry))
	}
	rightText := ""
	if len(status) > 0 {
		rightText = " " + statusStyle.Render(strings.Join(status, " · ")) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText))
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Close releases the session subscription.
func (a *App) Close() {
	if a.unsub != nil {
		a.unsub()
	}
}

// Run starts the TUI
func Run(ctx context.Context, opts Options) error {
	app := New(ctx, opts)
	defer app.Close()

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
