// ABOUTME: Tests for the root model: routing decisions, auth flows and async results
// ABOUTME: Uses an in-memory store and a fake backend; commands are run by hand

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KayembaIsaacFrank/gcdl/internal/advisory"
	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/storage"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/dashboard"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/entry"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/menu"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/reports"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/settings"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/users"
)

type fakeBackend struct {
	user        string
	loginErr    error
	passwordErr error
	creditSale  *client.CreditSaleInput
	agentBranch int64
	manager     *client.CreateManagerInput
	managerErr  error
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (*client.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.LoginResponse{Token: "opaque-token", User: json.RawMessage(f.user)}, nil
}

func (f *fakeBackend) Signup(context.Context, string, any) (json.RawMessage, error) {
	return json.RawMessage(`{"message":"ok"}`), nil
}

func (f *fakeBackend) AnalyticsSummary(context.Context, client.Filter) (*client.KPIs, error) {
	return &client.KPIs{TotalSales: 1000}, nil
}

func (f *fakeBackend) BranchesOverview(context.Context, client.Filter) ([]client.BranchOverview, error) {
	return []client.BranchOverview{{BranchName: "Maganjo", TotalSales: 5000}}, nil
}

func (f *fakeBackend) TopProduce(context.Context, client.Filter) ([]client.ProduceTotal, error) {
	return nil, nil
}

func (f *fakeBackend) ProduceBreakdown(context.Context, client.Filter) ([]client.ProduceTotal, error) {
	return nil, nil
}

func (f *fakeBackend) AgentsPerformance(context.Context, client.Filter) ([]client.AgentPerformance, error) {
	return nil, nil
}

func (f *fakeBackend) SalesTrend(context.Context, client.Filter) ([]client.TrendPoint, error) {
	return nil, nil
}

func (f *fakeBackend) Stock(context.Context, client.Filter) ([]client.StockItem, error) {
	return []client.StockItem{{ProduceName: "Beans", CurrentTonnage: 3}}, nil
}

func (f *fakeBackend) Sales(context.Context, client.Filter) ([]client.Sale, error) {
	return nil, nil
}

func (f *fakeBackend) Procurements(context.Context, client.Filter) ([]client.Procurement, error) {
	return nil, nil
}

func (f *fakeBackend) CreditSales(context.Context, client.Filter) ([]client.CreditSale, error) {
	return nil, nil
}

func (f *fakeBackend) Managers(context.Context) ([]client.StaffMember, error) {
	return nil, nil
}

func (f *fakeBackend) Agents(context.Context) ([]client.StaffMember, error) {
	return nil, nil
}

func (f *fakeBackend) Branches(context.Context) ([]client.Branch, error) {
	return []client.Branch{{ID: 1, Name: "Maganjo"}}, nil
}

func (f *fakeBackend) Produce(context.Context) ([]client.Produce, error) {
	return []client.Produce{{ID: 1, Name: "beans"}}, nil
}

func (f *fakeBackend) RecordProcurement(context.Context, client.ProcurementInput) error { return nil }

func (f *fakeBackend) RecordSale(context.Context, client.SaleInput) error { return nil }

func (f *fakeBackend) RecordCreditSale(_ context.Context, in client.CreditSaleInput) error {
	f.creditSale = &in
	return nil
}

func (f *fakeBackend) CreateManager(_ context.Context, in client.CreateManagerInput) error {
	if f.managerErr != nil {
		return f.managerErr
	}
	f.manager = &in
	return nil
}

func (f *fakeBackend) Buyers(context.Context) ([]client.Buyer, error) {
	return []client.Buyer{{ID: 3, Name: "Nakato Traders"}}, nil
}

func (f *fakeBackend) AgentsByBranch(_ context.Context, branchID int64) ([]client.StaffMember, error) {
	f.agentBranch = branchID
	return []client.StaffMember{{ID: 6, FullName: "Achieng"}}, nil
}

func (f *fakeBackend) ChangePassword(context.Context, string, string) error { return f.passwordErr }

func (f *fakeBackend) DownloadSalesReport(context.Context, string, client.Filter) (*client.Report, error) {
	return &client.Report{Filename: "sales_report.csv", Data: []byte("x")}, nil
}

func userJSON(role session.Role, branch string) string {
	b := ""
	if branch != "" {
		b = `,"branch_id":` + branch
	}
	return fmt.Sprintf(`{"id":1,"full_name":"Test User","role":%q,"email":"user@gcdl.co.ug"%s}`, role, b)
}

// newApp returns an app whose session is logged in as role, or logged out
// when role is empty.
func newApp(t *testing.T, role session.Role, branch string) (*App, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{user: userJSON(role, branch)}
	sess := session.New(storage.NewMemoryStore(), backend)
	if role != "" {
		if _, err := sess.Login(context.Background(), "user@gcdl.co.ug", "secret1"); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	app := New(context.Background(), Options{Session: sess, API: backend, ReportDir: t.TempDir()})
	t.Cleanup(app.Close)
	return app, backend
}

func TestNavigate_Guard(t *testing.T) {
	tests := []struct {
		name   string
		role   session.Role
		branch string
		path   string
		screen Screen
		at     string
	}{
		{"logged out protected", "", "", "/stock", ScreenLogin, "/login"},
		{"logged out root", "", "", "/", ScreenLogin, "/login"},
		{"public signup", "", "", "/manager-signup", ScreenSignup, "/manager-signup"},
		{"manager on CEO route", session.RoleManager, "1", "/users", ScreenUnauthorized, "/users"},
		{"CEO on agent route", session.RoleCEO, "", "/procurement", ScreenUnauthorized, "/procurement"},
		{"CEO users", session.RoleCEO, "", "/users", ScreenResource, "/users"},
		{"agent procurement", session.RoleSalesAgent, "2", "/procurement", ScreenEntry, "/procurement"},
		{"agent credit sales", session.RoleSalesAgent, "2", "/credit-sales", ScreenEntry, "/credit-sales"},
		{"manager credit sales", session.RoleManager, "1", "/credit-sales", ScreenResource, "/credit-sales"},
		{"any role stock", session.RoleBuyer, "", "/Stock/", ScreenResource, "/stock"},
		{"reports", session.RoleManager, "1", "/reports", ScreenReports, "/reports"},
		{"settings", session.RoleManager, "1", "/settings", ScreenSettings, "/settings"},
		{"unknown path", session.RoleCEO, "", "/nowhere", ScreenNotFound, "/nowhere"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newApp(t, tt.role, tt.branch)
			app.navigate(tt.path)
			if app.Screen() != tt.screen {
				t.Errorf("screen = %d, want %d", app.Screen(), tt.screen)
			}
			if app.Path() != tt.at {
				t.Errorf("path = %q, want %q", app.Path(), tt.at)
			}
		})
	}
}

func TestEntry_CreditSaleRecorded(t *testing.T) {
	app, backend := newApp(t, session.RoleSalesAgent, "2")
	app.navigate("/credit-sales")
	if app.entry == nil || app.entry.Kind() != entry.KindCreditSale {
		t.Fatal("expected the credit sale form")
	}

	opts := app.loadEntryOptions(entry.KindCreditSale, app.session.Identity())().(entryOptionsMsg)
	if len(opts.opts.Buyers) != 1 {
		t.Errorf("expected buyers to be offered, got %v", opts.opts.Buyers)
	}

	in := client.CreditSaleInput{BranchID: 2, ProduceID: 1, Tonnage: 1, PricePerTon: 100, DueDate: "2026-12-01"}
	_, cmd := app.Update(entry.SubmitMsg{CreditSale: &in})
	app.Update(cmd())
	if backend.creditSale == nil || backend.creditSale.DueDate != "2026-12-01" {
		t.Fatalf("credit sale not sent: %+v", backend.creditSale)
	}
	if !strings.Contains(app.entry.View(), "Credit sale recorded") {
		t.Errorf("expected notice, got %q", app.entry.View())
	}
}

func TestReports_AgentOptionsByRole(t *testing.T) {
	app, backend := newApp(t, session.RoleManager, "4")
	msg := app.loadReportOptions(app.session.Identity())().(reportOptionsMsg)
	if backend.agentBranch != 4 || len(msg.agents) != 1 {
		t.Errorf("manager should get own branch agents, got branch %d agents %v", backend.agentBranch, msg.agents)
	}

	agent, _ := newApp(t, session.RoleSalesAgent, "2")
	if msg := agent.loadReportOptions(agent.session.Identity())().(reportOptionsMsg); msg.agents != nil {
		t.Errorf("sales agent should get no agent filter, got %v", msg.agents)
	}
}

func TestDashboard_DispatchByRole(t *testing.T) {
	tests := []struct {
		role   session.Role
		branch string
		want   dashboard.Kind
	}{
		{session.RoleCEO, "", dashboard.KindCompany},
		{session.RoleManager, "1", dashboard.KindBranch},
		{session.RoleSalesAgent, "2", dashboard.KindAgent},
		{session.RoleBuyer, "", dashboard.KindWelcome},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			app, _ := newApp(t, tt.role, tt.branch)
			cmd := app.navigate(routing.DashboardPath)
			if app.Screen() != ScreenDashboard || app.board.Kind() != tt.want {
				t.Fatalf("got screen %d kind %v", app.Screen(), app.board.Kind())
			}
			app.Update(cmd())
			if app.board.Data() == nil {
				t.Error("board data should be loaded")
			}
		})
	}
}

func TestDashboard_StaleResultDropped(t *testing.T) {
	app, _ := newApp(t, session.RoleCEO, "")
	stale := app.navigate(routing.DashboardPath)
	fresh := app.navigate(routing.DashboardPath)

	app.Update(stale())
	if app.board.Data() != nil {
		t.Error("stale result should be ignored")
	}
	app.Update(fresh())
	if app.board.Data() == nil {
		t.Error("fresh result should be applied")
	}
}

func TestLogin_Flow(t *testing.T) {
	app, backend := newApp(t, "", "")
	backend.user = userJSON(session.RoleCEO, "")
	app.navigate("/login")

	app.Update(app.doLogin("user@gcdl.co.ug", "secret1")())
	if app.Screen() != ScreenDashboard {
		t.Fatalf("expected dashboard after login, got %d", app.Screen())
	}
	if !strings.Contains(app.View(), "Test User (CEO)") {
		t.Error("header should show the identity")
	}
}

func TestLogin_Failure(t *testing.T) {
	app, backend := newApp(t, "", "")
	backend.loginErr = &client.APIError{Status: 401, Message: "Invalid credentials"}
	app.navigate("/login")

	app.Update(app.doLogin("user@gcdl.co.ug", "wrong")())
	if app.Screen() != ScreenLogin {
		t.Fatalf("expected to stay on login, got %d", app.Screen())
	}
	if !strings.Contains(app.View(), "Invalid credentials") {
		t.Error("expected server message on the login screen")
	}
}

func TestSignup_SuccessReturnsToLogin(t *testing.T) {
	app, _ := newApp(t, "", "")
	app.navigate("/ceo-signup")
	if app.Screen() != ScreenSignup {
		t.Fatalf("expected signup screen, got %d", app.Screen())
	}

	app.Update(signupDoneMsg{kind: advisory.SignupCEO})
	if app.Screen() != ScreenLogin {
		t.Fatalf("expected login screen, got %d", app.Screen())
	}
	if !strings.Contains(app.View(), "CEO created successfully! Please login.") {
		t.Error("expected signup notice")
	}
}

func TestSignup_OptionsCreateWizard(t *testing.T) {
	app, _ := newApp(t, "", "")
	cmd := app.navigate("/sales-agent-signup")
	if !strings.Contains(app.View(), "Loading") {
		t.Error("expected loading state before options arrive")
	}
	app.Update(cmd())
	if app.wizard == nil || app.wizard.Form().Kind != advisory.SignupAgent {
		t.Fatal("expected agent wizard")
	}
}

func TestSettings_PasswordChangeLogsOut(t *testing.T) {
	app, _ := newApp(t, session.RoleManager, "1")
	app.navigate("/settings")

	_, cmd := app.Update(passwordChangedMsg{})
	if cmd == nil || !strings.Contains(app.View(), settings.ChangedMessage) {
		t.Fatal("expected success message and a logout timer")
	}

	app.Update(logoutMsg{})
	if app.Screen() != ScreenLogin || app.session.Identity() != nil {
		t.Error("expected logged out on the login screen")
	}
}

func TestSettings_PasswordChangeError(t *testing.T) {
	app, _ := newApp(t, session.RoleManager, "1")
	app.navigate("/settings")
	app.Update(passwordChangedMsg{err: &client.APIError{Status: 400, Message: "Current password is incorrect"}})
	if !strings.Contains(app.View(), "Current password is incorrect") {
		t.Error("expected error message")
	}
	if app.session.Identity() == nil {
		t.Error("a failed change should keep the session")
	}
}

func TestUsers_CreateManager(t *testing.T) {
	app, backend := newApp(t, session.RoleCEO, "")
	app.navigate("/users")
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if app.Screen() != ScreenCreateManager {
		t.Fatalf("expected create manager screen, got %d", app.Screen())
	}
	app.Update(app.loadManagerOptions()())
	if got := app.manager.AvailableBranches(); len(got) != 1 || got[0].Name != "Maganjo" {
		t.Errorf("expected Maganjo to be offered, got %v", got)
	}

	in := client.CreateManagerInput{Email: "mary@gcdl.co.ug", Password: "secret1", FullName: "Mary", BranchID: 1}
	_, cmd := app.Update(users.SubmitMsg{Input: in})
	app.Update(cmd())
	if backend.manager == nil || *backend.manager != in {
		t.Fatalf("manager not sent: %+v", backend.manager)
	}
	if !strings.Contains(app.View(), "Manager Mary created") {
		t.Error("expected created notice")
	}

	app.Update(users.CancelledMsg{})
	if app.Screen() != ScreenResource {
		t.Errorf("cancel should return to the users list, got %d", app.Screen())
	}
}

func TestUsers_CreateManagerError(t *testing.T) {
	app, backend := newApp(t, session.RoleCEO, "")
	backend.managerErr = &client.APIError{Status: 500}
	app.navigate("/users")
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	_, cmd := app.Update(users.SubmitMsg{Input: client.CreateManagerInput{FullName: "Mary"}})
	app.Update(cmd())
	if !strings.Contains(app.View(), "Failed to create manager") {
		t.Error("expected fallback error")
	}
}

func TestUsers_CreateManagerCEOOnly(t *testing.T) {
	app, _ := newApp(t, session.RoleManager, "1")
	app.navigate("/stock")
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if app.Screen() != ScreenResource {
		t.Errorf("n should do nothing outside the CEO users list, got %d", app.Screen())
	}
}

func TestMenu_OpenAndNavigate(t *testing.T) {
	app, _ := newApp(t, session.RoleSalesAgent, "2")
	app.navigate(routing.DashboardPath)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if app.Screen() != ScreenMenu {
		t.Fatalf("expected menu, got %d", app.Screen())
	}
	app.Update(menu.CancelledMsg{})
	if app.Screen() != ScreenDashboard {
		t.Fatal("cancel should return to the previous screen")
	}

	app.Update(menu.NavigateMsg{Path: "/stock"})
	if app.Screen() != ScreenResource {
		t.Errorf("expected stock list, got %d", app.Screen())
	}
}

func TestSnapshot_LogoutElsewhereReturnsToLogin(t *testing.T) {
	app, _ := newApp(t, session.RoleCEO, "")
	app.navigate("/stock")

	app.session.Logout(context.Background())
	app.Update(snapshotMsg(app.session.Snapshot()))
	if app.Screen() != ScreenLogin {
		t.Errorf("expected login after the session ended, got %d", app.Screen())
	}
}

func TestReports_DownloadIsRemembered(t *testing.T) {
	backend := &fakeBackend{user: userJSON(session.RoleManager, "1")}
	store := storage.NewMemoryStore()
	sess := session.New(store, backend)
	if _, err := sess.Login(context.Background(), "user@gcdl.co.ug", "secret1"); err != nil {
		t.Fatal(err)
	}
	app := New(context.Background(), Options{Session: sess, API: backend, Recent: reports.NewRecent(store)})
	t.Cleanup(app.Close)

	app.navigate("/reports")
	app.Update(app.doReport(reports.RequestMsg{Format: "csv", Dir: t.TempDir()})())

	view := app.View()
	if !strings.Contains(view, "Saved") || !strings.Contains(view, "Recent downloads") {
		t.Errorf("expected saved path and recent list in view")
	}
}
