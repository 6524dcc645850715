// ABOUTME: Tests for the route guard, role dispatcher, and route table
// ABOUTME: Enumerates roles and requirements exhaustively for the guard

package routing

import (
	"testing"

	"github.com/KayembaIsaacFrank/gcdl/internal/session"
)

var allRoles = []session.Role{
	session.RoleCEO,
	session.RoleManager,
	session.RoleSalesAgent,
	session.RoleBuyer,
	"ceo",
	"Intern",
	"",
}

func TestDecide_Exhaustive(t *testing.T) {
	requirements := append([]session.Role{""}, allRoles...)

	for _, required := range requirements {
		if got := Decide(nil, required); got != RedirectToLogin {
			t.Errorf("nil identity, required %q: expected RedirectToLogin, got %v", required, got)
		}

		for _, role := range allRoles {
			id := &session.Identity{Role: role}
			got := Decide(id, required)

			want := Allow
			if required != "" && role != required {
				want = RedirectToUnauthorized
			}
			if got != want {
				t.Errorf("role %q, required %q: expected %v, got %v", role, required, want, got)
			}
		}
	}
}

func TestDecide_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		identity *session.Identity
		required session.Role
		want     Decision
	}{
		{"agent on CEO route", &session.Identity{Role: "Sales Agent"}, "CEO", RedirectToUnauthorized},
		{"no session, no requirement", nil, "", RedirectToLogin},
		{"CEO, no requirement", &session.Identity{Role: "CEO"}, "", Allow},
		{"CEO on manager route", &session.Identity{Role: "CEO"}, "Manager", RedirectToUnauthorized},
		{"lowercase role", &session.Identity{Role: "ceo"}, "CEO", RedirectToUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.identity, tt.required); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDefaultDispatcher(t *testing.T) {
	d := DefaultDispatcher()
	for _, role := range allRoles {
		want := DefaultView
		if role == session.RoleSalesAgent {
			want = SalesAgentView
		}
		if got := d.Dispatch(role); got != want {
			t.Errorf("role %q: expected %v, got %v", role, want, got)
		}
	}
}

func TestConfiguredDispatcher(t *testing.T) {
	views, err := ParseRoleViews("Sales Agent=sales-agent, Manager=manager,Buyer=BUYER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := NewDispatcher(views, "")

	tests := map[session.Role]ViewID{
		"Sales Agent": SalesAgentView,
		"Manager":     ManagerView,
		"Buyer":       BuyerView,
		"CEO":         DefaultView,
		"manager":     DefaultView,
		"Intern":      DefaultView,
		"":            DefaultView,
	}
	for role, want := range tests {
		if got := d.Dispatch(role); got != want {
			t.Errorf("role %q: expected %v, got %v", role, want, got)
		}
	}
}

func TestParseRoleViews_Errors(t *testing.T) {
	for _, spec := range []string{"Manager", "=manager", "Manager=spaceship"} {
		if _, err := ParseRoleViews(spec); err == nil {
			t.Errorf("%q: expected error", spec)
		}
	}
	views, err := ParseRoleViews("  ")
	if err != nil || len(views) != 0 {
		t.Errorf("expected empty mapping, got %v err=%v", views, err)
	}
}

func TestResolve(t *testing.T) {
	r := NewRouter(nil)
	agent := &session.Identity{Role: session.RoleSalesAgent}
	ceo := &session.Identity{Role: session.RoleCEO}
	manager := &session.Identity{Role: session.RoleManager}

	tests := []struct {
		name     string
		path     string
		identity *session.Identity
		decision Decision
		view     ViewID
		wantPath string
	}{
		{"root redirects to dashboard", "/", ceo, Allow, DefaultView, "/dashboard"},
		{"agent dashboard", "/dashboard", agent, Allow, SalesAgentView, "/dashboard"},
		{"manager dashboard", "dashboard/", manager, Allow, DefaultView, "/dashboard"},
		{"logged out dashboard", "/dashboard", nil, RedirectToLogin, LoginView, "/dashboard"},
		{"public login", "/login", nil, Allow, LoginView, "/login"},
		{"public signup", "/CEO-Signup", nil, Allow, CEOSignupView, "/ceo-signup"},
		{"agent procurement", "/procurement", agent, Allow, ProcurementView, "/procurement"},
		{"CEO procurement", "/procurement", ceo, RedirectToUnauthorized, UnauthorizedView, "/procurement"},
		{"CEO users", "/users", ceo, Allow, UsersView, "/users"},
		{"manager users", "/users", manager, RedirectToUnauthorized, UnauthorizedView, "/users"},
		{"any stock", "/stock", manager, Allow, StockView, "/stock"},
		{"logged out settings", "/settings", nil, RedirectToLogin, LoginView, "/settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.path, tt.identity)
			if !res.Found {
				t.Fatalf("expected route for %q", tt.path)
			}
			if res.Decision != tt.decision {
				t.Errorf("expected decision %v, got %v", tt.decision, res.Decision)
			}
			if res.View != tt.view {
				t.Errorf("expected view %v, got %v", tt.view, res.View)
			}
			if res.Path != tt.wantPath {
				t.Errorf("expected path %q, got %q", tt.wantPath, res.Path)
			}
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	res := NewRouter(nil).Resolve("/buyers", &session.Identity{Role: "CEO"})
	if res.Found {
		t.Errorf("expected unknown route, got %+v", res.Route)
	}
}

func TestResolve_ConfiguredDispatch(t *testing.T) {
	d := NewDispatcher(map[session.Role]ViewID{"Manager": ManagerView}, DefaultView)
	res := NewRouter(d).Resolve("/dashboard", &session.Identity{Role: "Manager"})
	if res.View != ManagerView {
		t.Errorf("expected manager view, got %v", res.View)
	}
}

func TestNavItems(t *testing.T) {
	titles := func(items []NavItem) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Title
		}
		return out
	}

	tests := []struct {
		role session.Role
		want []string
	}{
		{session.RoleSalesAgent, []string{"Dashboard", "Procurement", "Sales", "Credit Sales", "Stock", "Analytics", "Reports", "Settings"}},
		{session.RoleCEO, []string{"Dashboard", "Analytics", "Reports", "Users", "Settings"}},
		{session.RoleManager, []string{"Dashboard", "Analytics", "Reports", "Settings"}},
	}
	for _, tt := range tests {
		got := titles(NavItems(&session.Identity{Role: tt.role}))
		if len(got) != len(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.role, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: expected %v, got %v", tt.role, tt.want, got)
				break
			}
		}
	}

	if NavItems(nil) != nil {
		t.Error("expected no nav items when logged out")
	}
}

func TestNavItems_AllResolvable(t *testing.T) {
	r := NewRouter(nil)
	for _, role := range []session.Role{session.RoleSalesAgent, session.RoleCEO, session.RoleManager} {
		id := &session.Identity{Role: role}
		for _, item := range NavItems(id) {
			res := r.Resolve(item.Path, id)
			if res.Decision != Allow {
				t.Errorf("%s: nav item %s resolves to %v", role, item.Path, res.Decision)
			}
		}
	}
}
