// ABOUTME: Maps a role to the dashboard view it lands on
// ABOUTME: The mapping is configurable and falls back to a default view for any other role

package routing

import (
	"fmt"
	"strings"

	"github.com/KayembaIsaacFrank/gcdl/internal/session"
)

// ViewID names a screen the client can render.
type ViewID string

const (
	DefaultView    ViewID = "default"
	SalesAgentView ViewID = "sales-agent"
	ManagerView    ViewID = "manager"
	BuyerView      ViewID = "buyer"

	LoginView         ViewID = "login"
	UnauthorizedView  ViewID = "unauthorized"
	CEOSignupView     ViewID = "ceo-signup"
	ManagerSignupView ViewID = "manager-signup"
	AgentSignupView   ViewID = "sales-agent-signup"
	BuyerSignupView   ViewID = "buyer-signup"

	ProcurementView ViewID = "procurement"
	SalesView       ViewID = "sales"
	CreditSalesView ViewID = "credit-sales"
	StockView       ViewID = "stock"
	AnalyticsView   ViewID = "analytics"
	ReportsView     ViewID = "reports"
	UsersView       ViewID = "users"
	SettingsView    ViewID = "settings"
)

// dashboardViews are the views a role may be dispatched to.
var dashboardViews = map[string]ViewID{
	string(DefaultView):    DefaultView,
	string(SalesAgentView): SalesAgentView,
	string(ManagerView):    ManagerView,
	string(BuyerView):      BuyerView,
}

// ParseDashboardView resolves a configured view name.
func ParseDashboardView(name string) (ViewID, error) {
	v, ok := dashboardViews[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown dashboard view %q", name)
	}
	return v, nil
}

// Dispatcher maps roles to dashboard views. Lookups are exact on the role
// string; anything unmapped, including the empty role, gets the fallback.
type Dispatcher struct {
	views    map[session.Role]ViewID
	fallback ViewID
}

// NewDispatcher builds a dispatcher from an explicit mapping.
func NewDispatcher(views map[session.Role]ViewID, fallback ViewID) *Dispatcher {
	m := make(map[session.Role]ViewID, len(views))
	for r, v := range views {
		m[r] = v
	}
	if fallback == "" {
		fallback = DefaultView
	}
	return &Dispatcher{views: m, fallback: fallback}
}

// DefaultDispatcher sends Sales Agents to their own view and everyone else
// to the default dashboard.
func DefaultDispatcher() *Dispatcher {
	return NewDispatcher(map[session.Role]ViewID{
		session.RoleSalesAgent: SalesAgentView,
	}, DefaultView)
}

// ParseRoleViews parses "Role=view,Role=view" configuration. Role names keep
// their exact casing and may contain spaces.
func ParseRoleViews(spec string) (map[session.Role]ViewID, error) {
	out := map[session.Role]ViewID{}
	if strings.TrimSpace(spec) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		role, view, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid role view mapping %q (want Role=view)", pair)
		}
		role = strings.TrimSpace(role)
		if role == "" {
			return nil, fmt.Errorf("invalid role view mapping %q: empty role", pair)
		}
		v, err := ParseDashboardView(view)
		if err != nil {
			return nil, err
		}
		out[session.Role(role)] = v
	}
	return out, nil
}

// Dispatch returns the view for role. It never fails.
func (d *Dispatcher) Dispatch(role session.Role) ViewID {
	if v, ok := d.views[role]; ok {
		return v
	}
	return d.fallback
}
