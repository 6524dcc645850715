// ABOUTME: Route table for the client's views and per-role navigation
// ABOUTME: Resolve runs the guard and the role dispatcher for a path

package routing

import (
	"strings"

	"github.com/KayembaIsaacFrank/gcdl/internal/session"
)

// Route is one addressable view.
type Route struct {
	Path     string
	Title    string
	View     ViewID
	Public   bool
	Required session.Role
	// Dispatched routes pick their view from the role dispatcher.
	Dispatched bool
}

// DashboardPath is where the root path and successful logins land.
const DashboardPath = "/dashboard"

// Routes is the full route table.
var Routes = []Route{
	{Path: "/login", Title: "Login", View: LoginView, Public: true},
	{Path: "/ceo-signup", Title: "CEO Signup", View: CEOSignupView, Public: true},
	{Path: "/manager-signup", Title: "Manager Signup", View: ManagerSignupView, Public: true},
	{Path: "/sales-agent-signup", Title: "Sales Agent Signup", View: AgentSignupView, Public: true},
	{Path: "/unauthorized", Title: "Unauthorized", View: UnauthorizedView, Public: true},

	{Path: DashboardPath, Title: "Dashboard", Dispatched: true},
	{Path: "/procurement", Title: "Procurement", View: ProcurementView, Required: session.RoleSalesAgent},
	{Path: "/sales", Title: "Sales", View: SalesView, Required: session.RoleSalesAgent},
	{Path: "/credit-sales", Title: "Credit Sales", View: CreditSalesView},
	{Path: "/stock", Title: "Stock", View: StockView},
	{Path: "/analytics", Title: "Analytics", View: AnalyticsView},
	{Path: "/reports", Title: "Reports", View: ReportsView},
	{Path: "/users", Title: "Users", View: UsersView, Required: session.RoleCEO},
	{Path: "/settings", Title: "Settings", View: SettingsView},
}

// Resolution is the result of resolving a path for an identity.
type Resolution struct {
	// Path is the normalized path after any redirect from "/".
	Path     string
	Route    Route
	Found    bool
	Decision Decision
	// View is the view to render: the route's view on Allow, LoginView or
	// UnauthorizedView on a redirect.
	View ViewID
}

// Router resolves paths against the route table.
type Router struct {
	routes     map[string]Route
	dispatcher *Dispatcher
}

// NewRouter creates a router using d for the dashboard. A nil dispatcher
// uses DefaultDispatcher.
func NewRouter(d *Dispatcher) *Router {
	if d == nil {
		d = DefaultDispatcher()
	}
	m := make(map[string]Route, len(Routes))
	for _, r := range Routes {
		m[r.Path] = r
	}
	return &Router{routes: m, dispatcher: d}
}

// Dispatcher returns the dispatcher used for the dashboard route.
func (r *Router) Dispatcher() *Dispatcher {
	return r.dispatcher
}

// Normalize lowercases path, ensures a leading slash, strips a trailing
// slash, and redirects "/" to the dashboard.
func Normalize(path string) string {
	p := strings.ToLower(strings.TrimSpace(path))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "/" || p == "" {
		return DashboardPath
	}
	return p
}

// Resolve looks up path and applies the guard for identity. Public routes
// always allow. Unknown paths report Found=false.
func (r *Router) Resolve(path string, identity *session.Identity) Resolution {
	p := Normalize(path)
	route, ok := r.routes[p]
	if !ok {
		return Resolution{Path: p}
	}

	res := Resolution{Path: p, Route: route, Found: true}
	if route.Public {
		res.Decision = Allow
		res.View = route.View
		return res
	}

	res.Decision = Decide(identity, route.Required)
	switch res.Decision {
	case RedirectToLogin:
		res.View = LoginView
	case RedirectToUnauthorized:
		res.View = UnauthorizedView
	default:
		if route.Dispatched {
			res.View = r.dispatcher.Dispatch(identity.Role)
		} else {
			res.View = route.View
		}
	}
	return res
}

// NavItem is one navigation entry.
type NavItem struct {
	Title string
	Path  string
}

// NavItems returns the navigation entries visible to identity, in menu order.
// Logged-out users get no entries.
func NavItems(identity *session.Identity) []NavItem {
	if identity == nil {
		return nil
	}
	items := []NavItem{{Title: "Dashboard", Path: DashboardPath}}
	if identity.Role == session.RoleSalesAgent {
		items = append(items,
			NavItem{Title: "Procurement", Path: "/procurement"},
			NavItem{Title: "Sales", Path: "/sales"},
			NavItem{Title: "Credit Sales", Path: "/credit-sales"},
			NavItem{Title: "Stock", Path: "/stock"},
		)
	}
	items = append(items,
		NavItem{Title: "Analytics", Path: "/analytics"},
		NavItem{Title: "Reports", Path: "/reports"},
	)
	if identity.Role == session.RoleCEO {
		items = append(items, NavItem{Title: "Users", Path: "/users"})
	}
	items = append(items, NavItem{Title: "Settings", Path: "/settings"})
	return items
}
