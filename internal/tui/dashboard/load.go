// ABOUTME: Fetches the data each dashboard board needs, concurrently
// ABOUTME: Required calls fail the load; optional panels degrade to empty

package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
)

// API is the part of the backend client the boards read from.
type API interface {
	AnalyticsSummary(ctx context.Context, f client.Filter) (*client.KPIs, error)
	BranchesOverview(ctx context.Context, f client.Filter) ([]client.BranchOverview, error)
	TopProduce(ctx context.Context, f client.Filter) ([]client.ProduceTotal, error)
	ProduceBreakdown(ctx context.Context, f client.Filter) ([]client.ProduceTotal, error)
	AgentsPerformance(ctx context.Context, f client.Filter) ([]client.AgentPerformance, error)
	SalesTrend(ctx context.Context, f client.Filter) ([]client.TrendPoint, error)
	Stock(ctx context.Context, f client.Filter) ([]client.StockItem, error)
	Sales(ctx context.Context, f client.Filter) ([]client.Sale, error)
	Procurements(ctx context.Context, f client.Filter) ([]client.Procurement, error)
	CreditSales(ctx context.Context, f client.Filter) ([]client.CreditSale, error)
}

// Kind selects a board layout.
type Kind int

const (
	KindWelcome Kind = iota
	KindCompany
	KindBranch
	KindAgent
	KindAnalytics
)

func (k Kind) String() string {
	switch k {
	case KindCompany:
		return "Company Overview"
	case KindBranch:
		return "Branch Performance"
	case KindAgent:
		return "Sales Agent Dashboard"
	case KindAnalytics:
		return "Analytics"
	default:
		return "Dashboard"
	}
}

// KindFor picks the board for a resolved view and role. The default
// dashboard varies by role the same way the web dashboard does.
func KindFor(view routing.ViewID, role session.Role) Kind {
	switch view {
	case routing.SalesAgentView:
		return KindAgent
	case routing.ManagerView:
		return KindBranch
	case routing.AnalyticsView:
		return KindAnalytics
	case routing.BuyerView:
		return KindWelcome
	}
	switch role.Kind() {
	case session.KindCEO:
		return KindCompany
	case session.KindManager:
		return KindBranch
	}
	return KindWelcome
}

// RecentLimit caps the recent activity lists on the agent board.
const RecentLimit = 10

// TopProduceLimit is the number of produce lines on the company board.
const TopProduceLimit = 5

// TrendDays is the window of the sales trend.
const TrendDays = 30

// Data is everything a board may show. Unused fields stay nil.
type Data struct {
	KPIs         *client.KPIs              `json:"kpis,omitempty"`
	Branches     []client.BranchOverview   `json:"branches,omitempty"`
	TopProduce   []client.ProduceTotal     `json:"top_produce,omitempty"`
	Produce      []client.ProduceTotal     `json:"produce,omitempty"`
	Agents       []client.AgentPerformance `json:"agents,omitempty"`
	Trend        []client.TrendPoint       `json:"trend,omitempty"`
	Stock        []client.StockItem        `json:"stock,omitempty"`
	Sales        []client.Sale             `json:"sales,omitempty"`
	Procurements []client.Procurement      `json:"procurements,omitempty"`
	CreditSales  []client.CreditSale       `json:"credit_sales,omitempty"`
}

// Load fetches the data for kind. f carries date and branch filters; the
// agent board is always scoped to branchID.
func Load(ctx context.Context, api API, kind Kind, f client.Filter, branchID *int64) (*Data, error) {
	d := &Data{}
	g, ctx := errgroup.WithContext(ctx)

	switch kind {
	case KindCompany:
		g.Go(func() (err error) {
			d.Branches, err = api.BranchesOverview(ctx, f)
			return err
		})
		g.Go(func() (err error) {
			tf := f
			tf.Limit = TopProduceLimit
			d.TopProduce, err = api.TopProduce(ctx, tf)
			return err
		})

	case KindBranch, KindAnalytics:
		g.Go(func() (err error) {
			d.KPIs, err = api.AnalyticsSummary(ctx, f)
			return err
		})
		g.Go(func() (err error) {
			d.Agents, err = api.AgentsPerformance(ctx, f)
			return err
		})
		g.Go(func() error {
			tf := f
			tf.Days = TrendDays
			d.Trend = optional("sales trend", func() ([]client.TrendPoint, error) { return api.SalesTrend(ctx, tf) })
			return nil
		})
		g.Go(func() error {
			d.Produce = optional("produce breakdown", func() ([]client.ProduceTotal, error) { return api.ProduceBreakdown(ctx, f) })
			return nil
		})

	case KindAgent:
		if branchID == nil {
			return d, nil
		}
		bf := client.Filter{BranchID: *branchID}
		g.Go(func() (err error) {
			d.Stock, err = api.Stock(ctx, bf)
			return err
		})
		g.Go(func() (err error) {
			sales, err := api.Sales(ctx, bf)
			d.Sales = firstN(sales, RecentLimit)
			return err
		})
		g.Go(func() (err error) {
			procs, err := api.Procurements(ctx, bf)
			d.Procurements = firstN(procs, RecentLimit)
			return err
		})
		g.Go(func() (err error) {
			credit, err := api.CreditSales(ctx, bf)
			d.CreditSales = firstN(credit, RecentLimit)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func optional[T any](what string, fetch func() ([]T, error)) []T {
	out, err := fetch()
	if err != nil {
		slog.Debug("Optional dashboard panel unavailable", "panel", what, "error", err)
		return nil
	}
	return out
}

func firstN[T any](in []T, n int) []T {
	if len(in) > n {
		return in[:n]
	}
	return in
}
