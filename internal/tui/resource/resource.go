// ABOUTME: Scrollable resource lists (stock, sales, procurement, credit sales, users)
// ABOUTME: Fetch turns backend rows into table rows; List wraps a bubbles table

package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/format"
	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
)

// API is the subset of the client used by the lists.
type API interface {
	Stock(ctx context.Context, f client.Filter) ([]client.StockItem, error)
	Sales(ctx context.Context, f client.Filter) ([]client.Sale, error)
	Procurements(ctx context.Context, f client.Filter) ([]client.Procurement, error)
	CreditSales(ctx context.Context, f client.Filter) ([]client.CreditSale, error)
	Managers(ctx context.Context) ([]client.StaffMember, error)
	Agents(ctx context.Context) ([]client.StaffMember, error)
}

// Kind is a listable resource.
type Kind int

const (
	KindStock Kind = iota
	KindSales
	KindProcurement
	KindCreditSales
	KindUsers
)

var kindTitles = map[Kind]string{
	KindStock:       "Stock",
	KindSales:       "Recent Sales",
	KindProcurement: "Procurement History",
	KindCreditSales: "Credit Sales",
	KindUsers:       "Users",
}

func (k Kind) String() string {
	return kindTitles[k]
}

// KindForView maps a routed view to its list. ok is false for views that
// are not lists.
func KindForView(v routing.ViewID) (Kind, bool) {
	switch v {
	case routing.StockView:
		return KindStock, true
	case routing.SalesView:
		return KindSales, true
	case routing.ProcurementView:
		return KindProcurement, true
	case routing.CreditSalesView:
		return KindCreditSales, true
	case routing.UsersView:
		return KindUsers, true
	}
	return 0, false
}

// Listing is a fetched table.
type Listing struct {
	Columns []table.Column
	Rows    []table.Row
}

// Fetch loads kind and converts it into table rows.
func Fetch(ctx context.Context, api API, kind Kind, f client.Filter) (*Listing, error) {
	switch kind {
	case KindStock:
		items, err := api.Stock(ctx, f)
		if err != nil {
			return nil, err
		}
		l := &Listing{Columns: []table.Column{{Title: "Branch", Width: 8}, {Title: "Produce", Width: 16}, {Title: "Tonnage", Width: 12}, {Title: "Updated", Width: 12}}}
		for _, s := range items {
			l.Rows = append(l.Rows, table.Row{fmt.Sprint(s.BranchID), s.ProduceName, format.Tonnes(s.CurrentTonnage.Float()), format.DateString(s.UpdatedAt)})
		}
		return l, nil

	case KindSales:
		items, err := api.Sales(ctx, f)
		if err != nil {
			return nil, err
		}
		l := &Listing{Columns: []table.Column{{Title: "Date", Width: 12}, {Title: "Produce", Width: 14}, {Title: "Buyer", Width: 16}, {Title: "Tonnage", Width: 10}, {Title: "Amount", Width: 16}, {Title: "Payment", Width: 9}}}
		for _, s := range items {
			l.Rows = append(l.Rows, table.Row{format.DateString(s.SalesDate), s.ProduceName, dash(s.BuyerName), format.Tonnes(s.Tonnage.Float()), format.Currency(s.TotalAmount.Float()), dash(s.PaymentStatus)})
		}
		return l, nil

	case KindProcurement:
		items, err := api.Procurements(ctx, f)
		if err != nil {
			return nil, err
		}
		l := &Listing{Columns: []table.Column{{Title: "Date", Width: 12}, {Title: "Produce", Width: 14}, {Title: "Source", Width: 14}, {Title: "Tonnage", Width: 10}, {Title: "Cost/t", Width: 14}, {Title: "Total", Width: 16}}}
		for _, p := range items {
			l.Rows = append(l.Rows, table.Row{format.DateString(p.ProcurementDate), p.ProduceName, dash(p.DealerName), format.Tonnes(p.Tonnage.Float()), format.Currency(p.CostPerTon.Float()), format.Currency(p.TotalCost.Float())})
		}
		return l, nil

	case KindCreditSales:
		items, err := api.CreditSales(ctx, f)
		if err != nil {
			return nil, err
		}
		l := &Listing{Columns: []table.Column{{Title: "Date", Width: 12}, {Title: "Branch", Width: 12}, {Title: "Produce", Width: 14}, {Title: "Amount due", Width: 16}, {Title: "Paid", Width: 16}, {Title: "Due", Width: 12}, {Title: "Status", Width: 10}}}
		for _, c := range items {
			l.Rows = append(l.Rows, table.Row{format.DateString(c.SalesDate), dash(c.BranchName), c.ProduceName, format.Currency(c.AmountDue.Float()), format.Currency(c.AmountPaid.Float()), format.DateString(c.DueDate), dash(c.Status)})
		}
		return l, nil

	case KindUsers:
		var managers, agents []client.StaffMember
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			managers, err = api.Managers(gctx)
			return err
		})
		g.Go(func() (err error) {
			agents, err = api.Agents(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		l := &Listing{Columns: []table.Column{{Title: "Role", Width: 12}, {Title: "Name", Width: 20}, {Title: "Email", Width: 24}, {Title: "Phone", Width: 14}, {Title: "Branch", Width: 12}}}
		for _, m := range managers {
			l.Rows = append(l.Rows, staffRow("Manager", m))
		}
		for _, a := range agents {
			l.Rows = append(l.Rows, staffRow("Sales Agent", a))
		}
		return l, nil
	}
	return nil, fmt.Errorf("unknown resource kind %d", kind)
}

func staffRow(role string, s client.StaffMember) table.Row {
	return table.Row{role, s.FullName, s.Email, dash(s.Phone), s.BranchName()}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// List is an interactive table of one resource.
type List struct {
	kind   Kind
	table  table.Model
	loaded bool
	err    error
	width  int
	height int
}

// New returns an empty list that shows a loading line until SetListing.
func New(kind Kind, width, height int) *List {
	t := table.New(table.WithFocused(true))
	t.SetStyles(styles.Table())
	l := &List{kind: kind, table: t}
	l.SetSize(width, height)
	return l
}

func (l *List) Kind() Kind { return l.kind }

// Len returns the number of rows shown.
func (l *List) Len() int { return len(l.table.Rows()) }

func (l *List) SetListing(listing *Listing) {
	l.table.SetRows(nil)
	l.table.SetColumns(listing.Columns)
	l.table.SetRows(listing.Rows)
	l.table.GotoTop()
	l.loaded = true
	l.err = nil
}

func (l *List) SetError(err error) {
	l.err = err
}

func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.table.SetWidth(max(20, width))
	l.table.SetHeight(max(3, height-3))
}

func (l *List) Init() tea.Cmd { return nil }

func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

func (l *List) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(l.kind.String()))
	sb.WriteString("\n")
	switch {
	case l.err != nil:
		sb.WriteString(styles.ErrorText.Render(client.ErrorMessage(l.err, "Failed to load "+strings.ToLower(l.kind.String()))))
	case !l.loaded:
		sb.WriteString(styles.Subtitle.Render("Loading…"))
	case l.Len() == 0:
		sb.WriteString(styles.Subtitle.Render("No records"))
	default:
		sb.WriteString(l.table.View())
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render(fmt.Sprintf("%d records", l.Len())))
	}
	return sb.String()
}
