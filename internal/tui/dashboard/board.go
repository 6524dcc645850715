// ABOUTME: Renders the dashboard boards: company, branch, analytics, agent and welcome
// ABOUTME: Static tables use lipgloss/table; figures use the KPI blocks and sparkline

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/format"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/icons"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/styles"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/widgets"
)

// Board displays one dashboard.
type Board struct {
	kind     Kind
	identity *session.Identity
	data     *Data
	err      error
	width    int
	height   int
}

// New returns a board in the loading state.
func New(kind Kind, identity *session.Identity, width, height int) *Board {
	return &Board{kind: kind, identity: identity, width: width, height: height}
}

func (b *Board) Kind() Kind { return b.kind }

func (b *Board) Data() *Data { return b.data }

// SetData replaces the board contents and clears any error.
func (b *Board) SetData(d *Data) {
	b.data = d
	b.err = nil
}

// SetError shows err in place of the board.
func (b *Board) SetError(err error) {
	b.err = err
}

func (b *Board) SetSize(width, height int) {
	b.width = width
	b.height = height
}

func (b *Board) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(b.kind.String()))
	sb.WriteString("\n")

	switch {
	case b.err != nil:
		sb.WriteString(styles.ErrorText.Render("Failed to load dashboard: " + b.err.Error()))
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("Press r to retry"))
	case b.kind == KindWelcome:
		sb.WriteString(b.welcome())
	case b.data == nil:
		sb.WriteString(styles.Subtitle.Render("Loading…"))
	case b.kind == KindCompany:
		sb.WriteString(b.company())
	case b.kind == KindAgent:
		sb.WriteString(b.agent())
	default:
		sb.WriteString(b.branch())
	}
	return sb.String()
}

func (b *Board) blockWidth() int {
	if b.width >= 4*widgets.DefaultBlockWidth+3 {
		return widgets.DefaultBlockWidth
	}
	return max(18, (b.width-3)/4)
}

func (b *Board) welcome() string {
	name := "there"
	role := ""
	if b.identity != nil {
		name = b.identity.FullName
		role = b.identity.Role.String()
	}
	lines := []string{fmt.Sprintf("Welcome, %s.", name)}
	if role != "" {
		lines = append(lines, styles.Subtitle.Render("Signed in as "+role))
	}
	lines = append(lines, "", styles.Help.Render("Press m to open the menu"))
	return strings.Join(lines, "\n")
}

func (b *Board) company() string {
	d := b.data
	var total, profit float64
	for _, br := range d.Branches {
		total += br.TotalSales.Float()
		profit += br.EstimatedProfit.Float()
	}
	avgProfit := 0.0
	if len(d.Branches) > 0 {
		avgProfit = profit / float64(len(d.Branches))
	}

	w := b.blockWidth()
	var sb strings.Builder
	sb.WriteString(widgets.Row(
		widgets.MetricBlock(icons.Branch, "Branches", fmt.Sprint(len(d.Branches)), "reporting", w),
		widgets.MetricBlock(icons.Sales, "Total Sales", format.Currency(total), "all branches", w),
		widgets.MetricBlock(icons.Profit, "Avg Profit", format.Currency(avgProfit), "per branch", w),
		widgets.MetricBlock(icons.Produce, "Top Produce", fmt.Sprint(len(d.TopProduce)), "lines", w),
	))
	sb.WriteString("\n\n")

	sb.WriteString(section("Branch Sales & Profit"))
	rows := make([][]string, 0, len(d.Branches))
	for _, br := range d.Branches {
		rows = append(rows, []string{
			br.BranchName,
			format.Currency(br.TotalSales.Float()),
			format.Currency(br.EstimatedProfit.Float()),
			widgets.Bar(br.TotalSales.Float(), total, 16, styles.Primary),
		})
	}
	sb.WriteString(render([]string{"Branch", "Sales", "Profit", "Share"}, rows))
	sb.WriteString("\n\n")

	sb.WriteString(section("Top Produce (Sales UGX)"))
	sb.WriteString(b.produceLines(d.TopProduce))
	return sb.String()
}

func (b *Board) branch() string {
	d := b.data
	w := b.blockWidth()
	k := d.KPIs
	if k == nil {
		k = &client.KPIs{}
	}

	var sb strings.Builder
	sb.WriteString(widgets.Row(
		widgets.MetricBlock(icons.Sales, "Total Sales", format.Currency(k.TotalSales.Float()), "", w),
		widgets.MetricBlock(icons.Tonnage, "Tonnage Sold", format.Tonnes(k.TotalTonnage.Float()), "", w),
		widgets.MetricBlock(icons.Procurement, "Procurement", format.Currency(k.TotalProcurementCost.Float()), "cost", w),
		widgets.MetricBlock(icons.Profit, "Est. Profit", format.Currency(k.EstimatedProfit.Float()), "", w),
	))
	sb.WriteString("\n\n")

	if len(d.Trend) > 0 {
		values := make([]float64, len(d.Trend))
		for i, p := range d.Trend {
			values[i] = p.TotalSales.Float()
		}
		sb.WriteString(section(fmt.Sprintf("Sales, last %d days", TrendDays)))
		sb.WriteString(widgets.Sparkline(values, min(len(values)*2, max(10, b.width-4)), styles.Secondary))
		sb.WriteString("  ")
		sb.WriteString(styles.Subtitle.Render(format.DateString(d.Trend[0].Date) + " → " + format.DateString(d.Trend[len(d.Trend)-1].Date)))
		sb.WriteString("\n\n")
	}

	sb.WriteString(section("Agent Performance"))
	rows := make([][]string, 0, len(d.Agents))
	for _, a := range d.Agents {
		rows = append(rows, []string{a.AgentName, format.Currency(a.TotalSales.Float()), format.Tonnes(a.TotalTonnage.Float())})
	}
	sb.WriteString(render([]string{"Agent", "Sales", "Tonnage"}, rows))

	if len(d.Produce) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(section("Produce Breakdown"))
		sb.WriteString(b.produceLines(d.Produce))
	}
	return sb.String()
}

func (b *Board) agent() string {
	if b.identity == nil || !b.identity.HasBranch() {
		return styles.HintText.Render("Your account is not assigned to a branch.")
	}
	d := b.data
	var sb strings.Builder

	sb.WriteString(section("Stock"))
	rows := make([][]string, 0, len(d.Stock))
	for _, s := range d.Stock {
		rows = append(rows, []string{s.ProduceName, format.Tonnes(s.CurrentTonnage.Float()), format.DateString(s.UpdatedAt)})
	}
	sb.WriteString(render([]string{"Produce", "In stock", "Updated"}, rows))
	sb.WriteString("\n\n")

	sb.WriteString(section("Recent Sales"))
	rows = rows[:0]
	for _, s := range d.Sales {
		rows = append(rows, []string{format.DateString(s.SalesDate), s.ProduceName, format.Tonnes(s.Tonnage.Float()), format.Currency(s.TotalAmount.Float()), widgets.StatusBadge(s.PaymentStatus)})
	}
	sb.WriteString(render([]string{"Date", "Produce", "Tonnage", "Amount", "Status"}, rows))
	sb.WriteString("\n\n")

	sb.WriteString(section("Recent Procurements"))
	rows = rows[:0]
	for _, p := range d.Procurements {
		rows = append(rows, []string{format.DateString(p.ProcurementDate), p.ProduceName, p.DealerName, format.Tonnes(p.Tonnage.Float()), format.Currency(p.TotalCost.Float())})
	}
	sb.WriteString(render([]string{"Date", "Produce", "Source", "Tonnage", "Cost"}, rows))
	sb.WriteString("\n\n")

	sb.WriteString(section("Recent Credit Sales"))
	rows = rows[:0]
	for _, c := range d.CreditSales {
		rows = append(rows, []string{format.DateString(c.SalesDate), c.ProduceName, format.Currency(c.AmountDue.Float()), format.DateString(c.DueDate), widgets.StatusBadge(c.Status)})
	}
	sb.WriteString(render([]string{"Date", "Produce", "Due", "Due date", "Status"}, rows))
	return sb.String()
}

func (b *Board) produceLines(items []client.ProduceTotal) string {
	if len(items) == 0 {
		return styles.Subtitle.Render("No data")
	}
	var top float64
	nameWidth := 0
	for _, p := range items {
		top = max(top, p.TotalSales.Float())
		nameWidth = max(nameWidth, lipgloss.Width(p.ProduceName))
	}
	lines := make([]string, 0, len(items))
	for _, p := range items {
		lines = append(lines, fmt.Sprintf("%-*s %s %s", nameWidth, p.ProduceName,
			widgets.Bar(p.TotalSales.Float(), top, 20, styles.Secondary),
			format.Currency(p.TotalSales.Float())))
	}
	return strings.Join(lines, "\n")
}

func section(title string) string {
	return lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true).Render(title) + "\n"
}

// render draws a bordered table, or a placeholder when rows is empty.
func render(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return styles.Subtitle.Render("No records")
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.String()
}
