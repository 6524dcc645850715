// ABOUTME: Typed wrappers over the GCDL REST endpoints
// ABOUTME: Each method maps to one backend route and decodes its envelope

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Login calls POST /auth/login
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	data, err := c.Do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &resp, nil
}

// Signup posts a registration payload to endpoint and returns the body verbatim.
func (c *Client) Signup(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, endpoint, payload, nil)
}

// ChangePassword calls PUT /auth/change-password
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	_, err := c.Do(ctx, http.MethodPut, "/auth/change-password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil)
	return err
}

// Branches calls GET /branches
func (c *Client) Branches(ctx context.Context) ([]Branch, error) {
	return getList[Branch](ctx, c, "/branches", nil)
}

// Produce calls GET /produce
func (c *Client) Produce(ctx context.Context) ([]Produce, error) {
	return getList[Produce](ctx, c, "/produce", nil)
}

// Buyers calls GET /buyers
func (c *Client) Buyers(ctx context.Context) ([]Buyer, error) {
	return getList[Buyer](ctx, c, "/buyers", nil)
}

// Stock calls GET /stock
func (c *Client) Stock(ctx context.Context, f Filter) ([]StockItem, error) {
	return getList[StockItem](ctx, c, "/stock", f.Values())
}

// Sales calls GET /sales
func (c *Client) Sales(ctx context.Context, f Filter) ([]Sale, error) {
	return getList[Sale](ctx, c, "/sales", f.Values())
}

// Procurements calls GET /procurement
func (c *Client) Procurements(ctx context.Context, f Filter) ([]Procurement, error) {
	return getList[Procurement](ctx, c, "/procurement", f.Values())
}

// CreditSales calls GET /credit-sales
func (c *Client) CreditSales(ctx context.Context, f Filter) ([]CreditSale, error) {
	return getList[CreditSale](ctx, c, "/credit-sales", f.Values())
}

// Managers calls GET /users/managers
func (c *Client) Managers(ctx context.Context) ([]StaffMember, error) {
	return getList[StaffMember](ctx, c, "/users/managers", nil)
}

// Agents calls GET /users/agents
func (c *Client) Agents(ctx context.Context) ([]StaffMember, error) {
	return getList[StaffMember](ctx, c, "/users/agents", nil)
}

// AgentsByBranch calls GET /users/agents/branch/{id}
func (c *Client) AgentsByBranch(ctx context.Context, branchID int64) ([]StaffMember, error) {
	return getList[StaffMember](ctx, c, fmt.Sprintf("/users/agents/branch/%d", branchID), nil)
}

// AnalyticsSummary calls GET /analytics and unwraps {kpis}
func (c *Client) AnalyticsSummary(ctx context.Context, f Filter) (*KPIs, error) {
	var env struct {
		KPIs *KPIs `json:"kpis"`
	}
	if err := c.getJSON(ctx, "/analytics", f.Values(), &env); err != nil {
		return nil, err
	}
	if env.KPIs == nil {
		return &KPIs{}, nil
	}
	return env.KPIs, nil
}

// BranchesOverview calls GET /analytics/branches-overview and unwraps {branches}
func (c *Client) BranchesOverview(ctx context.Context, f Filter) ([]BranchOverview, error) {
	var env struct {
		Branches []BranchOverview `json:"branches"`
	}
	err := c.getJSON(ctx, "/analytics/branches-overview", f.Values(), &env)
	return env.Branches, err
}

// TopProduce calls GET /analytics/top-produce and unwraps {top_produce}
func (c *Client) TopProduce(ctx context.Context, f Filter) ([]ProduceTotal, error) {
	if f.Limit == 0 {
		f.Limit = 5
	}
	var env struct {
		TopProduce []ProduceTotal `json:"top_produce"`
	}
	err := c.getJSON(ctx, "/analytics/top-produce", f.Values(), &env)
	return env.TopProduce, err
}

// ProduceBreakdown calls GET /analytics/produce-breakdown and unwraps {produce_breakdown}
func (c *Client) ProduceBreakdown(ctx context.Context, f Filter) ([]ProduceTotal, error) {
	var env struct {
		ProduceBreakdown []ProduceTotal `json:"produce_breakdown"`
	}
	err := c.getJSON(ctx, "/analytics/produce-breakdown", f.Values(), &env)
	return env.ProduceBreakdown, err
}

// AgentsPerformance calls GET /analytics/agents-performance and unwraps {agents}
func (c *Client) AgentsPerformance(ctx context.Context, f Filter) ([]AgentPerformance, error) {
	var env struct {
		Agents []AgentPerformance `json:"agents"`
	}
	err := c.getJSON(ctx, "/analytics/agents-performance", f.Values(), &env)
	return env.Agents, err
}

// SalesTrend calls GET /analytics/sales-trend and unwraps {trend}
func (c *Client) SalesTrend(ctx context.Context, f Filter) ([]TrendPoint, error) {
	if f.Days == 0 {
		f.Days = 30
	}
	var env struct {
		Trend []TrendPoint `json:"trend"`
	}
	err := c.getJSON(ctx, "/analytics/sales-trend", f.Values(), &env)
	return env.Trend, err
}

// RecordProcurement calls POST /procurement
func (c *Client) RecordProcurement(ctx context.Context, in ProcurementInput) error {
	_, err := c.Do(ctx, http.MethodPost, "/procurement", in, nil)
	return err
}

// RecordSale calls POST /sales
func (c *Client) RecordSale(ctx context.Context, in SaleInput) error {
	if in.PaymentStatus == "" {
		in.PaymentStatus = "Paid"
	}
	_, err := c.Do(ctx, http.MethodPost, "/sales", in, nil)
	return err
}

// RecordCreditSale calls POST /credit-sales
func (c *Client) RecordCreditSale(ctx context.Context, in CreditSaleInput) error {
	_, err := c.Do(ctx, http.MethodPost, "/credit-sales", in, nil)
	return err
}

// CreateManager calls POST /auth/create-manager. CEO only.
func (c *Client) CreateManager(ctx context.Context, in CreateManagerInput) error {
	_, err := c.Do(ctx, http.MethodPost, "/auth/create-manager", in, nil)
	return err
}

// getList decodes a bare JSON array endpoint.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.getJSON(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Report is a downloaded export.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportFormats lists the supported sales report exports.
var ReportFormats = []string{"csv", "xlsx", "pdf"}

// DownloadSalesReport calls GET /reports/sales/{format}
func (c *Client) DownloadSalesReport(ctx context.Context, format string, f Filter) (*Report, error) {
	format = strings.ToLower(format)
	valid := false
	for _, rf := range ReportFormats {
		if rf == format {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unsupported report format %q (want csv, xlsx, or pdf)", format)
	}

	data, header, err := c.send(ctx, http.MethodGet, "/reports/sales/"+format, nil, f.Values())
	if err != nil {
		return nil, err
	}

	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Report{
		Filename:    "sales_report." + format,
		ContentType: contentType,
		Data:        data,
	}, nil
}
