// ABOUTME: Request and response types for GCDL API endpoints
// ABOUTME: Numeric fields tolerate the string-encoded decimals the backend emits

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Amount is a decimal quantity (UGX or tonnes). The backend returns
// database numerics as JSON strings, so both forms are accepted.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q is not a number", s)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// Float returns the amount as a float64.
func (a Amount) Float() float64 {
	return float64(a)
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login. User is kept raw so
// the session layer can validate it before persisting.
type LoginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// ChangePasswordRequest is the body of PUT /auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Branch is a company branch
type Branch struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// Produce is a tradable produce type
type Produce struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Buyer is a registered buyer
type Buyer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Location  string `json:"location,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// StockItem is the current tonnage of one produce at one branch
type StockItem struct {
	ID             int64  `json:"id"`
	BranchID       int64  `json:"branch_id"`
	ProduceName    string `json:"produce_name"`
	CurrentTonnage Amount `json:"current_tonnage"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// Sale is a recorded cash sale
type Sale struct {
	ID            int64  `json:"id"`
	BranchID      int64  `json:"branch_id"`
	ProduceName   string `json:"produce_name"`
	BuyerName     string `json:"buyer_name,omitempty"`
	Tonnage       Amount `json:"tonnage"`
	PricePerTon   Amount `json:"price_per_ton"`
	TotalAmount   Amount `json:"total_amount"`
	PaymentStatus string `json:"payment_status,omitempty"`
	SalesDate     string `json:"sales_date"`
}

// Procurement is a recorded purchase of produce
type Procurement struct {
	ID                 int64  `json:"id"`
	BranchID           int64  `json:"branch_id"`
	ProduceName        string `json:"produce_name"`
	DealerName         string `json:"dealer_name,omitempty"`
	Tonnage            Amount `json:"tonnage"`
	CostPerTon         Amount `json:"cost_per_ton"`
	SellingPricePerTon Amount `json:"selling_price_per_ton"`
	TotalCost          Amount `json:"total_cost"`
	ProcurementDate    string `json:"procurement_date"`
}

// CreditSale is a sale on credit with its repayment state
type CreditSale struct {
	ID          int64  `json:"id"`
	BranchName  string `json:"branch_name"`
	ProduceName string `json:"produce_name"`
	Tonnage     Amount `json:"tonnage"`
	PricePerTon Amount `json:"price_per_ton"`
	TotalAmount Amount `json:"total_amount"`
	AmountDue   Amount `json:"amount_due"`
	AmountPaid  Amount `json:"amount_paid"`
	Status      string `json:"status"`
	SalesDate   string `json:"sales_date"`
	DueDate     string `json:"due_date,omitempty"`
}

// StaffMember is a manager or sales agent as listed under /users
type StaffMember struct {
	ID       int64   `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone,omitempty"`
	BranchID *int64  `json:"branch_id,omitempty"`
	Branch   *Branch `json:"branch,omitempty"`
}

// BranchName returns the embedded branch name or "-".
func (s StaffMember) BranchName() string {
	if s.Branch != nil && s.Branch.Name != "" {
		return s.Branch.Name
	}
	return "-"
}

// KPIs are the headline analytics figures
type KPIs struct {
	TotalSales           Amount `json:"total_sales"`
	TotalTonnage         Amount `json:"total_tonnage"`
	TotalProcurementCost Amount `json:"total_procurement_cost"`
	EstimatedProfit      Amount `json:"estimated_profit"`
}

// BranchOverview is one row of /analytics/branches-overview
type BranchOverview struct {
	BranchID        int64  `json:"branch_id,omitempty"`
	BranchName      string `json:"branch_name"`
	TotalSales      Amount `json:"total_sales"`
	EstimatedProfit Amount `json:"estimated_profit"`
}

// ProduceTotal is one row of /analytics/top-produce or produce-breakdown
type ProduceTotal struct {
	ProduceName  string `json:"produce_name"`
	TotalSales   Amount `json:"total_sales"`
	TotalTonnage Amount `json:"total_tonnage,omitempty"`
}

// AgentPerformance is one row of /analytics/agents-performance
type AgentPerformance struct {
	AgentID      int64  `json:"agent_id"`
	AgentName    string `json:"agent_name"`
	TotalSales   Amount `json:"total_sales"`
	TotalTonnage Amount `json:"total_tonnage"`
}

// TrendPoint is one day of /analytics/sales-trend
type TrendPoint struct {
	Date         string `json:"date"`
	TotalSales   Amount `json:"total_sales"`
	TotalTonnage Amount `json:"total_tonnage"`
}

// ProcurementInput is the body of POST /procurement
type ProcurementInput struct {
	BranchID           int64   `json:"branch_id"`
	ProduceID          int64   `json:"produce_id"`
	DealerName         string  `json:"dealer_name"`
	DealerPhone        string  `json:"dealer_phone,omitempty"`
	Tonnage            float64 `json:"tonnage"`
	CostPerTon         float64 `json:"cost_per_ton"`
	SellingPricePerTon float64 `json:"selling_price_per_ton"`
}

// SaleInput is the body of POST /sales
type SaleInput struct {
	BranchID      int64   `json:"branch_id"`
	ProduceID     int64   `json:"produce_id"`
	BuyerName     string  `json:"buyer_name,omitempty"`
	BuyerPhone    string  `json:"buyer_phone,omitempty"`
	Tonnage       float64 `json:"tonnage"`
	PricePerTon   float64 `json:"price_per_ton"`
	PaymentStatus string  `json:"payment_status"`
}

// CreditSaleInput is the body of POST /credit-sales
type CreditSaleInput struct {
	BranchID      int64   `json:"branch_id"`
	ProduceID     int64   `json:"produce_id"`
	BuyerID       int64   `json:"buyer_id,omitempty"`
	BuyerPhone    string  `json:"buyer_phone,omitempty"`
	BuyerLocation string  `json:"buyer_location,omitempty"`
	NationalID    string  `json:"national_id,omitempty"`
	Tonnage       float64 `json:"tonnage"`
	PricePerTon   float64 `json:"price_per_ton"`
	DueDate       string  `json:"due_date"`
}

// CreateManagerInput is the body of POST /auth/create-manager
type CreateManagerInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	BranchID int64  `json:"branch_id"`
}

// Filter narrows list, analytics, and report queries. Zero fields are omitted.
type Filter struct {
	BranchID int64
	AgentID  int64
	FromDate string
	ToDate   string
	Status   string
	Limit    int
	Days     int
}

// Values encodes the filter as query parameters.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.BranchID != 0 {
		v.Set("branch_id", strconv.FormatInt(f.BranchID, 10))
	}
	if f.AgentID != 0 {
		v.Set("agent_id", strconv.FormatInt(f.AgentID, 10))
	}
	if f.FromDate != "" {
		v.Set("from_date", f.FromDate)
	}
	if f.ToDate != "" {
		v.Set("to_date", f.ToDate)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Days > 0 {
		v.Set("days", strconv.Itoa(f.Days))
	}
	return v
}
