// ABOUTME: Tests for resource fetching and the list model
// ABOUTME: Checks row conversion, the users merge and error display

package resource

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
)

type stubAPI struct {
	filter client.Filter
	err    error
}

func (s *stubAPI) Stock(_ context.Context, f client.Filter) ([]client.StockItem, error) {
	s.filter = f
	return []client.StockItem{{BranchID: 1, ProduceName: "Beans", CurrentTonnage: 4.25}}, s.err
}

func (s *stubAPI) Sales(_ context.Context, f client.Filter) ([]client.Sale, error) {
	s.filter = f
	return []client.Sale{{ProduceName: "Maize", Tonnage: 2, TotalAmount: 2400000, PaymentStatus: "Paid", SalesDate: "2024-03-05T10:00:00Z"}}, s.err
}

func (s *stubAPI) Procurements(_ context.Context, f client.Filter) ([]client.Procurement, error) {
	s.filter = f
	return []client.Procurement{{ProduceName: "Rice", DealerName: "", Tonnage: 3}}, s.err
}

func (s *stubAPI) CreditSales(_ context.Context, f client.Filter) ([]client.CreditSale, error) {
	s.filter = f
	return []client.CreditSale{{ProduceName: "Cow peas", AmountDue: 500000, Status: "Pending"}}, s.err
}

func (s *stubAPI) Managers(context.Context) ([]client.StaffMember, error) {
	return []client.StaffMember{{FullName: "Mary", Branch: &client.Branch{Name: "Maganjo"}}}, s.err
}

func (s *stubAPI) Agents(context.Context) ([]client.StaffMember, error) {
	return []client.StaffMember{{FullName: "Grace"}, {FullName: "Peter"}}, nil
}

func TestKindForView(t *testing.T) {
	if k, ok := KindForView(routing.UsersView); !ok || k != KindUsers {
		t.Errorf("users view: got %v %v", k, ok)
	}
	if _, ok := KindForView(routing.ReportsView); ok {
		t.Error("reports is not a list")
	}
}

func TestFetch(t *testing.T) {
	tests := []struct {
		kind    Kind
		rows    int
		contain string
	}{
		{KindStock, 1, "4.25 t"},
		{KindSales, 1, "UGX 2,400,000"},
		{KindProcurement, 1, "-"},
		{KindCreditSales, 1, "UGX 500,000"},
		{KindUsers, 3, "Maganjo"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			api := &stubAPI{}
			l, err := Fetch(context.Background(), api, tt.kind, client.Filter{BranchID: 2})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(l.Rows) != tt.rows {
				t.Fatalf("expected %d rows, got %d", tt.rows, len(l.Rows))
			}
			for _, r := range l.Rows {
				if len(r) != len(l.Columns) {
					t.Errorf("row has %d cells for %d columns", len(r), len(l.Columns))
				}
			}
			if !strings.Contains(strings.Join(l.Rows[0], "|"), tt.contain) {
				t.Errorf("first row %v missing %q", l.Rows[0], tt.contain)
			}
			if tt.kind != KindUsers && api.filter.BranchID != 2 {
				t.Error("filter not forwarded")
			}
		})
	}
}

func TestFetch_UsersOrderAndBranch(t *testing.T) {
	l, err := Fetch(context.Background(), &stubAPI{}, KindUsers, client.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if l.Rows[0][0] != "Manager" || l.Rows[1][0] != "Sales Agent" {
		t.Errorf("managers should come first: %v", l.Rows)
	}
	if l.Rows[1][4] != "-" {
		t.Errorf("agent without branch should show -, got %q", l.Rows[1][4])
	}
}

func TestFetch_Error(t *testing.T) {
	api := &stubAPI{err: &client.APIError{Status: 403, Message: "Access denied"}}
	if _, err := Fetch(context.Background(), api, KindUsers, client.Filter{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestList_View(t *testing.T) {
	l := New(KindSales, 100, 20)
	if !strings.Contains(l.View(), "Loading") {
		t.Error("expected loading state")
	}

	listing, _ := Fetch(context.Background(), &stubAPI{}, KindSales, client.Filter{})
	l.SetListing(listing)
	view := l.View()
	if !strings.Contains(view, "Maize") || !strings.Contains(view, "1 records") {
		t.Errorf("unexpected view %q", view)
	}

	l.SetListing(&Listing{Columns: listing.Columns})
	if !strings.Contains(l.View(), "No records") {
		t.Error("expected empty state")
	}

	l.SetError(&client.APIError{Status: 500, Message: "Database unavailable"})
	if !strings.Contains(l.View(), "Database unavailable") {
		t.Error("expected server message")
	}
	l.SetError(errors.New("dial tcp: refused"))
	if !strings.Contains(l.View(), "Failed to load recent sales") {
		t.Errorf("expected fallback message, got %q", l.View())
	}
}
