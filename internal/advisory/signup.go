// ABOUTME: Signup forms for each account type and the payloads sent to the backend
// ABOUTME: Also filters branches that can still take a manager or another agent

package advisory

import (
	"github.com/go-playground/validator/v10"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
)

// SignupKind selects the signup endpoint and payload shape.
type SignupKind string

const (
	SignupCEO     SignupKind = "ceo"
	SignupManager SignupKind = "manager"
	SignupAgent   SignupKind = "agent"
	SignupBuyer   SignupKind = "buyer"
)

// SignupKinds lists every kind in menu order.
var SignupKinds = []SignupKind{SignupCEO, SignupManager, SignupAgent, SignupBuyer}

// Endpoint returns the API path the signup is posted to.
func (k SignupKind) Endpoint() string {
	switch k {
	case SignupCEO:
		return "/auth/ceo-signup"
	case SignupManager:
		return "/auth/manager-signup"
	case SignupAgent:
		return "/auth/agent-signup"
	case SignupBuyer:
		return "/buyers/signup"
	}
	return ""
}

// NeedsBranch reports whether the account is tied to a branch.
func (k SignupKind) NeedsBranch() bool {
	return k == SignupManager || k == SignupAgent
}

func (k SignupKind) String() string {
	switch k {
	case SignupCEO:
		return "CEO"
	case SignupManager:
		return "Manager"
	case SignupAgent:
		return "Sales Agent"
	case SignupBuyer:
		return "Buyer"
	}
	return string(k)
}

// SignupForm holds the fields common to all signup pages.
type SignupForm struct {
	Kind            SignupKind `json:"kind" validate:"oneof=ceo manager agent buyer"`
	FullName        string     `json:"full_name" validate:"required"`
	Email           string     `json:"email" validate:"required,email"`
	Phone           string     `json:"phone" validate:"omitempty,phone"`
	Location        string     `json:"location"`
	BranchID        int64      `json:"branch_id"`
	Password        string     `json:"password" validate:"required,min=6"`
	ConfirmPassword string     `json:"confirm_password" validate:"eqfield=Password"`
}

func signupStructLevel(sl validator.StructLevel) {
	f := sl.Current().Interface().(SignupForm)
	if f.Kind.NeedsBranch() && f.BranchID <= 0 {
		sl.ReportError(f.BranchID, "branch_id", "BranchID", "branch", "")
	}
}

// Validate returns Errors when any check fails.
func (f SignupForm) Validate() error {
	return check(f)
}

// Payload builds the request body in the shape the endpoint expects.
// Buyers send name and location; staff send full_name and, for managers and
// agents, branch_id.
func (f SignupForm) Payload() map[string]any {
	if f.Kind == SignupBuyer {
		return map[string]any{
			"name":             f.FullName,
			"phone":            f.Phone,
			"email":            f.Email,
			"location":         f.Location,
			"password":         f.Password,
			"confirm_password": f.ConfirmPassword,
		}
	}
	p := map[string]any{
		"email":            f.Email,
		"password":         f.Password,
		"confirm_password": f.ConfirmPassword,
		"full_name":        f.FullName,
		"phone":            f.Phone,
	}
	if f.Kind.NeedsBranch() {
		p["branch_id"] = f.BranchID
	}
	return p
}

// ManagerInput is the body a CEO sends to create a manager directly.
func (f SignupForm) ManagerInput() client.CreateManagerInput {
	return client.CreateManagerInput{
		Email:    f.Email,
		Password: f.Password,
		FullName: f.FullName,
		Phone:    f.Phone,
		BranchID: f.BranchID,
	}
}

// MaxAgentsPerBranch is the backend's cap on sales agents per branch.
const MaxAgentsPerBranch = 2

func staffBranch(s client.StaffMember) int64 {
	if s.BranchID != nil {
		return *s.BranchID
	}
	if s.Branch != nil {
		return s.Branch.ID
	}
	return 0
}

// AgentCounts returns the number of agents per branch ID.
func AgentCounts(agents []client.StaffMember) map[int64]int {
	counts := make(map[int64]int)
	for _, a := range agents {
		counts[staffBranch(a)]++
	}
	return counts
}

// BranchesWithAgentCapacity drops branches that already have
// MaxAgentsPerBranch agents.
func BranchesWithAgentCapacity(branches []client.Branch, agents []client.StaffMember) []client.Branch {
	counts := AgentCounts(agents)
	var out []client.Branch
	for _, b := range branches {
		if counts[b.ID] < MaxAgentsPerBranch {
			out = append(out, b)
		}
	}
	return out
}

// BranchesWithoutManager drops branches that already have a manager.
func BranchesWithoutManager(branches []client.Branch, managers []client.StaffMember) []client.Branch {
	taken := make(map[int64]bool)
	for _, m := range managers {
		taken[staffBranch(m)] = true
	}
	var out []client.Branch
	for _, b := range branches {
		if !taken[b.ID] {
			out = append(out, b)
		}
	}
	return out
}
