// ABOUTME: Role tags as issued by the backend, matched verbatim
// ABOUTME: Kind classifies a role into a closed set with an explicit Unknown variant

package session

import (
	"encoding/json"
	"fmt"
)

// Role is the role string exactly as the backend sent it. Comparisons are
// case-sensitive and there is no hierarchy between roles.
type Role string

// Roles observed in the GCDL backend.
const (
	RoleCEO        Role = "CEO"
	RoleManager    Role = "Manager"
	RoleSalesAgent Role = "Sales Agent"
	RoleBuyer      Role = "Buyer"
)

// RoleKind is the closed classification of a Role.
type RoleKind int

const (
	KindNone RoleKind = iota
	KindCEO
	KindManager
	KindSalesAgent
	KindBuyer
	KindUnknown
)

// Kind classifies the role. Unrecognized strings, including other casings of
// a known role, report KindUnknown; the empty role reports KindNone.
func (r Role) Kind() RoleKind {
	switch r {
	case "":
		return KindNone
	case RoleCEO:
		return KindCEO
	case RoleManager:
		return KindManager
	case RoleSalesAgent:
		return KindSalesAgent
	case RoleBuyer:
		return KindBuyer
	default:
		return KindUnknown
	}
}

// String returns the role verbatim.
func (r Role) String() string {
	return string(r)
}

// UnmarshalJSON accepts a JSON string or null. Any other JSON type is a
// malformed identity.
func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	*r = Role(s)
	return nil
}

func (k RoleKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCEO:
		return "ceo"
	case KindManager:
		return "manager"
	case KindSalesAgent:
		return "sales-agent"
	case KindBuyer:
		return "buyer"
	default:
		return "unknown"
	}
}
