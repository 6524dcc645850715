// ABOUTME: Access decision for protected views
// ABOUTME: Compares the identity role to the required role by exact string equality

package routing

import "github.com/KayembaIsaacFrank/gcdl/internal/session"

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToUnauthorized:
		return "redirect-to-unauthorized"
	default:
		return "unknown"
	}
}

// Decide returns RedirectToLogin when identity is nil, RedirectToUnauthorized
// when required is non-empty and differs from the identity role, and Allow
// otherwise. There is no role hierarchy: a CEO does not satisfy a Manager gate.
func Decide(identity *session.Identity, required session.Role) Decision {
	if identity == nil {
		return RedirectToLogin
	}
	if required != "" && identity.Role != required {
		return RedirectToUnauthorized
	}
	return Allow
}
