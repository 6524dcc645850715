// ABOUTME: Authenticated user identity as returned by the login endpoint
// ABOUTME: Parsing is the validation boundary for persisted identities

package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Identity describes the logged-in user.
type Identity struct {
	ID       *int64 `json:"id,omitempty"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	BranchID *int64 `json:"branch_id,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// HasBranch reports whether the identity is tied to a branch.
func (id *Identity) HasBranch() bool {
	return id != nil && id.BranchID != nil
}

// Display returns "Full Name (Role)".
func (id *Identity) Display() string {
	if id == nil {
		return ""
	}
	name := id.FullName
	if name == "" {
		name = id.Email
	}
	if id.Role == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, id.Role)
}

var errNotObject = errors.New("identity must be a JSON object")

// ParseIdentity decodes a persisted or server-sent identity. Anything other
// than a JSON object with correctly typed fields is rejected.
func ParseIdentity(raw []byte) (*Identity, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	var id Identity
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return nil, fmt.Errorf("malformed identity: %w", err)
	}
	return &id, nil
}
