// ABOUTME: Rebuilds the session from durable storage at process start
// ABOUTME: Applies the configured policy when only one of credential and identity survived

package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KayembaIsaacFrank/gcdl/internal/storage"
)

// PartialPolicy decides what happens when storage holds a credential without
// an identity, or an identity without a credential.
type PartialPolicy int

const (
	// PartialLogout clears whatever was stored and starts logged out.
	PartialLogout PartialPolicy = iota
	// PartialPrompt starts logged out but keeps the stored email as a
	// re-authentication hint. Storage is left untouched until the next login.
	PartialPrompt
)

// ParsePartialPolicy parses "clear" (or "logout") and "prompt".
func ParsePartialPolicy(s string) (PartialPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clear", "logout":
		return PartialLogout, nil
	case "prompt":
		return PartialPrompt, nil
	default:
		return PartialLogout, fmt.Errorf("unknown partial session policy %q (want clear or prompt)", s)
	}
}

func (p PartialPolicy) String() string {
	if p == PartialPrompt {
		return "prompt"
	}
	return "logout"
}

// Outcome classifies what hydration found.
type Outcome int

const (
	OutcomeEmpty Outcome = iota
	OutcomeRestored
	OutcomeMalformed
	OutcomePartial
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRestored:
		return "restored"
	case OutcomeMalformed:
		return "malformed"
	case OutcomePartial:
		return "partial"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "empty"
	}
}

// HydrateReport describes how the session was reconstructed.
type HydrateReport struct {
	Outcome Outcome
	Detail  string
}

// Options configures hydration.
type Options struct {
	Partial PartialPolicy
}

// Hydrate builds the process session from store. It never fails: any state
// that cannot be restored yields a logged-out session and a report saying why.
func Hydrate(ctx context.Context, store storage.Store, api API, opts Options) (*Session, HydrateReport) {
	s := New(store, api)

	token, hasToken, err := store.Get(ctx, storage.TokenKey)
	if err != nil {
		slog.Warn("Session storage unavailable, starting logged out", "error", err)
		return s, HydrateReport{Outcome: OutcomeUnavailable, Detail: err.Error()}
	}
	rawUser, hasUser, err := store.Get(ctx, storage.UserKey)
	if err != nil {
		slog.Warn("Session storage unavailable, starting logged out", "error", err)
		return s, HydrateReport{Outcome: OutcomeUnavailable, Detail: err.Error()}
	}
	hasToken = hasToken && token != ""

	if !hasToken && !hasUser {
		return s, HydrateReport{Outcome: OutcomeEmpty}
	}

	var id *Identity
	if hasUser {
		id, err = ParseIdentity([]byte(rawUser))
		if err != nil {
			slog.Debug("Stored identity is malformed, starting logged out", "error", err)
			return s, HydrateReport{Outcome: OutcomeMalformed, Detail: err.Error()}
		}
	}

	if hasToken && id != nil {
		s.identity = id
		s.token = token
		return s, HydrateReport{Outcome: OutcomeRestored}
	}

	detail := "credential without identity"
	if !hasToken {
		detail = "identity without credential"
	}
	slog.Warn("Incomplete stored session", "detail", detail, "policy", opts.Partial.String())

	switch opts.Partial {
	case PartialPrompt:
		if id != nil {
			s.hint = id.Email
		}
	default:
		if err := store.Delete(ctx, storage.TokenKey, storage.UserKey); err != nil {
			slog.Error("Failed to clear incomplete stored session", "error", err)
		}
	}

	return s, HydrateReport{Outcome: OutcomePartial, Detail: detail}
}
