// ABOUTME: Process-wide authentication state and the login, logout, and signup operations
// ABOUTME: Hydrates from durable storage at startup and persists credential and identity on login

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/storage"
)

// State is the coarse session state.
type State int

const (
	LoggedOut State = iota
	Authenticating
	LoggedIn
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case LoggedIn:
		return "logged-in"
	default:
		return "logged-out"
	}
}

// API is the subset of the backend client the session needs.
type API interface {
	Login(ctx context.Context, email, password string) (*client.LoginResponse, error)
	Signup(ctx context.Context, endpoint string, payload any) (json.RawMessage, error)
}

// Snapshot is a point-in-time copy of the session, safe to read freely.
type Snapshot struct {
	State            State
	Identity         *Identity
	Pending          bool
	LastError        string
	Hint             string
	HasCredential    bool
	CredentialExpiry time.Time
}

// LoggedIn reports whether an identity is present.
func (s Snapshot) LoggedIn() bool {
	return s.Identity != nil
}

// Session holds the current identity and operation status. Fields are
// guarded for memory safety only: concurrent Login or Signup calls are not
// serialized and the last one to finish wins.
type Session struct {
	store storage.Store
	api   API

	mu             sync.Mutex
	identity       *Identity
	token          string
	pending        bool
	authenticating bool
	lastError      string
	hint           string
	subs           map[chan Snapshot]struct{}
}

// New returns a logged-out session.
func New(store storage.Store, api API) *Session {
	return &Session{
		store: store,
		api:   api,
		subs:  make(map[chan Snapshot]struct{}),
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Identity returns a copy of the current identity, or nil when logged out.
func (s *Session) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyIdentity(s.identity)
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Identity:      copyIdentity(s.identity),
		Pending:       s.pending,
		LastError:     s.lastError,
		Hint:          s.hint,
		HasCredential: s.token != "",
	}
	switch {
	case s.authenticating:
		snap.State = Authenticating
	case s.identity != nil:
		snap.State = LoggedIn
	default:
		snap.State = LoggedOut
	}
	if exp, ok := CredentialExpiry(s.token); ok {
		snap.CredentialExpiry = exp
	}
	return snap
}

func copyIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	if id.BranchID != nil {
		b := *id.BranchID
		c.BranchID = &b
	}
	if id.ID != nil {
		v := *id.ID
		c.ID = &v
	}
	return &c
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only ever see the most recent snapshot. Call the
// returned func to unsubscribe.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
}

// notifyLocked publishes the current snapshot. Caller holds s.mu.
func (s *Session) notifyLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *Session) begin(authenticating bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = true
	s.lastError = ""
	if authenticating {
		s.authenticating = true
	}
	s.notifyLocked()
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.authenticating = false
	s.notifyLocked()
}

// fail records the display message for err and returns the operation error.
func (s *Session) fail(op string, err error, fallback string) *Error {
	msg := client.ErrorMessage(err, fallback)
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
	slog.Warn("Session operation failed", "op", op, "error", err)
	return &Error{Op: op, Message: msg, Err: err}
}

var errIncompleteLogin = errors.New("login response is missing token or user")

// Login authenticates against the backend, persists the credential and
// identity, and returns the identity. It may be called while logged in; the
// previous session is overwritten on success and kept on failure.
func (s *Session) Login(ctx context.Context, email, password string) (*Identity, error) {
	s.begin(true)
	defer s.finish()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, s.fail("login", err, DefaultLoginError)
	}
	if resp.Token == "" || len(resp.User) == 0 {
		return nil, s.fail("login", errIncompleteLogin, DefaultLoginError)
	}

	id, err := ParseIdentity(resp.User)
	if err != nil {
		return nil, s.fail("login", err, DefaultLoginError)
	}

	var user bytes.Buffer
	if err := json.Compact(&user, resp.User); err != nil {
		return nil, s.fail("login", err, DefaultLoginError)
	}

	if err := s.store.Set(ctx, storage.TokenKey, resp.Token); err != nil {
		return nil, s.fail("login", fmt.Errorf("persist credential: %w", err), DefaultLoginError)
	}
	if err := s.store.Set(ctx, storage.UserKey, user.String()); err != nil {
		if delErr := s.store.Delete(ctx, storage.TokenKey); delErr != nil {
			slog.Error("Failed to roll back credential", "error", delErr)
		}
		return nil, s.fail("login", fmt.Errorf("persist identity: %w", err), DefaultLoginError)
	}

	s.mu.Lock()
	s.identity = id
	s.token = resp.Token
	s.hint = ""
	s.mu.Unlock()

	slog.Info("Logged in", "email", id.Email, "role", id.Role.String())
	return copyIdentity(id), nil
}

// Logout clears the stored credential and identity and returns to the
// logged-out state. It never fails; storage errors are logged.
func (s *Session) Logout(ctx context.Context) {
	if err := s.store.Delete(ctx, storage.TokenKey, storage.UserKey); err != nil {
		slog.Error("Failed to clear stored session", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.token = ""
	s.hint = ""
	s.notifyLocked()
}

// Signup posts payload to endpoint and returns the response body verbatim.
// The session identity is not changed.
func (s *Session) Signup(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	s.begin(false)
	defer s.finish()

	body, err := s.api.Signup(ctx, endpoint, payload)
	if err != nil {
		return nil, s.fail("signup", err, DefaultSignupError)
	}
	return body, nil
}
