// ABOUTME: Attaches the process session to a context for commands and views
// ABOUTME: Reading a session from a context that lacks one is a programming error

package session

import "context"

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by WithSession. It panics when
// there is none.
func FromContext(ctx context.Context) *Session {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		panic("session: FromContext called without a session; wrap the context with session.WithSession")
	}
	return s
}
