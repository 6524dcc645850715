// ABOUTME: Error returned by session operations
// ABOUTME: Message is always display-ready; the cause is kept for logging

package session

// Default messages used when the server does not supply one.
const (
	DefaultLoginError  = "Login failed"
	DefaultSignupError = "Signup failed"
)

// Error is a failed login or signup.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
