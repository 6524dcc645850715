// ABOUTME: Tests for the login screen model
// ABOUTME: Covers prefill, error display, pending state and the signup shortcut

package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLogin_PrefillAndError(t *testing.T) {
	l := New("jane@gcdl.co.ug")
	l.Init()
	if l.Email() != "jane@gcdl.co.ug" {
		t.Errorf("expected prefilled email, got %q", l.Email())
	}

	l.SetError("Invalid credentials")
	if !strings.Contains(l.View(), "Invalid credentials") {
		t.Error("expected error in view")
	}
	if l.Email() != "jane@gcdl.co.ug" {
		t.Error("email should survive an error")
	}
}

func TestLogin_Pending(t *testing.T) {
	l := New("jane@gcdl.co.ug")
	l.SetError("old")
	if cmd := l.SetPending(true); cmd == nil {
		t.Error("expected spinner tick command")
	}
	view := l.View()
	if !strings.Contains(view, "Signing in as jane@gcdl.co.ug") {
		t.Errorf("expected pending text, got %q", view)
	}
	if strings.Contains(view, "old") {
		t.Error("pending should clear the previous error")
	}

	// ctrl+n is ignored while a request is in flight
	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if cmd != nil {
		if _, ok := cmd().(SignupMsg); ok {
			t.Error("signup shortcut should be disabled while pending")
		}
	}
}

func TestLogin_SignupShortcut(t *testing.T) {
	l := New("")
	l.Init()
	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(SignupMsg); !ok {
		t.Error("expected SignupMsg")
	}
}

func TestLogin_Notice(t *testing.T) {
	l := New("")
	l.SetNotice("Account created. Please log in.")
	if !strings.Contains(l.View(), "Account created") {
		t.Error("expected notice in view")
	}
}
