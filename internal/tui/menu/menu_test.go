// ABOUTME: Tests for the navigation menu
// ABOUTME: Verifies role-specific items and the messages each choice produces

package menu

import (
	"testing"

	"github.com/KayembaIsaacFrank/gcdl/internal/session"
)

func TestMenuItems(t *testing.T) {
	agent := New(&session.Identity{Role: session.RoleSalesAgent}, "/dashboard")
	if len(agent.Items()) != 8 {
		t.Errorf("expected 8 agent items, got %d", len(agent.Items()))
	}

	ceo := New(&session.Identity{Role: session.RoleCEO}, "/dashboard")
	found := false
	for _, it := range ceo.Items() {
		if it.Path == "/users" {
			found = true
		}
		if it.Path == "/procurement" {
			t.Error("CEO menu should not list procurement")
		}
	}
	if !found {
		t.Error("expected users entry for CEO")
	}
}

func TestChoose(t *testing.T) {
	if _, ok := Choose(ActionLogout)().(LogoutMsg); !ok {
		t.Error("expected LogoutMsg")
	}
	if _, ok := Choose(ActionQuit)().(QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
	msg, ok := Choose("/stock")().(NavigateMsg)
	if !ok || msg.Path != "/stock" {
		t.Errorf("expected NavigateMsg for /stock, got %#v", msg)
	}
}

func TestMenuView(t *testing.T) {
	m := New(&session.Identity{Role: session.RoleManager}, "")
	m.Init()
	if m.View() == "" {
		t.Error("expected menu to render")
	}
}
