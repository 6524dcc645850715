// ABOUTME: Tests for the CLI commands against a fake backend
// ABOUTME: Verifies output, exit codes and that the session persists between runs

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KayembaIsaacFrank/gcdl/internal/advisory"
	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/settings"
)

const (
	ceoUser   = `{"id":1,"full_name":"Ada Namuli","role":"CEO","email":"ada@gcdl.co.ug"}`
	agentUser = `{"id":7,"full_name":"Grace Nakato","role":"Sales Agent","branch_id":2,"email":"grace@gcdl.co.ug"}`
)

// fakeBackend serves the endpoints the commands call. Any password other
// than "secret1" is rejected.
func fakeBackend(t *testing.T, user string) (*httptest.Server, *url.URL) {
	t.Helper()
	last := &url.URL{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req client.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"token":"opaque-token","user":` + user + `}`))
	})
	mux.HandleFunc("POST /api/auth/ceo-signup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"CEO registered"}`))
	})
	mux.HandleFunc("PUT /api/auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		var req client.ChangePasswordRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.CurrentPassword != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Current password is incorrect"}`))
			return
		}
		w.Write([]byte(`{"message":"ok"}`))
	})
	mux.HandleFunc("POST /api/auth/create-manager", func(w http.ResponseWriter, r *http.Request) {
		var req client.CreateManagerInput
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "taken@gcdl.co.ug" {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"Email already registered"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Manager created"}`))
	})
	mux.HandleFunc("GET /api/stock", func(w http.ResponseWriter, r *http.Request) {
		*last = *r.URL
		w.Write([]byte(`[{"id":1,"branch_id":2,"produce_name":"Beans","current_tonnage":4.25}]`))
	})
	mux.HandleFunc("GET /api/reports/sales/{format}", func(w http.ResponseWriter, r *http.Request) {
		*last = *r.URL
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("produce,tonnage\nbeans,2\n"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, last
}

// useBackend points the commands at server with a file session in a temp dir.
func useBackend(t *testing.T, server *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GCDL_CONFIG_DIR", dir)
	apiURL = server.URL
	storageURL = "file://" + dir
	t.Cleanup(func() {
		apiURL = ""
		storageURL = ""
		jsonOutput = false
	})
}

func TestLoginWhoamiLogout(t *testing.T) {
	server, _ := fakeBackend(t, ceoUser)
	useBackend(t, server)
	ctx := context.Background()

	var buf bytes.Buffer
	if code := runLogin(ctx, &buf, "ada@gcdl.co.ug", "secret1"); code != exitOK {
		t.Fatalf("login exit %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Logged in as Ada Namuli (CEO)") {
		t.Errorf("unexpected login output %q", buf.String())
	}

	buf.Reset()
	if code := runWhoami(ctx, &buf); code != exitOK {
		t.Fatalf("whoami exit %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "ada@gcdl.co.ug") {
		t.Errorf("expected stored identity, got %q", buf.String())
	}

	buf.Reset()
	if code := runLogout(ctx, &buf); code != exitOK {
		t.Fatalf("logout exit %d", code)
	}

	buf.Reset()
	if code := runWhoami(ctx, &buf); code != exitAuth {
		t.Errorf("expected exit %d after logout, got %d", exitAuth, code)
	}
	if !strings.Contains(buf.String(), "Not logged in") {
		t.Errorf("unexpected whoami output %q", buf.String())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	server, _ := fakeBackend(t, ceoUser)
	useBackend(t, server)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, "ada@gcdl.co.ug", "wrong")
	if code != exitAuth {
		t.Errorf("expected exit %d, got %d", exitAuth, code)
	}
	if !strings.Contains(buf.String(), "Error: Invalid credentials") {
		t.Errorf("expected server message, got %q", buf.String())
	}
}

func TestLogin_ConnectionError(t *testing.T) {
	server, _ := fakeBackend(t, ceoUser)
	useBackend(t, server)
	apiURL = "http://localhost:99999"

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, "ada@gcdl.co.ug", "secret1")
	if code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(buf.String(), "Error: "+session.DefaultLoginError) {
		t.Errorf("expected fallback message, got %q", buf.String())
	}
}

func TestWhoami_JSON(t *testing.T) {
	server, _ := fakeBackend(t, agentUser)
	useBackend(t, server)
	ctx := context.Background()
	runLogin(ctx, &bytes.Buffer{}, "grace@gcdl.co.ug", "secret1")

	jsonOutput = true
	var buf bytes.Buffer
	if code := runWhoami(ctx, &buf); code != exitOK {
		t.Fatalf("whoami exit %d", code)
	}
	var parsed struct {
		LoggedIn bool             `json:"logged_in"`
		User     session.Identity `json:"user"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !parsed.LoggedIn || parsed.User.Role != session.RoleSalesAgent || !parsed.User.HasBranch() {
		t.Errorf("unexpected identity %+v", parsed)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		login    bool
		path     string
		wantCode int
		want     string
	}{
		{"logged out", agentUser, false, "/stock", exitAuth, "Not logged in"},
		{"unknown page", agentUser, true, "/nowhere", exitError, "Page not found"},
		{"wrong role", agentUser, true, "/users", exitAuth, "permission"},
		{"stock list", agentUser, true, "/stock", exitOK, "Beans"},
		{"settings", ceoUser, true, "/settings", exitOK, "View:     settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := fakeBackend(t, tt.user)
			useBackend(t, server)
			ctx := context.Background()
			if tt.login {
				runLogin(ctx, &bytes.Buffer{}, "user@gcdl.co.ug", "secret1")
			}

			var buf bytes.Buffer
			if code := runOpen(ctx, &buf, tt.path); code != tt.wantCode {
				t.Errorf("exit = %d, want %d: %s", code, tt.wantCode, buf.String())
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, buf.String())
			}
		})
	}
}

func TestOpen_JSONScopesToBranch(t *testing.T) {
	server, last := fakeBackend(t, agentUser)
	useBackend(t, server)
	ctx := context.Background()
	runLogin(ctx, &bytes.Buffer{}, "grace@gcdl.co.ug", "secret1")

	jsonOutput = true
	var buf bytes.Buffer
	if code := runOpen(ctx, &buf, "/Stock/"); code != exitOK {
		t.Fatalf("open exit %d: %s", code, buf.String())
	}
	var out openResult
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Path != "/stock" || out.Decision != "allow" || out.Table == nil || len(out.Table.Rows) != 1 {
		t.Fatalf("unexpected result %+v", out)
	}
	if out.Table.Rows[0][2] != "4.25 t" {
		t.Errorf("unexpected tonnage cell %q", out.Table.Rows[0][2])
	}
	if got := last.Query().Get("branch_id"); got != "2" {
		t.Errorf("expected branch filter 2, got %q", got)
	}
}

func TestReport(t *testing.T) {
	server, last := fakeBackend(t, ceoUser)
	useBackend(t, server)
	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "reports")

	var buf bytes.Buffer
	if code := runReport(ctx, &buf, "csv", client.Filter{}, out); code != exitAuth {
		t.Errorf("expected exit %d when logged out, got %d", exitAuth, code)
	}

	runLogin(ctx, &bytes.Buffer{}, "ada@gcdl.co.ug", "secret1")
	buf.Reset()
	if code := runReport(ctx, &buf, "CSV", client.Filter{BranchID: 1, FromDate: "2024-01-01"}, out); code != exitOK {
		t.Fatalf("report exit %d: %s", code, buf.String())
	}
	data, err := os.ReadFile(filepath.Join(out, "sales_report.csv"))
	if err != nil || !strings.HasPrefix(string(data), "produce,tonnage") {
		t.Errorf("unexpected report file %q, %v", data, err)
	}
	if q := last.Query(); q.Get("branch_id") != "1" || q.Get("from_date") == "" {
		t.Errorf("filter not sent: %v", q)
	}

	buf.Reset()
	if code := runReportList(ctx, &buf); code != exitOK || !strings.Contains(buf.String(), "sales_report.csv") {
		t.Errorf("expected saved report in recent list, got %d %q", code, buf.String())
	}

	buf.Reset()
	if code := runReport(ctx, &buf, "docx", client.Filter{}, out); code != exitError {
		t.Errorf("expected exit %d for bad format, got %d", exitError, code)
	}
}

func TestPasswd(t *testing.T) {
	server, _ := fakeBackend(t, ceoUser)
	useBackend(t, server)
	ctx := context.Background()
	runLogin(ctx, &bytes.Buffer{}, "ada@gcdl.co.ug", "secret1")

	var buf bytes.Buffer
	if code := runPasswd(ctx, &buf, "secret1", "short"); code != exitError {
		t.Errorf("expected exit %d for a short password, got %d", exitError, code)
	}

	buf.Reset()
	if code := runPasswd(ctx, &buf, "wrong", "secret22"); code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(buf.String(), "Current password is incorrect") {
		t.Errorf("expected server message, got %q", buf.String())
	}

	buf.Reset()
	if code := runPasswd(ctx, &buf, "secret1", "secret22"); code != exitOK {
		t.Fatalf("passwd exit %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), settings.ChangedMessage) {
		t.Errorf("unexpected output %q", buf.String())
	}
	if code := runWhoami(ctx, &bytes.Buffer{}); code != exitAuth {
		t.Error("password change should end the session")
	}
}

func TestSignup(t *testing.T) {
	server, _ := fakeBackend(t, ceoUser)
	useBackend(t, server)
	ctx := context.Background()

	base := advisory.SignupForm{FullName: "Ada Namuli", Email: "ada@gcdl.co.ug", Password: "secret1"}

	invalid := base
	invalid.Kind = advisory.SignupCEO
	invalid.Email = "not-an-email"
	var buf bytes.Buffer
	if code := runSignup(ctx, &buf, invalid); code != exitError || !strings.Contains(buf.String(), "Error:") {
		t.Errorf("expected validation failure, got %d %q", code, buf.String())
	}

	manager := base
	manager.Kind = advisory.SignupManager
	buf.Reset()
	if code := runSignup(ctx, &buf, manager); code != exitError {
		t.Errorf("manager without branch should fail, got %d", code)
	}

	ceo := base
	ceo.Kind = advisory.SignupCEO
	buf.Reset()
	if code := runSignup(ctx, &buf, ceo); code != exitOK {
		t.Fatalf("signup exit %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "CEO created successfully! Please login.") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestCreateManager(t *testing.T) {
	server, _ := fakeBackend(t, ceoUser)
	useBackend(t, server)
	ctx := context.Background()

	form := advisory.SignupForm{FullName: "Mary Nambi", Email: "mary@gcdl.co.ug", Password: "secret1", BranchID: 2}

	var buf bytes.Buffer
	if code := runCreateManager(ctx, &buf, form); code != exitAuth {
		t.Errorf("expected exit %d before login, got %d", exitAuth, code)
	}
	if code := runLogin(ctx, &buf, "ada@gcdl.co.ug", "secret1"); code != exitOK {
		t.Fatalf("login exit %d", code)
	}

	noBranch := form
	noBranch.BranchID = 0
	buf.Reset()
	if code := runCreateManager(ctx, &buf, noBranch); code != exitError || !strings.Contains(buf.String(), "Select a branch") {
		t.Errorf("expected branch error, got %d %q", code, buf.String())
	}

	buf.Reset()
	if code := runCreateManager(ctx, &buf, form); code != exitOK {
		t.Fatalf("create-manager exit %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Manager Mary Nambi created for branch 2") {
		t.Errorf("unexpected output %q", buf.String())
	}

	taken := form
	taken.Email = "taken@gcdl.co.ug"
	buf.Reset()
	if code := runCreateManager(ctx, &buf, taken); code != exitError || !strings.Contains(buf.String(), "Email already registered") {
		t.Errorf("expected server message, got %d %q", code, buf.String())
	}
}

func TestCreateManager_NotCEO(t *testing.T) {
	server, _ := fakeBackend(t, agentUser)
	useBackend(t, server)
	ctx := context.Background()

	var buf bytes.Buffer
	if code := runLogin(ctx, &buf, "grace@gcdl.co.ug", "secret1"); code != exitOK {
		t.Fatalf("login exit %d", code)
	}
	buf.Reset()
	form := advisory.SignupForm{FullName: "Mary Nambi", Email: "mary@gcdl.co.ug", Password: "secret1", BranchID: 2}
	if code := runCreateManager(ctx, &buf, form); code != exitAuth || !strings.Contains(buf.String(), "only the CEO") {
		t.Errorf("expected CEO-only refusal, got %d %q", code, buf.String())
	}
}

func TestParseSignupKind(t *testing.T) {
	tests := []struct {
		in      string
		want    advisory.SignupKind
		wantErr bool
	}{
		{"ceo", advisory.SignupCEO, false},
		{"Manager", advisory.SignupManager, false},
		{"agent", advisory.SignupAgent, false},
		{"buyer", advisory.SignupBuyer, false},
		{"admin", "", true},
	}
	for _, tt := range tests {
		got, err := parseSignupKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseSignupKind(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFormatIdentityHuman(t *testing.T) {
	branch := int64(3)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := session.Snapshot{
		Identity:         &session.Identity{FullName: "Bob", Email: "bob@gcdl.co.ug", Role: session.RoleManager, BranchID: &branch},
		CredentialExpiry: now.Add(-time.Hour),
	}
	output := formatIdentityHuman(snap, now)
	for _, want := range []string{"Bob", "Manager", "Branch:   3", "(expired)"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&client.APIError{Status: 401}, exitAuth},
		{&client.APIError{Status: 403}, exitAuth},
		{&client.APIError{Status: 500}, exitError},
		{&session.Error{Op: "login", Err: &client.APIError{Status: 400}}, exitAuth},
		{&session.Error{Op: "login", Err: &client.APIError{Err: context.DeadlineExceeded}}, exitError},
		{&session.Error{Op: "signup", Err: &client.APIError{Status: 409}}, exitError},
	}
	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
