// ABOUTME: Open command: resolves a page path for the signed-in user and prints its data
// ABOUTME: Guard decisions map to exit codes so scripts can check access

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/dashboard"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/resource"
)

var (
	openFrom string
	openTo   string
)

// cliBoardWidth is the render width of dashboards printed by open.
const cliBoardWidth = 100

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Show a page, e.g. /dashboard or /stock",
	Long: `Resolve a page path for the signed-in user and print its data.

Exit codes:
  0  Page shown
  1  Not logged in, or the role may not open the page
  2  Unknown page or backend error`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exit(runOpen(cmd.Context(), os.Stdout, args[0]))
	},
}

func init() {
	openCmd.Flags().StringVar(&openFrom, "from", "", "Start date (YYYY-MM-DD)")
	openCmd.Flags().StringVar(&openTo, "to", "", "End date (YYYY-MM-DD)")
	rootCmd.AddCommand(openCmd)
}

// openResult is the JSON shape of open.
type openResult struct {
	Path     string            `json:"path"`
	Title    string            `json:"title,omitempty"`
	Decision string            `json:"decision"`
	View     string            `json:"view,omitempty"`
	Table    *tableJSON        `json:"table,omitempty"`
	Data     *dashboard.Data   `json:"data,omitempty"`
	Error    string            `json:"error,omitempty"`
	Identity *session.Identity `json:"user,omitempty"`
}

type tableJSON struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// scopeFilter limits queries to the identity's branch.
func scopeFilter(identity *session.Identity) client.Filter {
	f := client.Filter{FromDate: openFrom, ToDate: openTo}
	if identity.HasBranch() {
		f.BranchID = *identity.BranchID
	}
	return f
}

func runOpen(ctx context.Context, w io.Writer, path string) int {
	return withEnv(ctx, w, func(ctx context.Context, e *env) int {
		identity := e.session.Identity()
		res := e.router.Resolve(path, identity)
		out := openResult{
			Path:     res.Path,
			Title:    res.Route.Title,
			Decision: res.Decision.String(),
			View:     string(res.View),
			Identity: identity,
		}

		code := exitOK
		switch {
		case !res.Found:
			out.Error = "Page not found"
			code = exitError
		case res.Decision == routing.RedirectToLogin:
			out.Error = "Not logged in"
			code = exitAuth
		case res.Decision == routing.RedirectToUnauthorized:
			out.Error = "You don't have permission to access this page."
			code = exitAuth
		case res.Route.Public:
		default:
			if err := loadView(ctx, e, &out, res, identity); err != nil {
				out.Error = client.ErrorMessage(err, "Failed to load "+res.Route.Title)
				code = exitCodeFor(err)
				if code == exitOK {
					code = exitError
				}
			}
		}

		if IsJSONOutput() {
			data, _ := json.MarshalIndent(out, "", "  ")
			fmt.Fprintln(w, string(data))
			return code
		}
		fmt.Fprint(w, formatOpenHuman(out, identity))
		return code
	})
}

// loadView fetches the data shown on the resolved page.
func loadView(ctx context.Context, e *env, out *openResult, res routing.Resolution, identity *session.Identity) error {
	if kind, ok := resource.KindForView(res.View); ok {
		listing, err := resource.Fetch(ctx, e.api, kind, scopeFilter(identity))
		if err != nil {
			return err
		}
		t := &tableJSON{Rows: [][]string{}}
		for _, c := range listing.Columns {
			t.Columns = append(t.Columns, c.Title)
		}
		for _, r := range listing.Rows {
			t.Rows = append(t.Rows, []string(r))
		}
		out.Table = t
		return nil
	}

	switch res.View {
	case routing.ReportsView, routing.SettingsView:
		return nil
	}

	kind := dashboard.KindFor(res.View, identity.Role)
	f := scopeFilter(identity)
	if kind == dashboard.KindCompany {
		f.BranchID = 0
	}
	data, err := dashboard.Load(ctx, e.api, kind, f, identity.BranchID)
	if err != nil {
		return err
	}
	out.Data = data
	return nil
}

// formatOpenHuman formats the open result for human readability
func formatOpenHuman(out openResult, identity *session.Identity) string {
	header := fmt.Sprintf("Page:     %s\nDecision: %s\n", out.Path, out.Decision)
	if out.Error != "" {
		return header + "Error:    " + out.Error + "\n"
	}
	header += fmt.Sprintf("View:     %s\n", out.View)

	switch {
	case out.Table != nil:
		if len(out.Table.Rows) == 0 {
			return header + "\nNo records\n"
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(out.Table.Columns...).
			Rows(out.Table.Rows...)
		return fmt.Sprintf("%s\n%s\n%d records\n", header, t.Render(), len(out.Table.Rows))
	case out.Data != nil:
		kind := dashboard.KindFor(routing.ViewID(out.View), identity.Role)
		board := dashboard.New(kind, identity, cliBoardWidth, 0)
		board.SetData(out.Data)
		return header + "\n" + board.View() + "\n"
	}
	return header
}
