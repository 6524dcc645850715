// ABOUTME: Report command: downloads the sales report as CSV, Excel or PDF
// ABOUTME: Files are written next to existing ones without overwriting

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/reports"
)

var (
	reportBranch int64
	reportAgent  int64
	reportFrom   string
	reportTo     string
	reportOut    string
	reportList   bool
)

var reportCmd = &cobra.Command{
	Use:       "report <csv|xlsx|pdf>",
	Short:     "Download the sales report",
	Args:      cobra.RangeArgs(0, 1),
	ValidArgs: client.ReportFormats,
	Run: func(cmd *cobra.Command, args []string) {
		if reportList {
			exit(runReportList(cmd.Context(), os.Stdout))
			return
		}
		if len(args) != 1 {
			fmt.Fprintln(os.Stdout, "Error: specify a format: csv, xlsx or pdf")
			os.Exit(exitError)
		}
		f := client.Filter{BranchID: reportBranch, AgentID: reportAgent, FromDate: reportFrom, ToDate: reportTo}
		exit(runReport(cmd.Context(), os.Stdout, args[0], f, reportOut))
	},
}

func init() {
	reportCmd.Flags().Int64Var(&reportBranch, "branch", 0, "Only this branch ID")
	reportCmd.Flags().Int64Var(&reportAgent, "agent", 0, "Only this sales agent ID")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Start date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "End date (YYYY-MM-DD)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", ".", "Directory to save the report in")
	reportCmd.Flags().BoolVar(&reportList, "list", false, "List recently saved reports instead of downloading")
	rootCmd.AddCommand(reportCmd)
}

func runReport(ctx context.Context, w io.Writer, format string, f client.Filter, dir string) int {
	format = strings.ToLower(format)
	if !slices.Contains(client.ReportFormats, format) {
		fmt.Fprintf(w, "Error: unsupported format %q (want %s)\n", format, strings.Join(client.ReportFormats, ", "))
		return exitError
	}

	return withEnv(ctx, w, func(ctx context.Context, e *env) int {
		if _, code := requireLogin(w, e.session); code != exitOK {
			return code
		}
		rep, err := e.api.DownloadSalesReport(ctx, format, f)
		if err != nil {
			return printError(w, err, "Download failed")
		}
		path, err := reports.Save(dir, rep)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
		if _, err := reports.NewRecent(e.store).Add(ctx, path); err != nil {
			slog.Warn("Failed to remember report", "path", path, "error", err)
		}

		if IsJSONOutput() {
			data, _ := json.MarshalIndent(map[string]interface{}{
				"path":         path,
				"content_type": rep.ContentType,
				"bytes":        len(rep.Data),
			}, "", "  ")
			fmt.Fprintln(w, string(data))
			return exitOK
		}
		fmt.Fprintf(w, "Saved %s (%d bytes)\n", path, len(rep.Data))
		return exitOK
	})
}

func runReportList(ctx context.Context, w io.Writer) int {
	return withEnv(ctx, w, func(ctx context.Context, e *env) int {
		paths := reports.NewRecent(e.store).List(ctx)
		if IsJSONOutput() {
			if paths == nil {
				paths = []string{}
			}
			data, _ := json.MarshalIndent(paths, "", "  ")
			fmt.Fprintln(w, string(data))
			return exitOK
		}
		if len(paths) == 0 {
			fmt.Fprintln(w, "No reports saved yet")
			return exitOK
		}
		for _, p := range paths {
			fmt.Fprintln(w, p)
		}
		return exitOK
	})
}
