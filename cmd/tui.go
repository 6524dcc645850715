// ABOUTME: Launches the interactive interface from the root command
// ABOUTME: Logging is redirected to the debug log so it never draws over the screen

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/KayembaIsaacFrank/gcdl/internal/debuglog"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui"
	"github.com/KayembaIsaacFrank/gcdl/internal/tui/reports"
)

func runTUI(ctx context.Context, path string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	logFile, err := debuglog.Open(debuglog.Path(cfg.ConfigDir, cfg.LogFile), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
		logFile, _ = debuglog.Open("", cfg.LogLevel)
	}
	defer logFile.Close()
	slog.SetDefault(logFile.Logger)

	e, err := setup(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	defer e.Close()

	slog.Info("Starting TUI", "api", e.api.BaseURL(), "start", path)
	err = tui.Run(ctx, tui.Options{
		Session:   e.session,
		API:       e.api,
		Router:    e.router,
		StartPath: path,
		ReportDir: ".",
		Recent:    reports.NewRecent(e.store),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
