// ABOUTME: Root command for the gcdl CLI
// ABOUTME: Handles global flags, configuration and wiring of storage, client and session

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
	"github.com/KayembaIsaacFrank/gcdl/internal/config"
	"github.com/KayembaIsaacFrank/gcdl/internal/debuglog"
	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/storage"
)

// Exit codes shared by every command.
const (
	exitOK    = 0
	exitAuth  = 1
	exitError = 2
)

var (
	apiURL     string
	jsonOutput bool
	storageURL string
	verbose    bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "gcdl",
	Short: "Terminal client for Golden Crop Distributors",
	Long: `gcdl is a terminal client for the Golden Crop Distributors produce
management system. Run it without arguments for the interactive interface.

Environment Variables:
  GCDL_API_URL           Backend origin (default: http://localhost:5000)
  GCDL_STORAGE_URL       Session storage: file:///dir, redis://host:6379/0, memory://
  GCDL_CONFIG_DIR        Directory for the session file and debug log
  GCDL_REQUEST_TIMEOUT   Per-request timeout, e.g. 30s (default: none)
  GCDL_ALL_PROXY         ssh+socks5://user@host:port?private-key=/path
  GCDL_PARTIAL_SESSION   clear (default) or prompt
  GCDL_ROLE_VIEWS        Dashboard per role, e.g. "Manager=manager,Buyer=buyer"
  GCDL_LOG_LEVEL         debug, info, warn or error`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		code := runTUI(cmd.Context(), startPath)
		if code != exitOK {
			os.Exit(code)
		}
		return nil
	},
}

var startPath string

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend origin (overrides GCDL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&storageURL, "storage", "", "Session storage URL (overrides GCDL_STORAGE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level to stderr")
	rootCmd.Flags().StringVar(&startPath, "path", "", "Screen to open first, e.g. /stock")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.ServerURL = apiURL
	}
	if storageURL != "" {
		cfg.StorageURL = storageURL
	}
	if verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg, nil
}

// env is everything a command needs to talk to the backend.
type env struct {
	cfg     *config.Config
	store   storage.Store
	api     *client.Client
	session *session.Session
	router  *routing.Router
}

func (e *env) Close() {
	if c, ok := e.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Debug("Failed to close storage", "error", err)
		}
	}
}

// setup opens storage, builds the client and restores the session.
func setup(ctx context.Context, cfg *config.Config) (*env, error) {
	store, err := storage.Open(ctx, cfg.StorageURL, cfg.ConfigDir)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{client.WithTimeout(cfg.RequestTimeout)}
	if cfg.ProxyURL != "" {
		dial, err := client.ProxyDialer(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("GCDL_ALL_PROXY: %w", err)
		}
		opts = append(opts, client.WithDialContext(dial))
	}
	api := client.New(cfg.APIURL(), store, opts...)

	sess, report := session.Hydrate(ctx, store, api, session.Options{Partial: cfg.PartialSession})
	slog.Debug("Session hydrated", "outcome", report.Outcome.String(), "detail", report.Detail)

	return &env{
		cfg:     cfg,
		store:   store,
		api:     api,
		session: sess,
		router:  routing.NewRouter(cfg.Dispatcher()),
	}, nil
}

// withEnv runs fn with a ready environment and returns its exit code. CLI
// logging goes to stderr at WARN unless --verbose.
func withEnv(ctx context.Context, w io.Writer, fn func(ctx context.Context, e *env) int) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(debuglog.New(os.Stderr, level, jsonOutput))

	e, err := setup(ctx, cfg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer e.Close()
	return fn(session.WithSession(ctx, e.session), e)
}

// exitCodeFor maps a backend or session error to an exit code. A login the
// server answered with an error is an auth failure; transport errors are not.
func exitCodeFor(err error) int {
	status := client.StatusCode(err)
	switch {
	case status == 401 || status == 403:
		return exitAuth
	case status != 0:
		var serr *session.Error
		if errors.As(err, &serr) && serr.Op == "login" {
			return exitAuth
		}
	}
	return exitError
}

// printError writes a display message for err and returns its exit code.
func printError(w io.Writer, err error, fallback string) int {
	fmt.Fprintf(w, "Error: %s\n", client.ErrorMessage(err, fallback))
	return exitCodeFor(err)
}

// requireLogin reports exitAuth when no one is signed in.
func requireLogin(w io.Writer, s *session.Session) (*session.Identity, int) {
	id := s.Identity()
	if id == nil {
		fmt.Fprintln(w, "Error: not logged in. Run 'gcdl login' first.")
		return nil, exitAuth
	}
	return id, exitOK
}
