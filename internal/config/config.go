// ABOUTME: Configuration loader for the gcdl client
// ABOUTME: Reads an optional .env file then GCDL_* environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/KayembaIsaacFrank/gcdl/internal/routing"
	"github.com/KayembaIsaacFrank/gcdl/internal/session"
	"github.com/KayembaIsaacFrank/gcdl/internal/storage"
)

// DefaultServerURL is the backend origin used when none is configured.
const DefaultServerURL = "http://localhost:5000"

type Config struct {
	// Backend
	ServerURL      string        // origin without the /api suffix
	RequestTimeout time.Duration // zero = no timeout
	ProxyURL       string        // ssh+socks5://user@host:port?private-key=/path

	// Storage
	ConfigDir  string
	StorageURL string // "" = file store in ConfigDir

	// Session
	PartialSession session.PartialPolicy
	RoleViews      map[session.Role]routing.ViewID

	// Logging
	LogLevel slog.Level
	LogFile  string // TUI debug log path; "" = <ConfigDir>/debug.log
}

// APIURL returns the API root: the server origin with /api appended.
func (c *Config) APIURL() string {
	return APIURL(c.ServerURL)
}

// APIURL appends /api to a server origin, dropping any trailing slash first.
// An origin already ending in /api is returned unchanged.
func APIURL(serverURL string) string {
	base := strings.TrimRight(ensureScheme(serverURL), "/")
	if strings.HasSuffix(base, "/api") {
		return base
	}
	return base + "/api"
}

// Dispatcher builds the role dispatcher from RoleViews. Without
// configuration it is the default mapping.
func (c *Config) Dispatcher() *routing.Dispatcher {
	if len(c.RoleViews) == 0 {
		return routing.DefaultDispatcher()
	}
	return routing.NewDispatcher(c.RoleViews, routing.DefaultView)
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		ServerURL:  getEnv("GCDL_API_URL", DefaultServerURL),
		ProxyURL:   os.Getenv("GCDL_ALL_PROXY"),
		ConfigDir:  getEnv("GCDL_CONFIG_DIR", storage.DefaultConfigDir()),
		StorageURL: os.Getenv("GCDL_STORAGE_URL"),
		LogFile:    os.Getenv("GCDL_LOG_FILE"),
	}

	timeout, err := getEnvDuration("GCDL_REQUEST_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	if timeout < 0 {
		return nil, fmt.Errorf("GCDL_REQUEST_TIMEOUT must not be negative, got %s", timeout)
	}
	cfg.RequestTimeout = timeout

	cfg.PartialSession, err = session.ParsePartialPolicy(os.Getenv("GCDL_PARTIAL_SESSION"))
	if err != nil {
		return nil, fmt.Errorf("GCDL_PARTIAL_SESSION: %w", err)
	}

	cfg.RoleViews, err = routing.ParseRoleViews(os.Getenv("GCDL_ROLE_VIEWS"))
	if err != nil {
		return nil, fmt.Errorf("GCDL_ROLE_VIEWS: %w", err)
	}

	cfg.LogLevel, err = parseLevel(getEnv("GCDL_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("GCDL_LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	if secs := getEnvInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("%s must be a duration like 30s, got %q", key, value)
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
