// ABOUTME: Durable key-value storage for the session credential and identity
// ABOUTME: Opens a file, Redis, or in-memory backend from a storage URL

package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Keys persisted by the session layer.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Store persists string values by key. Implementations must be safe for
// concurrent use. A missing key is reported with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gcdl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gcdl")
}

// Open returns the store described by rawURL.
//
//	""                      file store in configDir
//	file:///path/to/dir     file store in the given directory
//	redis://host:6379/0     Redis store (namespace from ?namespace=, default "default")
//	memory://               process-local store
func Open(ctx context.Context, rawURL, configDir string) (Store, error) {
	if rawURL == "" {
		if configDir == "" {
			return nil, fmt.Errorf("storage: no config directory available")
		}
		return NewFileStore(configDir), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid url %q: %w", rawURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		if u.Host != "" && u.Host != "localhost" {
			return nil, fmt.Errorf("storage: file url %q has a host; use file:///absolute/dir", rawURL)
		}
		dir := u.Path
		if dir == "" {
			dir = configDir
		}
		return NewFileStore(dir), nil
	case "redis", "rediss":
		namespace := u.Query().Get("namespace")
		q := u.Query()
		q.Del("namespace")
		u.RawQuery = q.Encode()
		return DialRedis(ctx, u.String(), namespace)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unsupported scheme %q", u.Scheme)
	}
}
