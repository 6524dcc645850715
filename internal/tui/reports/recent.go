// ABOUTME: Remembers the most recently saved report files
// ABOUTME: The list lives in session storage next to the credential

package reports

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/KayembaIsaacFrank/gcdl/internal/storage"
)

// RecentKey is the storage key of the recent downloads list.
const RecentKey = "recent_reports"

// MaxRecent is the maximum number of recent downloads to keep
const MaxRecent = 5

// Recent manages the list of recently saved reports
type Recent struct {
	store storage.Store
}

func NewRecent(store storage.Store) *Recent {
	return &Recent{store: store}
}

// List returns the saved paths, newest first. Files that no longer exist
// are skipped; an unreadable list reads as empty.
func (r *Recent) List(ctx context.Context) []string {
	if r == nil || r.store == nil {
		return nil
	}
	raw, ok, err := r.store.Get(ctx, RecentKey)
	if err != nil {
		slog.Debug("Recent reports unavailable", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(raw), &paths); err != nil {
		slog.Debug("Recent reports list is malformed", "error", err)
		return nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Add puts path at the front of the list, dropping an older entry for the
// same path and anything past MaxRecent.
func (r *Recent) Add(ctx context.Context, path string) ([]string, error) {
	if r == nil || r.store == nil {
		return nil, nil
	}
	paths := []string{path}
	for _, p := range r.List(ctx) {
		if p != path {
			paths = append(paths, p)
		}
	}
	if len(paths) > MaxRecent {
		paths = paths[:MaxRecent]
	}
	data, err := json.Marshal(paths)
	if err != nil {
		return nil, err
	}
	return paths, r.store.Set(ctx, RecentKey, string(data))
}
