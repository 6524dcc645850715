// ABOUTME: Tests for the recent downloads list
// ABOUTME: Covers ordering, de-duplication, trimming and missing files

package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/KayembaIsaacFrank/gcdl/internal/storage"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRecent_AddMovesToFront(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	r := NewRecent(storage.NewMemoryStore())

	a := touch(t, dir, "a.csv")
	b := touch(t, dir, "b.csv")
	r.Add(ctx, a)
	r.Add(ctx, b)
	r.Add(ctx, a)

	got := r.List(ctx)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("unexpected list %v", got)
	}
}

func TestRecent_TrimsToMax(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	r := NewRecent(storage.NewMemoryStore())

	for i := 0; i < MaxRecent+2; i++ {
		r.Add(ctx, touch(t, dir, fmt.Sprintf("r%d.csv", i)))
	}
	got := r.List(ctx)
	if len(got) != MaxRecent {
		t.Fatalf("expected %d entries, got %d", MaxRecent, len(got))
	}
	if filepath.Base(got[0]) != fmt.Sprintf("r%d.csv", MaxRecent+1) {
		t.Errorf("newest should be first, got %v", got)
	}
}

func TestRecent_SkipsMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	r := NewRecent(store)

	path := touch(t, t.TempDir(), "a.csv")
	r.Add(ctx, path)
	os.Remove(path)
	if got := r.List(ctx); len(got) != 0 {
		t.Errorf("missing file should be dropped, got %v", got)
	}

	store.Set(ctx, RecentKey, "{not json")
	if got := r.List(ctx); got != nil {
		t.Errorf("malformed list should read empty, got %v", got)
	}

	var none *Recent
	if none.List(ctx) != nil {
		t.Error("nil Recent should list nothing")
	}
}
