package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/rdfq/internal/rdfio"
	"github.com/roach88/rdfq/internal/store"
)

// MemStore opens a private in-memory store closed at test cleanup.
func MemStore(t testing.TB) *store.Store {
	t.Helper()
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// FileStore opens a store in a fresh temp directory and returns it with
// its path. The store is closed at test cleanup.
func FileStore(t testing.TB) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rdfq.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, path
}

// LoadNQuads parses N-Quads text into st.
func LoadNQuads(t testing.TB, st *store.Store, data string) {
	t.Helper()
	quads, err := rdfio.ReadQuads(strings.NewReader(data), nil)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if err := st.AddQuads(context.Background(), quads); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
}
