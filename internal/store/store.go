package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added idx_quads_object_subject for object-bound lookups
const currentSchemaVersion = 1

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const (
	defaultCacheSize = 4096
	defaultIdleConns = 8
)

// Store provides durable storage for RDF statements.
// Uses SQLite with WAL mode for concurrent read access.
//
// Thread-safety: Store is safe for concurrent use. A single Stream is not.
type Store struct {
	db    *sql.DB
	path  string
	terms *lru.Cache[string, int64]

	openStreams atomic.Int64
}

type options struct {
	cacheSize int
	idleConns int
}

// Option configures Open.
type Option func(*options)

// WithCacheSize sets the number of term-id lookups kept in memory.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithIdleConns sets how many pooled connections are kept open between
// lookups. It does not limit how many streams may be open at once.
func WithIdleConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.idleConns = n
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// Pass MemoryPath for a private in-memory database. Each in-memory store gets
// its own named shared-cache database so that pooled connections see the
// same data while separate stores stay isolated.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{cacheSize: defaultCacheSize, idleConns: defaultIdleConns}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every open Stream pins a connection and a nested-loop join holds one
	// Stream per pattern, so the pool is never capped. Idle connections are
	// kept because a shared-cache in-memory database disappears with its
	// last connection.
	db.SetMaxOpenConns(0)
	db.SetMaxIdleConns(o.idleConns)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	cache, err := lru.New[string, int64](o.cacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create term cache: %w", err)
	}

	return &Store{db: db, path: path, terms: cache}, nil
}

// dsn builds the go-sqlite3 connection string. Per-connection pragmas go in
// the DSN so that every pooled connection gets them, not just the first.
func dsn(path string) string {
	params := url.Values{}
	params.Set("_busy_timeout", "5000")
	params.Set("_foreign_keys", "on")

	if path == MemoryPath {
		params.Set("mode", "memory")
		params.Set("cache", "shared")
		return "file:rdfq-" + uuid.NewString() + "?" + params.Encode()
	}

	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + params.Encode()
}

// Close closes the database connection.
// Should be called when the store is no longer needed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// OpenStreams returns the number of streams created by FindTriples that have
// not been closed yet.
func (s *Store) OpenStreams() int64 {
	return s.openStreams.Load()
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the object-first index for databases created before it
// was part of schema.sql.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_quads_object_subject
		ON quads(object, subject)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(ctx context.Context, name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRowContext(ctx, query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if !strings.EqualFold(value, expected) {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
