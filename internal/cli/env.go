package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfq/internal/bridge"
	"github.com/roach88/rdfq/internal/query"
	"github.com/roach88/rdfq/internal/rdf"
	"github.com/roach88/rdfq/internal/store"
)

// sourceName is the name the command's store is registered under.
const sourceName = "store"

// StoreFlags are the store selection flags shared by data commands.
type StoreFlags struct {
	Database string
	Context  string
}

func (f *StoreFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&f.Context, "context", "", "restrict to one named graph (IRI)")
}

// path resolves the database path: flag, then config.
func (f *StoreFlags) path(opts *RootOptions) string {
	if f.Database != "" {
		return f.Database
	}
	return opts.Config.Store.Path
}

// context resolves the named graph: flag, then config. Nil means all
// statements.
func (f *StoreFlags) context(opts *RootOptions) rdf.Node {
	iri := f.Context
	if iri == "" {
		iri = opts.Config.Store.Context
	}
	if iri == "" {
		return nil
	}
	return rdf.NewResource(iri)
}

// openStore opens an existing database. A missing file is reported rather
// than created empty.
func (f *StoreFlags) openStore(opts *RootOptions) (*store.Store, error) {
	path := f.path(opts)
	if path != store.MemoryPath {
		if _, err := os.Stat(path); err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path), err)
		}
	}
	return f.createStore(opts)
}

// createStore opens the selected database, creating it if needed.
func (f *StoreFlags) createStore(opts *RootOptions) (*store.Store, error) {
	path := f.path(opts)
	slog.Debug("opening database", "path", path)

	st, err := store.Open(path,
		store.WithCacheSize(opts.Config.Store.CacheSize),
		store.WithIdleConns(opts.Config.Store.IdleConns),
	)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", path), err)
	}
	return st, nil
}

// storeErrorCode classifies a failure from openStore.
func storeErrorCode(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrCodeNotFound
	}
	return ErrCodeStoreFailed
}

// inputErrorCode classifies a failure reading a query or data file.
func inputErrorCode(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrCodeNotFound
	}
	return ErrCodeParseFailed
}

// newEngine registers st, or its named graph view, with a fresh engine.
func newEngine(opts *RootOptions, st *store.Store, graph rdf.Node) (*query.Engine, error) {
	var engineOpts []query.Option
	if opts.IDs != nil {
		engineOpts = append(engineOpts, query.WithIDGenerator(opts.IDs))
	}
	eng := query.NewEngine(engineOpts...)

	var gs bridge.GraphStore = st
	if graph != nil {
		gs = st.InContext(graph)
	}
	if err := bridge.Register(eng, sourceName, gs); err != nil {
		return nil, err
	}
	return eng, nil
}
