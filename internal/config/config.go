// Package config loads rdfq settings from CUE.
//
// An embedded schema supplies types, constraints and defaults. A user file
// (rdfq.cue by default) may set any subset of fields at the top level:
//
//	store: path: "data/people.db"
//	tree: level: 3
//
// The user file is unified with the schema, so a value outside its
// constraints (a negative level, an unknown log format) fails to load.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "rdfq.cue"

// Config holds every setting.
type Config struct {
	Store StoreConfig `json:"store"`
	Tree  TreeConfig  `json:"tree"`
	Log   LogConfig   `json:"log"`
}

// StoreConfig configures the SQLite store.
type StoreConfig struct {
	Path      string `json:"path"`
	CacheSize int    `json:"cache_size"`
	IdleConns int    `json:"idle_conns"`

	// Context restricts reads to one named graph (IRI). Empty means all.
	Context string `json:"context,omitempty"`
}

// TreeConfig configures subgraph extraction.
type TreeConfig struct {
	Level int `json:"level"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// SlogLevel maps the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadError reports a config file that does not compile or violates the
// schema.
type LoadError struct {
	File    string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Default returns the schema defaults.
func Default() (*Config, error) {
	return build(nil, "")
}

// Load reads path and unifies it with the schema. A missing file at
// DefaultFile is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			slog.Debug("no config file, using defaults", "file", path)
			return Default()
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return build(data, path)
}

// Parse unifies CUE source with the schema.
func Parse(src []byte) (*Config, error) {
	return build(src, "config.cue")
}

func build(src []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	value := schema.LookupPath(cue.ParsePath("config"))

	if src != nil {
		user := ctx.CompileBytes(src, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return nil, newLoadError(filename, err)
		}
		value = value.Unify(user)
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, newLoadError(filename, err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, newLoadError(filename, err)
	}
	return &cfg, nil
}

func newLoadError(file string, err error) *LoadError {
	le := &LoadError{File: file, Message: err.Error()}
	var cerr interface{ Position() token.Pos }
	if errors.As(err, &cerr) {
		le.Pos = cerr.Position()
	}
	return le
}
