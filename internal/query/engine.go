package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/cayleygraph/quad"
)

// Engine evaluates queries against registered triples sources.
//
// Thread-safety: registration is safe from any goroutine. A *Query holds
// variable state, so one Query must not be executed concurrently with
// itself; distinct queries may run in parallel.
type Engine struct {
	mu      sync.RWMutex
	sources map[string]SourceFactory
	ids     IDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator sets the generator for evaluation IDs.
//
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// NewEngine creates an engine with no sources.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		sources: make(map[string]SourceFactory),
		ids:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterSource makes a triples source available under name. Registering
// the same name twice is an error.
func (e *Engine) RegisterSource(name string, factory SourceFactory) error {
	if name == "" {
		return errors.New("source name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("source %q: nil factory", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.sources[name]; exists {
		return fmt.Errorf("source %q already registered", name)
	}
	e.sources[name] = factory
	slog.Debug("triples source registered", "source", name)
	return nil
}

// Sources returns the registered source names in sorted order.
func (e *Engine) Sources() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.sources))
	for n := range e.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Execute evaluates q against the named source.
//
// Patterns are joined in declaration order with a nested loop. Every match
// opened during the evaluation is closed before Execute returns, including
// when the limit is reached or an error aborts the evaluation. Variable
// values are cleared on return.
//
// Errors from the source abort this evaluation only and are returned as
// *EvalError.
func (e *Engine) Execute(ctx context.Context, sourceName string, q *Query) (*Results, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}

	e.mu.RLock()
	factory, ok := e.sources[sourceName]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, sourceName)
	}

	id := e.ids.Generate()
	slog.Debug("evaluation starting",
		"eval_id", id,
		"source", sourceName,
		"query", q.String(),
	)

	q.reset()
	defer q.reset()

	src, err := factory(ctx, q)
	if err != nil {
		return nil, &EvalError{EvalID: id, Pattern: -1, Err: err}
	}

	ev := &evaluation{
		ctx:     ctx,
		id:      id,
		query:   q,
		source:  src,
		results: newResults(id, q),
	}
	runErr := ev.run(0)
	closeErr := src.Close()

	if errors.Is(runErr, errLimitReached) {
		runErr = nil
	}
	if runErr != nil {
		slog.Warn("evaluation failed", "eval_id", id, "error", runErr)
		return nil, runErr
	}
	if closeErr != nil {
		return nil, &EvalError{EvalID: id, Pattern: -1, Err: closeErr}
	}

	slog.Debug("evaluation finished",
		"eval_id", id,
		"rows", ev.results.Len(),
	)
	return ev.results, nil
}

// errLimitReached unwinds the nested loop once enough rows are collected.
var errLimitReached = errors.New("limit reached")

// evaluation is the state of one Execute call.
type evaluation struct {
	ctx     context.Context
	id      string
	query   *Query
	source  TriplesSource
	results *Results
	seen    map[string]bool
}

// run matches pattern i and recurses for each accepted candidate.
func (ev *evaluation) run(i int) error {
	if err := ev.ctx.Err(); err != nil {
		return &EvalError{EvalID: ev.id, Pattern: i, Err: err}
	}
	if i == len(ev.query.Patterns) {
		return ev.emit()
	}

	p := ev.query.Patterns[i]
	if p.VariableCount() == 0 {
		present, err := ev.source.TriplePresent(p)
		if err != nil {
			return &EvalError{EvalID: ev.id, Pattern: i, Err: err}
		}
		if !present {
			return nil
		}
		return ev.run(i + 1)
	}

	// Variables already holding a value are constraints for this level,
	// the rest are bound here and cleared on the way out.
	var fresh []*Variable
	for _, v := range p.Variables() {
		if v != nil && !v.IsBound() {
			fresh = append(fresh, v)
		}
	}
	defer func() {
		for _, v := range fresh {
			v.Unset()
		}
	}()

	m, err := ev.source.NewMatch(p)
	if err != nil {
		return &EvalError{EvalID: ev.id, Pattern: i, Err: err}
	}
	defer m.Close()

	slots := m.Slots()
	for !m.IsEnd() {
		ok, err := m.Bind(slots)
		if err != nil {
			return &EvalError{EvalID: ev.id, Pattern: i, Err: err}
		}
		if ok {
			if err := ev.run(i + 1); err != nil {
				return err
			}
		}
		if err := m.Next(); err != nil {
			return &EvalError{EvalID: ev.id, Pattern: i, Err: err}
		}
	}
	return nil
}

// emit appends the current projection as a row.
func (ev *evaluation) emit() error {
	row := make([]quad.Value, len(ev.results.Vars))
	for j, name := range ev.results.Vars {
		if v := ev.query.Lookup(name); v != nil {
			row[j] = v.Value
		}
	}

	if ev.query.Distinct {
		if ev.seen == nil {
			ev.seen = make(map[string]bool)
		}
		key := rowKey(row)
		if ev.seen[key] {
			return nil
		}
		ev.seen[key] = true
	}

	ev.results.Rows = append(ev.results.Rows, row)
	if ev.query.Limit > 0 && len(ev.results.Rows) >= ev.query.Limit {
		return errLimitReached
	}
	return nil
}

// rowKey renders a row for duplicate detection. quad.Value.String is the
// N-Quads form, which distinguishes every kind and escapes separators.
func rowKey(row []quad.Value) string {
	var b strings.Builder
	for _, v := range row {
		if v != nil {
			b.WriteString(v.String())
		}
		b.WriteByte(0)
	}
	return b.String()
}
