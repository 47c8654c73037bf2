package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/rdfq/internal/bridge"
	"github.com/roach88/rdfq/internal/query"
	"github.com/roach88/rdfq/internal/rdf"
	"github.com/roach88/rdfq/internal/rdfio"
	"github.com/roach88/rdfq/internal/store"
	"github.com/roach88/rdfq/internal/tree"
)

// SourceName is the name the scenario store is registered under.
const SourceName = "scenario"

// Harness holds the state of one scenario run.
type Harness struct {
	store  *store.Store
	engine *query.Engine
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. Evaluation IDs come
// from a sequence named after the scenario.
//
// Execution flow:
//  1. Create fresh in-memory database and load data
//  2. Register the store with a new engine
//  3. Run every query and check its expectation
//  4. Evaluate assertions against the store
//
// An error is returned only when the scenario cannot be run at all (bad
// data); expectation failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	quads, err := rdfio.ReadQuads(strings.NewReader(scenario.Data), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data: %w", err)
	}
	if err := st.AddQuads(ctx, quads); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	eng := query.NewEngine(query.WithIDGenerator(query.NewSequenceGenerator(scenario.Name)))
	if err := bridge.Register(eng, SourceName, st); err != nil {
		return nil, err
	}

	h := &Harness{
		store:  st,
		engine: eng,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	result.Statements = len(quads)

	for _, step := range scenario.Queries {
		outcome := h.runQuery(ctx, step)
		result.Queries = append(result.Queries, outcome)
		if step.Expect != nil {
			for _, msg := range checkExpect(outcome, *step.Expect) {
				result.AddError(fmt.Sprintf("query %s: %s", step.Name, msg))
			}
		}
	}

	for i, a := range scenario.Assertions {
		if err := h.evaluateAssertion(ctx, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// runQuery builds and executes one step. Failures become the outcome's
// error code.
func (h *Harness) runQuery(ctx context.Context, step QueryStep) QueryOutcome {
	outcome := QueryOutcome{Name: step.Name, Rows: [][]string{}}

	q, err := step.Query.Build()
	if err != nil {
		outcome.Error = ErrCodeInvalidQuery
		h.logger.Debug("query rejected", "query", step.Name, "error", err)
		return outcome
	}

	res, err := h.engine.Execute(ctx, SourceName, q)
	if err != nil {
		outcome.Error = errorCode(err)
		var ee *query.EvalError
		if errors.As(err, &ee) {
			outcome.EvalID = ee.EvalID
		}
		h.logger.Debug("query failed", "query", step.Name, "error", err)
		return outcome
	}

	outcome.EvalID = res.EvalID
	outcome.Vars = res.Vars
	outcome.Rows = res.Strings()
	return outcome
}

// errorCode classifies an Execute error.
func errorCode(err error) string {
	var be *bridge.Error
	if errors.As(err, &be) {
		return string(be.Code)
	}
	var ve *query.ValidationError
	if errors.As(err, &ve) {
		return ErrCodeInvalidQuery
	}
	return ErrCodeEvaluation
}

// checkExpect compares an outcome with its expectation.
func checkExpect(got QueryOutcome, want ExpectClause) []string {
	var msgs []string

	if want.Error != "" || got.Error != "" {
		if got.Error != want.Error {
			msgs = append(msgs, fmt.Sprintf("expected error %q, got %q", want.Error, got.Error))
		}
		return msgs
	}

	if want.Count != nil && len(got.Rows) != *want.Count {
		msgs = append(msgs, fmt.Sprintf("expected %d rows, got %d", *want.Count, len(got.Rows)))
	}
	if want.Rows == nil {
		return msgs
	}

	gotRows, wantRows := joinRows(got.Rows), joinRows(want.Rows)
	if !want.Ordered {
		slices.Sort(gotRows)
		slices.Sort(wantRows)
	}
	if !slices.Equal(gotRows, wantRows) {
		msgs = append(msgs, fmt.Sprintf("rows mismatch\n  Expected: %v\n  Actual: %v", want.Rows, got.Rows))
	}
	return msgs
}

func joinRows(rows [][]string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = strings.Join(r, "\x00")
	}
	return out
}

// evaluateAssertion checks one assertion against the store.
func (h *Harness) evaluateAssertion(ctx context.Context, a Assertion) error {
	switch a.Type {
	case AssertStoreSize:
		n, err := h.store.Size(ctx)
		if err != nil {
			return err
		}
		if n != int64(a.Count) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d statements", a.Count), Actual: fmt.Sprintf("%d statements", n)}
		}

	case AssertContains:
		quads, err := rdfio.ReadQuads(strings.NewReader(a.Statement+"\n"), nil)
		if err != nil {
			return fmt.Errorf("bad statement: %w", err)
		}
		if len(quads) != 1 {
			return fmt.Errorf("bad statement: expected 1, got %d", len(quads))
		}
		ok, err := h.store.ContainsTriple(ctx, quads[0].Triple)
		if err != nil {
			return err
		}
		if !ok {
			return &AssertionError{Type: a.Type, Expected: a.Statement, Actual: "not in store"}
		}

	case AssertTree:
		sink, err := store.Open(store.MemoryPath)
		if err != nil {
			return err
		}
		defer sink.Close()

		x := tree.NewExtractor(h.engine, SourceName, sink.InContext(nil))
		if err := x.Extract(ctx, rdf.NewResource(a.Root), a.Level); err != nil {
			return err
		}
		if x.Added() != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d statements from %s at level %d", a.Count, a.Root, a.Level),
				Actual:   fmt.Sprintf("%d statements", x.Added()),
			}
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
