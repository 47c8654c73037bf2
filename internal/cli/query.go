package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfq/internal/bridge"
	"github.com/roach88/rdfq/internal/query"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	StoreFlags
	Limit int
}

// QueryResult is the JSON payload of the query command.
type QueryResult struct {
	EvalID string     `json:"eval_id"`
	Vars   []string   `json:"vars"`
	Rows   [][]string `json:"rows"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <query.yaml>",
		Short: "Run a triple pattern query",
		Long: `Evaluate a YAML query file against the store.

Query file format:
  select: [s, name]
  where:
    - [{var: s}, {iri: "http://xmlns.com/foaf/0.1/name"}, {var: name}]

Terms are {var: x}, {iri: ...}, {literal: ..., lang: ...},
{literal: ..., datatype: ...}, {blank: ...}, {int: n} or {bool: b}.

Exit codes:
  0 - Query evaluated
  1 - Evaluation failed
  2 - Command error (bad query file, database not found, etc.)

Example:
  rdfq query --db people.db names.yaml
  rdfq query --db people.db names.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), opts, args[0], cmd)
		},
	}
	opts.StoreFlags.register(cmd)
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "override the query's limit (0 keeps it)")
	return cmd
}

func runQuery(ctx context.Context, opts *QueryOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	q, err := query.LoadFile(path)
	if err != nil {
		_ = out.Error(inputErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load query", err)
	}
	if opts.Limit > 0 {
		q.Limit = opts.Limit
	}
	out.VerboseLog("query: %s", q)

	st, err := opts.openStore(opts.RootOptions)
	if err != nil {
		_ = out.Error(storeErrorCode(err), err.Error(), nil)
		return err
	}
	defer st.Close()

	eng, err := newEngine(opts.RootOptions, st, opts.context(opts.RootOptions))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to register store", err)
	}

	res, err := eng.Execute(ctx, sourceName, q)
	if err != nil {
		reportEvalError(out, err)
		return WrapExitError(ExitFailure, "query failed", err)
	}

	result := QueryResult{EvalID: res.EvalID, Vars: res.Vars, Rows: res.Strings()}
	if opts.Format == "json" {
		return out.Success(result)
	}
	return writeTable(out, result)
}

// reportEvalError outputs a failed evaluation with its ID when it has one.
func reportEvalError(out *OutputFormatter, err error) {
	var evalID string
	var ee *query.EvalError
	if errors.As(err, &ee) {
		evalID = ee.EvalID
	}
	_ = out.EvalError(evalID, queryErrorCode(err), err.Error())
}

// queryErrorCode prefers the bridge's code for adapter failures.
func queryErrorCode(err error) string {
	var be *bridge.Error
	if errors.As(err, &be) {
		return string(be.Code)
	}
	return ErrCodeQueryFailed
}

// writeTable prints rows as aligned columns followed by a row count.
func writeTable(out *OutputFormatter, r QueryResult) error {
	tw := tabwriter.NewWriter(out.Writer, 0, 4, 2, ' ', 0)

	header := make([]string, len(r.Vars))
	for i, v := range r.Vars {
		header[i] = "?" + v
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range r.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out.Writer, "(%d rows)\n", len(r.Rows))
	return nil
}
