package cli

import (
	"bytes"
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfq/internal/rdf"
	"github.com/roach88/rdfq/internal/rdfio"
	"github.com/roach88/rdfq/internal/store"
	"github.com/roach88/rdfq/internal/tree"
)

// TreeOptions holds flags for the tree command.
type TreeOptions struct {
	*RootOptions
	StoreFlags
	Level int
}

// TreeResult is the JSON payload of the tree command.
type TreeResult struct {
	Root       string `json:"root,omitempty"`
	Level      int    `json:"level"`
	Statements int    `json:"statements"`
	NQuads     string `json:"nquads"`
}

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TreeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tree [uri]",
		Short: "Extract the statements reachable from a node",
		Long: `Write, as N-Quads, every statement about <uri>, then recurse into the
objects of those statements up to --level deep. Objects already described in
the output are not revisited. Without <uri> the whole store (or the named
graph given by --context) is written.

Example:
  rdfq tree --db people.db http://example.org/alice
  rdfq tree --db people.db --level 3 --context http://example.org/g http://example.org/alice`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("level") {
				opts.Level = opts.Config.Tree.Level
			}
			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			return runTree(cmd.Context(), opts, root, cmd)
		},
	}
	opts.StoreFlags.register(cmd)
	cmd.Flags().IntVarP(&opts.Level, "level", "l", 1, "recursion depth (default from config)")
	return cmd
}

func runTree(ctx context.Context, opts *TreeOptions, root string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	if opts.Level < 0 {
		return NewExitError(ExitCommandError, "level must be non-negative")
	}

	st, err := opts.openStore(opts.RootOptions)
	if err != nil {
		_ = out.Error(storeErrorCode(err), err.Error(), nil)
		return err
	}
	defer st.Close()

	graph := opts.context(opts.RootOptions)
	var src interface {
		FindTriples(context.Context, rdf.Triple) (rdf.Stream, error)
	} = st
	if graph != nil {
		src = st.InContext(graph)
	}

	if root != "" {
		sink, err := store.Open(store.MemoryPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create output store", err)
		}
		defer sink.Close()

		eng, err := newEngine(opts.RootOptions, st, graph)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to register store", err)
		}
		x := tree.NewExtractor(eng, sourceName, sink.InContext(nil))
		if err := x.Extract(ctx, rdf.NewResource(root), opts.Level); err != nil {
			reportEvalError(out, err)
			return WrapExitError(ExitFailure, "extraction failed", err)
		}
		out.VerboseLog("extracted %d statements from %s", x.Added(), root)
		src = sink
	}

	stream, err := src.FindTriples(ctx, rdf.Triple{})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read statements", err)
	}

	var buf bytes.Buffer
	var w io.Writer = out.Writer
	if opts.Format == "json" {
		w = &buf
	}
	nw := rdfio.NewWriter(w)
	if err := nw.WriteStream(stream, nil); err != nil {
		return WrapExitError(ExitFailure, "failed to write statements", err)
	}
	if err := nw.Close(); err != nil {
		return err
	}

	if opts.Format == "json" {
		return out.Success(TreeResult{Root: root, Level: opts.Level, Statements: nw.Count(), NQuads: buf.String()})
	}
	return nil
}
