package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfq/internal/rdf"
	"github.com/roach88/rdfq/internal/rdfio"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	StoreFlags
}

// LoadResult reports what was loaded.
type LoadResult struct {
	Files      int   `json:"files"`
	Statements int   `json:"statements"`
	Size       int64 `json:"size"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <file.nq>...",
		Short: "Load N-Quads files into the store",
		Long: `Parse N-Quads (or N-Triples) files and add every statement to the store.

All files are parsed before anything is written, and the statements are added
in one transaction. With --context every statement goes to that named graph.

Example:
  rdfq load --db people.db people.nq
  rdfq load --db people.db --context http://example.org/g extra.nt`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.Context(), opts, args, cmd)
		},
	}
	opts.StoreFlags.register(cmd)
	return cmd
}

func runLoad(ctx context.Context, opts *LoadOptions, files []string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	graph := opts.context(opts.RootOptions)

	var all []rdf.Quad
	for _, path := range files {
		quads, err := readQuadsFile(path, graph)
		if err != nil {
			_ = out.Error(inputErrorCode(err), err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read input", err)
		}
		out.VerboseLog("%s: %d statements", path, len(quads))
		all = append(all, quads...)
	}

	st, err := opts.createStore(opts.RootOptions)
	if err != nil {
		_ = out.Error(storeErrorCode(err), err.Error(), nil)
		return err
	}
	defer st.Close()

	if err := st.AddQuads(ctx, all); err != nil {
		_ = out.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to load statements", err)
	}

	size, err := st.Size(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to count statements", err)
	}
	slog.Info("statements loaded", "files", len(files), "statements", len(all), "size", size)

	result := LoadResult{Files: len(files), Statements: len(all), Size: size}
	if opts.Format == "json" {
		return out.Success(result)
	}
	return out.Success(fmt.Sprintf("Loaded %d statements from %d file(s); store holds %d", result.Statements, result.Files, result.Size))
}

func readQuadsFile(path string, graph rdf.Node) ([]rdf.Quad, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	quads, err := rdfio.ReadQuads(f, graph)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return quads, nil
}
