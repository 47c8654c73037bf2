package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SizeResult is the JSON payload of the size command.
type SizeResult struct {
	Statements int64    `json:"statements"`
	Contexts   []string `json:"contexts"`
}

// NewSizeCommand creates the size command.
func NewSizeCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &StoreFlags{}

	cmd := &cobra.Command{
		Use:           "size",
		Short:         "Report statement count and named graphs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSize(cmd.Context(), rootOpts, flags, cmd)
		},
	}
	cmd.Flags().StringVar(&flags.Database, "db", "", "path to SQLite database (default from config)")
	return cmd
}

func runSize(ctx context.Context, opts *RootOptions, flags *StoreFlags, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	st, err := flags.openStore(opts)
	if err != nil {
		_ = out.Error(storeErrorCode(err), err.Error(), nil)
		return err
	}
	defer st.Close()

	n, err := st.Size(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to count statements", err)
	}
	graphs, err := st.Contexts(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list contexts", err)
	}

	result := SizeResult{Statements: n, Contexts: make([]string, len(graphs))}
	for i, g := range graphs {
		result.Contexts[i] = g.String()
	}

	if opts.Format == "json" {
		return out.Success(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d statements", n)
	for _, c := range result.Contexts {
		fmt.Fprintf(&b, "\n  context: %s", c)
	}
	return out.Success(b.String())
}
