package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the taskgraph command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskgraph",
		Short: "Contract-driven task graph planner",
		Long: `taskgraph turns an OpenAPI contract and a PRD into a phased task graph.
Every node carries a token budget that fits the model window, a complexity
score, and references to the contract operations it implements. Plans fail
when any contract operation is left uncovered.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is .taskgraph/config.yaml when present)")
	flags.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.String("log-format", "", "log format: text or json (overrides config)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("metrics-file", "", "write Prometheus metrics to this file (textfile collector format)")

	rootCmd.AddCommand(newPlanCmd(), newVersionCmd())
	return rootCmd
}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
