package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copyleftdev/hypervol/internal/logging"
)

var version = "dev"

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "hvcalc",
		Short: "Hypervolume indicator calculator",
		Long: `hvcalc computes the hypervolume dominated by a non-dominated point set
(minimization) and bounded by a reference point. Two and three objectives
use exact sweeps; more objectives use exact recursive partitioning or,
with --approx, a Monte-Carlo estimate.`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log calculator diagnostics to stderr")

	cmd.AddCommand(newComputeCmd(opts))
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

// logger returns the diagnostics logger for cmd; warnings only unless
// --verbose is set.
func (o *rootOptions) logger(cmd *cobra.Command) *zap.Logger {
	level := logging.WarnLevel
	if o.verbose {
		level = logging.DebugLevel
	}
	return logging.NewZapLogger(logging.NewWithFormat(level, logging.TextFormat, cmd.ErrOrStderr()))
}
