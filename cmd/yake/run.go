package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/yake/errors"
	"github.com/kbukum/yake/logger"
	"github.com/kbukum/yake/observability"
	"github.com/kbukum/yake/process"
	"github.com/kbukum/yake/runner"
	"github.com/kbukum/yake/target"
	"github.com/kbukum/yake/version"
)

func newRunCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <targets...>",
		Short: "Run targets and their dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd, o, args)
		},
	}
}

func runTargets(cmd *cobra.Command, o *options, args []string) error {
	a, err := o.load(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		printAvailable(o, a.graph.Tree())
		return errors.InvalidInput("target", "at least one target is required")
	}

	order, err := a.graph.Schedule(args...)
	if err != nil {
		var rerr *target.ResolutionError
		if stderrors.As(err, &rerr) {
			printAvailable(o, a.graph.Tree())
		}
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.Setup(ctx, a.cfg.Name, version.Get().Short(), a.cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			a.log.Warn("telemetry shutdown failed", logger.MergeWithError(nil, err))
		}
	}()

	baseEnv, err := runner.BaseEnv(a.cfg.EnvFile)
	if err != nil {
		return err
	}

	opts := []runner.Option{
		runner.WithExecutor(process.NewAdapter(process.Config{
			GracePeriod: a.cfg.GracePeriod,
			Timeout:     a.cfg.Timeout,
		}).WithLogger(a.base)),
		runner.WithShell(a.cfg.Shell),
		runner.WithPolicy(runner.Policy(a.cfg.Policy)),
		runner.WithDir(a.cfg.Dir),
		runner.WithBaseEnv(baseEnv),
		runner.WithParams(a.params),
		runner.WithOutput(o.stdout, o.stderr),
		runner.WithLogger(a.base),
	}
	if !a.cfg.Quiet {
		opts = append(opts, runner.WithEcho(o.stdout))
	}
	if a.cfg.Telemetry.Enabled() {
		m, err := observability.NewMetrics(observability.Meter(a.cfg.Name))
		if err != nil {
			return err
		}
		opts = append(opts, runner.WithMetrics(m))
	}

	report, err := runner.New(a.graph, opts...).Run(ctx, order)
	if report != nil {
		for _, e := range report.Entries {
			if e.Status == runner.StatusSkipped {
				fmt.Fprintf(o.stderr, "skipped %s: dependency %s did not succeed\n", e.Path, e.SkippedBecause)
			}
		}
	}
	return err
}

// printAvailable lists the command targets on stderr.
func printAvailable(o *options, tree *target.Tree) {
	fmt.Fprintf(o.stderr, "available targets: %s\n", strings.Join(tree.CommandPaths(), ", "))
}
