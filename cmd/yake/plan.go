package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/yake/runner"
)

func newPlanCmd(o *options) *cobra.Command {
	var levels bool
	cmd := &cobra.Command{
		Use:   "plan <targets...>",
		Short: "Print the execution order with expanded commands",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.load(cmd)
			if err != nil {
				return err
			}
			order, err := a.graph.Schedule(args...)
			if err != nil {
				return err
			}

			if levels {
				lv, err := a.graph.Levels(order...)
				if err != nil {
					return err
				}
				for n, paths := range lv {
					fmt.Fprintf(o.stdout, "%d: %s\n", n, strings.Join(paths, " "))
				}
				return nil
			}

			plan, err := runner.New(a.graph,
				runner.WithShell(a.cfg.Shell),
				runner.WithParams(a.params),
			).Prepare(order)
			if err != nil {
				return err
			}
			for _, p := range plan {
				fmt.Fprintln(o.stdout, p.Path)
				for _, line := range p.Commands {
					fmt.Fprintf(o.stdout, "  -- %s\n", line)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&levels, "levels", false, "group targets into dependency levels")
	return cmd
}
