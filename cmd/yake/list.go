package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List command targets in declared order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.load(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(o.stdout, 0, 4, 2, ' ', 0)
			for _, e := range a.graph.Tree().AllCommands() {
				fmt.Fprintf(w, "%s\t%s\n", e.Path, e.Target.Doc)
			}
			return w.Flush()
		},
	}
}
