package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/yake/version"
)

func newVersionCmd(o *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return version.Get().Write(o.stdout, format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format: text|json|yaml")
	return cmd
}
