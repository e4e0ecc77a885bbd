package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/tabula/pkg/schema"
	"github.com/ajitpratap0/tabula/pkg/tableformat"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List table formats and column types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, "Table formats:")
			for _, name := range tableformat.Formats() {
				fmt.Fprintf(a.out, "  - %s\n", name)
			}
			fmt.Fprintln(a.out, "\nColumn types:")
			for _, name := range schema.ConverterNames() {
				fmt.Fprintf(a.out, "  - %s\n", name)
			}
		},
	}
}
