package main

import (
	"context"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/memprofile"
	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/rides"
)

func newMemoryCmd(a *app) *cobra.Command {
	var (
		only   []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "memory FILE",
		Short: "Compare the memory held by each in-memory representation of a rides file",
		Long: `Load a route,date,daytype,rides file once per representation (tuples,
maps, structs, pointers, columns, interned columns, Arrow) and report the heap
each one retains.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, span *observability.Span) error {
				path := args[0]
				span.SetAttribute("path", path)

				var loaders []memprofile.Loader
				for _, rep := range rides.Representations(a.parserOptions(ctx, path)...) {
					if len(only) > 0 && !slices.Contains(only, rep.Name) {
						continue
					}
					load := rep.Load
					loaders = append(loaders, memprofile.Loader{
						Name: rep.Name,
						Load: func() (any, int, error) { return load(path) },
					})
				}
				if len(loaders) == 0 {
					return errors.New(errors.ErrorTypeConfig, "no representation selected").
						WithDetail("only", only)
				}

				results, err := memprofile.NewResourceMonitor(a.log).Compare(loaders)
				if err != nil {
					return err
				}
				if asJSON {
					return a.writeJSON(results)
				}
				return memprofile.WriteReport(a.out, a.cfg.Table.Format, results)
			})
		},
	}
	cmd.Flags().StringSliceVar(&only, "only", nil, "Representations to measure (default all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the results as JSON")
	return cmd
}
