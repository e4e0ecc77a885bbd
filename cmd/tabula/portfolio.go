package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/portfolio"
	"github.com/ajitpratap0/tabula/pkg/tableformat"
)

func newPortfolioCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Stock portfolio reports",
	}
	cmd.AddCommand(newPortfolioCostCmd(a), newPortfolioShowCmd(a))
	return cmd
}

func newPortfolioCostCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cost FILE",
		Short: "Total cost of a whitespace-separated name/shares/price file",
		Long: `Sum shares*price over a file of "name shares price" lines. Lines that
cannot be parsed are logged at warn level and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, span *observability.Span) error {
				span.SetAttribute("path", args[0])
				sum, err := portfolio.PortfolioCostFile(args[0], a.log)
				if err != nil {
					return err
				}
				span.SetAttribute("skipped", sum.Skipped)
				if asJSON {
					return a.writeJSON(sum)
				}
				fmt.Fprintf(a.out, "Total cost: %0.2f\n", sum.Total)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func newPortfolioShowCmd(a *app) *cobra.Command {
	var (
		useDecimal bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the holdings of a name,shares,price CSV file",
		Long: `Print the holdings of a portfolio CSV file. Without --format the classic
fixed-width report is printed; with --format the holdings and their cost
are rendered through the table formatter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, span *observability.Span) error {
				span.SetAttribute("decimal", useDecimal)
				opts := a.parserOptions(ctx, args[0])

				var holdings []portfolio.Holding
				if useDecimal {
					stocks, err := portfolio.ReadDStocks(args[0], opts...)
					if err != nil {
						return err
					}
					holdings = portfolio.Holdings(stocks)
				} else {
					stocks, err := portfolio.ReadStocks(args[0], opts...)
					if err != nil {
						return err
					}
					holdings = portfolio.Holdings(stocks)
				}

				if !cmd.Flags().Changed("format") {
					return portfolio.PrintPortfolio(a.out, holdings)
				}
				tableOpts := a.cfg.TableOptions()
				tableOpts.Metrics = a.metrics
				formatter, err := tableformat.New(format, a.out, tableOpts)
				if err != nil {
					return err
				}
				return tableformat.PrintTable(holdings, []string{"name", "shares", "price", "cost"}, formatter)
			})
		},
	}
	cmd.Flags().BoolVar(&useDecimal, "decimal", false, "Use exact decimal prices")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Render through the table formatter in this format")
	return cmd
}
