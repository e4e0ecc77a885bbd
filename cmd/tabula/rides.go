package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/rides"
	"github.com/ajitpratap0/tabula/pkg/tableformat"
)

type ridesFlags struct {
	route string
	date  string
	top   int
	from  string
	to    string
	json  bool
}

type ridesOn struct {
	Route string `json:"route"`
	Date  string `json:"date"`
	Rides int    `json:"rides"`
	Found bool   `json:"found"`
}

type ridesReport struct {
	Routes   int                `json:"routes"`
	RidesOn  *ridesOn           `json:"rides_on,omitempty"`
	Busiest  []rides.RouteCount `json:"busiest"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Increase []rides.RouteCount `json:"increase"`
}

func newRidesCmd(a *app) *cobra.Command {
	var f ridesFlags

	cmd := &cobra.Command{
		Use:   "rides FILE",
		Short: "Answer ridership questions about a route,date,daytype,rides file",
		Long: `Report the number of distinct routes, the rides on one route and date,
the busiest routes overall and the routes whose ridership grew the most
between two years.

Example:
  tabula rides ctabus.csv --route 22 --date 02/02/2011 --top 5 --from 2001 --to 2011`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, span *observability.Span) error {
				span.SetAttribute("path", args[0])
				return a.ridesReport(ctx, args[0], f)
			})
		},
	}

	cmd.Flags().StringVar(&f.route, "route", "22", "Route for the rides-on-date question")
	cmd.Flags().StringVar(&f.date, "date", "02/02/2011", "Date (MM/DD/YYYY) for the rides-on-date question")
	cmd.Flags().IntVar(&f.top, "top", 15, "Number of busiest routes to list")
	cmd.Flags().StringVar(&f.from, "from", "2001", "First year of the ridership comparison")
	cmd.Flags().StringVar(&f.to, "to", "2011", "Second year of the ridership comparison")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the report as JSON")
	return cmd
}

func (a *app) ridesReport(ctx context.Context, path string, f ridesFlags) error {
	all, err := rides.ReadStructs(path, a.parserOptions(ctx, path)...)
	if err != nil {
		return err
	}

	n, found := rides.RidesOn(all, f.route, f.date)
	report := ridesReport{
		Routes:   rides.CountRoutes(all),
		RidesOn:  &ridesOn{Route: f.route, Date: f.date, Rides: n, Found: found},
		Busiest:  rides.TotalRidesByRoute(all, f.top),
		From:     f.from,
		To:       f.to,
		Increase: rides.TopIncrease(all, f.from, f.to, 5),
	}
	if f.json {
		return a.writeJSON(report)
	}

	fmt.Fprintf(a.out, "%d bus routes\n", report.Routes)
	if found {
		fmt.Fprintf(a.out, "On %s %d people rode bus number %s\n", f.date, n, f.route)
	} else {
		fmt.Fprintf(a.out, "No rides recorded for route %s on %s\n", f.route, f.date)
	}

	fmt.Fprintf(a.out, "\nTotal rides per route (top %d)\n", f.top)
	if err := a.routeTable(report.Busiest); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nGreatest increase %s to %s\n", f.from, f.to)
	return a.routeTable(report.Increase)
}

func (a *app) routeTable(counts []rides.RouteCount) error {
	formatter, err := tableformat.New(a.cfg.Table.Format, a.out, tableformat.Options{
		UpperHeaders: a.cfg.Table.UpperHeaders,
		Metrics:      a.metrics,
	})
	if err != nil {
		return err
	}
	return tableformat.PrintTable(counts, []string{"route", "rides"}, formatter)
}
