package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/tabula/pkg/csvparse"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/schema"
	"github.com/ajitpratap0/tabula/pkg/tableformat"
)

type tableFlags struct {
	types         string
	columns       string
	delimiter     string
	format        string
	columnFormats []string
	upperHeaders  bool
}

func newTableCmd(a *app) *cobra.Command {
	var f tableFlags

	cmd := &cobra.Command{
		Use:   "table FILE",
		Short: "Render a CSV file as a table",
		Long: `Render selected columns of a CSV file as a text, CSV or HTML table.

Column types are inferred from the data unless --types is given.

Example:
  tabula table portfolio.csv --types str,int,float --format text \
    --column-formats %s,%d,%0.2f --upper-headers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, span *observability.Span) error {
				span.SetAttribute("path", args[0])
				return a.renderTable(ctx, cmd, args[0], f)
			})
		},
	}

	cmd.Flags().StringVarP(&f.types, "types", "t", "", "Comma-separated column types ("+strings.Join(schema.ConverterNames(), ", ")+")")
	cmd.Flags().StringVarP(&f.columns, "columns", "c", "", "Comma-separated columns to show (default all)")
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", ",", "Field delimiter")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format (default from config)")
	cmd.Flags().StringSliceVar(&f.columnFormats, "column-formats", nil, "fmt pattern per shown column, e.g. %s,%d,%0.2f")
	cmd.Flags().BoolVar(&f.upperHeaders, "upper-headers", false, "Upper-case the headings")
	return cmd
}

func (a *app) renderTable(ctx context.Context, cmd *cobra.Command, path string, f tableFlags) error {
	opts, err := a.delimited(ctx, path, f.delimiter)
	if err != nil {
		return err
	}
	records, names, err := a.readRecords(path, f.types, opts)
	if err != nil {
		return err
	}

	columns := names
	if f.columns != "" {
		columns = splitList(f.columns)
	}

	format := a.cfg.Table.Format
	if cmd.Flags().Changed("format") {
		format = f.format
	}
	tableOpts := a.cfg.TableOptions()
	if cmd.Flags().Changed("column-formats") {
		tableOpts.ColumnFormats = f.columnFormats
	}
	if cmd.Flags().Changed("upper-headers") {
		tableOpts.UpperHeaders = f.upperHeaders
	}
	tableOpts.Metrics = a.metrics

	formatter, err := tableformat.New(format, a.out, tableOpts)
	if err != nil {
		return err
	}
	return tableformat.PrintTable(records, columns, formatter)
}

// readRecords decodes path with the given type list, or with types inferred
// from every row when the list is empty. It returns the records and the
// decoded column names in file order.
func (a *app) readRecords(path, types string, opts []csvparse.Option) ([]schema.Record, []string, error) {
	converters, err := schema.ParseTypes(types)
	if err != nil {
		return nil, nil, err
	}
	if converters == nil {
		if converters, err = a.inferConverters(path, opts); err != nil {
			return nil, nil, err
		}
	}

	var headers []string
	dict := csvparse.NewDictBuilder(converters...)
	records, err := csvparse.New[schema.Record](csvparse.BuilderFunc[schema.Record](func(h, row []string) (schema.Record, error) {
		headers = h
		return dict.Build(h, row)
	}), opts...).ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	return records, schema.FromHeaders(headers, converters).Names(), nil
}

// inferConverters reads path once as raw strings and infers a converter per
// header column
func (a *app) inferConverters(path string, opts []csvparse.Option) ([]schema.Converter, error) {
	var headers []string
	raw, err := csvparse.New[[]string](csvparse.BuilderFunc[[]string](func(h, row []string) ([]string, error) {
		headers = h
		return row, nil
	}), opts...).ParseFile(path)
	if err != nil {
		return nil, err
	}

	s, inferred := schema.Infer(headers, raw)
	a.log.Sugar().Debugw("inferred column types", "columns", s.Names(), "types", inferred)

	converters := make([]schema.Converter, len(s))
	for i, c := range s {
		converters[i] = c.Convert
	}
	return converters, nil
}

func (a *app) delimited(ctx context.Context, path, delimiter string) ([]csvparse.Option, error) {
	runes := []rune(delimiter)
	if len(runes) != 1 {
		return nil, errors.New(errors.ErrorTypeConfig, "delimiter must be a single character").
			WithDetail("delimiter", delimiter)
	}
	return a.parserOptions(ctx, path, csvparse.WithDelimiter(runes[0])), nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
