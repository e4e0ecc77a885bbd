package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/columnar"
	"github.com/ajitpratap0/tabula/pkg/csvparse"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/schema"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert CSV files to other formats",
	}
	cmd.AddCommand(newExportArrowCmd(a), newExportAvroCmd(a))
	return cmd
}

func newExportArrowCmd(a *app) *cobra.Command {
	var types string

	cmd := &cobra.Command{
		Use:   "arrow FILE OUT",
		Short: "Write a CSV file as an Arrow IPC file",
		Long: `Load a CSV file into columns and write them as an Arrow IPC file. Without
--types every column is exported as a string. An OUT path ending in .gz, .zst,
.lz4, .sz or .s2 is compressed with the matching codec.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.export(cmd, args[0], args[1], types, func(c *columnar.Collection, w io.Writer) error {
				return c.WriteArrow(w)
			})
		},
	}
	cmd.Flags().StringVarP(&types, "types", "t", "", "Comma-separated column types")
	return cmd
}

func newExportAvroCmd(a *app) *cobra.Command {
	var types, name string

	cmd := &cobra.Command{
		Use:   "avro FILE OUT",
		Short: "Write a CSV file as an Avro object container file",
		Long: `Load a CSV file into columns and write them as a snappy-compressed Avro
object container file. Header names outside the Avro name grammar are
sanitised; the original header is kept in the field doc.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record := name
			if record == "" {
				record = recordName(args[0])
			}
			return a.export(cmd, args[0], args[1], types, func(c *columnar.Collection, w io.Writer) error {
				return c.WriteAvro(w, record)
			})
		},
	}
	cmd.Flags().StringVarP(&types, "types", "t", "", "Comma-separated column types")
	cmd.Flags().StringVar(&name, "name", "", "Avro record name (default from FILE)")
	return cmd
}

// export loads src into columns and hands them to write with dst opened
func (a *app) export(cmd *cobra.Command, src, dst, types string, write func(*columnar.Collection, io.Writer) error) error {
	return a.run(cmd, func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("path", src)
		span.SetAttribute("out", dst)

		converters, err := schema.ParseTypes(types)
		if err != nil {
			return err
		}
		c, err := csvparse.ReadColumnsFile(src, converters, a.parserOptions(ctx, src)...)
		if err != nil {
			return err
		}
		span.SetAttribute("rows", c.Len())

		out, err := csvparse.CreateFile(dst)
		if err != nil {
			return err
		}
		if err := write(c, out); err != nil {
			_ = out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to close output file").
				WithDetail("path", dst)
		}
		a.log.Debug("exported file", zap.String("out", dst), zap.Int("rows", c.Len()))
		return nil
	})
}

// recordName derives a record name from a file name: ctabus.csv.gz -> ctabus
func recordName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
