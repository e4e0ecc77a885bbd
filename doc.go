// Package tabula reads CSV data into typed records or columns and renders
// them as text, CSV or HTML tables.
//
// # Quick Start
//
// Parse a CSV file into typed records and print selected columns:
//
//	import (
//	    "os"
//	    "github.com/ajitpratap0/tabula/pkg/csvparse"
//	    "github.com/ajitpratap0/tabula/pkg/schema"
//	    "github.com/ajitpratap0/tabula/pkg/tableformat"
//	)
//
//	p := csvparse.New[schema.Record](csvparse.NewDictBuilder(schema.String, schema.Int, schema.Float))
//	records, err := p.ParseFile("portfolio.csv")
//	if err != nil {
//	    return err
//	}
//
//	f, err := tableformat.New(tableformat.FormatText, os.Stdout, tableformat.Options{
//	    ColumnFormats: []string{"%s", "%d", "%0.2f"},
//	    UpperHeaders:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	err = tableformat.PrintTable(records, []string{"name", "shares", "price"}, f)
//
// # Key Packages
//
//	pkg/schema       - Column converters, row decoding and type inference
//	pkg/csvparse     - CSV parser with pluggable record builders
//	pkg/columnar     - Column-oriented record collection with Arrow export
//	pkg/tableformat  - Table formatters, decorators and PrintTable
//	pkg/compression  - Streaming codecs chosen by file extension
//	pkg/rides        - Bus ridership records and analysis
//	pkg/portfolio    - Stock holdings and portfolio reports
//	pkg/memprofile   - Memory comparison of record representations
//	pkg/config       - YAML and environment configuration
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus metrics
//	pkg/observability - Tracing
//
// # Record Representations
//
// The same rows can be held in several shapes, trading convenience for
// memory:
//   - Positional values ([]any)
//   - Maps keyed by column name (schema.Record)
//   - Structs built by a RowDecoder
//   - Columns (columnar.Collection), optionally with interned strings
//   - Arrow record batches
//
// The memory command of cmd/tabula loads a file in each shape and reports the
// retained heap per record.
//
// # Configuration
//
// cmd/tabula reads an optional YAML file given with --config. Every key can be
// overridden by an environment variable with the TABULA_ prefix, for example
// TABULA_TABLE_FORMAT=html. ${VAR_NAME} references inside the file are
// expanded before parsing.
package tabula
