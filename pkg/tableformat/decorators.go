package tableformat

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/metrics"
)

type upperHeaders struct {
	Formatter
	caser cases.Caser
}

// UpperHeaders upper-cases every heading before passing it to inner. Rows
// pass through unchanged.
func UpperHeaders(inner Formatter) Formatter {
	return &upperHeaders{Formatter: inner, caser: cases.Upper(language.Und)}
}

func (u *upperHeaders) Headings(names []string) error {
	upper := make([]string, len(names))
	for i, n := range names {
		upper[i] = u.caser.String(n)
	}
	return u.Formatter.Headings(upper)
}

type columnFormat struct {
	Formatter
	patterns []string
}

// ColumnFormat renders each row value with the fmt pattern at the same
// position (e.g. "%d", "%0.2f") before passing the strings to inner. A row
// whose length differs from the number of patterns is a configuration error.
func ColumnFormat(inner Formatter, patterns ...string) Formatter {
	return &columnFormat{Formatter: inner, patterns: append([]string(nil), patterns...)}
}

func (c *columnFormat) Row(values []any) error {
	if len(values) != len(c.patterns) {
		return errors.New(errors.ErrorTypeConfig, "column format count does not match row").
			WithDetail("formats", len(c.patterns)).
			WithDetail("values", len(values))
	}
	formatted := make([]any, len(values))
	for i, v := range values {
		formatted[i] = fmt.Sprintf(c.patterns[i], formatArg(c.patterns[i], v))
	}
	return c.Formatter.Row(formatted)
}

// formatArg adapts decimals, which do not implement fmt.Formatter, to the
// floating point verbs and %d. Any other verb sees the decimal's string form.
func formatArg(pattern string, v any) any {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return v
	}
	switch verbOf(pattern) {
	case 'e', 'E', 'f', 'F', 'g', 'G':
		f, _ := d.Float64()
		return f
	case 'd':
		if d.Equal(d.Truncate(0)) {
			return d.IntPart()
		}
	}
	return d.String()
}

// verbOf returns the verb of the last directive in pattern, or 0
func verbOf(pattern string) byte {
	i := strings.LastIndexByte(pattern, '%')
	if i < 0 {
		return 0
	}
	j := i + 1
	for j < len(pattern) && strings.IndexByte("+-# 0123456789.", pattern[j]) >= 0 {
		j++
	}
	if j == len(pattern) {
		return 0
	}
	return pattern[j]
}

// counting reports every rendered row to a metrics collector
type counting struct {
	Formatter
	format  string
	metrics *metrics.Collector
}

func (c *counting) Row(values []any) error {
	if err := c.Formatter.Row(values); err != nil {
		return err
	}
	c.metrics.RowsRendered(c.format, 1)
	return nil
}
