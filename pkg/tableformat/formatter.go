// Package tableformat renders rows as plain-text, CSV or HTML tables.
//
// A Formatter receives one Headings call followed by one Row call per record.
// Decorators wrap a formatter to upper-case the headings or to format each
// value with a per-column pattern, and New builds the decorated formatter for
// a registered format name:
//
//	f, err := tableformat.New("text", os.Stdout, tableformat.Options{
//	    ColumnFormats: []string{"%s", "%d", "%0.2f"},
//	    UpperHeaders:  true,
//	})
//	err = tableformat.PrintTable(portfolio, []string{"name", "shares", "price"}, f)
package tableformat

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/ajitpratap0/tabula/pkg/pool"
)

// Formatter emits a table one line at a time
type Formatter interface {
	Headings(names []string) error
	Row(values []any) error
}

// cellWidth is the right-aligned width of a text table cell
const cellWidth = 10

// TextFormatter writes right-aligned fixed-width columns with a dashed rule
// under the headings
type TextFormatter struct {
	w io.Writer
}

// NewText creates a text formatter writing to w
func NewText(w io.Writer) *TextFormatter {
	return &TextFormatter{w: w}
}

func (f *TextFormatter) Headings(names []string) error {
	if err := f.line(names); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.w, strings.Repeat(strings.Repeat("-", cellWidth)+" ", len(names)))
	return err
}

func (f *TextFormatter) Row(values []any) error {
	return f.line(stringify(values))
}

func (f *TextFormatter) line(cells []string) error {
	b := pool.GetBuffer()
	defer pool.PutBuffer(b)

	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%*s", cellWidth, c)
	}
	b.WriteByte('\n')
	_, err := f.w.Write(b.Bytes())
	return err
}

// CSVFormatter writes comma-joined lines. Values are not quoted.
type CSVFormatter struct {
	w io.Writer
}

// NewCSV creates a CSV formatter writing to w
func NewCSV(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Headings(names []string) error {
	_, err := fmt.Fprintln(f.w, strings.Join(names, ","))
	return err
}

func (f *CSVFormatter) Row(values []any) error {
	_, err := fmt.Fprintln(f.w, strings.Join(stringify(values), ","))
	return err
}

// HTMLFormatter writes one <tr> per line with escaped cell contents
type HTMLFormatter struct {
	w io.Writer
}

// NewHTML creates an HTML formatter writing to w
func NewHTML(w io.Writer) *HTMLFormatter {
	return &HTMLFormatter{w: w}
}

func (f *HTMLFormatter) Headings(names []string) error {
	return f.line("th", names)
}

func (f *HTMLFormatter) Row(values []any) error {
	return f.line("td", stringify(values))
}

func (f *HTMLFormatter) line(tag string, cells []string) error {
	b := pool.GetBuffer()
	defer pool.PutBuffer(b)

	b.WriteString("<tr> ")
	for _, c := range cells {
		fmt.Fprintf(b, "<%s>%s</%s> ", tag, html.EscapeString(c), tag)
	}
	b.WriteString("</tr>\n")
	_, err := f.w.Write(b.Bytes())
	return err
}

func stringify(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}
