package csvparse

import (
	"io"

	"github.com/ajitpratap0/tabula/pkg/columnar"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/schema"
)

// Columns decodes r with converters and appends every row to c. Each field of
// c must name a header that has a converter. A rejected append carries the
// source row.
func Columns(r io.Reader, converters []schema.Converter, c *columnar.Collection, opts ...Option) error {
	p := New[schema.Record](NewDictBuilder(converters...), opts...)
	return p.parse(r, nil, appendTo(c))
}

// ReadColumns decodes r into a new collection whose fields are the headers
// that have a converter
func ReadColumns(r io.Reader, converters []schema.Converter, opts ...Option) (*columnar.Collection, error) {
	p := New[schema.Record](NewDictBuilder(converters...), opts...)

	var (
		c   *columnar.Collection
		add func(schema.Record, int) error
	)
	err := p.parse(r, func(headers []string) error {
		names := headers
		if len(converters) > 0 {
			names = schema.FromHeaders(headers, converters).Names()
		}
		c = columnar.New(names...)
		add = appendTo(c)
		return nil
	}, func(rec schema.Record, row int) error {
		return add(rec, row)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ReadColumnsFile is ReadColumns over a file opened with OpenFile
func ReadColumnsFile(path string, converters []schema.Converter, opts ...Option) (*columnar.Collection, error) {
	rc, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only

	return ReadColumns(rc, converters, opts...)
}

func appendTo(c *columnar.Collection) func(schema.Record, int) error {
	return func(rec schema.Record, row int) error {
		if err := c.Append(rec); err != nil {
			if e, ok := err.(*errors.Error); ok {
				return e.WithDetail("row", row)
			}
			return err
		}
		return nil
	}
}
