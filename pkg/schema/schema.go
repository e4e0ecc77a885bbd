// Package schema describes the columns of a CSV file and decodes raw rows into
// typed values.
//
// A Schema is an ordered list of columns, each pairing a name with a Converter
// that turns the raw string field into a typed value:
//
//	s := schema.Schema{
//	    {Name: "name", Convert: schema.String},
//	    {Name: "shares", Convert: schema.Int},
//	    {Name: "price", Convert: schema.Float},
//	}
//	rec, err := schema.Decode(s, []string{"IBM", "50", "91.1"})
//
// Pairing is positional and stops at the shorter of the schema and the row:
// extra trailing fields are ignored and missing trailing columns are omitted
// from the record.
package schema

import (
	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Converter turns one raw field into a typed value. It must be deterministic
// and return an error for malformed input.
type Converter func(raw string) (any, error)

// Column is a named converter
type Column struct {
	Name    string
	Convert Converter
}

// Schema is an ordered sequence of columns
type Schema []Column

// Record is a decoded row keyed by column name
type Record map[string]any

// Names returns the column names in order
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// FromHeaders zips header names with converters. Extra headers or converters
// beyond the shorter list are dropped.
func FromHeaders(headers []string, converters []Converter) Schema {
	n := min(len(headers), len(converters))
	s := make(Schema, n)
	for i := 0; i < n; i++ {
		s[i] = Column{Name: headers[i], Convert: converters[i]}
	}
	return s
}

// Decode converts raw into a Record keyed by column name
func Decode(s Schema, raw []string) (Record, error) {
	n := min(len(s), len(raw))
	rec := make(Record, n)
	for i := 0; i < n; i++ {
		v, err := convert(s[i], i, raw[i])
		if err != nil {
			return nil, err
		}
		rec[s[i].Name] = v
	}
	return rec, nil
}

// DecodeValues converts raw into positional values
func DecodeValues(s Schema, raw []string) ([]any, error) {
	n := min(len(s), len(raw))
	values := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := convert(s[i], i, raw[i])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func convert(c Column, index int, raw string) (any, error) {
	if c.Convert == nil {
		return raw, nil
	}
	v, err := c.Convert(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConversion, "cannot convert value").
			WithDetail("column", index).
			WithDetail("field", c.Name).
			WithDetail("value", raw)
	}
	return v, nil
}
