package csvparse

import (
	"slices"
	"sync/atomic"

	"github.com/ajitpratap0/tabula/pkg/schema"
)

// Builder turns one raw row into a record. headers are the column names read
// from the source (or supplied with WithHeaders).
type Builder[T any] interface {
	Build(headers []string, row []string) (T, error)
}

// BuilderFunc adapts a function to the Builder interface
type BuilderFunc[T any] func(headers []string, row []string) (T, error)

// Build calls f
func (f BuilderFunc[T]) Build(headers []string, row []string) (T, error) {
	return f(headers, row)
}

// DictBuilder produces a schema.Record per row, one entry per column, by
// pairing headers with converters positionally. With no converters every
// column is kept as a string. The schema is built once per header row.
type DictBuilder struct {
	converters []schema.Converter
	cached     atomic.Pointer[headerSchema]
}

type headerSchema struct {
	headers []string
	schema  schema.Schema
}

// NewDictBuilder creates a DictBuilder for the given column converters
func NewDictBuilder(converters ...schema.Converter) *DictBuilder {
	return &DictBuilder{converters: converters}
}

// Build decodes row into a record keyed by header name
func (b *DictBuilder) Build(headers []string, row []string) (schema.Record, error) {
	return schema.Decode(b.schema(headers), row)
}

func (b *DictBuilder) schema(headers []string) schema.Schema {
	if c := b.cached.Load(); c != nil && slices.Equal(c.headers, headers) {
		return c.schema
	}

	var s schema.Schema
	if len(b.converters) == 0 {
		s = make(schema.Schema, len(headers))
		for i, h := range headers {
			s[i] = schema.Column{Name: h, Convert: schema.String}
		}
	} else {
		s = schema.FromHeaders(headers, b.converters)
	}
	b.cached.Store(&headerSchema{headers: slices.Clone(headers), schema: s})
	return s
}

// ValuesBuilder produces positional values per row, the tuple representation
type ValuesBuilder struct {
	converters []schema.Converter
}

// NewValuesBuilder creates a ValuesBuilder for the given column converters
func NewValuesBuilder(converters ...schema.Converter) *ValuesBuilder {
	return &ValuesBuilder{converters: converters}
}

// Build decodes row into positional values
func (b *ValuesBuilder) Build(headers []string, row []string) ([]any, error) {
	if len(b.converters) == 0 {
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		return values, nil
	}
	return schema.DecodeValues(schema.FromHeaders(headers, b.converters), row)
}

// RowDecoder is implemented by record types that know how to construct
// themselves from a raw row. The zero value of a type usually serves as the
// decoder, e.g. portfolio.Stock{}.
type RowDecoder[T any] interface {
	FromRow(row []string) (T, error)
}

// InstanceBuilder delegates record construction entirely to a RowDecoder
type InstanceBuilder[T any] struct {
	decoder RowDecoder[T]
}

// NewInstanceBuilder creates an InstanceBuilder for decoder
func NewInstanceBuilder[T any](decoder RowDecoder[T]) *InstanceBuilder[T] {
	return &InstanceBuilder[T]{decoder: decoder}
}

// Build ignores the headers and calls FromRow
func (b *InstanceBuilder[T]) Build(_ []string, row []string) (T, error) {
	return b.decoder.FromRow(row)
}
