package columnar

import (
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/schema"
)

// Schema defines the fields of a collection
type Schema struct {
	Fields []FieldSchema
}

// FieldSchema defines a single field in the schema
type FieldSchema struct {
	Name string
	Type ColumnType
}

// Collection stores records as one column per field. All columns always have
// the same length; the logical record at index i is the tuple of every
// column's value at i.
type Collection struct {
	fields  []FieldSchema
	columns []Column // nil entries until the first append fixes the type
	length  int
}

// New creates an empty collection whose column types are inferred from the
// first appended record
func New(fields ...string) *Collection {
	s := &Schema{Fields: make([]FieldSchema, len(fields))}
	for i, f := range fields {
		s.Fields[i] = FieldSchema{Name: f, Type: ColumnTypeAuto}
	}
	return NewWithSchema(s)
}

// NewWithSchema creates an empty collection with predefined column types
func NewWithSchema(s *Schema) *Collection {
	c := &Collection{
		fields:  append([]FieldSchema(nil), s.Fields...),
		columns: make([]Column, len(s.Fields)),
	}

	for i, field := range c.fields {
		if field.Type != ColumnTypeAuto {
			c.columns[i] = newColumn(field.Type)
		}
	}

	return c
}

// Fields returns the field names in column order
func (c *Collection) Fields() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.Name
	}
	return names
}

// Schema returns the fields with their resolved column types
func (c *Collection) Schema() *Schema {
	s := &Schema{Fields: make([]FieldSchema, len(c.fields))}
	for i, f := range c.fields {
		if c.columns[i] != nil {
			f.Type = c.columns[i].Type()
		}
		s.Fields[i] = f
	}
	return s
}

// Len returns the number of logical records
func (c *Collection) Len() int {
	return c.length
}

// Column returns the column holding the named field
func (c *Collection) Column(name string) (Column, bool) {
	for i, f := range c.fields {
		if f.Name == name && c.columns[i] != nil {
			return c.columns[i], true
		}
	}
	return nil, false
}

// Get reconstructs the record at index i
func (c *Collection) Get(i int) (schema.Record, error) {
	if err := c.checkIndex(i); err != nil {
		return nil, err
	}

	rec := make(schema.Record, len(c.fields))
	for j, f := range c.fields {
		rec[f.Name] = c.columns[j].Get(i)
	}
	return rec, nil
}

// Slice builds a new collection from the indices start, start+step, ... up to
// but excluding stop, the way a range with a step is walked. A negative step
// walks backwards; a zero step is rejected. Every produced index must be in
// [0, Len()).
func (c *Collection) Slice(start, stop, step int) (*Collection, error) {
	if step == 0 {
		return nil, errors.New(errors.ErrorTypeIndex, "slice step cannot be zero")
	}

	out := NewWithSchema(c.Schema())
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		rec, err := c.Get(i)
		if err != nil {
			return nil, err
		}
		if err := out.Append(rec); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Append adds one value per column taken from rec. Every field must be present
// and every value must fit its column; otherwise nothing is appended.
func (c *Collection) Append(rec schema.Record) error {
	values := make([]any, len(c.fields))
	for i, f := range c.fields {
		v, ok := rec[f.Name]
		if !ok {
			return errors.New(errors.ErrorTypeData, "record is missing a field").
				WithDetail("field", f.Name).
				WithDetail("index", c.length)
		}
		values[i] = v
	}

	pending := make([]Column, len(c.columns))
	for i, v := range values {
		col := c.columns[i]
		if col == nil {
			col = newColumn(inferColumnType(v))
		}
		if err := col.Check(v); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "value does not fit column").
				WithDetail("field", c.fields[i].Name).
				WithDetail("index", c.length)
		}
		pending[i] = col
	}

	for i, v := range values {
		pending[i].Append(v)
		c.columns[i] = pending[i]
	}
	c.length++
	return nil
}

// Records returns every logical record in order
func (c *Collection) Records() []schema.Record {
	out := make([]schema.Record, c.length)
	for i := range out {
		out[i], _ = c.Get(i)
	}
	return out
}

// MemoryUsage returns an estimate of the bytes held by the columns
func (c *Collection) MemoryUsage() int64 {
	var total int64

	total += 64 // Base struct overhead
	for i, f := range c.fields {
		total += int64(len(f.Name)) + 16
		if c.columns[i] != nil {
			total += c.columns[i].MemoryUsage()
		}
	}
	return total
}

// MemoryPerRecord returns average memory usage per record
func (c *Collection) MemoryPerRecord() float64 {
	if c.length == 0 {
		return 0
	}
	return float64(c.MemoryUsage()) / float64(c.length)
}

func (c *Collection) checkIndex(i int) error {
	if i < 0 || i >= c.length {
		return errors.New(errors.ErrorTypeIndex, "index out of range").
			WithDetail("index", i).
			WithDetail("length", c.length)
	}
	return nil
}
