package columnar

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// ArrowSchema maps the collection's columns to an Arrow schema. Untyped and
// mixed columns are exported as strings.
func (c *Collection) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(c.fields))
	for i, f := range c.fields {
		fields[i] = arrow.Field{Name: f.Name, Type: arrowType(c.columns[i])}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(col Column) arrow.DataType {
	if col == nil {
		return arrow.BinaryTypes.String
	}
	switch col.Type() {
	case ColumnTypeInt:
		return arrow.PrimitiveTypes.Int64
	case ColumnTypeFloat:
		return arrow.PrimitiveTypes.Float64
	case ColumnTypeBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// ToArrow copies the collection into a single Arrow record batch. The caller
// must Release the returned record.
func (c *Collection) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	b := array.NewRecordBuilder(mem, c.ArrowSchema())
	defer b.Release()

	for i, col := range c.columns {
		if col == nil {
			continue
		}
		if err := appendArrowColumn(b.Field(i), col); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to build arrow column").
				WithDetail("field", c.fields[i].Name)
		}
	}

	return b.NewRecord(), nil
}

func appendArrowColumn(builder array.Builder, col Column) error {
	n := col.Len()
	switch fb := builder.(type) {
	case *array.Int64Builder:
		for i := 0; i < n; i++ {
			fb.Append(int64(col.Get(i).(int)))
		}
	case *array.Float64Builder:
		for i := 0; i < n; i++ {
			fb.Append(col.Get(i).(float64))
		}
	case *array.BooleanBuilder:
		for i := 0; i < n; i++ {
			fb.Append(col.Get(i).(bool))
		}
	case *array.StringBuilder:
		for i := 0; i < n; i++ {
			v := col.Get(i)
			if v == nil {
				fb.AppendNull()
				continue
			}
			if s, ok := v.(string); ok {
				fb.Append(s)
			} else {
				fb.Append(fmt.Sprint(v))
			}
		}
	default:
		return fmt.Errorf("unsupported arrow builder %T", builder)
	}
	return nil
}

// WriteArrow writes the collection to w as an Arrow IPC file
func (c *Collection) WriteArrow(w io.Writer) error {
	mem := memory.NewGoAllocator()

	rec, err := c.ToArrow(mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create arrow writer")
	}

	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write record batch")
	}

	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close arrow writer")
	}
	return nil
}
