package columnar

import (
	"fmt"
	"io"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/schema"
)

const avroBatchSize = 1000

var invalidAvroName = regexp.MustCompile(`[^A-Za-z0-9_]`)

type avroField struct {
	Name string `json:"name"`
	Type any    `json:"type"`
	Doc  string `json:"doc,omitempty"`
}

type avroRecord struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Fields []avroField `json:"fields"`
}

// AvroSchema maps the collection to an Avro record schema named name. Field
// names are sanitised to the Avro name grammar; the original header is kept
// in the field doc. Untyped and mixed columns become nullable strings.
func (c *Collection) AvroSchema(name string) (string, error) {
	rec := avroRecord{Type: "record", Name: avroName(name), Fields: make([]avroField, len(c.fields))}
	for i, f := range c.fields {
		field := avroField{Name: avroName(f.Name), Type: avroType(c.columns[i])}
		if field.Name != f.Name {
			field.Doc = f.Name
		}
		rec.Fields[i] = field
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode avro schema")
	}
	return string(data), nil
}

func avroName(s string) string {
	s = invalidAvroName.ReplaceAllString(s, "_")
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "_" + s
	}
	return s
}

func avroType(col Column) any {
	if col == nil {
		return []string{"null", "string"}
	}
	switch col.Type() {
	case ColumnTypeInt:
		return "long"
	case ColumnTypeFloat:
		return "double"
	case ColumnTypeBool:
		return "boolean"
	default:
		return []string{"null", "string"}
	}
}

// WriteAvro writes the collection to w as a snappy-compressed Avro object
// container file
func (c *Collection) WriteAvro(w io.Writer, name string) error {
	avroSchema, err := c.AvroSchema(name)
	if err != nil {
		return err
	}

	codec, err := goavro.NewCodec(avroSchema)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create avro codec")
	}

	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: goavro.CompressionSnappyLabel,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create avro writer")
	}

	batch := make([]any, 0, min(c.length, avroBatchSize))
	for i := 0; i < c.length; i++ {
		batch = append(batch, c.avroNative(i))
		if len(batch) == cap(batch) {
			if err := ocf.Append(batch); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write avro records").
					WithDetail("index", i)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := ocf.Append(batch); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write avro records")
		}
	}
	return nil
}

func (c *Collection) avroNative(i int) map[string]any {
	native := make(map[string]any, len(c.fields))
	for j, f := range c.fields {
		col := c.columns[j]
		name := avroName(f.Name)
		if col == nil {
			native[name] = nil
			continue
		}

		v := col.Get(i)
		switch col.Type() {
		case ColumnTypeInt:
			native[name] = int64(v.(int))
		case ColumnTypeFloat, ColumnTypeBool:
			native[name] = v
		default:
			switch s := v.(type) {
			case nil:
				native[name] = nil
			case string:
				native[name] = goavro.Union("string", s)
			default:
				native[name] = goavro.Union("string", fmt.Sprint(s))
			}
		}
	}
	return native
}

// ReadAvro loads an Avro object container file written by WriteAvro. Field
// names come from the writer schema, using the doc when it holds the
// original header.
func ReadAvro(r io.Reader) (*Collection, error) {
	ocf, err := goavro.NewOCFReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInput, "failed to open avro file")
	}

	var rec avroRecord
	if err := json.Unmarshal([]byte(ocf.Codec().Schema()), &rec); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInput, "unsupported avro schema")
	}

	names := make([]string, len(rec.Fields))
	for i, f := range rec.Fields {
		names[i] = f.Name
		if f.Doc != "" {
			names[i] = f.Doc
		}
	}
	c := New(names...)

	for ocf.Scan() {
		datum, err := ocf.Read()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInput, "failed to read avro record").
				WithDetail("index", c.Len())
		}
		m, ok := datum.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrorTypeData, "avro datum is not a record").
				WithDetail("index", c.Len())
		}

		out := make(schema.Record, len(rec.Fields))
		for i, f := range rec.Fields {
			out[names[i]] = fromAvroNative(m[f.Name])
		}
		if err := c.Append(out); err != nil {
			return nil, err
		}
	}
	if err := ocf.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInput, "failed to read avro file")
	}
	return c, nil
}

func fromAvroNative(v any) any {
	switch t := v.(type) {
	case int64:
		return int(t)
	case map[string]any:
		// single-branch union
		for _, inner := range t {
			return inner
		}
		return nil
	default:
		return v
	}
}
