package columnar

import (
	"fmt"
)

// ColumnType represents the data type of a column
type ColumnType int

const (
	// ColumnTypeAuto picks the column type from the first appended value
	ColumnTypeAuto ColumnType = iota
	ColumnTypeString
	ColumnTypeInt
	ColumnTypeFloat
	ColumnTypeBool
	// ColumnTypeAny holds values of any type, one interface slot each
	ColumnTypeAny
)

// String returns the type name
func (t ColumnType) String() string {
	switch t {
	case ColumnTypeAuto:
		return "auto"
	case ColumnTypeString:
		return "string"
	case ColumnTypeInt:
		return "int"
	case ColumnTypeFloat:
		return "float"
	case ColumnTypeBool:
		return "bool"
	default:
		return "any"
	}
}

// Column is the base interface for all column types. Check reports whether
// Append would accept a value; Append must not be called with a value Check
// rejected.
type Column interface {
	Type() ColumnType
	Len() int
	Get(i int) any
	Check(value any) error
	Append(value any)
	MemoryUsage() int64
}

// newColumn creates an empty column of the given type
func newColumn(t ColumnType) Column {
	switch t {
	case ColumnTypeString:
		return NewStringColumn()
	case ColumnTypeInt:
		return NewIntColumn()
	case ColumnTypeFloat:
		return NewFloatColumn()
	case ColumnTypeBool:
		return NewBoolColumn()
	default:
		return NewAnyColumn()
	}
}

// inferColumnType determines the column type from a value
func inferColumnType(value any) ColumnType {
	switch value.(type) {
	case string:
		return ColumnTypeString
	case int:
		return ColumnTypeInt
	case float64:
		return ColumnTypeFloat
	case bool:
		return ColumnTypeBool
	default:
		return ColumnTypeAny
	}
}

func typeMismatch(want ColumnType, got any) error {
	return fmt.Errorf("expected %s, got %T", want, got)
}

// dictionaryMinRows is the row count before a string column considers
// switching to dictionary encoding
const dictionaryMinRows = 128

// StringColumn stores string values, switching to dictionary encoding once
// fewer than half of the values are distinct.
type StringColumn struct {
	values []string
	// Dictionary encoding for repeated values
	dict      map[string]uint32
	dictVals  []string
	codes     []uint32
	dictMode  bool
	threshold float64
}

// NewStringColumn creates a new string column
func NewStringColumn() *StringColumn {
	return &StringColumn{
		values:    make([]string, 0, 64),
		threshold: 0.5,
	}
}

func (c *StringColumn) Type() ColumnType { return ColumnTypeString }

func (c *StringColumn) Len() int {
	if c.dictMode {
		return len(c.codes)
	}
	return len(c.values)
}

func (c *StringColumn) Get(i int) any {
	if c.dictMode {
		return c.dictVals[c.codes[i]]
	}
	return c.values[i]
}

func (c *StringColumn) Check(value any) error {
	if _, ok := value.(string); !ok {
		return typeMismatch(ColumnTypeString, value)
	}
	return nil
}

func (c *StringColumn) Append(value any) {
	str := value.(string)

	if c.dictMode {
		c.codes = append(c.codes, c.code(str))
		return
	}

	c.values = append(c.values, str)
	if len(c.values) == dictionaryMinRows && c.shouldUseDictionary() {
		c.convertToDictionary()
	}
}

// Dictionary reports whether the column is dictionary encoded
func (c *StringColumn) Dictionary() bool { return c.dictMode }

func (c *StringColumn) code(s string) uint32 {
	if code, ok := c.dict[s]; ok {
		return code
	}
	code := uint32(len(c.dictVals))
	c.dict[s] = code
	c.dictVals = append(c.dictVals, s)
	return code
}

func (c *StringColumn) shouldUseDictionary() bool {
	unique := make(map[string]struct{}, len(c.values))
	for _, v := range c.values {
		unique[v] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(len(c.values))
	return ratio < c.threshold
}

func (c *StringColumn) convertToDictionary() {
	c.dictMode = true
	c.dict = make(map[string]uint32)
	c.codes = make([]uint32, 0, cap(c.values))

	for _, v := range c.values {
		c.codes = append(c.codes, c.code(v))
	}

	// Clear values to free memory
	c.values = nil
}

func (c *StringColumn) MemoryUsage() int64 {
	var total int64

	if c.dictMode {
		for _, v := range c.dictVals {
			total += int64(len(v)) + 16 // bytes + string header
			total += 4 + 16             // map entry: code + key header
		}
		total += int64(len(c.codes) * 4)
		return total
	}

	for _, v := range c.values {
		total += int64(len(v))
		total += 16 // string header overhead
	}
	return total
}

// IntColumn stores int values
type IntColumn struct {
	values []int
}

// NewIntColumn creates a new integer column
func NewIntColumn() *IntColumn {
	return &IntColumn{values: make([]int, 0, 64)}
}

func (c *IntColumn) Type() ColumnType { return ColumnTypeInt }
func (c *IntColumn) Len() int         { return len(c.values) }
func (c *IntColumn) Get(i int) any    { return c.values[i] }

func (c *IntColumn) Check(value any) error {
	if _, ok := value.(int); !ok {
		return typeMismatch(ColumnTypeInt, value)
	}
	return nil
}

func (c *IntColumn) Append(value any) {
	c.values = append(c.values, value.(int))
}

func (c *IntColumn) MemoryUsage() int64 {
	return int64(len(c.values) * 8)
}

// FloatColumn stores floating point values
type FloatColumn struct {
	values []float64
}

// NewFloatColumn creates a new float column
func NewFloatColumn() *FloatColumn {
	return &FloatColumn{values: make([]float64, 0, 64)}
}

func (c *FloatColumn) Type() ColumnType { return ColumnTypeFloat }
func (c *FloatColumn) Len() int         { return len(c.values) }
func (c *FloatColumn) Get(i int) any    { return c.values[i] }

func (c *FloatColumn) Check(value any) error {
	if _, ok := value.(float64); !ok {
		return typeMismatch(ColumnTypeFloat, value)
	}
	return nil
}

func (c *FloatColumn) Append(value any) {
	c.values = append(c.values, value.(float64))
}

func (c *FloatColumn) MemoryUsage() int64 {
	return int64(len(c.values) * 8)
}

// BoolColumn stores boolean values bit-packed, 64 per word
type BoolColumn struct {
	values []uint64
	count  int
}

// NewBoolColumn creates a new boolean column
func NewBoolColumn() *BoolColumn {
	return &BoolColumn{values: make([]uint64, 0, 4)}
}

func (c *BoolColumn) Type() ColumnType { return ColumnTypeBool }
func (c *BoolColumn) Len() int         { return c.count }

func (c *BoolColumn) Get(i int) any {
	return c.values[i/64]&(1<<(i%64)) != 0
}

func (c *BoolColumn) Check(value any) error {
	if _, ok := value.(bool); !ok {
		return typeMismatch(ColumnTypeBool, value)
	}
	return nil
}

func (c *BoolColumn) Append(value any) {
	wordIndex := c.count / 64
	if wordIndex >= len(c.values) {
		c.values = append(c.values, 0)
	}
	if value.(bool) {
		c.values[wordIndex] |= 1 << (c.count % 64)
	}
	c.count++
}

func (c *BoolColumn) MemoryUsage() int64 {
	return int64(len(c.values) * 8)
}

// AnyColumn stores values of any type, e.g. decimals
type AnyColumn struct {
	values []any
}

// NewAnyColumn creates a new untyped column
func NewAnyColumn() *AnyColumn {
	return &AnyColumn{values: make([]any, 0, 64)}
}

func (c *AnyColumn) Type() ColumnType   { return ColumnTypeAny }
func (c *AnyColumn) Len() int           { return len(c.values) }
func (c *AnyColumn) Get(i int) any      { return c.values[i] }
func (c *AnyColumn) Check(any) error    { return nil }
func (c *AnyColumn) Append(value any)   { c.values = append(c.values, value) }
func (c *AnyColumn) MemoryUsage() int64 { return int64(len(c.values) * 16) }
