package schema

import (
	"strconv"
	"strings"
)

// Inferred type names, matching the names accepted by Lookup
const (
	TypeString = "str"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
)

// InferTypes guesses a converter name per column from rows. A column is only
// given a numeric or boolean type when every value parses as that type, so
// the chosen converters never reject the rows they were inferred from.
// Mixed int and float values infer float; anything else falls back to str.
func InferTypes(rows [][]string, columns int) []string {
	types := make([]string, columns)
	for col := 0; col < columns; col++ {
		types[col] = inferColumn(rows, col)
	}
	return types
}

// Infer builds a Schema from headers and rows
func Infer(headers []string, rows [][]string) (Schema, []string) {
	types := InferTypes(rows, len(headers))
	s := make(Schema, len(headers))
	for i, h := range headers {
		s[i] = Column{Name: h, Convert: converterNames[types[i]]}
	}
	return s, types
}

func inferColumn(rows [][]string, col int) string {
	var ints, floats, bools, seen int
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		seen++
		switch detectValueType(strings.TrimSpace(row[col])) {
		case TypeInt:
			ints++
		case TypeFloat:
			floats++
		case TypeBool:
			bools++
		}
	}

	switch {
	case seen == 0:
		return TypeString
	case ints == seen:
		return TypeInt
	case ints+floats == seen:
		return TypeFloat
	case bools == seen:
		return TypeBool
	default:
		return TypeString
	}
}

func detectValueType(s string) string {
	if _, err := strconv.Atoi(s); err == nil {
		return TypeInt
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return TypeFloat
	}
	lower := strings.ToLower(s)
	if lower == "true" || lower == "false" {
		return TypeBool
	}
	return TypeString
}
