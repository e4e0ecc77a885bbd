package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/pool"
)

// String returns the raw field unchanged
func String(raw string) (any, error) {
	return raw, nil
}

// Int parses a base-10 integer
func Int(raw string) (any, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Float parses a 64-bit float
func Float(raw string) (any, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Bool parses the forms accepted by strconv.ParseBool
func Bool(raw string) (any, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Decimal parses an arbitrary-precision decimal
func Decimal(raw string) (any, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Intern returns the raw field through the global string intern pool
func Intern(raw string) (any, error) {
	return pool.InternString(raw), nil
}

var converterNames = map[string]Converter{
	"str":     String,
	"string":  String,
	"int":     Int,
	"float":   Float,
	"bool":    Bool,
	"decimal": Decimal,
	"intern":  Intern,
}

// Lookup returns the converter registered under name
func Lookup(name string) (Converter, error) {
	c, ok := converterNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.New(errors.ErrorTypeConfig, "unknown column type").
			WithDetail("type", name).
			WithDetail("supported", ConverterNames())
	}
	return c, nil
}

// ParseTypes resolves a comma-separated list such as "str,int,float"
func ParseTypes(list string) ([]Converter, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	converters := make([]Converter, len(parts))
	for i, p := range parts {
		c, err := Lookup(p)
		if err != nil {
			return nil, err
		}
		converters[i] = c
	}
	return converters, nil
}

// ConverterNames lists the names accepted by Lookup
func ConverterNames() []string {
	names := make([]string, 0, len(converterNames))
	for n := range converterNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
