// Package rides loads daily bus ridership records and answers questions about
// them: how many routes exist, how many people rode a route on a date, the
// total rides per route and which routes grew the most between two years.
//
// The same file can be loaded in several in-memory representations
// (positional tuples, maps, structs, pointers to structs, columns, Arrow) so
// their memory footprint can be compared.
package rides

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/tabula/pkg/columnar"
	"github.com/ajitpratap0/tabula/pkg/csvparse"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/schema"
)

// Headers are the column names of a ridership file
var Headers = []string{"route", "date", "daytype", "rides"}

// Ride is one day of ridership on one route
type Ride struct {
	Route   string `table:"route" json:"route"`
	Date    string `table:"date" json:"date"`
	DayType string `table:"daytype" json:"daytype"`
	Rides   int    `table:"rides" json:"rides"`
}

// FromRow builds a Ride from route, date, daytype and rides fields
func (Ride) FromRow(row []string) (Ride, error) {
	if len(row) < len(Headers) {
		return Ride{}, errors.New(errors.ErrorTypeData, "ride row has too few fields").
			WithDetail("fields", len(row))
	}
	n, err := strconv.Atoi(row[3])
	if err != nil {
		return Ride{}, errors.Wrap(err, errors.ErrorTypeConversion, "cannot convert value").
			WithDetail("column", 3).
			WithDetail("field", "rides").
			WithDetail("value", row[3])
	}
	return Ride{Route: row[0], Date: row[1], DayType: row[2], Rides: n}, nil
}

// Converters returns the column converters of a ridership file. With intern
// set the repeated string columns share one copy of each distinct value.
func Converters(intern bool) []schema.Converter {
	str := schema.String
	if intern {
		str = schema.Intern
	}
	return []schema.Converter{str, str, str, schema.Int}
}

// ReadTuples loads every row as positional values
func ReadTuples(path string, opts ...csvparse.Option) ([][]any, error) {
	return csvparse.New[[]any](csvparse.NewValuesBuilder(Converters(false)...), opts...).ParseFile(path)
}

// ReadMaps loads every row as a record keyed by column name
func ReadMaps(path string, opts ...csvparse.Option) ([]schema.Record, error) {
	return csvparse.New[schema.Record](csvparse.NewDictBuilder(Converters(false)...), opts...).ParseFile(path)
}

// ReadStructs loads every row as a Ride value
func ReadStructs(path string, opts ...csvparse.Option) ([]Ride, error) {
	return csvparse.New[Ride](csvparse.NewInstanceBuilder[Ride](Ride{}), opts...).ParseFile(path)
}

// ReadPointers loads every row as a separately allocated Ride
func ReadPointers(path string, opts ...csvparse.Option) ([]*Ride, error) {
	build := csvparse.BuilderFunc[*Ride](func(_ []string, row []string) (*Ride, error) {
		r, err := Ride{}.FromRow(row)
		if err != nil {
			return nil, err
		}
		return &r, nil
	})
	return csvparse.New[*Ride](build, opts...).ParseFile(path)
}

// ReadColumns loads the file into a columnar collection
func ReadColumns(path string, intern bool, opts ...csvparse.Option) (*columnar.Collection, error) {
	return csvparse.ReadColumnsFile(path, Converters(intern), opts...)
}

// Representation loads a file in one in-memory layout and reports how many
// records it holds
type Representation struct {
	Name string
	Load func(path string) (any, int, error)
}

// Representations lists every supported layout in a stable order
func Representations(opts ...csvparse.Option) []Representation {
	return []Representation{
		{"tuples", func(path string) (any, int, error) {
			v, err := ReadTuples(path, opts...)
			return v, len(v), err
		}},
		{"maps", func(path string) (any, int, error) {
			v, err := ReadMaps(path, opts...)
			return v, len(v), err
		}},
		{"structs", func(path string) (any, int, error) {
			v, err := ReadStructs(path, opts...)
			return v, len(v), err
		}},
		{"pointers", func(path string) (any, int, error) {
			v, err := ReadPointers(path, opts...)
			return v, len(v), err
		}},
		{"columns", func(path string) (any, int, error) {
			c, err := ReadColumns(path, false, opts...)
			if err != nil {
				return nil, 0, err
			}
			return c, c.Len(), nil
		}},
		{"columns-interned", func(path string) (any, int, error) {
			c, err := ReadColumns(path, true, opts...)
			if err != nil {
				return nil, 0, err
			}
			return c, c.Len(), nil
		}},
		{"arrow", func(path string) (any, int, error) {
			c, err := ReadColumns(path, false, opts...)
			if err != nil {
				return nil, 0, err
			}
			rec, err := c.ToArrow(memory.NewGoAllocator())
			if err != nil {
				return nil, 0, err
			}
			return rec, int(rec.NumRows()), nil
		}},
	}
}
