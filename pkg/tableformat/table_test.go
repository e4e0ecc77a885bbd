package tableformat

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/columnar"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/schema"
)

type position struct {
	Name   string
	Shares int
	Price  float64 `table:"unit_price"`
	secret string
}

func (p position) Cost() float64 { return float64(p.Shares) * p.Price }

func TestPrintTableMaps(t *testing.T) {
	var buf bytes.Buffer
	records := []schema.Record{
		{"name": "AA", "shares": 100, "price": 32.2},
		{"name": "IBM", "shares": 50, "price": 91.1},
	}

	require.NoError(t, PrintTable(records, []string{"name", "shares"}, NewCSV(&buf)))
	assert.Equal(t, "name,shares\nAA,100\nIBM,50\n", buf.String())
}

func TestPrintTableStructs(t *testing.T) {
	var buf bytes.Buffer
	records := []*position{{Name: "IBM", Shares: 50, Price: 91.1}}

	f := ColumnFormat(NewCSV(&buf), "%s", "%d", "%0.2f", "%0.2f")
	require.NoError(t, PrintTable(records, []string{"name", "shares", "unit_price", "cost"}, f))
	assert.Equal(t, "name,shares,unit_price,cost\nIBM,50,91.10,4555.00\n", buf.String())
}

func TestPrintTableColumnarRows(t *testing.T) {
	c := columnar.New("route", "rides")
	require.NoError(t, c.Append(schema.Record{"route": "22", "rides": 7877}))

	var buf bytes.Buffer
	require.NoError(t, PrintTable(c.Rows(), []string{"route", "rides"}, NewCSV(&buf)))
	assert.Equal(t, "route,rides\n22,7877\n", buf.String())
}

func TestPrintTableMissingAttribute(t *testing.T) {
	tests := []struct {
		name    string
		records []any
		attr    string
	}{
		{"map", []any{schema.Record{"name": "AA"}}, "shares"},
		{"struct", []any{position{Name: "AA"}}, "volume"},
		{"tag hides field name", []any{position{Name: "AA"}}, "price"},
		{"unexported field", []any{position{Name: "AA"}}, "secret"},
		{"nil pointer", []any{(*position)(nil)}, "name"},
		{"scalar", []any{42}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PrintTable(tt.records, []string{tt.attr}, NewCSV(io.Discard))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeData))
			attr, _ := errors.DetailOf(err, "attribute")
			assert.Equal(t, tt.attr, attr)
		})
	}
}

func TestPrintTableRequiresFormatter(t *testing.T) {
	tests := []struct {
		name string
		f    Formatter
	}{
		{"nil", nil},
		{"typed nil text", (*TextFormatter)(nil)},
		{"typed nil html", (*HTMLFormatter)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				err = PrintTable([]schema.Record{{"a": 1}}, []string{"a"}, tt.f)
			})
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestPrintTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable([]schema.Record(nil), []string{"name"}, NewCSV(&buf)))
	assert.Equal(t, "name\n", buf.String())
}
