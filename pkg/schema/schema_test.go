package schema

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

var stockSchema = Schema{
	{Name: "name", Convert: String},
	{Name: "shares", Convert: Int},
	{Name: "price", Convert: Float},
}

func TestDecodeValues(t *testing.T) {
	rows := [][]string{{"a", "1", "1.5"}, {"b", "2", "3.0"}}
	want := [][]any{{"a", 1, 1.5}, {"b", 2, 3.0}}

	for i, row := range rows {
		got, err := DecodeValues(stockSchema, row)
		require.NoError(t, err)
		assert.Equal(t, want[i], got)
	}
}

func TestDecode(t *testing.T) {
	rec, err := Decode(stockSchema, []string{"IBM", "50", "91.1"})
	require.NoError(t, err)
	assert.Equal(t, Record{"name": "IBM", "shares": 50, "price": 91.1}, rec)
}

func TestDecodeTruncation(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Record
	}{
		{"extra fields ignored", []string{"IBM", "50", "91.1", "junk"}, Record{"name": "IBM", "shares": 50, "price": 91.1}},
		{"missing trailing columns omitted", []string{"IBM", "50"}, Record{"name": "IBM", "shares": 50}},
		{"empty row", nil, Record{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(stockSchema, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeConversionError(t *testing.T) {
	_, err := DecodeValues(stockSchema, []string{"IBM", "x", "91.1"})
	require.Error(t, err)

	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))
	column, ok := errors.DetailOf(err, "column")
	require.True(t, ok)
	assert.Equal(t, 1, column)
	field, _ := errors.DetailOf(err, "field")
	assert.Equal(t, "shares", field)
	value, _ := errors.DetailOf(err, "value")
	assert.Equal(t, "x", value)
}

func TestNilConverterPassesRaw(t *testing.T) {
	got, err := DecodeValues(Schema{{Name: "raw"}}, []string{"keep"})
	require.NoError(t, err)
	assert.Equal(t, []any{"keep"}, got)
}

func TestFromHeaders(t *testing.T) {
	s := FromHeaders([]string{"route", "date", "daytype", "rides"}, []Converter{String, String})
	assert.Equal(t, []string{"route", "date"}, s.Names())
}

func TestParseTypes(t *testing.T) {
	converters, err := ParseTypes("str, int,float,decimal")
	require.NoError(t, err)
	require.Len(t, converters, 4)

	v, err := converters[3]("12.50")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(v.(decimal.Decimal)))

	_, err = ParseTypes("str,complex")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	none, err := ParseTypes("")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestConverters(t *testing.T) {
	tests := []struct {
		name    string
		conv    Converter
		raw     string
		want    any
		wantErr bool
	}{
		{"int", Int, " 42 ", 42, false},
		{"int bad", Int, "4.2", nil, true},
		{"float", Float, "3.25", 3.25, false},
		{"float bad", Float, "abc", nil, true},
		{"bool", Bool, "true", true, false},
		{"bool bad", Bool, "maybe", nil, true},
		{"string", String, " as-is ", " as-is ", false},
		{"intern", Intern, "U", "U", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.conv(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
