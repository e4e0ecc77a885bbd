package csvparse

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/tabula/pkg/columnar"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/schema"
	"github.com/ajitpratap0/tabula/pkg/testutil"
)

const portfolioCSV = "name,shares,price\nAA,100,32.20\nIBM,50,91.10\n"

var stockTypes = []schema.Converter{schema.String, schema.Int, schema.Float}

type holding struct {
	Name   string
	Shares int
	Price  float64
}

func (holding) FromRow(row []string) (holding, error) {
	shares, err := strconv.Atoi(row[1])
	if err != nil {
		return holding{}, err
	}
	price, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return holding{}, err
	}
	return holding{Name: row[0], Shares: shares, Price: price}, nil
}

func TestDictBuilder(t *testing.T) {
	p := New[schema.Record](NewDictBuilder(stockTypes...))

	records, err := p.Parse(strings.NewReader(portfolioCSV))
	require.NoError(t, err)

	assert.Equal(t, []schema.Record{
		{"name": "AA", "shares": 100, "price": 32.2},
		{"name": "IBM", "shares": 50, "price": 91.1},
	}, records)
}

func TestDictBuilderWithoutConverters(t *testing.T) {
	p := New[schema.Record](NewDictBuilder())

	records, err := p.Parse(strings.NewReader(portfolioCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, schema.Record{"name": "AA", "shares": "100", "price": "32.20"}, records[0])
}

func TestDictBuilderCachesSchema(t *testing.T) {
	b := NewDictBuilder(stockTypes...)
	headers := []string{"name", "shares", "price"}

	first := b.schema(headers)
	second := b.schema(headers)
	assert.Same(t, &first[0], &second[0])

	other := b.schema([]string{"ticker", "qty", "px"})
	assert.Equal(t, []string{"ticker", "qty", "px"}, other.Names())
}

func TestDictBuilderFollowsNewHeaders(t *testing.T) {
	p := New[schema.Record](NewDictBuilder(stockTypes...))

	_, err := p.Parse(strings.NewReader(portfolioCSV))
	require.NoError(t, err)
	records, err := p.Parse(strings.NewReader("ticker,qty,px\nAA,100,32.20\n"))
	require.NoError(t, err)
	assert.Equal(t, []schema.Record{{"ticker": "AA", "qty": 100, "px": 32.2}}, records)
}

func TestInstanceBuilder(t *testing.T) {
	p := New[holding](NewInstanceBuilder[holding](holding{}))

	records, err := p.Parse(strings.NewReader(portfolioCSV))
	require.NoError(t, err)
	assert.Equal(t, []holding{{"AA", 100, 32.2}, {"IBM", 50, 91.1}}, records)
}

func TestValuesBuilder(t *testing.T) {
	p := New[[]any](NewValuesBuilder(stockTypes...))

	records, err := p.Parse(strings.NewReader(portfolioCSV))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"AA", 100, 32.2}, {"IBM", 50, 91.1}}, records)
}

func TestBuilderFunc(t *testing.T) {
	names := BuilderFunc[string](func(_ []string, row []string) (string, error) {
		return row[0], nil
	})

	records, err := New[string](names).Parse(strings.NewReader(portfolioCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"AA", "IBM"}, records)
}

func TestWithHeaders(t *testing.T) {
	p := New[schema.Record](NewDictBuilder(stockTypes...), WithHeaders("name", "shares", "price"))

	records, err := p.Parse(strings.NewReader("AA,100,32.20\n"))
	require.NoError(t, err)
	assert.Equal(t, []schema.Record{{"name": "AA", "shares": 100, "price": 32.2}}, records)

	none, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWithDelimiter(t *testing.T) {
	p := New[schema.Record](NewDictBuilder(stockTypes...), WithDelimiter(';'))

	records, err := p.Parse(strings.NewReader("name;shares;price\nAA;100;32.20\n"))
	require.NoError(t, err)
	assert.Equal(t, []schema.Record{{"name": "AA", "shares": 100, "price": 32.2}}, records)
}

func TestHeaderOnly(t *testing.T) {
	records, err := New[schema.Record](NewDictBuilder(stockTypes...)).
		Parse(strings.NewReader("name,shares,price\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEmptySource(t *testing.T) {
	_, err := New[schema.Record](NewDictBuilder()).Parse(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
}

func TestDecodeFailureCarriesRow(t *testing.T) {
	src := "name,shares,price\nAA,100,32.20\nIBM,fifty,91.10\nCAT,150,83.44\n"

	_, err := New[schema.Record](NewDictBuilder(stockTypes...)).Parse(strings.NewReader(src))
	require.Error(t, err)

	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))
	row, ok := errors.DetailOf(err, "row")
	require.True(t, ok)
	assert.Equal(t, 3, row)
	field, _ := errors.DetailOf(err, "field")
	assert.Equal(t, "shares", field)
}

func TestInstanceFailureIsConversionError(t *testing.T) {
	_, err := New[holding](NewInstanceBuilder[holding](holding{})).
		Parse(strings.NewReader("name,shares,price\nAA,x,1\n"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))
}

func TestMalformedCSV(t *testing.T) {
	_, err := New[schema.Record](NewDictBuilder()).
		Parse(strings.NewReader("name,shares\nAA,\"10\"0\n"))
	require.Error(t, err)

	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
	row, ok := errors.DetailOf(err, "row")
	require.True(t, ok)
	assert.Equal(t, 2, row)
}

func TestEachStopsOnCallbackError(t *testing.T) {
	stop := errors.New(errors.ErrorTypeData, "stop")
	seen := 0

	err := New[schema.Record](NewDictBuilder()).Each(strings.NewReader(portfolioCSV), func(schema.Record) error {
		seen++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, seen)
}

func TestParseFileCompressed(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "portfolio.csv")
	require.NoError(t, os.WriteFile(plain, []byte(portfolioCSV), 0o600))

	p := New[schema.Record](NewDictBuilder(stockTypes...))
	want, err := p.ParseFile(plain)
	require.NoError(t, err)
	require.Len(t, want, 2)

	tests := []struct {
		name     string
		file     string
		compress func(t *testing.T, data []byte) []byte
	}{
		{"gzip", "portfolio.csv.gz", func(t *testing.T, data []byte) []byte {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, err := zw.Write(data)
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			return buf.Bytes()
		}},
		{"zstd", "portfolio.csv.zst", func(t *testing.T, data []byte) []byte {
			enc, err := zstd.NewWriter(nil)
			require.NoError(t, err)
			defer enc.Close()
			return enc.EncodeAll(data, nil)
		}},
		{"lz4", "portfolio.csv.lz4", func(t *testing.T, data []byte) []byte {
			var buf bytes.Buffer
			zw := lz4.NewWriter(&buf)
			_, err := zw.Write(data)
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			return buf.Bytes()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, tt.compress(t, []byte(portfolioCSV)), 0o600))

			got, err := p.ParseFile(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseFileIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	p := New[schema.Record](NewDictBuilder(stockTypes...))

	for _, name := range []string{"portfolio.csv", "portfolio.csv.gz", "portfolio.csv.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			testutil.WriteFile(t, path, portfolioCSV)

			first, err := p.ParseFile(path)
			require.NoError(t, err)
			second, err := p.ParseFile(path)
			require.NoError(t, err)

			require.Len(t, first, 2)
			assert.Equal(t, first, second)
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := New[schema.Record](NewDictBuilder()).ParseFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
}

func TestCreateFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := New[schema.Record](NewDictBuilder(schema.String, schema.Int, schema.Float))

	for _, name := range []string{"out.csv", "out.csv.sz", "out.csv.s2", "out.csv.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			w, err := CreateFile(path)
			require.NoError(t, err)
			_, err = w.Write([]byte(portfolioCSV))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			got, err := p.ParseFile(path)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "IBM", got[1]["name"])
		})
	}
}

func TestCreateFileBadDir(t *testing.T) {
	_, err := CreateFile(filepath.Join(t.TempDir(), "missing", "out.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestReadColumns(t *testing.T) {
	c, err := ReadColumns(strings.NewReader(portfolioCSV), []schema.Converter{schema.String, schema.Int})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "shares"}, c.Fields())
	assert.Equal(t, 2, c.Len())
	rec, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, schema.Record{"name": "IBM", "shares": 50}, rec)
}

func TestReadColumnsShortRowCarriesRow(t *testing.T) {
	src := portfolioCSV + "CAT,150\n"

	_, err := ReadColumns(strings.NewReader(src), stockTypes)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
	row, ok := errors.DetailOf(err, "row")
	require.True(t, ok)
	assert.Equal(t, 4, row)

	c := columnar.New("name", "shares", "price")
	err = Columns(strings.NewReader(src), stockTypes, c)
	require.Error(t, err)
	row, _ = errors.DetailOf(err, "row")
	assert.Equal(t, 4, row)
	assert.Equal(t, 2, c.Len())
}

func TestMetricsAndLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.NewCollector("portfolio")
	p := New[schema.Record](NewDictBuilder(stockTypes...), WithLogger(zap.New(core)), WithMetrics(m))

	_, err := p.Parse(strings.NewReader(portfolioCSV))
	require.NoError(t, err)
	_, err = p.Parse(strings.NewReader(""))
	require.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `tabula_rows_parsed_total{component="portfolio"} 2`)
	assert.Contains(t, buf.String(), `tabula_parse_failures_total{component="portfolio",type="input"} 1`)

	entries := logs.FilterMessage("parsed source").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["rows"])
}
