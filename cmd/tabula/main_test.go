package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/columnar"
	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/testutil"
)

const portfolioCSV = "name,shares,price\nAA,100,32.20\nIBM,50,91.10\n"

const ridesCSV = `route,date,daytype,rides
3,01/01/2001,U,7354
22,01/01/2001,U,5000
3,01/01/2011,U,8000
22,01/01/2011,U,4000
22,02/02/2011,W,5055
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestTableCommand(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)

	out, _, err := execute(t, "table", path, "--types", "str,int,float", "--format", "csv",
		"--column-formats", "%s,%d,%0.2f", "--upper-headers")
	require.NoError(t, err)
	assert.Equal(t, "NAME,SHARES,PRICE\nAA,100,32.20\nIBM,50,91.10\n", out)
}

func TestTableCommandInfersTypes(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)

	out, _, err := execute(t, "table", path, "--columns", "name,shares", "--format", "csv",
		"--column-formats", "%s,%04d")
	require.NoError(t, err)
	assert.Equal(t, "name,shares\nAA,0100\nIBM,0050\n", out)
}

func TestTableCommandUnsupportedFormat(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)

	_, _, err := execute(t, "table", path, "--format", "xls")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestTableCommandBadRow(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV+"CAT,lots,83.44\n")

	_, _, err := execute(t, "table", path, "--types", "str,int,float")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))
	row, ok := errors.DetailOf(err, "row")
	require.True(t, ok)
	assert.Equal(t, 4, row)
}

func TestTableCommandInfersFromEveryRow(t *testing.T) {
	var src strings.Builder
	src.WriteString("name,count\n")
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&src, "%d,%d\n", i, i)
	}
	src.WriteString("z,n/a\n")
	path := testutil.WriteTemp(t, "counts.csv", src.String())

	out, _, err := execute(t, "table", path, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "999,999\nz,n/a\n"))
}

func TestTableCommandDecimalColumnFormats(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)

	out, _, err := execute(t, "table", path, "--types", "str,int,decimal", "--format", "csv",
		"--column-formats", "%s,%d,%0.2f")
	require.NoError(t, err)
	assert.Equal(t, "name,shares,price\nAA,100,32.20\nIBM,50,91.10\n", out)
}

func TestRidesCommandJSON(t *testing.T) {
	path := testutil.WriteTemp(t, "ctabus.csv", ridesCSV)

	out, _, err := execute(t, "rides", path, "--json", "--top", "1")
	require.NoError(t, err)

	var report ridesReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Routes)
	require.NotNil(t, report.RidesOn)
	assert.Equal(t, 5055, report.RidesOn.Rides)
	require.Len(t, report.Busiest, 1)
	assert.Equal(t, "3", report.Busiest[0].Route)
	require.Len(t, report.Increase, 2)
	assert.Equal(t, "22", report.Increase[0].Route)
	assert.Equal(t, 4055, report.Increase[0].Rides)
}

func TestRidesCommandText(t *testing.T) {
	path := testutil.WriteTemp(t, "ctabus.csv", ridesCSV)

	out, _, err := execute(t, "rides", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 bus routes\n")
	assert.Contains(t, out, "On 02/02/2011 5055 people rode bus number 22\n")
}

func TestPortfolioCostCommand(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.dat", "AA 100 32.20\nIBM x 91.10\nIBM 50 91.10\n")

	out, _, err := execute(t, "portfolio", "cost", path)
	require.NoError(t, err)
	assert.Equal(t, "Total cost: 7775.00\n", out)
}

func TestPortfolioShowCommand(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)

	out, _, err := execute(t, "portfolio", "show", path, "--decimal", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "name,shares,price,cost\nAA,100,32.2,3220\nIBM,50,91.1,4555\n", out)
}

func TestExportArrowCommand(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)
	dest := filepath.Join(t.TempDir(), "portfolio.arrow")

	_, _, err := execute(t, "export", "arrow", path, dest, "--types", "str,int,float")
	require.NoError(t, err)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	r, err := ipc.NewFileReader(f)
	require.NoError(t, err)
	defer r.Close()
	rec, err := r.Record(0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.NumRows())
	assert.Equal(t, "shares", r.Schema().Field(1).Name)
}

func TestExportArrowCompressed(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)
	dest := filepath.Join(t.TempDir(), "portfolio.arrow.zst")

	_, _, err := execute(t, "export", "arrow", path, dest)
	require.NoError(t, err)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	zr, err := compression.NewReader(f, compression.Detect(dest))
	require.NoError(t, err)
	defer zr.Close()
	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	r, err := ipc.NewFileReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, arrow.STRING, r.Schema().Field(1).Type.ID())
}

func TestExportAvroCommand(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)
	dest := filepath.Join(t.TempDir(), "portfolio.avro")

	_, _, err := execute(t, "export", "avro", path, dest, "--types", "str,int,float")
	require.NoError(t, err)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	c, err := columnar.ReadAvro(f)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	rec, err := c.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "AA", rec["name"])
	assert.Equal(t, 100, rec["shares"])
	assert.InDelta(t, 32.2, rec["price"], 1e-9)
}

func TestMemoryCommand(t *testing.T) {
	path := testutil.WriteTemp(t, "ctabus.csv", ridesCSV)

	out, _, err := execute(t, "memory", path, "--only", "maps,columns", "--json")
	require.NoError(t, err)

	var results []struct {
		Representation string `json:"representation"`
		Records        int    `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "maps", results[0].Representation)
	assert.Equal(t, 5, results[1].Records)
}

func TestFormatsCommand(t *testing.T) {
	out, _, err := execute(t, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, "  - html\n")
	assert.Contains(t, out, "  - decimal\n")
}

func TestConfigCommandHonoursEnv(t *testing.T) {
	t.Setenv("TABULA_TABLE_FORMAT", "html")

	out, _, err := execute(t, "config", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "format: html")
	assert.Contains(t, out, "level: error")
}

func TestMetricsFlag(t *testing.T) {
	path := testutil.WriteTemp(t, "portfolio.csv", portfolioCSV)

	_, errOut, err := execute(t, "--metrics", "table", path, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, errOut, `tabula_rows_parsed_total{component="table"} 2`)
	assert.Contains(t, errOut, `tabula_rows_rendered_total{component="table",format="csv"} 2`)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Tabula v"+version)
}
