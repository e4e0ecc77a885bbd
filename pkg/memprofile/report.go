package memprofile

import (
	"io"

	"github.com/ajitpratap0/tabula/pkg/tableformat"
)

// ReportColumns are the attributes written by WriteReport
var ReportColumns = []string{"representation", "records", "retained", "allocated", "objects", "rss_delta"}

// WriteReport renders results as a table in the named format
func WriteReport(w io.Writer, format string, results []Result) error {
	f, err := tableformat.New(format, w, tableformat.Options{})
	if err != nil {
		return err
	}
	return tableformat.PrintTable(results, ReportColumns, f)
}
