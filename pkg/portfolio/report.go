package portfolio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/csvparse"
	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/tableformat"
)

// ReadStocks loads a name,shares,price CSV file as float-priced stocks
func ReadStocks(path string, opts ...csvparse.Option) ([]*Stock, error) {
	return csvparse.New[*Stock](csvparse.NewInstanceBuilder[*Stock](Stock{}), opts...).ParseFile(path)
}

// ReadDStocks loads a name,shares,price CSV file as decimal-priced stocks
func ReadDStocks(path string, opts ...csvparse.Option) ([]*DStock, error) {
	return csvparse.New[*DStock](csvparse.NewInstanceBuilder[*DStock](DStock{}), opts...).ParseFile(path)
}

// Holdings converts a typed slice for PrintPortfolio
func Holdings[T Holding](items []T) []Holding {
	out := make([]Holding, len(items))
	for i, h := range items {
		out[i] = h
	}
	return out
}

// PrintPortfolio writes a fixed-width report of name, shares and price with
// prices rounded to two places
func PrintPortfolio(w io.Writer, holdings []Holding) error {
	f := tableformat.ColumnFormat(tableformat.NewText(w), "%s", "%d", "%s")
	if err := f.Headings(stockHeaders); err != nil {
		return err
	}
	for _, h := range holdings {
		if err := f.Row([]any{h.Name(), h.Shares(), h.PriceFixed(2)}); err != nil {
			return err
		}
	}
	return nil
}

// CostSummary is the outcome of PortfolioCost
type CostSummary struct {
	Total   float64 `json:"total"`
	Lines   int     `json:"lines"`
	Skipped int     `json:"skipped"`
}

// PortfolioCost sums shares*price over whitespace-separated "name shares
// price" lines. Lines that do not parse are logged and skipped.
func PortfolioCost(r io.Reader, log *zap.Logger) (CostSummary, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var sum CostSummary
	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		sum.Lines++

		cost, err := lineCost(strings.Fields(line))
		if err != nil {
			sum.Skipped++
			log.Warn("couldn't parse line",
				zap.Int("line", lineno),
				zap.String("text", line),
				zap.Error(err))
			continue
		}
		sum.Total += cost
	}
	if err := scanner.Err(); err != nil {
		return sum, errors.Wrap(err, errors.ErrorTypeInput, "failed to read portfolio")
	}
	return sum, nil
}

// PortfolioCostFile runs PortfolioCost over a file opened with
// csvparse.OpenFile
func PortfolioCostFile(path string, log *zap.Logger) (CostSummary, error) {
	rc, err := csvparse.OpenFile(path)
	if err != nil {
		return CostSummary{}, err
	}
	defer rc.Close() //nolint:errcheck // read-only

	return PortfolioCost(rc, log)
}

func lineCost(items []string) (float64, error) {
	if len(items) < 3 {
		return 0, errors.New(errors.ErrorTypeData, "expected name, shares and price").
			WithDetail("fields", len(items))
	}
	shares, err := strconv.Atoi(items[1])
	if err != nil {
		return 0, err
	}
	price, err := strconv.ParseFloat(items[2], 64)
	if err != nil {
		return 0, err
	}
	return float64(shares) * price, nil
}
