// Package csvparse reads delimited text into records. The parser owns the
// mechanics of reading a header and iterating rows; how each row becomes a
// record is delegated to a Builder, so the same parser produces maps, typed
// structs or positional values.
//
//	p := csvparse.New[schema.Record](csvparse.NewDictBuilder(schema.String, schema.Int, schema.Float))
//	records, err := p.ParseFile("portfolio.csv")
package csvparse

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/metrics"
)

type options struct {
	headers   []string
	delimiter rune
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// Option configures a Parser
type Option func(*options)

// WithHeaders supplies the column names up front. The first line of the
// source is then treated as data.
func WithHeaders(names ...string) Option {
	return func(o *options) {
		o.headers = append([]string(nil), names...)
	}
}

// WithDelimiter sets the field delimiter (default ',')
func WithDelimiter(r rune) Option {
	return func(o *options) {
		o.delimiter = r
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records rows parsed, failures and parse duration on c
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// Parser reads a delimited source and builds one record per data row. A
// Parser holds no per-parse state and may be reused.
type Parser[T any] struct {
	builder Builder[T]
	opts    options
}

// New creates a parser that builds records with builder
func New[T any](builder Builder[T], opts ...Option) *Parser[T] {
	o := options{
		delimiter: ',',
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser[T]{builder: builder, opts: o}
}

// Parse reads r to completion and returns the records in source order
func (p *Parser[T]) Parse(r io.Reader) ([]T, error) {
	var out []T
	err := p.parse(r, nil, func(rec T, _ int) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseFile opens path (decompressing by extension), parses it and closes it
func (p *Parser[T]) ParseFile(path string) ([]T, error) {
	rc, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only

	records, err := p.Parse(rc)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e.WithDetail("path", path)
		}
		return nil, err
	}
	return records, nil
}

// Each calls fn for every record instead of collecting them. An error from fn
// stops the parse and is returned unchanged.
func (p *Parser[T]) Each(r io.Reader, fn func(T) error) error {
	return p.parse(r, nil, func(rec T, _ int) error {
		return fn(rec)
	})
}

// parse reads the header and then hands every record to onRecord together
// with the 1-based source line its row started on
func (p *Parser[T]) parse(r io.Reader, onHeaders func([]string) error, onRecord func(rec T, row int) error) (err error) {
	start := time.Now()
	rows := 0
	defer func() {
		p.observe(start, rows, err)
	}()

	cr := csv.NewReader(r)
	cr.Comma = p.opts.delimiter
	cr.FieldsPerRecord = -1

	headers := p.opts.headers
	if headers == nil {
		headers, err = cr.Read()
		if err == io.EOF {
			return errors.New(errors.ErrorTypeInput, "source is empty: no header row")
		}
		if err != nil {
			return syntaxError(err, 1)
		}
	}
	if onHeaders != nil {
		if err := onHeaders(headers); err != nil {
			return err
		}
	}

	for {
		raw, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return syntaxError(readErr, 0)
		}
		line, _ := cr.FieldPos(0)

		rec, buildErr := p.builder.Build(headers, raw)
		if buildErr != nil {
			return errors.Wrap(buildErr, errors.ErrorTypeConversion, "failed to decode row").
				WithDetail("row", line)
		}
		if err := onRecord(rec, line); err != nil {
			return err
		}
		rows++
	}

	p.opts.logger.Debug("parsed source",
		zap.Int("rows", rows),
		zap.Int("columns", len(headers)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (p *Parser[T]) observe(start time.Time, rows int, err error) {
	if p.opts.metrics == nil {
		return
	}
	p.opts.metrics.RowsParsed(rows)
	p.opts.metrics.ObserveParse(time.Since(start))
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			p.opts.metrics.ParseFailed(string(e.Type))
		} else {
			p.opts.metrics.ParseFailed(string(errors.ErrorTypeInternal))
		}
	}
}

func syntaxError(err error, line int) error {
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		line = pe.Line
	}
	return errors.Wrap(err, errors.ErrorTypeInput, "malformed csv").
		WithDetail("row", line)
}
