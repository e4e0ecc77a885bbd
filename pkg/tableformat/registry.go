package tableformat

import (
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/metrics"
)

// Built-in format names
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatHTML = "html"
)

// Factory creates a base formatter writing to w
type Factory func(w io.Writer) Formatter

// Options select the decorators New applies around the base formatter
type Options struct {
	// ColumnFormats are fmt patterns, one per column, applied to row values
	ColumnFormats []string
	// UpperHeaders upper-cases the headings
	UpperHeaders bool
	// Metrics, when set, counts rendered rows per format
	Metrics *metrics.Collector
}

// Registry maps format names to factories
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = newBuiltinRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger.Get().With(zap.String("component", "format_registry")),
	}
}

func newBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.factories[FormatText] = func(w io.Writer) Formatter { return NewText(w) }
	r.factories[FormatCSV] = func(w io.Writer) Formatter { return NewCSV(w) }
	r.factories[FormatHTML] = func(w io.Writer) Formatter { return NewHTML(w) }
	return r
}

// Register adds a format. Registering a name twice is a configuration error.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.New(errors.ErrorTypeConfig, "format already registered").
			WithDetail("format", name)
	}

	r.factories[name] = factory
	r.logger.Debug("format registered", zap.String("name", name))
	return nil
}

// Create builds the decorated formatter for name. Decorators are applied in a
// fixed order: column formats outermost, then upper-case headings, then the
// base formatter.
func (r *Registry) Create(name string, w io.Writer, opts Options) (Formatter, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig, "unsupported format").
			WithDetail("format", name).
			WithDetail("supported", r.List())
	}

	f := factory(w)
	if opts.Metrics != nil {
		f = &counting{Formatter: f, format: name, metrics: opts.Metrics}
	}
	if opts.UpperHeaders {
		f = UpperHeaders(f)
	}
	if len(opts.ColumnFormats) > 0 {
		f = ColumnFormat(f, opts.ColumnFormats...)
	}
	return f, nil
}

// List returns the registered format names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a format to the global registry
func Register(name string, factory Factory) error {
	return globalRegistry.Register(name, factory)
}

// New builds a formatter from the global registry
func New(name string, w io.Writer, opts Options) (Formatter, error) {
	return globalRegistry.Create(name, w, opts)
}

// Formats lists the formats in the global registry
func Formats() []string {
	return globalRegistry.List()
}
