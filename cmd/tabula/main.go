package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/csvparse"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/observability"
)

var version = "0.1.0"

// app carries the state shared by every command once the root pre-run has
// loaded the configuration
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	log        *zap.Logger
	metrics    *metrics.Collector
	shutdown   observability.ShutdownFunc
	out        io.Writer
	errOut     io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.NewViper(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "tabula",
		Short: "Tabula - load, analyse and render tabular CSV data",
		Long: `Tabula reads CSV files into typed records, maps, columns or Arrow batches,
answers questions about bus ridership and stock portfolios, and renders rows
as text, CSV or HTML tables.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML configuration file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log encoding (json, console)")
	flags.Bool("trace", false, "Export command spans to stderr")
	flags.Bool("metrics", false, "Print Prometheus metrics to stderr after the command")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("trace.enabled", flags.Lookup("trace"))
	_ = a.v.BindPFlag("metrics.enabled", flags.Lookup("metrics"))

	root.AddCommand(
		newTableCmd(a),
		newRidesCmd(a),
		newPortfolioCmd(a),
		newMemoryCmd(a),
		newExportCmd(a),
		newFormatsCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	l, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return err
	}
	logger.Set(l)
	a.log = l.With(zap.String("command", cmd.Name()))

	a.shutdown, err = observability.InitTracing(observability.TracingConfig{
		ServiceName:    "tabula",
		ServiceVersion: version,
		Enabled:        cfg.Trace.Enabled,
		Output:         a.errOut,
	})
	if err != nil {
		return err
	}

	a.metrics = metrics.NewCollector(cmd.Name())
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.cfg != nil && a.cfg.Metrics.Enabled {
		if err := a.metrics.WriteText(a.errOut); err != nil {
			return err
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(context.Background()); err != nil {
			return err
		}
	}
	_ = logger.Sync()
	return nil
}

// run executes fn inside a span named after the command
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, span *observability.Span) error) error {
	ctx := context.WithValue(cmd.Context(), logger.CommandKey, cmd.CommandPath())
	ctx, span := observability.StartSpan(ctx, cmd.CommandPath())
	err := fn(ctx, span)
	span.End(err)
	if err != nil {
		a.log.Debug("command failed", zap.Error(err))
	}
	return err
}

// parserOptions wires the command's logger and metrics into a parser reading
// path
func (a *app) parserOptions(ctx context.Context, path string, extra ...csvparse.Option) []csvparse.Option {
	ctx = context.WithValue(ctx, logger.SourceKey, path)
	return append([]csvparse.Option{
		csvparse.WithLogger(logger.WithContext(ctx)),
		csvparse.WithMetrics(a.metrics),
	}, extra...)
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "Tabula v%s\n", version)
			fmt.Fprintf(a.out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Dump(a.out, a.cfg)
		},
	}
}
