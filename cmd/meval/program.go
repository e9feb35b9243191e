package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/atuleu/meval"
	"github.com/atuleu/meval/internal/config"
	"github.com/atuleu/meval/internal/dataio"
	"github.com/atuleu/meval/internal/prog"
	"github.com/atuleu/meval/internal/telemetry"
)

// defines collects repeated -define NAME=EXPR flags.
type defines map[string]string

func (d defines) String() string {
	names := make([]string, 0, len(d))
	for n := range d {
		names = append(names, n+"="+d[n])
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func (d defines) Set(s string) error {
	name, expr, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("want NAME=EXPR, got %q", s)
	}
	d[name] = expr
	return nil
}

type program struct {
	variable   string
	defines    defines
	format     string
	configPath string
	logLevel   string
	logFormat  string
	trace      bool
	dataFile   string
}

func (p *program) Name() string  { return "meval" }
func (p *program) Usage() string { return "STATEMENT [DATA]" }

func (p *program) RegisterFlags(fs *flag.FlagSet) {
	p.defines = defines{}
	fs.StringVar(&p.variable, "var", "", "name of the free variable (default x)")
	fs.Var(p.defines, "define", "define NAME as the expression EXPR, as NAME=EXPR; can be repeated")
	fs.StringVar(&p.format, "format", "", "output format, json or yaml")
	fs.StringVar(&p.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&p.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&p.logFormat, "log-format", "", "log format: text or json")
	fs.BoolVar(&p.trace, "trace", false, "write traces and metrics to stderr")
	fs.StringVar(&p.dataFile, "data-file", "", "read the data from a JSON or YAML file")
}

// settings applies the flags over the loaded configuration.
func (p *program) settings() (*config.Config, error) {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return nil, err
	}
	if p.variable != "" {
		cfg.Eval.Variable = p.variable
	}
	if len(p.defines) > 0 {
		if cfg.Eval.Defines == nil {
			cfg.Eval.Defines = map[string]string{}
		}
		for name, expr := range p.defines {
			cfg.Eval.Defines[name] = expr
		}
	}
	if p.format != "" {
		cfg.Output.Format = p.format
	}
	if p.logLevel != "" {
		cfg.Log.Level = p.logLevel
	}
	if p.logFormat != "" {
		cfg.Log.Format = p.logFormat
	}
	if p.trace {
		cfg.Telemetry.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (p *program) Run(fds [3]*os.File, args []string) error {
	if len(args) == 0 {
		return prog.BadUsage("missing STATEMENT")
	}
	if len(args) > 2 {
		return prog.BadUsage("too many arguments")
	}
	if len(args) == 2 && p.dataFile != "" {
		return prog.BadUsage("DATA and -data-file are mutually exclusive")
	}

	cfg, err := p.settings()
	if err != nil {
		return err
	}
	outFormat, err := dataio.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	logger, runID := telemetry.WithRunID(telemetry.NewLogger(fds[2], cfg.Log.Level, cfg.Log.Format))

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(fds[2], p.Name(), prog.Version)
		if err != nil {
			return err
		}
		defer func() {
			if serr := shutdown(context.Background()); serr != nil {
				logger.Warn("telemetry shutdown failed", slog.Any("error", serr))
			}
		}()
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return err
	}

	ctx, span := telemetry.Tracer().Start(context.Background(), "meval.run")
	span.SetAttributes(
		attribute.String("meval.run_id", runID),
		attribute.String("meval.statement", args[0]),
	)
	defer span.End()

	logger.DebugContext(ctx, "starting", slog.String("statement", args[0]),
		slog.String("variable", cfg.Eval.Variable))

	data, err := p.readData(fds[0], args[1:])
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad data")
		return err
	}

	results, err := evaluate(cfg, args[0], data)
	outcome := outcomeOf(err)
	metrics.RecordBatch(ctx, len(data), outcome)
	span.SetAttributes(
		attribute.Int("meval.points", len(data)),
		attribute.String("meval.outcome", outcome),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.InfoContext(ctx, "evaluation failed", slog.String("outcome", outcome), slog.Any("error", err))

		var perr *meval.ParseError
		if errors.As(err, &perr) {
			var derr *defineError
			if errors.As(err, &derr) {
				fmt.Fprintf(fds[2], "in definition of %s:\n", derr.name)
			}
			fmt.Fprintln(fds[2], perr.Show(prog.IsTerminal(fds[2])))
			return prog.Exit(1)
		}
		return err
	}

	logger.DebugContext(ctx, "evaluated", slog.Int("points", len(results)))
	return dataio.Encode(fds[1], results, outFormat)
}

// readData reads the data array from the DATA argument, the data file
// or stdin.
func (p *program) readData(stdin io.Reader, args []string) ([]interface{}, error) {
	if p.dataFile != "" {
		f, err := os.Open(p.dataFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dataio.Decode(f, dataio.FormatOf(p.dataFile))
	}
	if len(args) == 0 || args[0] == "-" {
		return dataio.DecodeJSON(stdin)
	}
	return dataio.DecodeJSON(strings.NewReader(args[0]))
}

// defineError is a definition that does not compile.
type defineError struct {
	name string
	err  error
}

func (e *defineError) Error() string { return "definition of " + e.name + ": " + e.err.Error() }
func (e *defineError) Unwrap() error { return e.err }

func evaluate(cfg *config.Config, statement string, data []interface{}) ([]float64, error) {
	opts := []meval.Option{meval.WithVariable(cfg.Eval.Variable)}
	if len(cfg.Eval.Defines) > 0 {
		defs := meval.NewMapContext()
		names := make([]string, 0, len(cfg.Eval.Defines))
		for name := range cfg.Eval.Defines {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := defs.CompileAndAdd(name, cfg.Eval.Defines[name]); err != nil {
				return nil, &defineError{name: name, err: err}
			}
		}
		opts = append(opts, meval.WithContext(defs))
	}
	ev, err := meval.New(statement, opts...)
	if err != nil {
		return nil, err
	}
	return ev.Evaluate(data)
}

func outcomeOf(err error) string {
	var (
		perr *meval.ParseError
		cerr *meval.ConversionError
		eerr *meval.EvaluationError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &perr):
		return "parse"
	case errors.As(err, &cerr):
		return "conversion"
	case errors.As(err, &eerr):
		return "evaluation"
	case errors.Is(err, meval.ErrInvalidVariable):
		return "variable"
	}
	return "error"
}
