package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/hanpama/schemagraph/internal/config"
	"github.com/hanpama/schemagraph/internal/eventbus"
	"github.com/hanpama/schemagraph/internal/merge"
	"github.com/hanpama/schemagraph/internal/otel"
	"github.com/hanpama/schemagraph/internal/report"
	"github.com/hanpama/schemagraph/internal/server"
	"github.com/hanpama/schemagraph/internal/workspace"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		// the report has already been written for these
		if !errors.Is(err, errConflicts) && !errors.Is(err, errChanged) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

var (
	errConflicts = errors.New("merge conflicts")
	errChanged   = errors.New("schemas differ")
)

// env is what every command shares once the global flags and the config file
// are resolved.
type env struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	opts struct {
		Config    string
		LogLevel  string
		LogFormat string
		Library   string
		Exclude   cli.StringSlice
		Color     bool
	}
	cfg    *config.Config
	logger zerolog.Logger
	ws     *workspace.Workspace
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	return &cli.App{
		Name:                 "schemagraph",
		Usage:                "format, fold, merge, diff and edit GraphQL schemas",
		Version:              commitHash(),
		EnableBashCompletion: true,
		Writer:               stdout,
		ErrWriter:            stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path of the YAML config file",
				EnvVars:     []string{"SCHEMAGRAPH_CONFIG"},
				Destination: &e.opts.Config,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "trace, debug, info, warn or error",
				EnvVars:     []string{"SCHEMAGRAPH_LOG_LEVEL"},
				Destination: &e.opts.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "console or json",
				EnvVars:     []string{"SCHEMAGRAPH_LOG_FORMAT"},
				Destination: &e.opts.LogFormat,
			},
			&cli.StringFlag{
				Name:        "library",
				Usage:       "prelude schema parsed ahead of every input",
				EnvVars:     []string{"SCHEMAGRAPH_LIBRARY"},
				Destination: &e.opts.Library,
			},
			&cli.StringSliceFlag{
				Name:        "exclude",
				Usage:       "root type names left out of the inferred schema definition",
				EnvVars:     []string{"SCHEMAGRAPH_EXCLUDE"},
				Destination: &e.opts.Exclude,
			},
			&cli.BoolFlag{
				Name:        "color",
				Usage:       "colorize reports (default: when stderr is a terminal)",
				EnvVars:     []string{"SCHEMAGRAPH_COLOR"},
				Destination: &e.opts.Color,
			},
		},
		Before: e.init,
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "print a schema canonically",
				ArgsUsage: "<file|->",
				Action:    e.format,
			},
			{
				Name:      "fold",
				Usage:     "fold type extensions into their definitions",
				ArgsUsage: "<file|->",
				Action:    e.fold,
			},
			{
				Name:      "merge",
				Usage:     "merge two schemas, reporting every conflict",
				ArgsUsage: "<base> <other>",
				Action:    e.merge,
			},
			{
				Name:      "diff",
				Usage:     "compare two schemas after canonical printing",
				ArgsUsage: "<a> <b>",
				Action:    e.diff,
			},
			{
				Name:      "proto",
				Usage:     "render a schema as a proto3 file",
				ArgsUsage: "<file|->",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "package", Usage: "proto package name", Value: "schema"},
				},
				Action: e.proto,
			},
			{
				Name:      "edit",
				Usage:     "apply a YAML list of edit operations to a schema",
				ArgsUsage: "<file|->",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ops", Usage: "YAML file of edit operations", Required: true},
				},
				Action: e.edit,
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "addr", Usage: "listen address (overrides server.addr)"}},
				Action: e.serve,
			},
		},
	}
}

// init loads the config file and lets explicit flags override it.
func (e *env) init(c *cli.Context) error {
	cfg, err := config.Load(e.opts.Config)
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = e.opts.LogLevel
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = e.opts.LogFormat
	}
	if c.IsSet("library") {
		cfg.Library = e.opts.Library
	}
	if c.IsSet("exclude") {
		cfg.ExcludedRoots = e.opts.Exclude.Value()
	}
	e.cfg = cfg

	e.logger, err = newLogger(e.stderr, cfg.Log)
	if err != nil {
		return err
	}
	c.Context = e.logger.WithContext(c.Context)

	library, err := cfg.ReadLibrary()
	if err != nil {
		return err
	}
	e.ws = workspace.New(
		workspace.WithLibrary(library),
		workspace.WithExcludedRoots(cfg.ExcludedRoots...),
	)
	return nil
}

func newLogger(w io.Writer, opts config.Log) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	switch opts.Format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", opts.Format)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "schemagraph").Logger(), nil
}

// ------------------ Commands ------------------

func (e *env) format(c *cli.Context) error {
	src, err := e.readArg(c, 0)
	if err != nil {
		return err
	}
	out, err := e.ws.Format(c.Context, src)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, out)
	return err
}

func (e *env) fold(c *cli.Context) error {
	src, err := e.readArg(c, 0)
	if err != nil {
		return err
	}
	out, err := e.ws.Fold(c.Context, src)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, out)
	return err
}

func (e *env) merge(c *cli.Context) error {
	base, err := e.readArg(c, 0)
	if err != nil {
		return err
	}
	other, err := e.readArg(c, 1)
	if err != nil {
		return err
	}
	out, err := e.ws.Merge(c.Context, base, other)
	var conflicts merge.ConflictError
	if errors.As(err, &conflicts) {
		if werr := report.WriteConflicts(e.stderr, conflicts, e.colored(c)); werr != nil {
			return werr
		}
		return errConflicts
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, out)
	return err
}

// diff exits 1 when the schemas differ, like diff(1).
func (e *env) diff(c *cli.Context) error {
	a, err := e.readArg(c, 0)
	if err != nil {
		return err
	}
	b, err := e.readArg(c, 1)
	if err != nil {
		return err
	}
	lines, err := e.ws.Diff(c.Context, a, b)
	if err != nil {
		return err
	}
	if !report.Changed(lines) {
		return nil
	}
	if err := report.WriteDiff(e.stdout, lines, e.colored(c)); err != nil {
		return err
	}
	return errChanged
}

func (e *env) proto(c *cli.Context) error {
	src, err := e.readArg(c, 0)
	if err != nil {
		return err
	}
	out, err := e.ws.Proto(c.Context, src, c.String("package"))
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, out)
	return err
}

func (e *env) edit(c *cli.Context) error {
	src, err := e.readArg(c, 0)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.String("ops"))
	if err != nil {
		return fmt.Errorf("read ops: %w", err)
	}
	var ops []workspace.EditOp
	if err := yaml.UnmarshalWithOptions(data, &ops, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("read ops: %s", yaml.FormatError(err, false, true))
	}
	out, err := e.ws.Edit(c.Context, src, ops)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.stdout, out)
	return err
}

func (e *env) serve(c *cli.Context) error {
	cfg := e.cfg.Server
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(e.cfg.Otel.Endpoint, e.cfg.Otel.Service)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sopts := []server.Option{
		server.WithTimeout(cfg.Timeout),
		server.WithMaxBodyBytes(cfg.MaxBodyBytes),
		server.WithLogger(e.logger),
	}
	if cfg.Pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if len(cfg.CORSOrigins) > 0 {
		sopts = append(sopts, server.WithCORS(cfg.CORSOrigins...))
	}
	h := server.New(e.ws, sopts...)

	e.logger.Info().Str("addr", cfg.Addr).Msg("schemagraph listening")
	return http.ListenAndServe(cfg.Addr, h)
}

// ------------------ Helpers ------------------

// readArg reads the file named by the i-th argument, or stdin for "-".
func (e *env) readArg(c *cli.Context, i int) (string, error) {
	name := c.Args().Get(i)
	if name == "" {
		return "", fmt.Errorf("%s: missing argument %d (%s)", c.Command.Name, i+1, c.Command.ArgsUsage)
	}
	if name == "-" {
		data, err := io.ReadAll(e.stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (e *env) colored(c *cli.Context) bool {
	if c.IsSet("color") {
		return e.opts.Color
	}
	return isTerminal(e.stderr)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func commitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
		return info.Main.Version
	}
	return "unknown"
}
