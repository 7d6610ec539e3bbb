package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hanpama/schemagraph/internal/eventbus"
	"github.com/hanpama/schemagraph/internal/events"
	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/hanpama/schemagraph/internal/merge"
	"github.com/hanpama/schemagraph/internal/parser"
	"github.com/hanpama/schemagraph/internal/printer"
	"github.com/hanpama/schemagraph/internal/protoreg"
	"github.com/hanpama/schemagraph/internal/report"
	"github.com/rs/zerolog"
)

type Options struct {
	// Library is SDL prepended to every parsed schema. Its nodes resolve
	// references but are left out of printed results.
	Library string

	// ExcludedRoots lists type names dropped at parse time.
	ExcludedRoots []string
}

type Option func(*Options)

func WithLibrary(sdl string) Option { return func(o *Options) { o.Library = sdl } }
func WithExcludedRoots(names ...string) Option {
	return func(o *Options) { o.ExcludedRoots = names }
}

// Workspace runs whole schema pipelines over SDL text. It holds no state
// between calls and is safe for concurrent use.
type Workspace struct {
	opt Options
}

func New(opts ...Option) *Workspace {
	var op Options
	for _, f := range opts {
		f(&op)
	}
	return &Workspace{opt: op}
}

func (w *Workspace) parserOptions(library bool) []parser.Option {
	opts := []parser.Option{parser.WithExcludedRoots(w.opt.ExcludedRoots...)}
	if library && w.opt.Library != "" {
		opts = append(opts, parser.WithLibrary(w.opt.Library))
	}
	return opts
}

func (w *Workspace) parse(src string) (*ir.Tree, error) {
	return parser.Parse(src, w.parserOptions(true)...)
}

// Format parses src and prints it back in canonical form.
func (w *Workspace) Format(ctx context.Context, src string) (string, error) {
	var out string
	err := run(ctx, "format", func() (int, error) {
		tree, err := w.parse(src)
		if err != nil {
			return 0, err
		}
		out = printer.Print(tree, printer.WithoutLibrary())
		return len(tree.Nodes), nil
	})
	return out, err
}

// Fold parses src, folds every extension into its base and prints the result.
func (w *Workspace) Fold(ctx context.Context, src string) (string, error) {
	var out string
	err := run(ctx, "fold", func() (int, error) {
		tree, err := parser.ParseAddExtensions(src, w.parserOptions(true)...)
		if err != nil {
			return 0, err
		}
		out = printer.Print(tree, printer.WithoutLibrary())
		return len(tree.Nodes), nil
	})
	return out, err
}

// Merge combines base and other. Both are parsed without the library, since
// the merged result marks the nodes only other declares as library nodes and
// prints them too. A failed merge returns a merge.ConflictError.
func (w *Workspace) Merge(ctx context.Context, base, other string) (string, error) {
	var out string
	err := run(ctx, "merge", func() (int, error) {
		t1, err := parser.Parse(base, w.parserOptions(false)...)
		if err != nil {
			return 0, fmt.Errorf("parse base: %w", err)
		}
		t2, err := parser.Parse(other, w.parserOptions(false)...)
		if err != nil {
			return 0, fmt.Errorf("parse other: %w", err)
		}
		merged, err := merge.Merge(t1, t2)
		if err != nil {
			return 0, err
		}
		out = printer.Print(merged)
		return len(merged.Nodes), nil
	})
	return out, err
}

// Diff prints both schemas canonically and compares them line by line.
func (w *Workspace) Diff(ctx context.Context, a, b string) ([]report.Line, error) {
	var out []report.Line
	err := run(ctx, "diff", func() (int, error) {
		ta, err := w.parse(a)
		if err != nil {
			return 0, fmt.Errorf("parse a: %w", err)
		}
		tb, err := w.parse(b)
		if err != nil {
			return 0, fmt.Errorf("parse b: %w", err)
		}
		out = report.Diff(
			printer.Print(ta, printer.WithoutLibrary()),
			printer.Print(tb, printer.WithoutLibrary()),
		)
		return len(tb.Nodes), nil
	})
	return out, err
}

// Proto renders src as a proto3 file in package pkg. Library scalars take
// part, so a prelude can carry the @mapScalar declarations.
func (w *Workspace) Proto(ctx context.Context, src, pkg string) (string, error) {
	var out string
	err := run(ctx, "proto", func() (int, error) {
		tree, err := w.parse(src)
		if err != nil {
			return 0, err
		}
		reg, err := protoreg.Build(tree, pkg)
		if err != nil {
			return 0, fmt.Errorf("build proto: %w", err)
		}
		var buf bytes.Buffer
		if err := protoreg.Render(reg, &buf); err != nil {
			return 0, fmt.Errorf("render proto: %w", err)
		}
		out = buf.String()
		return len(tree.Nodes), nil
	})
	return out, err
}

// run wraps one pipeline with events and a log line. fn returns the node
// count of its result.
func run(ctx context.Context, op string, fn func() (int, error)) error {
	start := time.Now()
	eventbus.Publish(ctx, events.PipelineStart{Op: op})

	var nodes int
	err := ctx.Err()
	if err == nil {
		nodes, err = fn()
	}

	conflicts := 0
	var ce merge.ConflictError
	if errors.As(err, &ce) {
		conflicts = len(ce)
	}
	elapsed := time.Since(start)
	eventbus.Publish(ctx, events.PipelineFinish{
		Op:        op,
		Nodes:     nodes,
		Conflicts: conflicts,
		Err:       err,
		Duration:  elapsed,
	})

	logger := zerolog.Ctx(ctx)
	ev := logger.Debug()
	if err != nil {
		ev = logger.Info().Err(err)
	}
	ev.Str("op", op).
		Int("nodes", nodes).
		Int("conflicts", conflicts).
		Dur("duration", elapsed).
		Msg("pipeline finished")
	return err
}
