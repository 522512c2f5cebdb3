// Package walker prints a source file and, depth-first, every local file it
// imports, each exactly once per run.
package walker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"printts/internal/core/errors"
	"printts/internal/core/ports"
	"printts/internal/shared/observability"
	"printts/internal/shared/util"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Visited is the set of paths already handled in one run. Paths are added
// before their file is read and are never removed.
type Visited map[string]struct{}

func NewVisited() Visited {
	return make(Visited)
}

func (v Visited) Has(path string) bool {
	_, ok := v[path]
	return ok
}

func (v Visited) Add(path string) {
	v[path] = struct{}{}
}

// Paths returns the visited paths in sorted order.
func (v Visited) Paths() []string {
	return util.SortedStringKeys(v)
}

// Header returns the line printed before a file's content.
func Header(path string) string {
	return "// " + path
}

type Walker struct {
	fs       ports.FileSystem
	parser   ports.ImportParser
	resolver ports.ImportResolver
	out      io.Writer
	errOut   io.Writer
	exclude  []glob.Glob
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

type Option func(*Walker)

// WithExclude skips resolved imports whose slash-separated path matches any
// of the globs. The run's root is never excluded.
func WithExclude(patterns []string) (Option, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern"),
				errors.CtxKey, pattern,
			)
		}
		compiled = append(compiled, g)
	}
	return func(w *Walker) { w.exclude = compiled }, nil
}

func WithMetrics(m *observability.Metrics) Option {
	return func(w *Walker) { w.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(w *Walker) { w.tracer = t }
}

func New(fs ports.FileSystem, parser ports.ImportParser, resolver ports.ImportResolver, out, errOut io.Writer, opts ...Option) *Walker {
	w := &Walker{
		fs:       fs,
		parser:   parser,
		resolver: resolver,
		out:      out,
		errOut:   errOut,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.metrics == nil {
		w.metrics = observability.NewMetrics()
	}
	if w.tracer == nil {
		w.tracer = observability.Tracer()
	}
	return w
}

// Run walks from root with a fresh visited set and returns it.
func (w *Walker) Run(ctx context.Context, root string) Visited {
	ctx, span := w.tracer.Start(ctx, "walker.Run", trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	visited := NewVisited()
	w.Visit(ctx, root, visited)

	span.SetAttributes(attribute.Int("files", len(visited)))
	return visited
}

// Visit prints path and recurses into its resolvable relative imports,
// in source order. Read failures are reported on the error writer and only
// abandon this path's branch.
func (w *Walker) Visit(ctx context.Context, path string, visited Visited) {
	if visited.Has(path) {
		w.metrics.VisitsSkipped.Inc()
		return
	}
	visited.Add(path)

	ctx, span := w.tracer.Start(ctx, "walker.Visit", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	content, err := w.read(path)
	if err != nil {
		span.RecordError(err)
		w.reportError(path, err)
		return
	}

	fmt.Fprintf(w.out, "%s\n%s\n\n", Header(path), trimContent(content))
	w.metrics.FilesPrinted.Inc()

	lang := w.parser.GetLanguage(path)
	start := time.Now()
	file, err := w.parser.ParseFile(path, []byte(content))
	w.metrics.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		w.reportError(path, err)
		return
	}
	if file.HasSyntaxErrors {
		slog.Debug("syntax errors while scanning imports", "path", path, "language", file.Language)
	}

	for _, imp := range file.Imports {
		if !imp.IsRelative() {
			w.metrics.ImportsTotal.WithLabelValues(observability.OutcomeExternal).Inc()
			slog.Debug("skipping non-relative import", "path", path, "specifier", imp.Specifier)
			continue
		}

		resolved, ok := w.resolver.Resolve(path, imp.Specifier)
		if !ok {
			w.metrics.ImportsTotal.WithLabelValues(observability.OutcomeUnresolved).Inc()
			continue
		}
		if w.isExcluded(resolved) {
			w.metrics.ImportsTotal.WithLabelValues(observability.OutcomeExcluded).Inc()
			slog.Debug("skipping excluded import", "path", path, "resolved", resolved)
			continue
		}

		w.metrics.ImportsTotal.WithLabelValues(observability.OutcomeResolved).Inc()
		slog.Debug("following import", "path", path, "resolved", resolved, "type_only", imp.TypeOnly)
		w.Visit(ctx, resolved, visited)
	}
}

func (w *Walker) read(path string) (string, error) {
	data, err := w.fs.ReadFile(path)
	if err != nil {
		return "", errors.AddContext(
			errors.Wrap(err, errors.CodeReadFailed, "read failed"),
			errors.CtxPath, path,
		)
	}
	if !utf8.Valid(data) {
		return "", errors.AddContext(
			errors.New(errors.CodeReadFailed, "invalid UTF-8 content"),
			errors.CtxPath, path,
		)
	}
	return string(data), nil
}

func (w *Walker) reportError(path string, err error) {
	w.metrics.ReadErrors.Inc()
	slog.Debug("file branch abandoned", "path", path, "error", err)
	fmt.Fprintf(w.errOut, "Error reading file %s: %s\n", path, errors.Cause(err))
}

func (w *Walker) isExcluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, g := range w.exclude {
		if g.Match(slashed) {
			return true
		}
	}
	return false
}

// trimContent strips surrounding whitespace, counting a leading byte order
// mark as whitespace.
func trimContent(content string) string {
	return strings.TrimSpace(strings.TrimPrefix(content, "\ufeff"))
}
