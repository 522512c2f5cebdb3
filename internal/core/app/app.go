package app

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"printts/internal/core/config"
	"printts/internal/core/ports"
	"printts/internal/data/fsys"
	"printts/internal/engine/parser"
	"printts/internal/engine/resolver"
	"printts/internal/engine/walker"
	"printts/internal/shared/observability"
	"printts/internal/shared/util"
)

// App wires configuration to one walker and runs it, once or on every
// relevant file change.
type App struct {
	Config  *config.Config
	Metrics *observability.Metrics

	walker *walker.Walker
	runMu  sync.Mutex
}

// New builds an App reading from the OS file system. The transcript goes to
// stdout and per-file diagnostics to stderr.
func New(cfg *config.Config, stdout, stderr io.Writer) (*App, error) {
	return NewWithFileSystem(cfg, fsys.OS{}, stdout, stderr)
}

func NewWithFileSystem(cfg *config.Config, fs ports.FileSystem, stdout, stderr io.Writer) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	p, err := parser.NewDefaultParser()
	if err != nil {
		return nil, err
	}

	exclude, err := walker.WithExclude(cfg.Walk.Exclude)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	res := resolver.NewResolver(fs, resolver.Policy{
		Extensions: cfg.Resolve.Extensions,
		IndexFiles: cfg.Resolve.IndexFiles,
	})

	return &App{
		Config:  cfg,
		Metrics: metrics,
		walker: walker.New(fs, p, res, stdout, stderr,
			exclude,
			walker.WithMetrics(metrics),
			walker.WithTracer(observability.Tracer()),
		),
	}, nil
}

// Run prints root and its local imports. Unreadable files are reported on
// stderr and do not fail the run.
func (a *App) Run(ctx context.Context, root string) walker.Visited {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	visited := a.walker.Run(ctx, root)
	a.writeMetrics()
	return visited
}

func (a *App) writeMetrics() {
	path := a.Config.Observability.MetricsTextfile
	if path == "" {
		return
	}
	if err := util.EnsureParentDir(path); err != nil {
		slog.Warn("failed to create metrics directory", "path", path, "error", err)
		return
	}
	if err := a.Metrics.WriteTextfile(path); err != nil {
		slog.Warn("failed to write metrics textfile", "path", path, "error", err)
	}
}
