package app

import (
	"context"
	"log/slog"
	"time"

	"printts/internal/core/watcher"
	"printts/internal/engine/walker"
	"printts/internal/shared/observability"
	"printts/internal/shared/util"

	"github.com/google/uuid"
)

const serverShutdownTimeout = 5 * time.Second

// Watch runs once, then re-runs from root whenever a printed file changes or
// a new source file appears beside one. Re-runs are debounced and throttled
// by the watch config. It returns when ctx is done.
func (a *App) Watch(ctx context.Context, root string) error {
	if addr := a.Config.Observability.MetricsAddr; addr != "" {
		srv := observability.NewServer(addr, a.Metrics)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
			defer cancel()
			if err := srv.Stop(stopCtx); err != nil {
				slog.Warn("metrics server shutdown failed", "error", err)
			}
		}()
	}

	changes := make(chan []string, 1)
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Resolve.Extensions, a.Metrics, func(paths []string) {
		select {
		case changes <- paths:
		default:
			// A re-run is already queued and will see these changes.
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	a.track(w, a.Run(ctx, root))
	w.Start()
	slog.Info("watching for changes", "root", root, "dirs", len(w.Dirs()))

	limiter := util.NewLimiter(a.Config.Watch.MaxRunsPerSecond, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			runID := uuid.NewString()
			slog.Info("re-running walk", "run_id", runID, "changed", len(paths), "first", paths[0])

			start := time.Now()
			visited := a.Run(ctx, root)
			a.Metrics.WatchRunsTotal.Inc()
			a.track(w, visited)
			slog.Debug("walk finished", "run_id", runID, "files", len(visited), "duration", time.Since(start))
		}
	}
}

func (a *App) track(w *watcher.Watcher, visited walker.Visited) {
	if err := w.Track(visited.Paths()); err != nil {
		slog.Warn("some directories could not be watched", "error", err)
	}
}
