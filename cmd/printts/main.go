package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"printts/internal/core/app"
	"printts/internal/core/config"
	"printts/internal/shared/observability"
)

const VERSION = "1.0.0"

const tracingShutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("printts", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: printts [flags] <file>")
		flags.PrintDefaults()
	}

	configPath := flags.String("config", "", "Path to config file (default ./"+config.DefaultFile+" if present)")
	verbose := flags.Bool("verbose", false, "Enable debug logging on stderr")
	watch := flags.Bool("watch", false, "Re-print whenever a printed file changes")
	version := flags.Bool("version", false, "Print version and exit")

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if *version {
		fmt.Fprintf(stdout, "printts v%s\n", VERSION)
		return 0
	}

	// stdout carries only the transcript.
	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if flags.NArg() < 1 {
		fmt.Fprintln(stderr, "Please provide a TypeScript file path")
		flags.Usage()
		return 1
	}

	root, err := filepath.Abs(flags.Arg(0))
	if err != nil {
		slog.Error("failed to resolve path", "path", flags.Arg(0), "error", err)
		return 1
	}

	cfg, source, err := config.Discover(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if source != "" {
		slog.Debug("loaded config", "path", source)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, VERSION)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	application, err := app.New(cfg, stdout, stderr)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}

	if *watch {
		if err := application.Watch(ctx, root); err != nil {
			slog.Error("watch failed", "error", err)
			return 1
		}
		return 0
	}

	application.Run(ctx, root)
	return 0
}
