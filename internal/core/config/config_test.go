package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"printts/internal/core/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "printts.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `
version = 1

[resolve]
extensions = [".mts", ".ts"]
index_files = ["index.mts", "index.ts"]

[walk]
exclude = ["**/node_modules/**", "**/*.generated.ts"]

[watch]
debounce = "1s"
max_runs_per_second = 0.5

[observability]
metrics_textfile = "/var/lib/node_exporter/printts.prom"
metrics_addr = " 127.0.0.1:9108 "
`
	path := writeConfig(t, t.TempDir(), content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := strings.Join(cfg.Resolve.Extensions, ","); got != ".mts,.ts" {
		t.Errorf("unexpected extensions %q", got)
	}
	if got := strings.Join(cfg.Resolve.IndexFiles, ","); got != "index.mts,index.ts" {
		t.Errorf("unexpected index files %q", got)
	}
	if len(cfg.Walk.Exclude) != 2 {
		t.Errorf("expected 2 exclude patterns, got %d", len(cfg.Walk.Exclude))
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected 1s debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRunsPerSecond != 0.5 {
		t.Errorf("expected 0.5 runs/s, got %v", cfg.Watch.MaxRunsPerSecond)
	}
	if cfg.Observability.MetricsAddr != "127.0.0.1:9108" {
		t.Errorf("expected trimmed metrics addr, got %q", cfg.Observability.MetricsAddr)
	}
}

func TestDefaultConfig_MatchesResolutionOrder(t *testing.T) {
	cfg := DefaultConfig()

	if got := strings.Join(cfg.Resolve.Extensions, ","); got != ".ts,.tsx,.js,.jsx" {
		t.Errorf("unexpected default extensions %q", got)
	}
	if got := strings.Join(cfg.Resolve.IndexFiles, ","); got != "index.ts,index.tsx,index.js,index.jsx" {
		t.Errorf("unexpected default index files %q", got)
	}
	if len(cfg.Walk.Exclude) != 0 {
		t.Errorf("expected no default excludes, got %v", cfg.Walk.Exclude)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("unexpected default debounce %v", cfg.Watch.Debounce)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[walk]\nexclude = [\"**/dist/**\"]\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("expected default version 1, got %d", cfg.Version)
	}
	if len(cfg.Resolve.Extensions) != 4 {
		t.Errorf("expected default extensions, got %v", cfg.Resolve.Extensions)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown key":         "[resolve]\nextension = [\".ts\"]\n",
		"bad version":         "version = 3\n",
		"extension no dot":    "[resolve]\nextensions = [\"ts\"]\n",
		"duplicate extension": "[resolve]\nextensions = [\".ts\", \".ts\"]\n",
		"index with slash":    "[resolve]\nindex_files = [\"lib/index.ts\"]\n",
		"bad glob":            "[walk]\nexclude = [\"[\"]\n",
		"negative debounce":   "[watch]\ndebounce = \"-1s\"\n",
		"negative rate":       "[watch]\nmax_runs_per_second = -1.0\n",
		"malformed toml":      "[resolve\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error for %s", name)
			}
			if !errors.IsCode(err, errors.CodeValidationError) {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDiscover(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, source, err := Discover("")
		if err != nil {
			t.Fatal(err)
		}
		if source != "" {
			t.Errorf("expected no source, got %q", source)
		}
		if len(cfg.Resolve.Extensions) != 4 {
			t.Errorf("expected defaults, got %v", cfg.Resolve.Extensions)
		}
	})

	t.Run("default file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "[resolve]\nextensions = [\".js\"]\n")
		t.Chdir(dir)

		cfg, source, err := Discover("")
		if err != nil {
			t.Fatal(err)
		}
		if source != DefaultFile {
			t.Errorf("expected source %q, got %q", DefaultFile, source)
		}
		if got := strings.Join(cfg.Resolve.Extensions, ","); got != ".js" {
			t.Errorf("unexpected extensions %q", got)
		}
	})

	t.Run("explicit missing file fails", func(t *testing.T) {
		if _, _, err := Discover(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Fatal("expected error for explicit missing config")
		}
	})
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PRINTTS_RESOLVE_EXTENSIONS", ".tsx, .ts")
	t.Setenv("PRINTTS_WALK_EXCLUDE", "**/vendor/**")
	t.Setenv("PRINTTS_WATCH_DEBOUNCE", "2s")
	t.Setenv("PRINTTS_WATCH_MAX_RUNS_PER_SECOND", "not-a-number")
	t.Setenv("PRINTTS_OBSERVABILITY_METRICS_TEXTFILE", "/tmp/printts.prom")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)
	normalize(cfg)

	if got := strings.Join(cfg.Resolve.Extensions, ","); got != ".tsx,.ts" {
		t.Errorf("unexpected extensions %q", got)
	}
	if len(cfg.Walk.Exclude) != 1 || cfg.Walk.Exclude[0] != "**/vendor/**" {
		t.Errorf("unexpected exclude %v", cfg.Walk.Exclude)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRunsPerSecond != 2 {
		t.Errorf("invalid override must be ignored, got %v", cfg.Watch.MaxRunsPerSecond)
	}
	if cfg.Observability.MetricsTextfile != "/tmp/printts.prom" {
		t.Errorf("unexpected metrics textfile %q", cfg.Observability.MetricsTextfile)
	}
}

func TestDiscover_EnvOverrideIsValidated(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PRINTTS_RESOLVE_EXTENSIONS", "ts")

	if _, _, err := Discover(""); err == nil {
		t.Fatal("expected validation error for env-provided extension")
	}
}
