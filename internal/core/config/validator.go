package config

import (
	"fmt"
	"strings"

	"printts/internal/core/errors"
	"printts/internal/shared/util"

	"github.com/gobwas/glob"
)

// Validate returns the first problem found as a VALIDATION_ERROR.
func Validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateVersion,
		validateResolve,
		validateWalk,
		validateWatch,
	} {
		if err := check(cfg); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateResolve(cfg *Config) error {
	if len(cfg.Resolve.Extensions) == 0 {
		return fmt.Errorf("resolve.extensions must not be empty")
	}
	seen := make(map[string]bool, len(cfg.Resolve.Extensions))
	for _, ext := range cfg.Resolve.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("resolve.extensions entry %q must start with '.'", ext)
		}
		if util.ContainsPathSeparator(ext) {
			return fmt.Errorf("resolve.extensions entry %q must not contain a path separator", ext)
		}
		if seen[ext] {
			return fmt.Errorf("resolve.extensions contains duplicate entry %q", ext)
		}
		seen[ext] = true
	}

	if len(cfg.Resolve.IndexFiles) == 0 {
		return fmt.Errorf("resolve.index_files must not be empty")
	}
	seen = make(map[string]bool, len(cfg.Resolve.IndexFiles))
	for _, name := range cfg.Resolve.IndexFiles {
		if util.ContainsPathSeparator(name) || name == "." || name == ".." {
			return fmt.Errorf("resolve.index_files entry %q must be a plain file name", name)
		}
		if seen[name] {
			return fmt.Errorf("resolve.index_files contains duplicate entry %q", name)
		}
		seen[name] = true
	}
	return nil
}

func validateWalk(cfg *Config) error {
	for _, pattern := range cfg.Walk.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("walk.exclude pattern %q is invalid: %w", pattern, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRunsPerSecond <= 0 {
		return fmt.Errorf("watch.max_runs_per_second must be > 0")
	}
	return nil
}
