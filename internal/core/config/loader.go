package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"printts/internal/core/errors"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.CodeReadFailed
		if os.IsNotExist(err) {
			code = errors.CodeNotFound
		}
		return nil, errors.AddContext(errors.Wrap(err, code, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, fmt.Sprintf("unknown config keys: %s", strings.Join(keys, ", "))),
			errors.CtxPath, path,
		)
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Resolve.Extensions) == 0 {
		cfg.Resolve.Extensions = []string{".ts", ".tsx", ".js", ".jsx"}
	}
	if len(cfg.Resolve.IndexFiles) == 0 {
		cfg.Resolve.IndexFiles = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}
	}
	if cfg.Walk.Exclude == nil {
		cfg.Walk.Exclude = []string{}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerSecond == 0 {
		cfg.Watch.MaxRunsPerSecond = 2
	}
}

func normalize(cfg *Config) {
	cfg.Resolve.Extensions = trimAll(cfg.Resolve.Extensions)
	cfg.Resolve.IndexFiles = trimAll(cfg.Resolve.IndexFiles)
	cfg.Walk.Exclude = trimAll(cfg.Walk.Exclude)
	cfg.Observability.MetricsTextfile = strings.TrimSpace(cfg.Observability.MetricsTextfile)
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
