package config

import (
	"os"
	"time"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given. Its absence is not an error.
const DefaultFile = "printts.toml"

type Config struct {
	Version       int           `toml:"version"`
	Resolve       Resolve       `toml:"resolve"`
	Walk          Walk          `toml:"walk"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

// Resolve is the ordered candidate policy for relative specifiers.
type Resolve struct {
	Extensions []string `toml:"extensions"`
	IndexFiles []string `toml:"index_files"`
}

type Walk struct {
	Exclude []string `toml:"exclude"` // Globs over resolved paths, "/" separated
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second"`
}

type Observability struct {
	MetricsTextfile string `toml:"metrics_textfile"`
	MetricsAddr     string `toml:"metrics_addr"`
	OTLPEndpoint    string `toml:"otlp_endpoint"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Discover loads explicitPath when set; otherwise DefaultFile if it exists
// in the working directory, else defaults. Environment overrides are
// applied last. The returned source is the file used, or "" for defaults.
func Discover(explicitPath string) (*Config, string, error) {
	var (
		cfg    *Config
		source string
		err    error
	)

	switch {
	case explicitPath != "":
		cfg, err = Load(explicitPath)
		source = explicitPath
	case fileExists(DefaultFile):
		cfg, err = Load(DefaultFile)
		source = DefaultFile
	default:
		cfg = DefaultConfig()
	}
	if err != nil {
		return nil, "", err
	}

	ApplyEnvOverrides(cfg)
	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, source, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
