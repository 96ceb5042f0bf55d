package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// SourceConfig overrides one source adapter's fetch targets.
type SourceConfig struct {
	// BaseURL replaces the adapter's default portal URL.
	BaseURL string `toml:"base_url" env:"BASE_URL"`

	// APIURL replaces the adapter's default API/data URL.
	APIURL string `toml:"api_url" env:"API_URL"`

	// Limit caps records per feed. Zero keeps the adapter default.
	Limit int `toml:"limit" env:"LIMIT"`

	// Enabled controls whether the source takes part in runs.
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// Config is the full pipeline configuration.
type Config struct {
	// DataDir is where the SQLite database lives.
	// Empty means ~/.radar/data.
	DataDir string `toml:"data_dir" env:"RADAR_DATA_DIR"`

	// HTTPAddr is the listen address of `radar serve`.
	HTTPAddr string `toml:"http_addr" env:"RADAR_HTTP_ADDR"`

	// Workers bounds concurrent source fetches.
	Workers int `toml:"workers" env:"RADAR_WORKERS"`

	// SyncInterval is how often the scheduler re-runs the sync.
	SyncInterval time.Duration `toml:"sync_interval" env:"RADAR_SYNC_INTERVAL"`

	// SchedulerEnabled is the master switch for scheduled syncs under
	// `radar serve`.
	SchedulerEnabled bool `toml:"scheduler_enabled" env:"RADAR_SCHEDULER_ENABLED"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose" env:"RADAR_VERBOSE"`

	// Per-source overrides.
	ANM   SourceConfig `toml:"anm" envPrefix:"RADAR_ANM_"`
	CPRM  SourceConfig `toml:"cprm" envPrefix:"RADAR_CPRM_"`
	ANP   SourceConfig `toml:"anp" envPrefix:"RADAR_ANP_"`
	IBAMA SourceConfig `toml:"ibama" envPrefix:"RADAR_IBAMA_"`
	USGS  SourceConfig `toml:"usgs" envPrefix:"RADAR_USGS_"`
	SEC   SourceConfig `toml:"sec" envPrefix:"RADAR_SEC_"`
}

// Default returns the configuration used when no file and no
// environment overrides are present.
func Default() Config {
	return Config{
		HTTPAddr:         ":8080",
		Workers:          6,
		SyncInterval:     6 * time.Hour,
		SchedulerEnabled: true,
		ANM:              SourceConfig{Enabled: true},
		CPRM:             SourceConfig{Enabled: true},
		ANP:              SourceConfig{Enabled: true},
		IBAMA:            SourceConfig{Enabled: true},
		USGS:             SourceConfig{Enabled: true},
		SEC:              SourceConfig{Enabled: true},
	}
}

// Load reads configuration from path, then applies environment
// overrides. An empty path means ~/.radar/config.toml; a missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".radar", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file yet - that's fine, defaults apply.
	case err != nil:
		return cfg, fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("applying environment overrides: %w", err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = Default().Workers
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = Default().SyncInterval
	}

	return cfg, nil
}
