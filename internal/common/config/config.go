package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sqlscope/bridge/internal/common/configtypes"
	"github.com/sqlscope/bridge/internal/common/yamlutil"
	"github.com/sqlscope/bridge/pkg/types"
)

// Type aliases so callers only import this package
type (
	CollectorConfig = configtypes.CollectorConfig
	ServerConfig    = configtypes.ServerConfig
	LogConfig       = configtypes.LogConfig
	MetricsConfig   = configtypes.MetricsConfig
	SinksConfig     = configtypes.SinksConfig
)

// Defaults applied to fields left unset in the configuration file.
const (
	DefaultListen        = ":10090"
	DefaultMetricsListen = ":10091"
	DefaultMetricsPath   = "/metrics"
	DefaultNamespace     = "sqlscope"
	DefaultTimeout       = 30 * time.Second
)

// Load reads, parses, defaults and validates a collector configuration file.
func Load(path string, logger *zap.Logger) (*CollectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg CollectorConfig
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	logger.Debug("Loaded collector configuration",
		zap.String("path", path),
		zap.String("listen", cfg.Server.Listen),
		zap.Bool("metrics", cfg.Metrics.Enabled))

	return &cfg, nil
}

// Default returns a fully defaulted configuration, used when the daemon runs
// without a config file.
func Default() *CollectorConfig {
	cfg := &CollectorConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *CollectorConfig) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
	}
	if cfg.Server.Timeout.Std() == 0 {
		cfg.Server.Timeout = types.Duration(DefaultTimeout)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = configtypes.LogLevelInfo
	}
	// With no output configured at all, fall back to console logging so the
	// daemon is never silent.
	if !cfg.Log.Console.Enabled && !cfg.Log.File.Enabled {
		cfg.Log.Console.Enabled = true
	}
	if cfg.Log.Console.Format == "" {
		cfg.Log.Console.Format = configtypes.LogFormatConsole
	}
	if cfg.Log.File.Format == "" {
		cfg.Log.File.Format = configtypes.LogFormatJSON
	}

	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
}

func validate(cfg *CollectorConfig) error {
	if cfg.Metrics.Enabled && cfg.Metrics.Listen == cfg.Server.Listen {
		return fmt.Errorf("metrics.listen must differ from server.listen (%s)", cfg.Server.Listen)
	}

	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return fmt.Errorf("log.file.path must be specified when file logging is enabled")
	}

	if cfg.Sinks.File != nil && cfg.Sinks.File.Enabled && cfg.Sinks.File.Path == "" {
		return fmt.Errorf("sinks.file.path must be specified when the file sink is enabled")
	}

	return nil
}
