package configtypes

import (
	"github.com/sqlscope/bridge/pkg/types"
)

// Log level constants
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Log format constants
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// CollectorConfig is the tap-collector daemon configuration.
type CollectorConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Sinks   SinksConfig   `yaml:"sinks"`
}

// ServerConfig configures the event ingestion listener.
type ServerConfig struct {
	Listen  string         `yaml:"listen"`
	Timeout types.Duration `yaml:"timeout"`
}

// LogConfig configures the daemon's own logging.
type LogConfig struct {
	Level   string           `yaml:"level"`
	Console ConsoleLogConfig `yaml:"console"`
	File    FileLogConfig    `yaml:"file"`
}

type ConsoleLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
	Level   string `yaml:"level,omitempty"`
}

type FileLogConfig struct {
	Enabled  bool                 `yaml:"enabled"`
	Path     string               `yaml:"path"`
	Format   string               `yaml:"format"`
	Level    string               `yaml:"level,omitempty"`
	Rotation types.RotationConfig `yaml:"rotation"`
}

// MetricsConfig configures the Prometheus endpoint. Metrics always run on a
// separate listener from event ingestion.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Listen    string `yaml:"listen"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// SinksConfig selects where received events are forwarded.
type SinksConfig struct {
	// Console logs every event through the daemon logger.
	Console bool `yaml:"console"`
	// File writes events to a rotated event log.
	File *FileSinkConfig `yaml:"file,omitempty"`
}

// FileSinkConfig configures the file-based event sink.
type FileSinkConfig struct {
	Enabled  bool                 `yaml:"enabled"`
	Path     string               `yaml:"path"`
	Template string               `yaml:"template"`
	Rotation types.RotationConfig `yaml:"rotation"`
}
