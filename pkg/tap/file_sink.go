package tap

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sqlscope/bridge/pkg/types"
)

const (
	DefaultMaxSize    = 100 // MB
	DefaultMaxAge     = 30  // days
	DefaultMaxBackups = 10  // files
	defaultTemplate   = "{timestamp}\t{kind}\t{payload}"
)

// FileSinkConfig configures a file-backed event sink.
type FileSinkConfig struct {
	Path     string               `yaml:"path"`
	Template string               `yaml:"template"`
	Rotation types.RotationConfig `yaml:"rotation"`
}

// FileSink appends one formatted line per event to a log file with rotation.
type FileSink struct {
	writer     *lumberjack.Logger
	formatter  *TemplateFormatter
	logger     *zap.Logger
	instanceID string
	seq        atomic.Uint64
}

// NewFileSink creates a file-backed sink. Returns an error if the template
// is invalid or the parent directory cannot be created.
func NewFileSink(config FileSinkConfig, logger *zap.Logger) (*FileSink, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create event log directory %s: %w", dir, err)
	}

	template := config.Template
	if template == "" {
		template = defaultTemplate
	}

	formatter, err := NewTemplateFormatter(template)
	if err != nil {
		return nil, fmt.Errorf("invalid template for event log %s: %w", config.Path, err)
	}

	maxSize := config.Rotation.MaxSize
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}

	maxAge := config.Rotation.MaxAge
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}

	maxBackups := config.Rotation.MaxBackups
	if maxBackups == 0 {
		maxBackups = DefaultMaxBackups
	}

	writer := &lumberjack.Logger{
		Filename:   config.Path,
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
		Compress:   config.Rotation.Compress,
	}

	return &FileSink{
		writer:     writer,
		formatter:  formatter,
		logger:     logger,
		instanceID: uuid.NewString(),
	}, nil
}

// Notify formats the event and appends it to the log file. Fire-and-forget:
// write errors are logged, never returned.
func (f *FileSink) Notify(kind types.EventKind, payload string) {
	env := &types.Envelope{
		Kind:       int(kind),
		KindName:   kind.String(),
		Payload:    payload,
		Seq:        f.seq.Add(1),
		InstanceID: f.instanceID,
		EmittedAt:  time.Now().UTC(),
	}

	line := f.formatter.Format(env)
	if _, err := f.writer.Write([]byte(line + "\n")); err != nil {
		f.logger.Warn("failed to write event to log file",
			zap.Error(err),
			zap.Stringer("kind", kind),
		)
	}
}

// Close closes the underlying file handle.
func (f *FileSink) Close() error {
	return f.writer.Close()
}
