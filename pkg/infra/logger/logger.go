package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultDir        = "logs"
	fileBufferSize    = 32 * 1024
	DefaultComponent  = "bot"
	componentFieldKey = "component"
)

type Config struct {
	Level     string `mapstructure:"level"`
	Dir       string `mapstructure:"dir"`
	ToFile    bool   `mapstructure:"to_file"`
	ToConsole bool   `mapstructure:"to_console"`
}

// NewLogger builds the JSON logger for component. The returned func flushes
// pending file writes.
func NewLogger(component string, cfg Config) (*logrus.Logger, func(), error) {
	logger := newBase(cfg.Level)
	closer := func() {}

	if component == "" {
		component = DefaultComponent
	}
	logger.AddHook(&fieldHook{key: componentFieldKey, value: component})

	if !cfg.ToFile {
		if cfg.ToConsole {
			logger.SetOutput(os.Stdout)
		} else {
			logger.SetOutput(io.Discard)
		}
		return logger, closer, nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	logFile := filepath.Clean(filepath.Join(dir, component+".log"))
	if !strings.HasPrefix(logFile, filepath.Clean(dir)+string(filepath.Separator)) {
		return nil, closer, fmt.Errorf("invalid log file path %q: must be in %s", logFile, dir)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, closer, fmt.Errorf("failed to create logs directory: %w", err)
	}

	asyncWriter, err := NewAsyncFileWriter(logFile, fileBufferSize)
	if err != nil {
		return nil, closer, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	logger.SetOutput(asyncWriter)

	if cfg.ToConsole {
		logger.AddHook(NewConsoleHook(os.Stdout))
	}
	return logger, asyncWriter.Close, nil
}

func newBase(level string) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

type fieldHook struct {
	key   string
	value string
}

func (h *fieldHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data[h.key]; !ok {
		entry.Data[h.key] = h.value
	}
	return nil
}

func (h *fieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
