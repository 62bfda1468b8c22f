package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"aura-backend/internal/shared/contextkeys"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFormatJSON = "json"

	backendLogrus = "logrus"
	backendZap    = "zap"

	envProduction = "production"
	envProd       = "prod"

	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
	textTimestamp   = "2006-01-02 15:04:05"
)

// Logger defines the interface for structured logging operations
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// Config selects level, format, backend and sink.
type Config struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Format      string `env:"LOG_FORMAT" envDefault:"text"`
	Backend     string `env:"LOG_BACKEND" envDefault:"logrus"`
	File        string `env:"LOG_FILE"`
	MaxSizeMB   int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups  int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays  int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"28"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// LogrusLogger implements the Logger interface using logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogger creates a logger configured from LOG_* environment variables.
func NewLogger() Logger {
	return New(Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
		Backend:     os.Getenv("LOG_BACKEND"),
		File:        os.Getenv("LOG_FILE"),
		Environment: os.Getenv("ENVIRONMENT"),
	})
}

// New builds a Logger for cfg. Unknown backends fall back to logrus.
func New(cfg Config) Logger {
	out := output(cfg)
	if strings.EqualFold(cfg.Backend, backendZap) {
		return newZapLogger(cfg, out)
	}
	return newLogrusLogger(cfg, out)
}

// NewLoggerWithConfig creates a logrus logger writing to stdout.
func NewLoggerWithConfig(level string, format string) Logger {
	return newLogrusLogger(Config{Level: level, Format: format}, os.Stdout)
}

func newLogrusLogger(cfg Config, out io.Writer) Logger {
	logger := logrus.New()
	logger.SetLevel(parseLevel(cfg.Level))
	logger.SetFormatter(logrusFormatter(cfg, out == os.Stdout))
	logger.SetOutput(out)

	return &LogrusLogger{
		entry: logrus.NewEntry(logger),
	}
}

// output returns a rotating file sink when LOG_FILE is set.
func output(cfg Config) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    orDefault(cfg.MaxSizeMB, 100),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAgeDays, 28),
		Compress:   true,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (l *LogrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *LogrusLogger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *LogrusLogger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *LogrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *LogrusLogger) Fatal(args ...interface{}) { l.entry.Fatal(args...) }

func (l *LogrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

// WithFields adds structured fields to the logger
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{
		entry: l.entry.WithFields(logrus.Fields(fields)),
	}
}

// WithContext adds request-scoped values carried by ctx.
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	return &LogrusLogger{
		entry: l.entry.WithFields(logrus.Fields(contextFields(ctx))),
	}
}

// WithComponent adds component name to the logger
func (l *LogrusLogger) WithComponent(component string) Logger {
	return &LogrusLogger{
		entry: l.entry.WithField("component", component),
	}
}

var contextFieldKeys = []struct {
	key  interface{}
	name string
}{
	{contextkeys.UserIDKey, "user_id"},
	{contextkeys.RequestIDKey, "request_id"},
	{contextkeys.ComponentKey, "component"},
	{contextkeys.OperationKey, "operation"},
}

func contextFields(ctx context.Context) map[string]interface{} {
	fields := make(map[string]interface{})
	if ctx == nil {
		return fields
	}
	for _, f := range contextFieldKeys {
		if val, ok := ctx.Value(f.key).(string); ok && val != "" {
			fields[f.name] = val
		}
	}
	return fields
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func useJSON(cfg Config) bool {
	return strings.EqualFold(cfg.Format, logFormatJSON) || cfg.Environment == envProduction || cfg.Environment == envProd
}

func logrusFormatter(cfg Config, tty bool) logrus.Formatter {
	if useJSON(cfg) {
		return &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: textTimestamp,
		ForceColors:     tty,
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(args ...interface{})                      {}
func (nopLogger) Info(args ...interface{})                       {}
func (nopLogger) Warn(args ...interface{})                       {}
func (nopLogger) Error(args ...interface{})                      {}
func (nopLogger) Fatal(args ...interface{})                      {}
func (nopLogger) Debugf(format string, args ...interface{})      {}
func (nopLogger) Infof(format string, args ...interface{})       {}
func (nopLogger) Warnf(format string, args ...interface{})       {}
func (nopLogger) Errorf(format string, args ...interface{})      {}
func (nopLogger) Fatalf(format string, args ...interface{})      {}
func (n nopLogger) WithFields(map[string]interface{}) Logger     { return n }
func (n nopLogger) WithContext(context.Context) Logger           { return n }
func (n nopLogger) WithComponent(string) Logger                  { return n }

var defaultLogger = NewLogger()

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the package-level logger.
func Default() Logger { return defaultLogger }

func Info(args ...interface{})                  { defaultLogger.Info(args...) }
func Infof(format string, args ...interface{})  { defaultLogger.Infof(format, args...) }
func Errorf(format string, args ...interface{}) { defaultLogger.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { defaultLogger.Fatalf(format, args...) }

// WithComponent creates a logger with component information
func WithComponent(component string) Logger {
	return defaultLogger.WithComponent(component)
}
