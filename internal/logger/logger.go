package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	log   *zap.Logger
	named = map[string]*zap.Logger{}
)

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// InitLogger replaces the process-wide logger. If the output file cannot be
// opened the logger falls back to stderr and the error is returned.
func InitLogger(cfg Config) error {
	l, err := New(cfg)
	SetLogger(l)
	return err
}

// SetLogger installs l as the process-wide logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	log = l
	clear(named)
	mu.Unlock()
}

// New builds a logger from cfg without installing it.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)

	var output zapcore.WriteSyncer
	switch cfg.OutputPath {
	case "", "stderr":
		output = zapcore.AddSync(os.Stderr)
	case "stdout":
		output = zapcore.AddSync(os.Stdout)
	default:
		file, ferr := os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if ferr != nil {
			output = zapcore.AddSync(os.Stderr)
			err = fmt.Errorf("open log output %s: %w", cfg.OutputPath, ferr)
		} else {
			output = zapcore.AddSync(file)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Encoding == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, output, level)
	return zap.New(core, zap.AddCaller()), err
}

// ParseLevel maps a LogLevel to a zap level. Unknown levels yield info and
// an error.
func ParseLevel(l LogLevel) (zapcore.Level, error) {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel, nil
	case InfoLevel, "":
		return zapcore.InfoLevel, nil
	case WarnLevel:
		return zapcore.WarnLevel, nil
	case ErrorLevel:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", l)
	}
}

// GetLogger returns the process-wide logger, building a default one on
// first use.
func GetLogger() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log, _ = New(DefaultConfig())
	}
	return log
}

// Named returns a child of the process-wide logger for a component. Children
// are cached until the next SetLogger or InitLogger.
func Named(name string) *zap.Logger {
	mu.RLock()
	l, ok := named[name]
	mu.RUnlock()
	if ok {
		return l
	}

	parent := GetLogger()
	mu.Lock()
	defer mu.Unlock()
	if l, ok := named[name]; ok {
		return l
	}
	if parent != log {
		// SetLogger ran in between; do not cache a child of the old logger.
		return log.Named(name)
	}
	l = parent.Named(name)
	named[name] = l
	return l
}

// Sync flushes buffered entries.
func Sync() {
	_ = GetLogger().Sync()
}

func Debug(msg string, fields ...zap.Field) {
	skip().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	skip().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	skip().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	skip().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	skip().Fatal(msg, fields...)
}

func Debugf(template string, args ...interface{}) {
	skip().Sugar().Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	skip().Sugar().Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	skip().Sugar().Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	skip().Sugar().Errorf(template, args...)
}

func Fatalf(template string, args ...interface{}) {
	skip().Sugar().Fatalf(template, args...)
}

// skip reports the caller of the package-level helpers instead of this file.
func skip() *zap.Logger {
	return GetLogger().WithOptions(zap.AddCallerSkip(1))
}
