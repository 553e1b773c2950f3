// Package logger provides prefixed, colored loggers backed by zap.
//
// Every component gets its own logger with a short prefix such as "APP" or
// "SOLVER". Console output is human readable; an optional file output is
// JSON and rotated with lumberjack.
package logger

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	colorReset = "\033[0m"
	timeLayout = "2006/01/02 15:04:05"
)

// Options tunes a logger beyond its prefix and console writer.
type Options struct {
	Level      string // debug, info, warn or error; info when empty
	File       string // Path of a rotated JSON log file, disabled when empty
	MaxSizeMB  int    // Size that triggers a rotation
	MaxBackups int    // Rotated files to keep
	MaxAgeDays int    // Days to keep rotated files
}

// Logger writes leveled messages under a fixed prefix.
type Logger struct {
	zl *zap.Logger
}

// New creates a logger writing to w at info level.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	return NewWithOptions(prefix, color, w, Options{})
}

// NewWithOptions creates a logger writing to w, and to a rotated file when
// opts.File is set.
func NewWithOptions(prefix, color string, w io.Writer, opts Options) (*Logger, error) {
	if w == nil {
		return nil, fmt.Errorf("logger %s: nil writer", prefix)
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("logger %s: %w", prefix, err)
		}
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig(color)), zapcore.AddSync(w), level),
	}

	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		})
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, fileWriter, level))
	}

	return &Logger{zl: zap.New(zapcore.NewTee(cores...)).Named(prefix)}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

func consoleEncoderConfig(color string) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " "
	cfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		if color == "" {
			enc.AppendString("[" + name + "]")
			return
		}
		enc.AppendString(color + "[" + name + "]" + colorReset)
	}
	return cfg
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zl.Debug(msg, fields...)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zl.Info(msg, fields...)
}

// Warning logs a message at warn level.
func (l *Logger) Warning(msg string, fields ...zap.Field) {
	l.zl.Warn(msg, fields...)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zl.Error(msg, fields...)
}

// Sync flushes buffered output.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}
