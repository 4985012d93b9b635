// Package zaplog adapts go.uber.org/zap to the go-tracking Logger contract.
package zaplog

import (
	"strings"

	"github.com/goliatone/go-tracking/pkg/types"
	"go.uber.org/zap"
)

// Logger implements types.Logger on top of a zap SugaredLogger.
type Logger struct {
	sugar *zap.SugaredLogger
}

var _ types.Logger = (*Logger)(nil)

// New builds a zap logger for the given mode ("prod"/"production" or
// development otherwise) at debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return Wrap(base), nil
}

// Wrap adapts an existing zap logger. A nil logger discards everything.
func Wrap(base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{sugar: base.Sugar()}
}

// Debug implements types.Logger.
func (l *Logger) Debug(msg string, fields ...any) {
	l.sugar.Debugw(msg, fields...)
}

// Info implements types.Logger.
func (l *Logger) Info(msg string, fields ...any) {
	l.sugar.Infow(msg, fields...)
}

// Error implements types.Logger. The error is attached under "error".
func (l *Logger) Error(msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	l.sugar.Errorw(msg, fields...)
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(fields ...any) *Logger {
	return &Logger{sugar: l.sugar.With(fields...)}
}

// Named returns a child logger scoped to name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.sugar.Named(name)}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
