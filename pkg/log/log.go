// Package log provides logging functionality used by all components.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface the rest of the codebase programs against.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warning(args ...interface{})
	Error(args ...interface{})
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warningf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	With(args ...interface{}) Logger
}

type logger struct {
	sugar *zap.SugaredLogger
}

// NewDefaultLogger returns a console logger writing to stdout at the given level.
func NewDefaultLogger(level string) (Logger, error) {
	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		parsedLevel,
	)
	return &logger{
		sugar: zap.New(core).Sugar(),
	}, nil
}

// NewSilentLogger returns a logger which discards all output. It is mainly for testing.
func NewSilentLogger() Logger {
	return &logger{
		sugar: zap.NewNop().Sugar(),
	}
}

func (l *logger) Debug(args ...interface{})   { l.sugar.Debug(args...) }
func (l *logger) Info(args ...interface{})    { l.sugar.Info(args...) }
func (l *logger) Warning(args ...interface{}) { l.sugar.Warn(args...) }
func (l *logger) Error(args ...interface{})   { l.sugar.Error(args...) }

func (l *logger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }
func (l *logger) Infof(template string, args ...interface{})  { l.sugar.Infof(template, args...) }
func (l *logger) Warningf(template string, args ...interface{}) {
	l.sugar.Warnf(template, args...)
}
func (l *logger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }

func (l *logger) With(args ...interface{}) Logger {
	return &logger{
		sugar: l.sugar.With(args...),
	}
}
