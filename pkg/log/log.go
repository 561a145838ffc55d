// Package log provides structured logging for estimators backed by zerolog.
//
// Estimators obtain a named Logger from a LoggerProvider and attach model
// context with With:
//
//	logger := log.GetLoggerWithName("pipeline").With(
//		log.ModelNameKey, "Pipeline",
//		log.ComponentKey, "pipeline",
//	)
//	logger.Info("fit complete", "n_samples", n)
package log

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Standard structured field names used across the library.
const (
	ModelNameKey = "model"
	ComponentKey = "component"
)

// Logger is the logging interface used by all estimators.
// Key-value pairs are passed as alternating keys and values.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	// With returns a Logger carrying the given fields on every entry.
	With(keysAndValues ...interface{}) Logger
}

// LoggerProvider creates Logger instances.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
}

// ToLogLevel converts a level name ("debug", "info", "warn", "error") to a
// zerolog level. Unknown names default to info.
func ToLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewZerologProvider creates a LoggerProvider writing to stderr at the given level.
func NewZerologProvider(level zerolog.Level) LoggerProvider {
	base := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return &zerologProvider{base: base}
}

type zerologProvider struct {
	base zerolog.Logger
}

func (p *zerologProvider) GetLogger() Logger {
	return &zerologLogger{logger: p.base}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{logger: p.base.With().Str("logger", name).Logger()}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

func (l *zerologLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(toFields(keysAndValues)).Msg(msg)
}

func (l *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

func (l *zerologLogger) With(keysAndValues ...interface{}) Logger {
	return &zerologLogger{logger: l.logger.With().Fields(toFields(keysAndValues)).Logger()}
}

// toFields converts alternating key-value pairs into a zerolog fields map.
// A trailing key without a value is dropped.
func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

var (
	defaultProviderOnce sync.Once
	defaultProvider     LoggerProvider
)

// DefaultProvider returns the process-wide provider, initialized lazily at
// info level.
func DefaultProvider() LoggerProvider {
	defaultProviderOnce.Do(func() {
		defaultProvider = NewZerologProvider(ToLogLevel(os.Getenv("GOML_LOG_LEVEL")))
	})
	return defaultProvider
}

// GetLoggerWithName returns a named Logger from the default provider.
func GetLoggerWithName(name string) Logger {
	return DefaultProvider().GetLoggerWithName(name)
}
