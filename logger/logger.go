package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger represents a structured logger
type Logger struct {
	logger zerolog.Logger
}

// Fields represents log fields
type Fields map[string]interface{}

var (
	// Default is the default logger instance
	Default *Logger
)

// Init initializes the default logger writing to stdout
func Init() {
	InitWithWriter(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}

// InitWithWriter initializes the default logger with a custom output
func InitWithWriter(out io.Writer) {
	level := getLogLevel()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)

	Default = &Logger{logger: zerolog.New(out).With().Timestamp().Logger()}

	Default.Debug().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// getLogLevel returns the log level from LOG_LEVEL, falling back to the environment
func getLogLevel() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("SCRAPER_ENVIRONMENT") == "production" {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// WithFields creates a new logger with fields
func (l *Logger) WithFields(fields Fields) *Logger {
	newLogger := l.logger.With()
	for k, v := range fields {
		newLogger = newLogger.Interface(k, v)
	}
	return &Logger{logger: newLogger.Logger()}
}

// WithField creates a new logger with a single field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithError adds an error to the logger
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With().Err(err).Logger()}
}

// Debug returns a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info returns an info event
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn returns a warn event
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error returns an error event
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

func defaultLogger() *Logger {
	if Default == nil {
		Init()
	}
	return Default
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	defaultLogger().Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	defaultLogger().Warn().Msgf(format, v...)
}

// ForTarget creates a logger for a single scrape target
func ForTarget(key string) *Logger {
	return defaultLogger().WithField("target", key)
}

// ForApp creates a logger for process-level events
func ForApp() *Logger {
	return defaultLogger().WithField("component", "app")
}

// ForWorker creates a logger for the worker
func ForWorker() *Logger {
	return defaultLogger().WithField("component", "worker")
}

// ForFetcher creates a logger for page fetching
func ForFetcher() *Logger {
	return defaultLogger().WithField("component", "fetcher")
}

// ForExtractor creates a logger for an extraction strategy
func ForExtractor(strategy string) *Logger {
	return defaultLogger().WithFields(Fields{"component": "extractor", "strategy": strategy})
}

// ForPublisher creates a logger for the publisher
func ForPublisher() *Logger {
	return defaultLogger().WithField("component", "publisher")
}

// ForCache creates a logger for the cache
func ForCache() *Logger {
	return defaultLogger().WithField("component", "cache")
}

// LogError is a convenience method for logging errors with context
func LogError(component string, err error, format string, v ...interface{}) {
	defaultLogger().Error().
		Str("component", component).
		Err(err).
		Msg(fmt.Sprintf(format, v...))
}
