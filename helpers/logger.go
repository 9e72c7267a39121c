package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"

	"sjsage522/robotscraper/logger"
)

// LoggerInterface defines the interface for per-target diagnostics
type LoggerInterface interface {
	LogError(target string, err error)
	LogInfo(format string, args ...interface{})
}

// Logger reports target failures to the structured log and, when errorFile is set,
// appends them to that file as well
type Logger struct {
	mu        sync.Mutex
	errorFile string
}

// NewLogger creates a new logger instance
func NewLogger(errorFile string) *Logger {
	return &Logger{
		errorFile: errorFile,
	}
}

// LogError logs an error with target name and timestamp
func (l *Logger) LogError(target string, err error) {
	logger.ForTarget(target).Error().Err(err).Msg("Failed to scrape target")

	if l.errorFile == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, fileErr := os.OpenFile(l.errorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		logger.Warn("Failed to open failure log %s: %v", l.errorFile, fileErr)
		return
	}
	defer f.Close()

	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] [%s] %s\n", timestamp, target, err.Error())
}

// LogInfo logs an informational message
func (l *Logger) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
