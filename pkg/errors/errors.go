package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration represents missing or invalid startup configuration
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeSource represents target list loading errors
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeNetwork represents fetch errors and non-success statuses
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeExtraction represents malformed or unusable model output
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeSafety represents a model response blocked by safety filtering
	ErrorTypeSafety ErrorType = "safety"
	// ErrorTypeCache represents page cache errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeOutput represents output file errors
	ErrorTypeOutput ErrorType = "output"
)

// ScrapeError is an error tied to a single target (or to the run when Target is empty)
type ScrapeError struct {
	Type    ErrorType
	Target  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type)
	if e.Target != "" {
		prefix = fmt.Sprintf("[%s] %s:", e.Type, e.Target)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s - %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// TypeOf returns the type of the first ScrapeError in err's chain, or "" if there is none.
func TypeOf(err error) ErrorType {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Type
	}
	return ""
}

// Is reports whether err carries a ScrapeError of the given type.
func Is(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// New creates a new ScrapeError
func New(errType ErrorType, target, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Target:  target,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewSource creates a new target list error
func NewSource(message string, err error) *ScrapeError {
	return New(ErrorTypeSource, "", message, err)
}

// NewNetwork creates a new network error
func NewNetwork(target, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, target, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(target, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, target, message, err)
}

// NewExtraction creates a new model extraction error
func NewExtraction(target, message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, target, message, err)
}

// NewSafety creates a new safety block error
func NewSafety(target, message string) *ScrapeError {
	return New(ErrorTypeSafety, target, message, nil)
}

// NewCache creates a new cache error
func NewCache(target, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, target, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(target, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, target, message, err)
}

// NewOutput creates a new output error
func NewOutput(message string, err error) *ScrapeError {
	return New(ErrorTypeOutput, "", message, err)
}
