package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/robotscraper/pkg/errors"
)

// Source modes
const (
	SourceStatic = "static"
	SourceFile   = "file"
)

// Extraction strategies
const (
	ExtractorRules = "rules"
	ExtractorModel = "model"
)

// validThresholds mirrors the block thresholds accepted by the generative model API
var validThresholds = []string{
	"BLOCK_NONE",
	"BLOCK_ONLY_HIGH",
	"BLOCK_MEDIUM_AND_ABOVE",
	"BLOCK_LOW_AND_ABOVE",
	"OFF",
}

// Config represents the application configuration
type Config struct {
	// Target list
	SourceMode  string
	TargetsFile string
	BaseURL     string

	// Output
	OutputPath     string
	FailureLogFile string

	// Fetching
	UserAgent      string
	RequestTimeout time.Duration
	Concurrency    int

	// Extraction
	Extractor       string
	MaxPageChars    int
	APIKey          string
	ModelName       string
	ModelTimeout    time.Duration
	SafetyThreshold string
	StripCodeFences bool

	// Memcache page cache, disabled when MemcacheAddr is empty
	MemcacheAddr string
	PageCacheTTL time.Duration

	// Redis record stream, disabled when RedisAddr is empty
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	return Config{
		SourceMode:           strings.ToLower(getEnv("SOURCE_MODE", SourceFile)),
		TargetsFile:          getEnv("TARGETS_FILE", "robots_to_scrape.txt"),
		BaseURL:              getEnv("WIKI_BASE_URL", "https://en.wikipedia.org/wiki/"),
		OutputPath:           getEnv("OUTPUT_PATH", "data/robots.json"),
		FailureLogFile:       getEnv("FAILURE_LOG_FILE", ""),
		UserAgent:            getEnv("USER_AGENT", "Cool-Robot-App-Scraper/1.0"),
		RequestTimeout:       getSeconds("REQUEST_TIMEOUT_SECONDS", 30),
		Concurrency:          getInt("CONCURRENCY", 1),
		Extractor:            strings.ToLower(getEnv("EXTRACTOR", ExtractorRules)),
		MaxPageChars:         getInt("MAX_PAGE_CHARS", 15000),
		APIKey:               getEnv("GEMINI_API_KEY", ""),
		ModelName:            getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		ModelTimeout:         getSeconds("MODEL_TIMEOUT_SECONDS", 60),
		SafetyThreshold:      strings.ToUpper(getEnv("SAFETY_THRESHOLD", "BLOCK_NONE")),
		StripCodeFences:      getBool("STRIP_CODE_FENCES", false),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		PageCacheTTL:         getSeconds("PAGE_CACHE_TTL_SECONDS", 3600),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "robots"),
		RedisStreamMaxLength: getInt("REDIS_STREAM_MAX_LENGTH", 1000),
		Environment:          getEnv("SCRAPER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration before any network activity
func (c *Config) Validate() error {
	switch c.SourceMode {
	case SourceStatic, SourceFile:
	default:
		return errors.NewConfiguration(fmt.Sprintf("unknown SOURCE_MODE %q (want static or file)", c.SourceMode), nil)
	}
	if c.SourceMode == SourceFile && c.TargetsFile == "" {
		return errors.NewConfiguration("TARGETS_FILE is required when SOURCE_MODE=file", nil)
	}
	if c.OutputPath == "" {
		return errors.NewConfiguration("OUTPUT_PATH must not be empty", nil)
	}
	if c.RequestTimeout <= 0 {
		return errors.NewConfiguration("REQUEST_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.Concurrency < 1 {
		return errors.NewConfiguration("CONCURRENCY must be at least 1", nil)
	}

	switch c.Extractor {
	case ExtractorRules:
	case ExtractorModel:
		if c.APIKey == "" {
			return errors.NewConfiguration("GEMINI_API_KEY is required when EXTRACTOR=model", nil)
		}
		if c.MaxPageChars <= 0 {
			return errors.NewConfiguration("MAX_PAGE_CHARS must be positive", nil)
		}
		if c.ModelTimeout <= 0 {
			return errors.NewConfiguration("MODEL_TIMEOUT_SECONDS must be positive", nil)
		}
		if !isValidThreshold(c.SafetyThreshold) {
			return errors.NewConfiguration(fmt.Sprintf("unknown SAFETY_THRESHOLD %q", c.SafetyThreshold), nil)
		}
	default:
		return errors.NewConfiguration(fmt.Sprintf("unknown EXTRACTOR %q (want rules or model)", c.Extractor), nil)
	}

	return nil
}

func isValidThreshold(threshold string) bool {
	for _, t := range validThresholds {
		if t == threshold {
			return true
		}
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getInt reads an integer environment variable; unparsable values fall back to the default
func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getInt(key, defaultSeconds)) * time.Second
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}
