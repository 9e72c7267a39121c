package config

import (
	"testing"
	"time"

	"sjsage522/robotscraper/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, SourceFile, config.SourceMode)
	assert.Equal(t, "robots_to_scrape.txt", config.TargetsFile)
	assert.Equal(t, "https://en.wikipedia.org/wiki/", config.BaseURL)
	assert.Equal(t, "data/robots.json", config.OutputPath)
	assert.Equal(t, ExtractorRules, config.Extractor)
	assert.Equal(t, "Cool-Robot-App-Scraper/1.0", config.UserAgent)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
	assert.Equal(t, 15000, config.MaxPageChars)
	assert.Equal(t, "BLOCK_NONE", config.SafetyThreshold)
	assert.Equal(t, 1, config.Concurrency)
	assert.False(t, config.StripCodeFences)
	assert.Empty(t, config.MemcacheAddr)
	assert.Empty(t, config.RedisAddr)

	// Test with environment variables
	t.Setenv("SOURCE_MODE", "STATIC")
	t.Setenv("EXTRACTOR", "model")
	t.Setenv("OUTPUT_PATH", "/tmp/out.json")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("MAX_PAGE_CHARS", "2000")
	t.Setenv("SAFETY_THRESHOLD", "block_only_high")
	t.Setenv("STRIP_CODE_FENCES", "true")
	t.Setenv("CONCURRENCY", "4")
	t.Setenv("REDIS_DB", "2")

	config = LoadConfig()
	assert.Equal(t, SourceStatic, config.SourceMode)
	assert.Equal(t, ExtractorModel, config.Extractor)
	assert.Equal(t, "/tmp/out.json", config.OutputPath)
	assert.Equal(t, 5*time.Second, config.RequestTimeout)
	assert.Equal(t, 2000, config.MaxPageChars)
	assert.Equal(t, "BLOCK_ONLY_HIGH", config.SafetyThreshold)
	assert.True(t, config.StripCodeFences)
	assert.Equal(t, 4, config.Concurrency)
	assert.Equal(t, 2, config.RedisDB)
}

func TestLoadConfigBadNumbersFallBack(t *testing.T) {
	t.Setenv("CONCURRENCY", "many")
	t.Setenv("STRIP_CODE_FENCES", "sometimes")

	config := LoadConfig()
	assert.Equal(t, 1, config.Concurrency)
	assert.False(t, config.StripCodeFences)
}

func TestValidate(t *testing.T) {
	valid := LoadConfig()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"unknown source", func(c *Config) { c.SourceMode = "s3" }, "SOURCE_MODE"},
		{"unknown extractor", func(c *Config) { c.Extractor = "regex" }, "EXTRACTOR"},
		{"model without key", func(c *Config) { c.Extractor = ExtractorModel; c.APIKey = "" }, "GEMINI_API_KEY"},
		{"bad threshold", func(c *Config) { c.Extractor = ExtractorModel; c.APIKey = "k"; c.SafetyThreshold = "MAYBE" }, "SAFETY_THRESHOLD"},
		{"zero page chars", func(c *Config) { c.Extractor = ExtractorModel; c.APIKey = "k"; c.MaxPageChars = 0 }, "MAX_PAGE_CHARS"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "REQUEST_TIMEOUT_SECONDS"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "CONCURRENCY"},
		{"empty output", func(c *Config) { c.OutputPath = "" }, "OUTPUT_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.True(t, errors.Is(err, errors.ErrorTypeConfiguration))
		})
	}
}

func TestValidateModelWithKey(t *testing.T) {
	cfg := LoadConfig()
	cfg.Extractor = ExtractorModel
	cfg.APIKey = "test-key"
	assert.NoError(t, cfg.Validate())
}
