package crawler

import (
	"testing"
	"time"

	"sjsage522/robotscraper/config"
	"sjsage522/robotscraper/internal"
	"sjsage522/robotscraper/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTargets(t *testing.T) {
	cfg := &config.Config{SourceMode: config.SourceStatic, BaseURL: testBaseURL}
	targets, err := LoadTargets(cfg)
	require.NoError(t, err)
	assert.Len(t, targets, 5)

	cfg.SourceMode = "database"
	_, err = LoadTargets(cfg)
	assert.True(t, errors.Is(err, errors.ErrorTypeConfiguration))
}

func TestNewExtractor(t *testing.T) {
	cfg := &config.Config{Extractor: config.ExtractorRules}
	extractor, err := NewExtractor(cfg, internal.Dependencies{})
	require.NoError(t, err)
	assert.Equal(t, "rules", extractor.Name())

	cfg = &config.Config{Extractor: config.ExtractorModel, MaxPageChars: 100, ModelTimeout: time.Second, StripCodeFences: true}
	_, err = NewExtractor(cfg, internal.Dependencies{})
	assert.True(t, errors.Is(err, errors.ErrorTypeConfiguration), "model extractor needs a generator")

	extractor, err = NewExtractor(cfg, internal.Dependencies{Generator: &MockGenerator{}})
	require.NoError(t, err)
	model, ok := extractor.(*ModelExtractor)
	require.True(t, ok)
	assert.Equal(t, 100, model.MaxPageChars)
	assert.True(t, model.StripCodeFences)

	_, err = NewExtractor(&config.Config{Extractor: "magic"}, internal.Dependencies{})
	assert.Error(t, err)
}

func TestCreateCrawler(t *testing.T) {
	mockCache := NewMockCacheService()
	cfg := &config.Config{
		Extractor:      config.ExtractorRules,
		UserAgent:      "agent",
		RequestTimeout: 5 * time.Second,
		PageCacheTTL:   time.Hour,
	}

	c, err := CreateCrawler(cfg, internal.Dependencies{Cache: mockCache})
	require.NoError(t, err)
	assert.Equal(t, "agent", c.UserAgent)
	assert.Equal(t, 5*time.Second, c.Client.Timeout)
	assert.Equal(t, mockCache, c.CacheSvc)
	assert.Equal(t, time.Hour, c.CacheTTL)
}
