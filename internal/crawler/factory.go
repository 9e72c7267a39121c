package crawler

import (
	"sjsage522/robotscraper/config"
	"sjsage522/robotscraper/helpers"
	"sjsage522/robotscraper/internal"
	"sjsage522/robotscraper/logger"
	"sjsage522/robotscraper/pkg/errors"
)

// LoadTargets returns the targets for the configured source mode
func LoadTargets(cfg *config.Config) ([]Target, error) {
	switch cfg.SourceMode {
	case config.SourceStatic:
		return StaticTargets(cfg.BaseURL), nil
	case config.SourceFile:
		return LoadTargetsFromFile(cfg.TargetsFile, cfg.BaseURL)
	default:
		return nil, errors.NewConfiguration("unknown source mode "+cfg.SourceMode, nil)
	}
}

// NewExtractor returns the extraction strategy selected by the configuration
func NewExtractor(cfg *config.Config, deps internal.Dependencies) (Extractor, error) {
	switch cfg.Extractor {
	case config.ExtractorRules:
		return NewRuleExtractor(), nil
	case config.ExtractorModel:
		if deps.Generator == nil {
			return nil, errors.NewConfiguration("model extractor requires a generator", nil)
		}
		return NewModelExtractor(deps.Generator, cfg.MaxPageChars, cfg.ModelTimeout, cfg.StripCodeFences), nil
	default:
		return nil, errors.NewConfiguration("unknown extractor "+cfg.Extractor, nil)
	}
}

// CreateCrawler wires the fetch settings, page cache and extraction strategy
func CreateCrawler(cfg *config.Config, deps internal.Dependencies) (*RobotCrawler, error) {
	extractor, err := NewExtractor(cfg, deps)
	if err != nil {
		return nil, err
	}

	c := NewRobotCrawler(BaseCrawler{
		Client:    helpers.NewHTTPClient(cfg.RequestTimeout),
		UserAgent: cfg.UserAgent,
		CacheSvc:  deps.Cache,
		CacheTTL:  cfg.PageCacheTTL,
	}, extractor)

	logger.Info("Created %s", c.GetName())
	return c, nil
}
