package crawler

import (
	"context"

	"sjsage522/robotscraper/pkg/errors"
)

// RobotCrawler fetches a robot page and hands it to an extraction strategy
type RobotCrawler struct {
	BaseCrawler
	Extractor Extractor
}

// NewRobotCrawler creates a crawler for the given fetch settings and strategy
func NewRobotCrawler(base BaseCrawler, extractor Extractor) *RobotCrawler {
	return &RobotCrawler{
		BaseCrawler: base,
		Extractor:   extractor,
	}
}

// GetName returns the crawler's name for logging
func (c *RobotCrawler) GetName() string {
	return "RobotCrawler(" + c.Extractor.Name() + ")"
}

// Scrape fetches, parses and extracts a single target
func (c *RobotCrawler) Scrape(ctx context.Context, target Target) (*RobotRecord, error) {
	body, err := c.fetch(ctx, target.URL)
	if err != nil {
		return nil, errors.NewNetwork(target.Key, "failed to fetch "+target.URL, err)
	}

	doc, err := c.createDocument(body)
	if err != nil {
		return nil, errors.NewParsing(target.Key, "failed to parse page", err)
	}

	return c.Extractor.Extract(ctx, target, doc)
}
