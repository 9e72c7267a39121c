package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"sjsage522/robotscraper/helpers"
	"sjsage522/robotscraper/logger"
	"sjsage522/robotscraper/pkg/errors"
	"sjsage522/robotscraper/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// pageCachePrefix namespaces fetched pages in the cache
const pageCachePrefix = "robotpage"

// BaseCrawler provides page fetching shared by all crawlers
type BaseCrawler struct {
	Client    *http.Client
	UserAgent string
	CacheSvc  cache.CacheService
	CacheTTL  time.Duration
}

// fetch returns the page body for url, from the page cache when available.
// Cache failures are logged and never fail the fetch.
func (c *BaseCrawler) fetch(ctx context.Context, url string) ([]byte, error) {
	key := helpers.CacheKey(pageCachePrefix, url)

	if c.CacheSvc != nil {
		body, err := c.CacheSvc.Get(key)
		if err == nil && len(body) > 0 {
			logger.ForCache().Debug().Str("url", url).Int("bytes", len(body)).Msg("Page cache hit")
			return body, nil
		}
		if err != nil {
			logger.ForCache().
				WithError(errors.NewCache(url, "page cache lookup failed", err)).
				Debug().Msg("Page cache miss")
		}
	}

	start := time.Now()
	body, status, err := helpers.FetchPage(ctx, c.Client, url, c.UserAgent)
	log := logger.ForFetcher().WithFields(logger.Fields{"url": url, "status": status})
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Fetch failed")
		return nil, err
	}
	log.Debug().Int("bytes", len(body)).Dur("elapsed", time.Since(start)).Msg("Fetched page")

	if c.CacheSvc != nil && c.CacheTTL > 0 {
		if setErr := c.CacheSvc.Set(key, body, c.CacheTTL); setErr != nil {
			logger.ForCache().
				WithError(errors.NewCache(url, "failed to cache page", setErr)).
				Warn().Msg("Page cache store failed")
		}
	}

	return body, nil
}

// createDocument parses a page body
func (c *BaseCrawler) createDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %w", err)
	}
	return doc, nil
}
