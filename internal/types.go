package internal

import (
	"sjsage522/robotscraper/services/cache"
	"sjsage522/robotscraper/services/llm"
	"sjsage522/robotscraper/services/publisher"
)

// Dependencies holds the optional services a run is wired with; nil means disabled
type Dependencies struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Generator llm.Generator
}
