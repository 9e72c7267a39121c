package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sjsage522/robotscraper/helpers"
	"sjsage522/robotscraper/internal/crawler"
	"sjsage522/robotscraper/logger"
	"sjsage522/robotscraper/pkg/errors"
	"sjsage522/robotscraper/services/publisher"
)

// Result is the aggregate of one run
type Result struct {
	Robots    map[string]crawler.RobotRecord
	Succeeded []string
	Failed    []string
}

// outcome is the scrape result of one target, kept in target order
type outcome struct {
	record *crawler.RobotRecord
	err    error
}

// Worker scrapes every target once and aggregates the records
type Worker struct {
	targets     []crawler.Target
	crawler     crawler.Crawler
	publisher   publisher.Publisher
	logger      helpers.LoggerInterface
	concurrency int
}

// NewWorker creates a new worker; pub may be nil
func NewWorker(
	targets []crawler.Target,
	c crawler.Crawler,
	pub publisher.Publisher,
	logger helpers.LoggerInterface,
	concurrency int,
) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		targets:     targets,
		crawler:     c,
		publisher:   pub,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run scrapes all targets. Failed targets are logged and left out; the result is the
// same whatever the concurrency, since outcomes are merged in target order.
func (w *Worker) Run(ctx context.Context) Result {
	start := time.Now()
	log := logger.ForWorker()
	log.Info().
		Int("targets", len(w.targets)).
		Int("concurrency", w.concurrency).
		Str("crawler", w.crawler.GetName()).
		Msg("Starting scrape run")

	outcomes := w.scrapeAll(ctx)

	result := Result{
		Robots:    make(map[string]crawler.RobotRecord),
		Succeeded: []string{},
		Failed:    []string{},
	}
	for i, target := range w.targets {
		o := outcomes[i]
		if o.err != nil {
			w.logger.LogError(target.Key, o.err)
			result.Failed = append(result.Failed, target.Key)
			continue
		}

		result.Robots[target.Key] = *o.record
		result.Succeeded = append(result.Succeeded, target.Key)
		w.logger.LogInfo("Successfully scraped data for: %s", target.Key)
		w.publish(target, o.record)
	}

	log.Info().
		Int("succeeded", len(result.Succeeded)).
		Int("failed", len(result.Failed)).
		Dur("elapsed", time.Since(start)).
		Msg("Scrape run complete")

	return result
}

// scrapeAll runs the crawler over every target, at most concurrency at a time
func (w *Worker) scrapeAll(ctx context.Context) []outcome {
	outcomes := make([]outcome, len(w.targets))

	if w.concurrency == 1 {
		for i, target := range w.targets {
			outcomes[i] = w.scrapeOne(ctx, target)
		}
		return outcomes
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, w.concurrency)
	for i, target := range w.targets {
		wg.Add(1)
		go func(i int, target crawler.Target) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcomes[i] = w.scrapeOne(ctx, target)
		}(i, target)
	}
	wg.Wait()

	return outcomes
}

// scrapeOne never lets a panic in one target take down the run
func (w *Worker) scrapeOne(ctx context.Context, target crawler.Target) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: errors.NewParsing(target.Key, "panic while scraping", nil)}
			logger.ForTarget(target.Key).Error().Interface("panic", r).Msg("Recovered from panic")
		}
	}()

	if err := ctx.Err(); err != nil {
		return outcome{err: errors.NewNetwork(target.Key, "run cancelled", err)}
	}

	record, err := w.crawler.Scrape(ctx, target)
	if err == nil && record == nil {
		err = errors.NewParsing(target.Key, "crawler returned no record", nil)
	}
	return outcome{record: record, err: err}
}

// publish announces a record; failures are logged and do not affect the run
func (w *Worker) publish(target crawler.Target, record *crawler.RobotRecord) {
	if w.publisher == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		logger.ForPublisher().Error().Err(err).Str("target", target.Key).Msg("Failed to encode record")
		return
	}

	if err := w.publisher.Publish(target.Key, data); err != nil {
		logger.ForPublisher().Warn().
			Err(errors.NewPublisher(target.Key, "failed to publish record", err)).
			Msg("Publish failed")
	}
}
