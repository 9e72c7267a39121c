package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/robotscraper/config"
	"sjsage522/robotscraper/helpers"
	"sjsage522/robotscraper/internal"
	"sjsage522/robotscraper/internal/crawler"
	"sjsage522/robotscraper/logger"
	"sjsage522/robotscraper/pkg/errors"
	"sjsage522/robotscraper/services/cache"
	"sjsage522/robotscraper/services/llm"
	"sjsage522/robotscraper/services/output"
	"sjsage522/robotscraper/services/publisher"
	"sjsage522/robotscraper/services/worker"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command; flags override the environment configuration
func newRootCmd() *cobra.Command {
	var (
		extractor   string
		source      string
		targetsFile string
		outputPath  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:           "robotscraper",
		Short:         "Scrape robot pages into a single JSON dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			flags := cmd.Flags()
			if flags.Changed("extractor") {
				cfg.Extractor = extractor
			}
			if flags.Changed("source") {
				cfg.SourceMode = source
			}
			if flags.Changed("targets-file") {
				cfg.TargetsFile = targetsFile
			}
			if flags.Changed("output") {
				cfg.OutputPath = outputPath
			}
			if flags.Changed("concurrency") {
				cfg.Concurrency = concurrency
			}

			if err := cfg.Validate(); err != nil {
				logger.LogError("config", err, "Invalid configuration")
				return err
			}

			_, err := run(cmd.Context(), &cfg)
			return err
		},
	}

	cmd.Flags().StringVar(&extractor, "extractor", config.ExtractorRules, "extraction strategy (rules or model)")
	cmd.Flags().StringVar(&source, "source", config.SourceFile, "target source (static or file)")
	cmd.Flags().StringVar(&targetsFile, "targets-file", "robots_to_scrape.txt", "file with one page title per line")
	cmd.Flags().StringVar(&outputPath, "output", "data/robots.json", "output JSON path")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "number of pages scraped at once")

	return cmd
}

// run performs one scrape pass and writes the output document
func run(ctx context.Context, cfg *config.Config) (worker.Result, error) {
	log := logger.ForApp()
	log.Info().
		Str("environment", cfg.Environment).
		Str("source", cfg.SourceMode).
		Str("extractor", cfg.Extractor).
		Msg("Starting scrape")

	services, err := initializeServices(ctx, cfg)
	if err != nil {
		return worker.Result{}, err
	}
	defer services.Cleanup()

	targets, err := crawler.LoadTargets(cfg)
	if err != nil {
		return worker.Result{}, err
	}
	log.Info().Int("target_count", len(targets)).Msg("Loaded targets")

	c, err := crawler.CreateCrawler(cfg, services.Dependencies)
	if err != nil {
		return worker.Result{}, err
	}

	w := worker.NewWorker(
		targets,
		c,
		services.Publisher,
		helpers.NewLogger(cfg.FailureLogFile),
		cfg.Concurrency,
	)
	result := w.Run(ctx)

	if err := output.Write(cfg.OutputPath, result.Robots, time.Now()); err != nil {
		logger.LogError("output", err, "Failed to write %s", cfg.OutputPath)
		return result, err
	}

	log.Info().
		Int("robots", len(result.Robots)).
		Int("failed", len(result.Failed)).
		Str("output", cfg.OutputPath).
		Msg("Scraping complete")

	return result, nil
}

// Services holds the optional services of a run
type Services struct {
	internal.Dependencies
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices creates the model client when the model extractor is selected,
// then connects the optional cache and publisher. The model client comes first so a
// configuration failure happens before any network activity. An unreachable cache or
// publisher is logged and left disabled.
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	if cfg.Extractor == config.ExtractorModel {
		generator, err := llm.NewGeminiGenerator(ctx, llm.GeminiConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.ModelName,
			Threshold: cfg.SafetyThreshold,
		})
		if err != nil {
			return nil, errors.NewConfiguration("failed to create model client", err)
		}
		services.Generator = generator
		logger.Info("Using model %s with safety threshold %s", cfg.ModelName, cfg.SafetyThreshold)
	}

	if cfg.MemcacheAddr != "" {
		cacheService := cache.NewMemcacheService(cfg.MemcacheAddr, 500*time.Millisecond)
		if err := cacheService.Ping(); err != nil {
			logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, page cache disabled")
		} else {
			services.Cache = cacheService
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(); err != nil {
			logger.ForPublisher().Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, record stream disabled")
			redisPublisher.Close()
		} else {
			services.Publisher = redisPublisher
			logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
				cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		}
	}

	return services, nil
}
