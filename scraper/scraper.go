package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-bestsellers/config"
	"github.com/aluiziolira/go-scrape-bestsellers/models"
	"github.com/aluiziolira/go-scrape-bestsellers/parser"
)

// Scraper fetches the Best Sellers landing page and builds the catalog from it.
type Scraper struct {
	cfg     *config.Config
	fetcher *CollyFetcher
	engine  *parser.Engine
	Metrics *Metrics
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	metrics := NewMetrics()
	fetcher, err := NewCollyFetcher(cfg, metrics)
	if err != nil {
		return nil, err
	}

	selectors := cfg.Selectors
	engine := parser.NewEngine(parser.Options{
		Origin:    cfg.BaseURL,
		Marker:    cfg.CategoryMarker,
		Limit:     cfg.MaxProducts,
		Selectors: &selectors,
	})

	return &Scraper{
		cfg:     cfg,
		fetcher: fetcher,
		engine:  engine,
		Metrics: metrics,
	}, nil
}

// Fetcher exposes the underlying fetcher, mainly to swap its transport.
func (s *Scraper) Fetcher() *CollyFetcher {
	return s.fetcher
}

// Run fetches the landing page and streams every category into acc. A
// failed landing fetch aborts the run; failed category fetches do not.
func (s *Scraper) Run(ctx context.Context, acc Accumulator) (*models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result := &models.ScrapeResult{
		StartTime:    time.Now(),
		ErrorsByType: make(map[string]int),
	}

	landingURL := s.cfg.LandingURL()
	landing, err := s.fetcher.Fetch(ctx, landingURL)
	if err != nil {
		s.Metrics.IncError(errorTypeLabel(err))
		return nil, fmt.Errorf("fetch landing page: %w", err)
	}
	slog.Debug("landing page fetched", slog.String("url", landingURL), slog.Int("bytes", len(landing)))

	builder := NewBuilder(s.fetcher, s.engine, s.Metrics)
	buildErr := builder.Build(ctx, landing, acc)

	builder.Summary(result)
	result.RequestCount = s.fetcher.RequestCount()
	result.EndTime = time.Now()

	if buildErr != nil {
		return result, buildErr
	}
	return result, nil
}
