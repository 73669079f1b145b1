package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
	"github.com/aluiziolira/go-scrape-bestsellers/parser"
)

// Accumulator receives each category as soon as its records are extracted.
// *models.Catalog and *pipeline.Pipeline both satisfy it.
type Accumulator interface {
	AppendCategory(label string, records []*models.ProductRecord) error
}

// Builder walks every category discovered on the landing page, one after the
// other, and hands the extracted records to an Accumulator.
type Builder struct {
	fetcher Fetcher
	engine  *parser.Engine
	metrics *Metrics

	categoryCount int
	productCount  int
	errorCount    int
	failedURLs    []string
	errorsByType  map[string]int
}

// NewBuilder returns a builder. metrics may be nil.
func NewBuilder(fetcher Fetcher, engine *parser.Engine, metrics *Metrics) *Builder {
	return &Builder{
		fetcher:      fetcher,
		engine:       engine,
		metrics:      metrics,
		errorsByType: make(map[string]int),
	}
}

// Build discovers categories in the landing markup and appends every one of
// them to acc, with an empty record list when its page could not be fetched.
func (b *Builder) Build(ctx context.Context, landing []byte, acc Accumulator) error {
	doc, err := parseDocument(landing)
	if err != nil {
		return fmt.Errorf("parse landing page: %w", err)
	}

	links := b.engine.DiscoverCategories(doc)
	slog.Info("categories discovered", slog.Int("count", links.Len()))

	for _, link := range links.All() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build catalog: %w", err)
		}

		records := b.extractCategory(ctx, link)
		if err := acc.AppendCategory(link.Label, records); err != nil {
			return fmt.Errorf("append category %q: %w", link.Label, err)
		}
		b.categoryCount++
		b.productCount += len(records)
		b.metrics.IncCategory()
		b.metrics.AddProducts(len(records))
	}
	return nil
}

func (b *Builder) extractCategory(ctx context.Context, link models.CategoryLink) []*models.ProductRecord {
	body, err := b.fetcher.Fetch(ctx, link.URL)
	if err != nil {
		b.recordFailure(link, err)
		return nil
	}

	doc, err := parseDocument(body)
	if err != nil {
		b.recordFailure(link, err)
		return nil
	}

	records := b.engine.ExtractListing(doc)
	slog.Debug("category extracted",
		slog.String("category", link.Label),
		slog.String("url", link.URL),
		slog.Int("products", len(records)),
	)
	return records
}

func (b *Builder) recordFailure(link models.CategoryLink, err error) {
	category := errorTypeLabel(err)
	b.errorCount++
	b.errorsByType[category]++
	b.failedURLs = append(b.failedURLs, link.URL)
	b.metrics.IncError(category)

	slog.Error("category skipped",
		slog.String("category", link.Label),
		slog.String("url", link.URL),
		slog.String("error_type", category),
		slog.Any("error", err),
	)
}

// Summary copies the builder counters into result.
func (b *Builder) Summary(result *models.ScrapeResult) {
	result.CategoryCount = b.categoryCount
	result.ProductCount = b.productCount
	result.ErrorCount += b.errorCount
	result.FailedURLs = append(result.FailedURLs, b.failedURLs...)
	if result.ErrorsByType == nil {
		result.ErrorsByType = make(map[string]int, len(b.errorsByType))
	}
	for k, v := range b.errorsByType {
		result.ErrorsByType[k] += v
	}
}

// BuildCatalog runs a Builder into a fresh catalog.
func BuildCatalog(ctx context.Context, fetcher Fetcher, engine *parser.Engine, landing []byte) (*models.Catalog, error) {
	catalog := models.NewCatalog()
	if err := NewBuilder(fetcher, engine, nil).Build(ctx, landing, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func parseDocument(markup []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
