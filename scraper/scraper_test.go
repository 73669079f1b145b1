package scraper

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
	"github.com/aluiziolira/go-scrape-bestsellers/pipeline"
)

func newTestScraper(t *testing.T) (*Scraper, *httpmock.MockTransport) {
	t.Helper()
	s, err := NewScraper(testConfig())
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	mock := httpmock.NewMockTransport()
	s.Fetcher().WithTransport(mock)
	return s, mock
}

func TestScraperRun(t *testing.T) {
	s, mock := newTestScraper(t)
	mock.RegisterResponder("GET", testOrigin+"/Best-Sellers/zgbs", httpmock.NewStringResponder(http.StatusOK, landingHTML()))
	mock.RegisterResponder("GET", testOrigin+"/Best-Sellers-Electronics/zgbs/electronics", httpmock.NewStringResponder(http.StatusOK, categoryHTML(12)))
	mock.RegisterResponder("GET", testOrigin+"/Best-Sellers-Garden/zgbs/garden", httpmock.NewStringResponder(http.StatusNotFound, ""))

	writer, err := pipeline.NewCSVWriter(filepath.Join(t.TempDir(), "run.csv"), nil)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	p := pipeline.NewPipeline(writer)

	result, err := s.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close pipeline: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	if result.CategoryCount != 2 || result.ProductCount != 10 {
		t.Fatalf("result categories=%d products=%d", result.CategoryCount, result.ProductCount)
	}
	if result.RequestCount != 3 {
		t.Fatalf("requests=%d, want 3", result.RequestCount)
	}
	if result.ErrorsByType["not_found"] != 1 {
		t.Fatalf("errors by type=%v", result.ErrorsByType)
	}
	if result.EndTime.Before(result.StartTime) {
		t.Fatalf("end time before start time")
	}

	categories := p.Catalog().Categories()
	if len(categories) != 2 || categories[0] != "Electronics" || categories[1] != "Garden" {
		t.Fatalf("categories=%v", categories)
	}

	if got := testutil.ToFloat64(s.Metrics.CategoriesTotal); got != 2 {
		t.Fatalf("categories metric=%v, want 2", got)
	}
	if got := testutil.ToFloat64(s.Metrics.ProductsExtractedTotal); got != 10 {
		t.Fatalf("products metric=%v, want 10", got)
	}
	if got := testutil.ToFloat64(s.Metrics.ErrorsTotal.WithLabelValues("not_found")); got != 1 {
		t.Fatalf("not_found metric=%v, want 1", got)
	}
	if got := testutil.ToFloat64(s.Metrics.RequestsTotal.WithLabelValues("succeeded")); got != 2 {
		t.Fatalf("succeeded metric=%v, want 2", got)
	}
}

func TestScraperRunLandingFailure(t *testing.T) {
	s, mock := newTestScraper(t)
	mock.RegisterResponder("GET", testOrigin+"/Best-Sellers/zgbs", httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	writer := &countingAccumulator{}
	result, err := s.Run(context.Background(), writer)
	if err == nil {
		t.Fatalf("expected landing page error")
	}
	if result != nil {
		t.Fatalf("result should be nil on landing failure")
	}
	var blocked ErrBlocked
	if !errors.As(err, &blocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if writer.calls != 0 {
		t.Fatalf("accumulator should not be called")
	}
}

type countingAccumulator struct{ calls int }

func (a *countingAccumulator) AppendCategory(string, []*models.ProductRecord) error {
	a.calls++
	return nil
}
