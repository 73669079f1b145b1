package pipeline

import (
	"errors"
	"testing"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
)

type mockWriter struct {
	written  []*models.Catalog
	closed   bool
	writeErr error
}

func (mw *mockWriter) Write(catalog *models.Catalog) error {
	if mw.writeErr != nil {
		return mw.writeErr
	}
	mw.written = append(mw.written, catalog)
	return nil
}

func (mw *mockWriter) Close() error {
	mw.closed = true
	return nil
}

func (mw *mockWriter) Validate() error {
	return nil
}

func TestPipelineAccumulatesInOrder(t *testing.T) {
	writer := &mockWriter{}
	p := NewPipeline(writer)

	books := []*models.ProductRecord{
		{Ordinal: 1, Name: "Atomic Habits", Price: "$11.98", Rating: "4.8", RatingCount: "98.765", ImageURL: "https://img.test/a.jpg"},
		{Ordinal: 2, Name: "Dune", Price: models.Missing, Rating: models.None, RatingCount: models.None, ImageURL: models.Missing},
	}
	if err := p.AppendCategory("Books", books); err != nil {
		t.Fatalf("append books: %v", err)
	}
	if err := p.AppendCategory("Garden", nil); err != nil {
		t.Fatalf("append garden: %v", err)
	}

	if len(writer.written) != 0 {
		t.Fatalf("writer should not be called before Close")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(writer.written) != 1 {
		t.Fatalf("catalog writes=%d, want 1", len(writer.written))
	}

	catalog := writer.written[0]
	if got := catalog.Categories(); len(got) != 2 || got[0] != "Books" || got[1] != "Garden" {
		t.Fatalf("categories=%v", got)
	}

	metrics := p.GetMetrics()
	if processed := metrics["processed_records"].(int64); processed != 2 {
		t.Fatalf("processed=%d, want 2", processed)
	}
	if categories := metrics["categories"].(int64); categories != 2 {
		t.Fatalf("categories=%d, want 2", categories)
	}
	missing := metrics["missing_fields"].(map[string]int)
	if missing[models.ColumnPrice] != 1 || missing[models.ColumnImage] != 1 || missing[models.ColumnRating] != 1 {
		t.Fatalf("missing fields=%v", missing)
	}
}

func TestPipelineDropsInvalidRecords(t *testing.T) {
	p := NewPipeline(&mockWriter{})

	records := []*models.ProductRecord{
		{Ordinal: 1, Name: "Valid"},
		{Ordinal: 0, Name: "No ordinal"},
		nil,
	}
	if err := p.AppendCategory("Toys", records); err != nil {
		t.Fatalf("append: %v", err)
	}

	products, _ := p.Catalog().Products("Toys")
	if len(products) != 1 {
		t.Fatalf("products=%d, want 1", len(products))
	}
	validation := p.GetMetrics()["validation_errors"].(map[string]int)
	if validation["invalid_record"] != 2 {
		t.Fatalf("invalid_record=%d, want 2", validation["invalid_record"])
	}
}

func TestPipelineClosed(t *testing.T) {
	p := NewPipeline(&mockWriter{})
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.AppendCategory("Late", nil); !errors.Is(err, ErrPipelineClosed) {
		t.Fatalf("expected ErrPipelineClosed, got %v", err)
	}
}

func TestPipelineWriteError(t *testing.T) {
	writeErr := errors.New("disk full")
	p := NewPipeline(&mockWriter{writeErr: writeErr})
	if err := p.AppendCategory("Books", nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	err := p.Close()
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
	if !errors.Is(p.Err(), writeErr) {
		t.Fatalf("Err() = %v", p.Err())
	}
	if err := p.Close(); !errors.Is(err, writeErr) {
		t.Fatalf("second close should return the same error, got %v", err)
	}
}
