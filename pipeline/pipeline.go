package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
	"github.com/aluiziolira/go-scrape-bestsellers/parser"
)

var (
	// ErrPipelineClosed is returned when a category arrives after Close.
	ErrPipelineClosed = errors.New("pipeline: closed")
)

// OutputWriter defines the interface for catalog output.
type OutputWriter interface {
	Write(catalog *models.Catalog) error
	Close() error
	Validate() error
}

// Pipeline accumulates categories into a catalog, checks every record and
// hands the finished catalog to the writer on Close.
type Pipeline struct {
	writer  OutputWriter
	catalog *models.Catalog
	metrics *metrics

	closed bool
	err    error
}

// NewPipeline builds a pipeline writing to writer.
func NewPipeline(writer OutputWriter) *Pipeline {
	return &Pipeline{
		writer:  writer,
		catalog: models.NewCatalog(),
		metrics: newMetrics(),
	}
}

// AppendCategory validates records and appends them under label.
func (p *Pipeline) AppendCategory(label string, records []*models.ProductRecord) error {
	if p.closed {
		return ErrPipelineClosed
	}

	kept := make([]*models.ProductRecord, 0, len(records))
	for _, record := range records {
		if prepared := p.prepare(record); prepared != nil {
			kept = append(kept, prepared)
		}
	}
	p.metrics.incrementCategories()
	return p.catalog.AppendCategory(label, kept)
}

// Catalog returns the catalog accumulated so far.
func (p *Pipeline) Catalog() *models.Catalog {
	return p.catalog
}

// Close writes the whole catalog once and prevents more submissions.
func (p *Pipeline) Close() error {
	if p.closed {
		return p.err
	}
	p.closed = true

	if err := p.writer.Write(p.catalog); err != nil {
		p.err = fmt.Errorf("write catalog: %w", err)
	}
	return p.err
}

// Err returns the error recorded by Close.
func (p *Pipeline) Err() error {
	return p.err
}

// GetMetrics returns a snapshot of the internal counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

func (p *Pipeline) prepare(record *models.ProductRecord) *models.ProductRecord {
	if err := parser.ValidateRecord(record); err != nil {
		p.metrics.addValidation("invalid_record")
		return nil
	}
	for _, field := range parser.MissingFields(record) {
		p.metrics.addMissing(field)
	}
	p.metrics.incrementProcessed()
	return record
}

type metrics struct {
	mu         sync.Mutex
	processed  int64
	categories int64
	validation map[string]int
	missing    map[string]int
}

func newMetrics() *metrics {
	return &metrics{
		validation: make(map[string]int),
		missing:    make(map[string]int),
	}
}

func (m *metrics) incrementProcessed() {
	m.mu.Lock()
	m.processed++
	m.mu.Unlock()
}

func (m *metrics) incrementCategories() {
	m.mu.Lock()
	m.categories++
	m.mu.Unlock()
}

func (m *metrics) addValidation(kind string) {
	m.mu.Lock()
	m.validation[kind]++
	m.mu.Unlock()
}

func (m *metrics) addMissing(field string) {
	m.mu.Lock()
	m.missing[field]++
	m.mu.Unlock()
}

func (m *metrics) snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	copyValidation := make(map[string]int, len(m.validation))
	for k, v := range m.validation {
		copyValidation[k] = v
	}
	copyMissing := make(map[string]int, len(m.missing))
	for k, v := range m.missing {
		copyMissing[k] = v
	}

	return map[string]interface{}{
		"processed_records": m.processed,
		"categories":        m.categories,
		"validation_errors": copyValidation,
		"missing_fields":    copyMissing,
	}
}
