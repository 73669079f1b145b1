package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
)

// CSVWriter writes a catalog as a flat table. Each category is introduced by
// a separator row carrying only its label in the Name column.
type CSVWriter struct {
	file    *os.File
	writer  *csv.Writer
	columns []string
	mu      sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row. A nil
// columns slice selects the default column set.
func NewCSVWriter(filename string, columns []string) (*CSVWriter, error) {
	if columns == nil {
		columns = models.DefaultColumns()
	}
	if err := models.ValidateColumns(columns); err != nil {
		return nil, fmt.Errorf("csv columns: %w", err)
	}
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:    f,
		writer:  writer,
		columns: columns,
	}, nil
}

// Write appends every category of catalog in catalog order.
func (cw *CSVWriter) Write(catalog *models.Catalog) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, entry := range catalog.Entries() {
		if err := cw.writer.Write(cw.separatorRow(entry.Category)); err != nil {
			return fmt.Errorf("write csv separator: %w", err)
		}
		for _, product := range entry.Products {
			record := make([]string, len(cw.columns))
			for i, column := range cw.columns {
				record[i] = product.Field(column)
			}
			if err := cw.writer.Write(record); err != nil {
				return fmt.Errorf("write csv record: %w", err)
			}
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

func (cw *CSVWriter) separatorRow(category string) []string {
	row := make([]string, len(cw.columns))
	for i, column := range cw.columns {
		if column == models.ColumnName {
			row[i] = category
		}
	}
	return row
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	info, err := os.Stat(cw.file.Name())
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONWriter writes one JSON object per category, newline delimited.
type JSONWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	count   int
	mu      sync.Mutex
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONWriter{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Write appends the catalog in JSONL format.
func (jw *JSONWriter) Write(catalog *models.Catalog) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, entry := range catalog.Entries() {
		if err := jw.encoder.Encode(entry); err != nil {
			return fmt.Errorf("encode json category: %w", err)
		}
		jw.count++
	}

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}

	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the file exists. A catalog without categories yields an
// empty JSONL file, which is valid.
func (jw *JSONWriter) Validate() error {
	info, err := os.Stat(jw.file.Name())
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if jw.count > 0 && info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
