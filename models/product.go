// Package models defines data structures for the scraper.
package models

import (
	"fmt"
	"strconv"
	"time"
)

// Sentinels substituted when a field cannot be extracted.
const (
	Missing = "Missing"
	None    = "None"
)

// Column header names of the tabular output, in their default order.
const (
	ColumnOrdinal     = "No"
	ColumnName        = "Name"
	ColumnPrice       = "Price"
	ColumnRating      = "Rating"
	ColumnRatingCount = "Count of Users Rated"
	ColumnImage       = "Image"
)

// DefaultColumns returns the fixed column set in output order.
func DefaultColumns() []string {
	return []string{ColumnOrdinal, ColumnName, ColumnPrice, ColumnRating, ColumnRatingCount, ColumnImage}
}

// ValidateColumns rejects empty column lists and unknown or repeated names.
func ValidateColumns(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("columns cannot be empty")
	}
	known := make(map[string]bool, 6)
	for _, c := range DefaultColumns() {
		known[c] = true
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if !known[c] {
			return fmt.Errorf("unknown column %q", c)
		}
		if seen[c] {
			return fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}
	if !seen[ColumnName] {
		return fmt.Errorf("columns must include %q", ColumnName)
	}
	return nil
}

// ProductRecord is one best seller entry within a category listing.
type ProductRecord struct {
	Ordinal     int    `csv:"No" json:"no"`
	Name        string `csv:"Name" json:"name"`
	Price       string `csv:"Price" json:"price"`
	Rating      string `csv:"Rating" json:"rating"`
	RatingCount string `csv:"Count of Users Rated" json:"rating_count"`
	ImageURL    string `csv:"Image" json:"image"`
}

// Field returns the record value rendered for a column header.
func (r *ProductRecord) Field(column string) string {
	switch column {
	case ColumnOrdinal:
		return strconv.Itoa(r.Ordinal)
	case ColumnName:
		return r.Name
	case ColumnPrice:
		return r.Price
	case ColumnRating:
		return r.Rating
	case ColumnRatingCount:
		return r.RatingCount
	case ColumnImage:
		return r.ImageURL
	default:
		return ""
	}
}

// ScrapeResult holds the overall result of a scraping run.
type ScrapeResult struct {
	StartTime     time.Time
	EndTime       time.Time
	CategoryCount int
	ProductCount  int
	ErrorCount    int
	RequestCount  int
	FailedURLs    []string
	ErrorsByType  map[string]int
}
