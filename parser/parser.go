// Package parser turns Best Sellers markup into product records.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
)

// AltTextLimit is the longest alt text the storefront renders for images.
const AltTextLimit = 125

var ratingPattern = regexp.MustCompile(`^[0-9]\.[0-9]$`)

// ValidateRecord ensures a record is well formed for output.
func ValidateRecord(r *models.ProductRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if r.Ordinal < 1 {
		return fmt.Errorf("record ordinal %d out of range", r.Ordinal)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("record %d missing name", r.Ordinal)
	}
	return nil
}

// MissingFields lists the columns of r that hold a sentinel.
func MissingFields(r *models.ProductRecord) []string {
	var out []string
	if r.Name == models.Missing {
		out = append(out, models.ColumnName)
	}
	if r.Price == models.Missing {
		out = append(out, models.ColumnPrice)
	}
	if r.Rating == models.None {
		out = append(out, models.ColumnRating)
	}
	if r.RatingCount == models.None {
		out = append(out, models.ColumnRatingCount)
	}
	if r.ImageURL == models.Missing {
		out = append(out, models.ColumnImage)
	}
	return out
}

// NormalizeText trims surrounding whitespace from visible text.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}

// NormalizeRating keeps the leading "X.Y" of a rating text such as
// "4.5 out of 5 stars". Anything else becomes None.
func NormalizeRating(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	rating := string(runes)
	if !ratingPattern.MatchString(rating) {
		return models.None
	}
	return rating
}

// NormalizeRatingCount replaces thousands-separator commas with periods and
// returns None unless the result parses as a float.
func NormalizeRatingCount(text string) string {
	count := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if _, err := strconv.ParseFloat(count, 64); err != nil {
		return models.None
	}
	return count
}

// AltText truncates a product name to the alt text length the storefront
// emits for its image.
func AltText(name string) string {
	runes := []rune(name)
	if len(runes) > AltTextLimit {
		return string(runes[:AltTextLimit])
	}
	return name
}
