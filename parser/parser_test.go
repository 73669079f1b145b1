package parser

import (
	"strings"
	"testing"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *models.ProductRecord
		wantErr bool
	}{
		{
			name:    "valid record",
			record:  &models.ProductRecord{Ordinal: 1, Name: "Echo Dot", Price: "$22.99", Rating: "4.7", RatingCount: "1.234", ImageURL: "https://img.test/1.jpg"},
			wantErr: false,
		},
		{
			name:    "sentinel name is still a name",
			record:  &models.ProductRecord{Ordinal: 2, Name: models.Missing},
			wantErr: false,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: true,
		},
		{
			name:    "zero ordinal",
			record:  &models.ProductRecord{Ordinal: 0, Name: "Echo Dot"},
			wantErr: true,
		},
		{
			name:    "blank name",
			record:  &models.ProductRecord{Ordinal: 1, Name: "  "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "4.5 out of 5 stars", expected: "4.5"},
		{input: "  5.0 out of 5 stars", expected: "5.0"},
		{input: "3.7", expected: "3.7"},
		{input: "4,5 de 5 estrellas", expected: models.None},
		{input: "Not rated", expected: models.None},
		{input: "4", expected: models.None},
		{input: "", expected: models.None},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeRating(tt.input); got != tt.expected {
				t.Errorf("NormalizeRating(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeRatingCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "87", expected: "87"},
		{name: "one separator", input: "12,345", expected: "12.345"},
		{name: "padded", input: " 1,024 ", expected: "1.024"},
		{name: "two separators", input: "1,234,567", expected: models.None},
		{name: "text", input: "Kindle Edition", expected: models.None},
		{name: "empty", input: "", expected: models.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRatingCount(tt.input); got != tt.expected {
				t.Errorf("NormalizeRatingCount(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAltText(t *testing.T) {
	short := "Echo Dot (5th Gen)"
	if got := AltText(short); got != short {
		t.Fatalf("AltText(short) = %q", got)
	}

	long := strings.Repeat("x", 200)
	if got := AltText(long); len(got) != AltTextLimit {
		t.Fatalf("len(AltText(long)) = %d, want %d", len(got), AltTextLimit)
	}

	wide := strings.Repeat("é", 130)
	if got := []rune(AltText(wide)); len(got) != AltTextLimit {
		t.Fatalf("runes(AltText(wide)) = %d, want %d", len(got), AltTextLimit)
	}
}

func TestMissingFields(t *testing.T) {
	r := &models.ProductRecord{
		Ordinal:     1,
		Name:        "Lamp",
		Price:       models.Missing,
		Rating:      models.None,
		RatingCount: "12",
		ImageURL:    models.Missing,
	}
	got := MissingFields(r)
	want := []string{models.ColumnPrice, models.ColumnRating, models.ColumnImage}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("MissingFields() = %v, want %v", got, want)
	}
}
