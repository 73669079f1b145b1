package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
	"github.com/aluiziolira/go-scrape-bestsellers/pipeline"
)

func createWriter(format, filename string, columns []string) (pipeline.OutputWriter, error) {
	switch format {
	case "json":
		return pipeline.NewJSONWriter(filename)
	case "csv":
		return pipeline.NewCSVWriter(filename, columns)
	case "dual":
		return pipeline.NewDualWriter(filename, pipeline.JSONPath(filename), columns)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(w io.Writer, result *models.ScrapeResult, duration time.Duration, outputFile string, metrics map[string]interface{}) {
	separator := "--------------------------------------------------"
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "Scrape complete")

	totalItems := int64(0)
	if processed, ok := metrics["processed_records"].(int64); ok {
		totalItems = processed
	}

	fmt.Fprintf(w, "  Total categories count: %d\n", result.CategoryCount)
	fmt.Fprintf(w, "  Total products:         %d\n", totalItems)
	fmt.Fprintf(w, "  Requests:               %d\n", result.RequestCount)
	fmt.Fprintf(w, "  Errors:                 %d\n", result.ErrorCount)
	fmt.Fprintf(w, "  Failed URLs:            %d\n", len(result.FailedURLs))
	if len(result.ErrorsByType) > 0 {
		fmt.Fprintf(w, "  Error types:            %s\n", formatCounts(result.ErrorsByType))
	}
	if valErrors, ok := metrics["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Fprintf(w, "  Validation:             %s\n", formatCounts(valErrors))
	}
	if missing, ok := metrics["missing_fields"].(map[string]int); ok && len(missing) > 0 {
		fmt.Fprintf(w, "  Missing fields:         %s\n", formatCounts(missing))
	}
	fmt.Fprintf(w, "  Total execution time:   %v\n", duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Output file:            %s\n", outputFile)
	fmt.Fprintln(w, separator)
}

// formatCounts renders a count map with stable key order.
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", k, counts[k])
	}
	return out
}
