package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
	"github.com/aluiziolira/go-scrape-bestsellers/parser"
)

// OutputTimestampLayout stamps generated output file names.
const OutputTimestampLayout = "2006_01_02-15_04_05"

// Config holds scraper configuration.
type Config struct {
	BaseURL          string        `mapstructure:"base_url"`
	LandingPath      string        `mapstructure:"landing_path"`
	CategoryMarker   string        `mapstructure:"category_marker"`
	MaxProducts      int           `mapstructure:"max_products"`
	Timeout          time.Duration `mapstructure:"timeout"`
	UserAgent        string        `mapstructure:"user_agent"`
	RespectRobotsTxt bool          `mapstructure:"respect_robots_txt"`
	FetchCacheSize   int           `mapstructure:"fetch_cache_size"`
	OutputDir        string        `mapstructure:"output_dir"`
	OutputFile       string        `mapstructure:"output_file"`
	OutputFormat     string        `mapstructure:"output_format"` // csv, json, or dual
	Columns          []string      `mapstructure:"columns"`
	MetricsAddr      string        `mapstructure:"metrics_addr"`
	Verbose          bool          `mapstructure:"verbose"`

	Selectors parser.SelectorSet `mapstructure:"-"`
}

// DefaultConfig returns defaults for the Amazon Best Sellers storefront.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://www.amazon.com",
		LandingPath:      "/Best-Sellers/zgbs",
		CategoryMarker:   parser.DefaultMarker,
		MaxProducts:      parser.DefaultLimit,
		Timeout:          30 * time.Second,
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		RespectRobotsTxt: false,
		FetchCacheSize:   64,
		OutputDir:        "output",
		OutputFile:       "",
		OutputFormat:     "csv",
		Columns:          models.DefaultColumns(),
		MetricsAddr:      "",
		Verbose:          false,
		Selectors:        parser.DefaultSelectors(),
	}
}

// LandingURL is the absolute URL of the page listing every category.
func (c *Config) LandingURL() string {
	return c.BaseURL + c.LandingPath
}

// OutputPath returns OutputFile when set, otherwise a timestamped file name
// inside OutputDir.
func (c *Config) OutputPath(now time.Time) string {
	if c.OutputFile != "" {
		return c.OutputFile
	}
	ext := "csv"
	if c.OutputFormat == "json" {
		ext = "jsonl"
	}
	name := fmt.Sprintf("amazon_best_sellers_%s.%s", now.Format(OutputTimestampLayout), ext)
	return filepath.Join(c.OutputDir, name)
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("base URL must be an origin without a path")
	}

	if c.CategoryMarker == "" {
		return fmt.Errorf("category marker cannot be empty")
	}
	if c.MaxProducts <= 0 {
		return fmt.Errorf("max products must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.FetchCacheSize < 0 {
		return fmt.Errorf("fetch cache size cannot be negative")
	}
	if c.OutputFile == "" && c.OutputDir == "" {
		return fmt.Errorf("output file or output dir must be set")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if err := models.ValidateColumns(c.Columns); err != nil {
		return fmt.Errorf("invalid columns: %w", err)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if err := c.Selectors.Validate(); err != nil {
		return fmt.Errorf("invalid selectors: %w", err)
	}

	return nil
}
