package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/aluiziolira/go-scrape-bestsellers/parser"
)

// EnvPrefix namespaces environment overrides, e.g. SCRAPER_OUTPUT_FORMAT.
const EnvPrefix = "SCRAPER"

// Load layers defaults, an optional YAML file and SCRAPER_* environment
// variables, in increasing priority. A "selectors" section in the file
// replaces individual fallback chains of the default selector set.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if v.IsSet("selectors") {
		var override parser.SelectorSet
		if err := v.UnmarshalKey("selectors", &override); err != nil {
			return nil, fmt.Errorf("unmarshal selectors: %w", err)
		}
		cfg.Selectors = cfg.Selectors.Merge(override)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("landing_path", cfg.LandingPath)
	v.SetDefault("category_marker", cfg.CategoryMarker)
	v.SetDefault("max_products", cfg.MaxProducts)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("user_agent", cfg.UserAgent)
	v.SetDefault("respect_robots_txt", cfg.RespectRobotsTxt)
	v.SetDefault("fetch_cache_size", cfg.FetchCacheSize)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("output_file", cfg.OutputFile)
	v.SetDefault("output_format", cfg.OutputFormat)
	v.SetDefault("columns", cfg.Columns)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)
	v.SetDefault("verbose", cfg.Verbose)
}
