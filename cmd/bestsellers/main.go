package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-bestsellers/config"
	"github.com/aluiziolira/go-scrape-bestsellers/pipeline"
	"github.com/aluiziolira/go-scrape-bestsellers/scraper"
)

type cliOptions struct {
	configPath    string
	baseURL       string
	marker        string
	maxProducts   int
	timeout       time.Duration
	respectRobots bool
	outputFile    string
	outputDir     string
	outputFormat  string
	columns       []string
	metricsAddr   string
	verbose       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cliOptions{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bestsellers",
		Short: "Scrape the Amazon Best Sellers catalog into CSV or JSONL",
		Long: `Fetch the Best Sellers landing page, follow every category link and
extract the top products of each category (name, price, rating, rating count
and image) into a single tabular file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	f := cmd.Flags()
	f.StringVar(&opts.baseURL, "base-url", "", "storefront origin, e.g. https://www.amazon.com")
	f.StringVar(&opts.marker, "marker", "", "substring identifying category links")
	f.IntVarP(&opts.maxProducts, "max-products", "n", 0, "products extracted per category")
	f.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout")
	f.BoolVar(&opts.respectRobots, "respect-robots", false, "respect robots.txt directives")
	f.StringVarP(&opts.outputFile, "output", "o", "", "output file path (default: timestamped file in --output-dir)")
	f.StringVar(&opts.outputDir, "output-dir", "", "directory for timestamped output files")
	f.StringVarP(&opts.outputFormat, "format", "f", "", "output format: csv, json, or dual")
	f.StringSliceVar(&opts.columns, "columns", nil, "output columns, in order")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")

	cmd.AddCommand(newSelectorsCmd(opts))
	return cmd
}

// loadConfig layers explicitly set flags over the file and environment.
func loadConfig(cmd *cobra.Command, opts *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = strings.TrimRight(opts.baseURL, "/")
	}
	if flags.Changed("marker") {
		cfg.CategoryMarker = opts.marker
	}
	if flags.Changed("max-products") {
		cfg.MaxProducts = opts.maxProducts
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("respect-robots") {
		cfg.RespectRobotsTxt = opts.respectRobots
	}
	if flags.Changed("output") {
		cfg.OutputFile = opts.outputFile
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if flags.Changed("format") {
		cfg.OutputFormat = strings.ToLower(opts.outputFormat)
	}
	if flags.Changed("columns") {
		cfg.Columns = opts.columns
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runScrape(cmd *cobra.Command, opts *cliOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, stopping after the current category")
	}()

	outputPath := cfg.OutputPath(time.Now())
	slog.Info("starting scrape",
		slog.String("landing_url", cfg.LandingURL()),
		slog.Int("max_products", cfg.MaxProducts),
		slog.String("selectors", cfg.Selectors.Version),
		slog.String("output", outputPath),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		return fmt.Errorf("initialising scraper: %w", err)
	}

	metricsServer := startMetricsServer(cfg.MetricsAddr, s.Metrics)
	defer stopMetricsServer(metricsServer)

	writer, err := createWriter(cfg.OutputFormat, outputPath, cfg.Columns)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	p := pipeline.NewPipeline(writer)

	startTime := time.Now()
	result, err := s.Run(ctx, p)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}
	slog.Info("catalog built", slog.Int("categories", result.CategoryCount))

	if err := p.Close(); err != nil {
		return fmt.Errorf("pipeline shutdown failed: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return fmt.Errorf("output validation failed: %w", err)
	}

	duration := time.Since(startTime)
	slog.Info("total execution time", slog.Duration("duration", duration))
	printSummary(cmd.OutOrStdout(), result, duration, outputPath, p.GetMetrics())
	return nil
}

func startMetricsServer(addr string, metrics *scraper.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

func stopMetricsServer(server *http.Server) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("error", err))
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
