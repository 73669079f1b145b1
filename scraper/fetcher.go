package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-bestsellers/config"
)

// Fetcher retrieves raw markup for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CollyFetcher fetches pages one at a time through a synchronous colly
// collector. Successful bodies are kept in an LRU cache keyed by URL.
type CollyFetcher struct {
	collector *colly.Collector
	cache     *lru.Cache[string, []byte]
	metrics   *Metrics

	requestCount int
}

// NewCollyFetcher builds a fetcher restricted to the configured storefront host.
func NewCollyFetcher(cfg *config.Config, metrics *Metrics) (*CollyFetcher, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Hostname()),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(newDecodingTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}))

	f := &CollyFetcher{
		collector: collector,
		metrics:   metrics,
	}
	if cfg.FetchCacheSize > 0 {
		cache, err := lru.New[string, []byte](cfg.FetchCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create fetch cache: %w", err)
		}
		f.cache = cache
	}
	return f, nil
}

// WithTransport replaces the HTTP transport used for every fetch.
func (f *CollyFetcher) WithTransport(transport http.RoundTripper) {
	f.collector.WithTransport(transport)
}

// RequestCount reports how many requests reached the network.
func (f *CollyFetcher) RequestCount() int {
	return f.requestCount
}

// Fetch returns the body of rawURL. Non-2xx responses are returned as
// classified errors wrapped in *FetchError.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if f.cache != nil {
		if body, ok := f.cache.Get(rawURL); ok {
			f.metrics.IncCacheHit()
			slog.Debug("fetch cache hit", slog.String("url", rawURL))
			return body, nil
		}
	}

	c := f.collector.Clone()

	var (
		body   []byte
		status int
		start  time.Time
	)
	c.OnRequest(func(r *colly.Request) {
		start = time.Now()
		f.requestCount++
		f.metrics.IncRequest("started")
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	err := c.Visit(rawURL)
	if !start.IsZero() {
		f.metrics.ObserveDuration(time.Since(start))
	}
	if err != nil {
		f.metrics.IncRequest("failed")
		return nil, &FetchError{URL: rawURL, Err: classifyError(err, status)}
	}

	f.metrics.IncRequest("succeeded")
	if f.cache != nil {
		f.cache.Add(rawURL, body)
	}
	return body, nil
}
