package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-bestsellers/models"
)

// Defaults applied when Options leaves a field empty.
const (
	DefaultMarker = "best-sellers"
	DefaultLimit  = 10
)

// Options configures an Engine.
type Options struct {
	// Origin is prefixed to relative category hrefs, e.g. "https://www.amazon.com".
	Origin string
	// Marker must appear in a lowercased href for the link to count as a category.
	Marker string
	// Limit caps the containers taken from each listing page.
	Limit     int
	Selectors *SelectorSet
}

// Engine discovers categories and extracts product records from parsed pages.
// It never fetches and never fails on odd markup.
type Engine struct {
	origin    string
	marker    string
	limit     int
	selectors SelectorSet
}

// NewEngine builds an engine, filling unset options with defaults.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		origin:    strings.TrimSuffix(opts.Origin, "/"),
		marker:    strings.ToLower(opts.Marker),
		limit:     opts.Limit,
		selectors: DefaultSelectors(),
	}
	if e.marker == "" {
		e.marker = DefaultMarker
	}
	if e.limit <= 0 {
		e.limit = DefaultLimit
	}
	if opts.Selectors != nil {
		e.selectors = *opts.Selectors
	}
	return e
}

// Selectors returns the selector set in use.
func (e *Engine) Selectors() SelectorSet {
	return e.selectors
}

// DiscoverCategories maps the visible text of every best seller category link
// on the landing page to its absolute URL. Later links win on equal labels.
func (e *Engine) DiscoverCategories(doc *goquery.Document) *models.CategoryLinks {
	links := models.NewCategoryLinks()
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(strings.ToLower(href), e.marker) {
			return
		}
		links.Set(NormalizeText(a.Text()), e.absoluteURL(href))
	})
	return links
}

func (e *Engine) absoluteURL(href string) string {
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return e.origin + href
}

// LocateContainers returns at most Limit product containers in document order.
func (e *Engine) LocateContainers(doc *goquery.Document) *goquery.Selection {
	containers := e.selectors.Container.Find(doc.Selection)
	if containers.Length() > e.limit {
		return containers.Slice(0, e.limit)
	}
	return containers
}

// ExtractListing extracts one record per located container, numbered from 1.
func (e *Engine) ExtractListing(doc *goquery.Document) []*models.ProductRecord {
	containers := e.LocateContainers(doc)
	records := make([]*models.ProductRecord, 0, containers.Length())
	containers.Each(func(i int, container *goquery.Selection) {
		records = append(records, e.ExtractProduct(container, i+1))
	})
	return records
}

// ExtractProduct reads every field of one container, substituting sentinels
// for anything absent.
func (e *Engine) ExtractProduct(container *goquery.Selection, ordinal int) *models.ProductRecord {
	record := &models.ProductRecord{
		Ordinal:     ordinal,
		Name:        models.Missing,
		Price:       models.Missing,
		Rating:      models.None,
		RatingCount: models.None,
		ImageURL:    models.Missing,
	}

	if name, ok := firstText(container, e.selectors.Name); ok {
		record.Name = name
	}
	if price, ok := firstText(container, e.selectors.Price); ok {
		record.Price = price
	}

	// Some layouts wrap rating and count in a row of their own.
	scope := container
	if row := firstMatch(container, e.selectors.RatingRow); row != nil {
		scope = row
	}
	if rating, ok := firstText(scope, e.selectors.Rating); ok {
		record.Rating = NormalizeRating(rating)
	}
	if count, ok := firstText(scope, e.selectors.RatingCount); ok {
		record.RatingCount = NormalizeRatingCount(count)
	}

	record.ImageURL = e.imageURL(container, record.Name)
	return record
}

// imageURL finds the first image whose alt text equals the truncated name.
// A name cut by the storefront at another boundary will not match.
func (e *Engine) imageURL(container *goquery.Selection, name string) string {
	alt := AltText(name)
	img := e.selectors.Image.Find(container).FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr("alt")
		return ok && v == alt
	}).First()
	if img.Length() == 0 {
		return models.Missing
	}
	src, ok := img.Attr("src")
	if !ok {
		return models.Missing
	}
	return src
}

// firstText returns the trimmed text of the first match of the first selector
// in chain whose match has any.
func firstText(scope *goquery.Selection, chain []Selector) (string, bool) {
	for _, s := range chain {
		if text := NormalizeText(s.Find(scope).First().Text()); text != "" {
			return text, true
		}
	}
	return "", false
}

func firstMatch(scope *goquery.Selection, chain []Selector) *goquery.Selection {
	for _, s := range chain {
		if match := s.Find(scope).First(); match.Length() > 0 {
			return match
		}
	}
	return nil
}
