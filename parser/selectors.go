package parser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Selector kinds.
const (
	KindCSS   = "css"
	KindXPath = "xpath"
)

// Selector describes one way of locating nodes below a scope. An empty Kind
// means CSS.
type Selector struct {
	Kind string `mapstructure:"kind" yaml:"kind,omitempty"`
	Expr string `mapstructure:"expr" yaml:"expr"`
}

// CSS returns a CSS selector descriptor.
func CSS(expr string) Selector {
	return Selector{Kind: KindCSS, Expr: expr}
}

// XPath returns an XPath selector descriptor.
func XPath(expr string) Selector {
	return Selector{Kind: KindXPath, Expr: expr}
}

// Find returns every descendant of scope matched by the selector, in
// document order. Invalid expressions match nothing.
func (s Selector) Find(scope *goquery.Selection) *goquery.Selection {
	if s.Kind != KindXPath {
		return scope.Find(s.Expr)
	}

	var found []*html.Node
	for _, n := range scope.Nodes {
		nodes, err := htmlquery.QueryAll(n, s.Expr)
		if err != nil {
			return scope.FindNodes()
		}
		found = append(found, nodes...)
	}
	return scope.FindNodes(found...)
}

// Validate compiles the expression for its kind.
func (s Selector) Validate() error {
	if s.Expr == "" {
		return fmt.Errorf("selector expression cannot be empty")
	}
	switch s.Kind {
	case "", KindCSS:
		if _, err := cascadia.Compile(s.Expr); err != nil {
			return fmt.Errorf("compile css %q: %w", s.Expr, err)
		}
	case KindXPath:
		if _, err := xpath.Compile(s.Expr); err != nil {
			return fmt.Errorf("compile xpath %q: %w", s.Expr, err)
		}
	default:
		return fmt.Errorf("unknown selector kind %q", s.Kind)
	}
	return nil
}

// SelectorSet is the versioned set of fallback chains for one page layout.
// Chains are tried in order and the first usable match wins.
type SelectorSet struct {
	Version     string     `mapstructure:"version" yaml:"version"`
	Container   Selector   `mapstructure:"container" yaml:"container"`
	Name        []Selector `mapstructure:"name" yaml:"name"`
	Price       []Selector `mapstructure:"price" yaml:"price"`
	RatingRow   []Selector `mapstructure:"rating_row" yaml:"rating_row"`
	Rating      []Selector `mapstructure:"rating" yaml:"rating"`
	RatingCount []Selector `mapstructure:"rating_count" yaml:"rating_count"`
	Image       Selector   `mapstructure:"image" yaml:"image"`
}

// DefaultSelectors returns the selector set for the grid layout of the
// Best Sellers pages.
func DefaultSelectors() SelectorSet {
	return SelectorSet{
		Version:   "zg-grid-desktop-v1",
		Container: CSS("div#gridItemRoot"),
		Name: []Selector{
			CSS("div._p13n-zg-list-grid-desktop_truncationStyles_p13n-sc-css-line-clamp-4__2q2cc"),
			CSS("div._p13n-zg-list-grid-desktop_truncationStyles_p13n-sc-css-line-clamp-3__g3dy1"),
			CSS("div._p13n-zg-list-grid-desktop_truncationStyles_p13n-sc-css-line-clamp-2__EWgCb"),
			CSS("div._p13n-zg-list-grid-desktop_truncationStyles_p13n-sc-css-line-clamp-1__1Fn1y"),
		},
		Price: []Selector{
			CSS("span.p13n-sc-price"),
			CSS("span._p13n-zg-list-grid-desktop_price_p13n-sc-price__3mJ9Z"),
			CSS("span.a-size-base.a-color-price"),
		},
		RatingRow:   []Selector{CSS("div.a-icon-row")},
		Rating:      []Selector{CSS("span.a-icon-alt")},
		RatingCount: []Selector{CSS("span.a-size-small")},
		Image:       CSS("img"),
	}
}

// Merge returns a copy of ss with every non-empty part of override applied.
func (ss SelectorSet) Merge(override SelectorSet) SelectorSet {
	out := ss
	if override.Version != "" {
		out.Version = override.Version
	}
	if override.Container.Expr != "" {
		out.Container = override.Container
	}
	if len(override.Name) > 0 {
		out.Name = override.Name
	}
	if len(override.Price) > 0 {
		out.Price = override.Price
	}
	if len(override.RatingRow) > 0 {
		out.RatingRow = override.RatingRow
	}
	if len(override.Rating) > 0 {
		out.Rating = override.Rating
	}
	if len(override.RatingCount) > 0 {
		out.RatingCount = override.RatingCount
	}
	if override.Image.Expr != "" {
		out.Image = override.Image
	}
	return out
}

// Validate checks that every required chain is present and compiles.
func (ss SelectorSet) Validate() error {
	if err := ss.Container.Validate(); err != nil {
		return fmt.Errorf("container: %w", err)
	}
	if err := ss.Image.Validate(); err != nil {
		return fmt.Errorf("image: %w", err)
	}

	chains := []struct {
		name     string
		chain    []Selector
		optional bool
	}{
		{name: "name", chain: ss.Name},
		{name: "price", chain: ss.Price},
		{name: "rating_row", chain: ss.RatingRow, optional: true},
		{name: "rating", chain: ss.Rating},
		{name: "rating_count", chain: ss.RatingCount},
	}
	for _, c := range chains {
		if len(c.chain) == 0 && !c.optional {
			return fmt.Errorf("%s: chain cannot be empty", c.name)
		}
		for i, s := range c.chain {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("%s[%d]: %w", c.name, i, err)
			}
		}
	}
	return nil
}
