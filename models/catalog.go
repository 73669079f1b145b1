package models

// CategoryLink pairs a category label with the absolute URL of its listing page.
type CategoryLink struct {
	Label string
	URL   string
}

// CategoryLinks is an ordered label -> URL mapping. Setting an existing label
// replaces its URL but keeps the position of the first occurrence.
type CategoryLinks struct {
	links []CategoryLink
	index map[string]int
}

// NewCategoryLinks returns an empty mapping.
func NewCategoryLinks() *CategoryLinks {
	return &CategoryLinks{index: make(map[string]int)}
}

// Set stores url under label, overwriting any earlier value.
func (cl *CategoryLinks) Set(label, url string) {
	if i, ok := cl.index[label]; ok {
		cl.links[i].URL = url
		return
	}
	cl.index[label] = len(cl.links)
	cl.links = append(cl.links, CategoryLink{Label: label, URL: url})
}

// Get returns the URL stored under label.
func (cl *CategoryLinks) Get(label string) (string, bool) {
	i, ok := cl.index[label]
	if !ok {
		return "", false
	}
	return cl.links[i].URL, true
}

// Len reports the number of distinct labels.
func (cl *CategoryLinks) Len() int {
	return len(cl.links)
}

// All returns a copy of the links in discovery order.
func (cl *CategoryLinks) All() []CategoryLink {
	out := make([]CategoryLink, len(cl.links))
	copy(out, cl.links)
	return out
}

// CategoryProducts is one catalog entry.
type CategoryProducts struct {
	Category string           `json:"category"`
	Products []*ProductRecord `json:"products"`
}

// Catalog maps category labels to their ordered product records, preserving
// the order in which categories were appended.
type Catalog struct {
	entries []*CategoryProducts
	index   map[string]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// AppendCategory adds a category with its records. An empty record list is a
// valid entry. Appending a label twice replaces the earlier records in place.
func (c *Catalog) AppendCategory(label string, records []*ProductRecord) error {
	products := make([]*ProductRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			products = append(products, r)
		}
	}
	if i, ok := c.index[label]; ok {
		c.entries[i].Products = products
		return nil
	}
	c.index[label] = len(c.entries)
	c.entries = append(c.entries, &CategoryProducts{Category: label, Products: products})
	return nil
}

// Products returns the records stored for label.
func (c *Catalog) Products(label string) ([]*ProductRecord, bool) {
	i, ok := c.index[label]
	if !ok {
		return nil, false
	}
	return c.entries[i].Products, true
}

// Categories returns the category labels in insertion order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Category
	}
	return out
}

// Entries returns the catalog entries in insertion order.
func (c *Catalog) Entries() []*CategoryProducts {
	out := make([]*CategoryProducts, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of categories.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ProductCount reports the number of records across all categories.
func (c *Catalog) ProductCount() int {
	total := 0
	for _, e := range c.entries {
		total += len(e.Products)
	}
	return total
}
