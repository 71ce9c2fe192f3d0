package catalog

import (
	"fmt"

	"github.com/pankajredekar/stockledger/internal/apperr"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrProductNotFound is returned when no product has the requested id
var ErrProductNotFound = fmt.Errorf("product %w", apperr.ErrNotFound)

// Product is a stocked item
type Product struct {
	ID       string
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Catalog owns the set of products in insertion order.
//
// Identifiers are not unique unless WithUniqueIDs(true) is set; with
// duplicates present Lookup and AdjustStock act on the first match only
// while Delete removes every match.
type Catalog struct {
	products    []*Product
	uniqueIDs   bool
	skipCorrupt bool
	logger      *zap.Logger
}

// Option configures a Catalog
type Option func(*Catalog)

// WithLogger sets the logger used for load/save diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUniqueIDs makes Add reject identifiers already present
func WithUniqueIDs(unique bool) Option {
	return func(c *Catalog) { c.uniqueIDs = unique }
}

// WithSkipCorrupt makes Load skip malformed lines instead of failing
func WithSkipCorrupt(skip bool) Option {
	return func(c *Catalog) { c.skipCorrupt = skip }
}

// New creates an empty catalog
func New(opts ...Option) *Catalog {
	c := &Catalog{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a product
func (c *Catalog) Add(p Product) error {
	if c.uniqueIDs && c.Lookup(p.ID) != nil {
		return fmt.Errorf("product %q: %w", p.ID, apperr.ErrDuplicateID)
	}
	c.products = append(c.products, &p)
	return nil
}

// Lookup returns the first product with the given id, or nil
func (c *Catalog) Lookup(id string) *Product {
	for _, p := range c.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AdjustStock adds delta (which may be negative) to the product's quantity.
// It does not guard against the quantity going negative.
func (c *Catalog) AdjustStock(id string, delta int) error {
	p := c.Lookup(id)
	if p == nil {
		return fmt.Errorf("%q: %w", id, ErrProductNotFound)
	}
	p.Quantity += delta
	return nil
}

// Delete removes every product with the given id and reports how many were removed
func (c *Catalog) Delete(id string) int {
	kept := c.products[:0]
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	removed := len(c.products) - len(kept)
	for i := len(kept); i < len(c.products); i++ {
		c.products[i] = nil
	}
	c.products = kept
	return removed
}

// List returns the products in insertion order
func (c *Catalog) List() []*Product {
	out := make([]*Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Replace swaps the catalog contents for products. Used by loaders once a
// whole source has been read.
func (c *Catalog) Replace(products []Product) {
	c.products = make([]*Product, 0, len(products))
	for i := range products {
		p := products[i]
		c.products = append(c.products, &p)
	}
}
