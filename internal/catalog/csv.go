package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pankajredekar/stockledger/internal/apperr"
	"github.com/pankajredekar/stockledger/internal/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const inventoryFields = 4

// Save writes every product as an id,name,quantity,price record, replacing
// the file at path.
func (c *Catalog) Save(path string) error {
	err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		for _, p := range c.products {
			record := []string{p.ID, p.Name, strconv.Itoa(p.Quantity), p.Price.String()}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}

	c.logger.Debug("inventory saved", zap.String("path", path), zap.Int("products", len(c.products)))
	return nil
}

// Load replaces the catalog contents with the records in path. A missing
// file yields an empty catalog. On a corrupt record the catalog is left
// untouched unless the catalog was built WithSkipCorrupt(true).
func (c *Catalog) Load(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		c.logger.Debug("inventory file absent, starting empty", zap.String("path", path))
		c.Replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open inventory: %w", err)
	}
	defer f.Close()

	products, err := c.readProducts(path, f)
	if err != nil {
		return err
	}

	c.Replace(products)
	c.logger.Debug("inventory loaded", zap.String("path", path), zap.Int("products", len(products)))
	return nil
}

// Load creates a catalog from the records in path
func Load(path string, opts ...Option) (*Catalog, error) {
	c := New(opts...)
	if err := c.Load(path); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) readProducts(path string, r io.Reader) ([]Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	// unquoted fields may carry a bare " (e.g. 12" Pizza)
	cr.LazyQuotes = true

	var products []Product
	seen := make(map[string]bool)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read inventory: %w", err)
			}
			if skipErr := c.corrupt(apperr.Corrupt(path, parseErr.Line, "%v", parseErr.Err)); skipErr != nil {
				return nil, skipErr
			}
			continue
		}

		line, _ := cr.FieldPos(0)
		p, err := parseProduct(path, line, record)
		if err == nil && c.uniqueIDs && seen[p.ID] {
			err = apperr.Corrupt(path, line, "duplicate product id %q", p.ID)
		}
		if err != nil {
			if skipErr := c.corrupt(err); skipErr != nil {
				return nil, skipErr
			}
			continue
		}

		seen[p.ID] = true
		products = append(products, p)
	}
	return products, nil
}

// corrupt returns err unless corrupt lines are being skipped
func (c *Catalog) corrupt(err error) error {
	if !c.skipCorrupt {
		return err
	}
	c.logger.Warn("skipping corrupt inventory record", zap.Error(err))
	return nil
}

func parseProduct(path string, line int, record []string) (Product, error) {
	if len(record) != inventoryFields {
		return Product{}, apperr.Corrupt(path, line, "expected %d fields, got %d", inventoryFields, len(record))
	}

	qty, err := strconv.Atoi(record[2])
	if err != nil {
		return Product{}, apperr.Corrupt(path, line, "invalid quantity %q", record[2])
	}

	price, err := decimal.NewFromString(record[3])
	if err != nil {
		return Product{}, apperr.Corrupt(path, line, "invalid price %q", record[3])
	}

	return Product{ID: record[0], Name: record[1], Quantity: qty, Price: price}, nil
}
