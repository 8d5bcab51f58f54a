// Package catalog loads the flooring product catalog.
//
// The catalog is consumed, not owned: it arrives as a CSV export with one
// row per product and a header naming the attribute columns. This package
// parses it into [Product] records, derives each product's extension-less
// sample base path, and offers lookups by SKU. It performs no validation of
// catalog integrity beyond skipping rows without a SKU - callers own that.
package catalog

import (
	"encoding/csv"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// Well-known attribute columns. Any other column lands in Product.Attrs.
const (
	FieldName       = "ProductName"
	FieldSKU        = "SKUNumber"
	FieldCollection = "Collection"
	FieldBrand      = "BRAND"
	FieldPrice      = "ProductPrice"
	FieldType       = "ProductType"
	FieldColor      = "ProductColor"
	FieldSpecies    = "ProductSpecies"
)

// Product is a single catalog record. SKU is the cache key for generated
// artifacts; uniqueness is assumed, not enforced.
type Product struct {
	Name       string
	SKU        string
	Collection string
	Brand      string
	Price      string
	Type       string
	Color      string
	Species    string

	// Attrs holds every remaining column (size, thickness, warranty, ...)
	// keyed by header name, values trimmed.
	Attrs map[string]string

	// SampleBasePath is the extension-less path of the product's reference
	// image, derived from brand, collection and SKU.
	SampleBasePath string
}

// Catalog is an ordered product list with a SKU index.
type Catalog struct {
	products []Product
	bySKU    map[string]int
}

// Load reads and parses a catalog CSV file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogLoad, err, "open catalog %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a catalog CSV from r. The first row is the header; rows with
// a column count mismatch or an empty SKU are skipped rather than failing
// the whole load.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Tolerate ragged rows, validated per-row below
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogLoad, err, "read catalog header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	c := &Catalog{bySKU: make(map[string]int)}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogLoad, err, "read catalog row")
		}
		if len(row) != len(header) {
			continue
		}

		p := fromRow(header, row)
		if p.SKU == "" {
			continue
		}
		p.SampleBasePath = SampleBasePath(p.Brand, p.Collection, p.SKU)

		if idx, ok := c.bySKU[p.SKU]; ok {
			// Last row wins on duplicate SKUs; the subsystem does not
			// validate catalog integrity.
			c.products[idx] = p
			continue
		}
		c.bySKU[p.SKU] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

func fromRow(header, row []string) Product {
	p := Product{Attrs: make(map[string]string)}
	for i, col := range header {
		val := strings.TrimSpace(row[i])
		switch col {
		case FieldName:
			p.Name = val
		case FieldSKU:
			p.SKU = val
		case FieldCollection:
			p.Collection = val
		case FieldBrand:
			p.Brand = val
		case FieldPrice:
			p.Price = val
		case FieldType:
			p.Type = val
		case FieldColor:
			p.Color = val
		case FieldSpecies:
			p.Species = val
		default:
			if col != "" {
				p.Attrs[col] = val
			}
		}
	}
	return p
}

// SampleBasePath derives the extension-less reference image path for a
// product: samples/{BRAND}/{Collection}/{SKU}, with each segment trimmed
// and URL-escaped (brand and collection names contain spaces).
func SampleBasePath(brand, collection, sku string) string {
	seg := func(s string) string { return url.PathEscape(strings.TrimSpace(s)) }
	return "samples/" + seg(brand) + "/" + seg(collection) + "/" + seg(sku)
}

// Get returns the product with the given SKU.
func (c *Catalog) Get(sku string) (Product, bool) {
	idx, ok := c.bySKU[sku]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Products returns the catalog in load order.
func (c *Catalog) Products() []Product {
	return c.products
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// FilterValues returns the sorted distinct values of a well-known field
// across the catalog, used to populate filter panels. Supported fields are
// BRAND, Collection, ProductType, ProductColor and ProductSpecies; any
// other name is looked up in Attrs.
func (c *Catalog) FilterValues(field string) []string {
	seen := make(map[string]struct{})
	for _, p := range c.products {
		var v string
		switch field {
		case FieldBrand:
			v = p.Brand
		case FieldCollection:
			v = p.Collection
		case FieldType:
			v = p.Type
		case FieldColor:
			v = p.Color
		case FieldSpecies:
			v = p.Species
		default:
			v = p.Attrs[field]
		}
		if v != "" {
			seen[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
