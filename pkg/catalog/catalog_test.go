package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `ProductName,SKUNumber,Collection,BRAND,ProductPrice,ProductType,ProductColor,ProductThickness
Heritage Oak,SKU1,Classic ,Twenty Oak,4.99,Hardwood,Natural,12mm
Urban Ash,SKU2,Metro,Beauflor,3.49,Vinyl,Grey,8mm
No Sku Row,,Metro,Beauflor,1.00,Vinyl,Grey,8mm
Heritage Oak v2,SKU1,Classic,Twenty Oak,5.25,Hardwood,Natural,12mm
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	// Row without a SKU is skipped; duplicate SKU overwrites in place.
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	p, ok := c.Get("SKU1")
	if !ok {
		t.Fatal("SKU1 not found")
	}
	if p.Name != "Heritage Oak v2" {
		t.Errorf("duplicate SKU should keep last row, got %q", p.Name)
	}
	if p.Brand != "Twenty Oak" || p.Collection != "Classic" {
		t.Errorf("record = %+v", p)
	}
	if p.Attrs["ProductThickness"] != "12mm" {
		t.Errorf("Attrs = %v", p.Attrs)
	}
}

func TestSampleBasePath(t *testing.T) {
	// Segments are trimmed and URL-escaped; the path carries no extension.
	got := SampleBasePath("Twenty Oak", " Classic ", "SKU1")
	want := "samples/Twenty%20Oak/Classic/SKU1"
	if got != want {
		t.Errorf("SampleBasePath = %q, want %q", got, want)
	}
}

func TestParseDerivesBasePath(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := c.Get("SKU2")
	if p.SampleBasePath != "samples/Beauflor/Metro/SKU2" {
		t.Errorf("SampleBasePath = %q", p.SampleBasePath)
	}
}

func TestFilterValues(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	brands := c.FilterValues(FieldBrand)
	if len(brands) != 2 || brands[0] != "Beauflor" || brands[1] != "Twenty Oak" {
		t.Errorf("FilterValues(BRAND) = %v", brands)
	}

	thicknesses := c.FilterValues("ProductThickness")
	if len(thicknesses) != 2 {
		t.Errorf("FilterValues(ProductThickness) = %v", thicknesses)
	}
}

func TestParseEmptyInput(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("Parse of empty input should fail on missing header")
	}
}

func TestProductsOrder(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	products := c.Products()
	if products[0].SKU != "SKU1" || products[1].SKU != "SKU2" {
		t.Errorf("load order not preserved: %v", []string{products[0].SKU, products[1].SKU})
	}
}
