// Package catalog holds the static SKU reference data the pipeline matches
// and prices against. The catalog is built once at process start and never
// mutated afterward, so concurrent requests read it without locking.
package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// SKU is one purchasable product variant.
type SKU struct {
	SKU         string  `json:"sku" yaml:"sku"`
	Description string  `json:"description" yaml:"description"`
	Voltage     string  `json:"voltage" yaml:"voltage"`
	Material    string  `json:"material" yaml:"material"`
	Insulation  string  `json:"insulation" yaml:"insulation"`
	BasePrice   float64 `json:"base_price" yaml:"base_price"`
}

// Catalog is an ordered, immutable set of SKUs. Catalog order is significant:
// the matching stage breaks score ties by it.
type Catalog struct {
	skus  []SKU
	index map[string]int
}

// New builds a catalog from the given SKUs, preserving order.
func New(skus []SKU) (*Catalog, error) {
	c := &Catalog{
		skus:  make([]SKU, len(skus)),
		index: make(map[string]int, len(skus)),
	}
	copy(c.skus, skus)
	for i, s := range skus {
		if s.SKU == "" {
			return nil, eris.Errorf("catalog: entry %d has empty sku", i)
		}
		if s.BasePrice <= 0 {
			return nil, eris.Errorf("catalog: sku %s has non-positive base price", s.SKU)
		}
		if _, dup := c.index[s.SKU]; dup {
			return nil, eris.Errorf("catalog: duplicate sku %s", s.SKU)
		}
		c.index[s.SKU] = i
	}
	return c, nil
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read file")
	}

	var doc struct {
		SKUs []SKU `yaml:"skus"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}
	if len(doc.SKUs) == 0 {
		return nil, eris.Errorf("catalog: %s contains no skus", path)
	}

	return New(doc.SKUs)
}

// Load returns the catalog at path, or the built-in default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// List returns all SKUs in catalog order.
func (c *Catalog) List() []SKU {
	out := make([]SKU, len(c.skus))
	copy(out, c.skus)
	return out
}

// Lookup returns the SKU with the given identifier.
func (c *Catalog) Lookup(sku string) (SKU, bool) {
	i, ok := c.index[sku]
	if !ok {
		return SKU{}, false
	}
	return c.skus[i], true
}

// Len returns the number of SKUs.
func (c *Catalog) Len() int {
	return len(c.skus)
}

// defaultSKUs is the built-in power cable catalog.
var defaultSKUs = []SKU{
	{SKU: "CAB-11KV-CU-XLPE", Description: "11kV Copper Conductor XLPE Insulated Power Cable", Voltage: "11kV", Material: "Copper", Insulation: "XLPE", BasePrice: 1200},
	{SKU: "CAB-11KV-AL-XLPE", Description: "11kV Aluminium Conductor XLPE Insulated Power Cable", Voltage: "11kV", Material: "Aluminium", Insulation: "XLPE", BasePrice: 850},
	{SKU: "CAB-22KV-CU-XLPE", Description: "22kV Copper Conductor XLPE Insulated Power Cable", Voltage: "22kV", Material: "Copper", Insulation: "XLPE", BasePrice: 1800},
	{SKU: "CAB-33KV-CU-XLPE", Description: "33kV Copper Conductor XLPE Insulated Power Cable", Voltage: "33kV", Material: "Copper", Insulation: "XLPE", BasePrice: 2400},
	{SKU: "CAB-33KV-AL-XLPE", Description: "33kV Aluminium Conductor XLPE Insulated Power Cable", Voltage: "33kV", Material: "Aluminium", Insulation: "XLPE", BasePrice: 1750},
	{SKU: "CAB-6.6KV-CU-PVC", Description: "6.6kV Copper Conductor PVC Insulated Cable", Voltage: "6.6kV", Material: "Copper", Insulation: "PVC", BasePrice: 680},
	{SKU: "CAB-LV-CU-PVC", Description: "LV Copper Conductor PVC Insulated Cable", Voltage: "LV", Material: "Copper", Insulation: "PVC", BasePrice: 450},
	{SKU: "CAB-LV-AL-PVC", Description: "LV Aluminium Conductor PVC Insulated Cable", Voltage: "LV", Material: "Aluminium", Insulation: "PVC", BasePrice: 320},
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return New(defaultSKUs)
}
