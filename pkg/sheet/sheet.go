// Package sheet loads valuation sheets: batches of source appraisal
// prices to run through the adjuster.
package sheet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a sheet from a YAML file.
func Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sheet file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a sheet from YAML bytes.
func Parse(data []byte) (*Sheet, error) {
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing sheet YAML: %w", err)
	}
	return &s, nil
}

// Demo unit prices and area used by the sample run.
var (
	DemoUnitPrices = []float64{10000, 15000, 20000, 25000, 30000}
	DemoArea       = 100.0
	DemoTotalPrice = 2_000_000.0
)

// DemoSheet returns the sample sheet: five unit prices at 100 m² and
// one total price at the same area.
func DemoSheet() *Sheet {
	s := &Sheet{
		Title:       "sample valuations",
		DefaultArea: DemoArea,
	}
	for _, p := range DemoUnitPrices {
		p := p
		s.Listings = append(s.Listings, Listing{
			Name:      fmt.Sprintf("unit %.0f", p),
			UnitPrice: &p,
		})
	}
	total := DemoTotalPrice
	s.Listings = append(s.Listings, Listing{
		Name:       fmt.Sprintf("total %.0f", total),
		TotalPrice: &total,
	})
	return s
}
