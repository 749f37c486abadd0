// Package report runs a valuation sheet through the adjuster and
// produces per-listing and aggregate results.
package report

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/xiaolizigogogo/priceadjust/pkg/adjust"
	"github.com/xiaolizigogogo/priceadjust/pkg/sheet"
	"github.com/xiaolizigogogo/priceadjust/pkg/validation"
)

// Line is the adjusted result for one listing.
type Line struct {
	Name               string     `json:"name"`
	Mode               sheet.Mode `json:"mode"`
	Area               float64    `json:"area"`
	SourceUnitPrice    float64    `json:"source_unit_price"`
	SourceTotalPrice   float64    `json:"source_total_price"`
	AdjustedUnitPrice  float64    `json:"adjusted_unit_price"`
	AdjustedTotalPrice float64    `json:"adjusted_total_price"`

	// DirectTotalPrice is coefficient × source total, without the area.
	DirectTotalPrice float64 `json:"direct_total_price"`
}

// Report is the complete adjustment output for a sheet.
type Report struct {
	Title       string  `json:"title,omitempty"`
	Coefficient float64 `json:"coefficient"`
	Lines       []Line  `json:"lines"`

	Summary struct {
		Listings      int     `json:"listings"`
		SourceTotal   float64 `json:"source_total"`
		AdjustedTotal float64 `json:"adjusted_total"`
		Difference    float64 `json:"difference"`
	} `json:"summary"`
}

// Evaluate adjusts every listing on the sheet. The sheet's coefficient
// override is used when present. Amounts in the report are rounded to
// two decimals; sums are taken before rounding.
func Evaluate(s *sheet.Sheet) (*Report, error) {
	a := adjust.Default()
	if s.Coefficient != nil {
		var err error
		if a, err = adjust.New(*s.Coefficient); err != nil {
			return nil, err
		}
	}

	report := &Report{
		Title:       s.Title,
		Coefficient: a.Coefficient(),
		Lines:       make([]Line, 0, len(s.Listings)),
	}

	var sourceTotal, adjustedTotal float64
	for i, l := range s.Listings {
		line, err := evaluateListing(a, l, s.DefaultArea)
		if err != nil {
			return nil, fmt.Errorf("listings[%d] %q: %w", i, l.Name, err)
		}
		if err := checkLine(line); err != nil {
			return nil, fmt.Errorf("listings[%d] %q: %w", i, l.Name, err)
		}
		sourceTotal += line.SourceTotalPrice
		adjustedTotal += line.AdjustedTotalPrice
		report.Lines = append(report.Lines, roundLine(line))
	}

	for _, sum := range []struct {
		name  string
		value float64
	}{
		{"summary source total", sourceTotal},
		{"summary adjusted total", adjustedTotal},
		{"summary difference", adjustedTotal - sourceTotal},
	} {
		if err := validation.CheckFinite(sum.name, sum.value); err != nil {
			return nil, err
		}
	}

	report.Summary.Listings = len(report.Lines)
	report.Summary.SourceTotal = RoundCurrency(sourceTotal)
	report.Summary.AdjustedTotal = RoundCurrency(adjustedTotal)
	report.Summary.Difference = RoundCurrency(adjustedTotal - sourceTotal)

	return report, nil
}

func evaluateListing(a adjust.Adjuster, l sheet.Listing, defaultArea float64) (Line, error) {
	area := l.EffectiveArea(defaultArea)
	line := Line{Name: l.Name, Mode: l.Mode(), Area: area}

	switch line.Mode {
	case sheet.ModeUnit:
		line.SourceUnitPrice = *l.UnitPrice
		line.SourceTotalPrice = *l.UnitPrice * area
		line.AdjustedUnitPrice = a.UnitPrice(*l.UnitPrice)
		line.AdjustedTotalPrice = a.TotalPriceFromUnitPrice(*l.UnitPrice, area)
	case sheet.ModeTotal:
		unit, err := adjust.UnitPrice(*l.TotalPrice, area)
		if err != nil {
			return Line{}, err
		}
		total, err := a.TotalPrice(*l.TotalPrice, area)
		if err != nil {
			return Line{}, err
		}
		line.SourceUnitPrice = unit
		line.SourceTotalPrice = *l.TotalPrice
		line.AdjustedUnitPrice = a.UnitPrice(unit)
		line.AdjustedTotalPrice = total
	default:
		return Line{}, fmt.Errorf("listing must set exactly one of unit_price and total_price")
	}

	line.DirectTotalPrice = a.TotalPriceDirect(line.SourceTotalPrice)
	return line, nil
}

func checkLine(l Line) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"source unit price", l.SourceUnitPrice},
		{"source total price", l.SourceTotalPrice},
		{"adjusted unit price", l.AdjustedUnitPrice},
		{"adjusted total price", l.AdjustedTotalPrice},
		{"direct total price", l.DirectTotalPrice},
	} {
		if err := validation.CheckFinite(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func roundLine(l Line) Line {
	l.SourceUnitPrice = RoundCurrency(l.SourceUnitPrice)
	l.SourceTotalPrice = RoundCurrency(l.SourceTotalPrice)
	l.AdjustedUnitPrice = RoundCurrency(l.AdjustedUnitPrice)
	l.AdjustedTotalPrice = RoundCurrency(l.AdjustedTotalPrice)
	l.DirectTotalPrice = RoundCurrency(l.DirectTotalPrice)
	return l
}

// RoundCurrency rounds to the nearest fen (two decimals), halves away
// from zero. Display only; the adjust package never rounds. Non-finite
// values are returned unchanged.
func RoundCurrency(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
