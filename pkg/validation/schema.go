package validation

import (
	"fmt"
	"math"

	"github.com/xiaolizigogogo/priceadjust/pkg/adjust"
	"github.com/xiaolizigogogo/priceadjust/pkg/sheet"
)

// ValidateSheet performs schema validation on a parsed Sheet.
// It checks structural correctness before any listing is adjusted.
func ValidateSheet(s *sheet.Sheet) *Report {
	r := NewReport()

	validateCoefficient(s, r)
	validateDefaultArea(s, r)
	validateListings(s, r)

	return r
}

func validateCoefficient(s *sheet.Sheet, r *Report) {
	if s.Coefficient == nil {
		return
	}
	c := *s.Coefficient
	if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "coefficient must be a positive finite number",
			Path:        "coefficient",
			ActualValue: c,
			Expected:    "> 0",
			Suggestions: []string{"Remove the field to use the fitted coefficient"},
		})
		return
	}
	if c > 1.5 || c < 0.5 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("coefficient %.4f is far from the fitted value", c),
			Path:        "coefficient",
			ActualValue: c,
			Expected:    "0.5 - 1.5",
		})
	}
}

func validateDefaultArea(s *sheet.Sheet, r *Report) {
	if s.DefaultArea < 0 || math.IsNaN(s.DefaultArea) || math.IsInf(s.DefaultArea, 0) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "default_area must be a non-negative finite number",
			Path:        "default_area",
			ActualValue: s.DefaultArea,
			Expected:    ">= 0",
		})
	}
}

func validateListings(s *sheet.Sheet, r *Report) {
	if len(s.Listings) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "listings must contain at least one entry",
			Path:     "listings",
			Expected: ">= 1 listing",
		})
		return
	}

	a := adjust.Default()
	if s.Coefficient != nil {
		if custom, err := adjust.New(*s.Coefficient); err == nil {
			a = custom
		}
	}

	seen := make(map[string]int, len(s.Listings))
	for i, l := range s.Listings {
		path := fmt.Sprintf("listings[%d]", i)
		errs := len(r.Errors)

		if l.Name == "" {
			r.AddInfo(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("%s has no name", path),
				Path:    path + ".name",
			})
		} else if prev, ok := seen[l.Name]; ok {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate listing name %q", l.Name),
				Path:        path + ".name",
				ActualValue: l.Name,
				Suggestions: []string{fmt.Sprintf("Also used by listings[%d]", prev)},
			})
		} else {
			seen[l.Name] = i
		}

		switch l.Mode() {
		case sheet.ModeUnknown:
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "listing must set exactly one of unit_price and total_price",
				Path:        path,
				Suggestions: []string{"Set unit_price (yuan/m²) or total_price (yuan), not both"},
			})
			continue
		case sheet.ModeUnit:
			validatePrice(*l.UnitPrice, path+".unit_price", r)
		case sheet.ModeTotal:
			validatePrice(*l.TotalPrice, path+".total_price", r)
			if l.EffectiveArea(s.DefaultArea) == 0 {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     "area must be non-zero for a total_price listing",
					Path:        path + ".area",
					ActualValue: l.Area,
					Expected:    "!= 0",
					Suggestions: []string{"Set area on the listing or default_area on the sheet"},
				})
				continue
			}
		}

		area := l.EffectiveArea(s.DefaultArea)
		if math.IsNaN(area) || math.IsInf(area, 0) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "area must be finite",
				Path:        path + ".area",
				ActualValue: area,
			})
		} else if area < 0 {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     "negative area is passed through unchanged",
				Path:        path + ".area",
				ActualValue: area,
				Expected:    "> 0",
			})
		}

		if len(r.Errors) == errs {
			validateResults(a, l, area, path, r)
		}
	}
}

// validateResults flags listings whose finite inputs still produce an
// amount outside the float64 range.
func validateResults(a adjust.Adjuster, l sheet.Listing, area float64, path string, r *Report) {
	type amount struct {
		name  string
		value float64
	}
	var amounts []amount

	switch l.Mode() {
	case sheet.ModeUnit:
		p := *l.UnitPrice
		amounts = []amount{
			{"source total price", p * area},
			{"adjusted unit price", a.UnitPrice(p)},
			{"adjusted total price", a.TotalPriceFromUnitPrice(p, area)},
		}
	case sheet.ModeTotal:
		t := *l.TotalPrice
		total, _ := a.TotalPrice(t, area)
		amounts = []amount{
			{"source unit price", t / area},
			{"adjusted unit price", a.UnitPrice(t / area)},
			{"adjusted total price", total},
			{"direct total price", a.TotalPriceDirect(t)},
		}
	}

	for _, am := range amounts {
		if err := CheckFinite(am.name, am.value); err != nil {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     err.Error(),
				Path:        path,
				ActualValue: am.value,
				Suggestions: []string{"Check the price and area for unit mistakes"},
			})
			return
		}
	}
}

func validatePrice(v float64, path string, r *Report) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "price must be finite",
			Path:        path,
			ActualValue: v,
		})
		return
	}
	if v < 0 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "negative price is passed through unchanged",
			Path:        path,
			ActualValue: v,
			Expected:    ">= 0",
		})
	}
}
