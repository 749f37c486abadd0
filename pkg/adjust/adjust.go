// Package adjust converts source appraisal valuations into adjusted
// brokerage valuations using a fixed empirical coefficient.
package adjust

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroArea is returned when a total price has to be divided by a zero area.
	ErrZeroArea = errors.New("area must be non-zero")

	// ErrInvalidCoefficient is returned by New for non-positive or non-finite values.
	ErrInvalidCoefficient = errors.New("coefficient must be a positive finite number")
)

// Adjuster applies a coefficient chosen at construction time.
// The zero value is not usable; use Default or New.
type Adjuster struct {
	coefficient float64
}

// Default returns an Adjuster using the package Coefficient.
func Default() Adjuster {
	return Adjuster{coefficient: Coefficient}
}

// New returns an Adjuster with the given coefficient.
func New(coefficient float64) (Adjuster, error) {
	if math.IsNaN(coefficient) || math.IsInf(coefficient, 0) || coefficient <= 0 {
		return Adjuster{}, fmt.Errorf("%w (got %v)", ErrInvalidCoefficient, coefficient)
	}
	return Adjuster{coefficient: coefficient}, nil
}

// Coefficient returns the ratio this adjuster applies.
func (a Adjuster) Coefficient() float64 {
	return a.coefficient
}

// UnitPrice returns coefficient × sourceUnitPrice. Negative input passes through.
func (a Adjuster) UnitPrice(sourceUnitPrice float64) float64 {
	return a.coefficient * sourceUnitPrice
}

// TotalPrice derives the unit price from the total and area, adjusts it
// and scales it back up by the area.
func (a Adjuster) TotalPrice(sourceTotalPrice, area float64) (float64, error) {
	unit, err := UnitPrice(sourceTotalPrice, area)
	if err != nil {
		return 0, err
	}
	return a.UnitPrice(unit) * area, nil
}

// TotalPriceFromUnitPrice returns the adjusted unit price times area.
func (a Adjuster) TotalPriceFromUnitPrice(sourceUnitPrice, area float64) float64 {
	return a.UnitPrice(sourceUnitPrice) * area
}

// TotalPriceDirect scales a total price without routing through area.
// Only equivalent to TotalPrice when both valuations refer to the same area.
func (a Adjuster) TotalPriceDirect(sourceTotalPrice float64) float64 {
	return a.coefficient * sourceTotalPrice
}

// UnitPrice returns total / area, or ErrZeroArea.
func UnitPrice(totalPrice, area float64) (float64, error) {
	if area == 0 {
		return 0, ErrZeroArea
	}
	return totalPrice / area, nil
}

// AdjustUnitPrice returns Coefficient × sourceUnitPrice.
func AdjustUnitPrice(sourceUnitPrice float64) float64 {
	return Default().UnitPrice(sourceUnitPrice)
}

// AdjustTotalPrice adjusts a total price by way of its unit price.
// It returns ErrZeroArea when area is zero.
func AdjustTotalPrice(sourceTotalPrice, area float64) (float64, error) {
	return Default().TotalPrice(sourceTotalPrice, area)
}

// AdjustTotalPriceFromUnitPrice returns AdjustUnitPrice(sourceUnitPrice) × area.
func AdjustTotalPriceFromUnitPrice(sourceUnitPrice, area float64) float64 {
	return Default().TotalPriceFromUnitPrice(sourceUnitPrice, area)
}

// AdjustTotalPriceDirect returns Coefficient × sourceTotalPrice.
func AdjustTotalPriceDirect(sourceTotalPrice float64) float64 {
	return Default().TotalPriceDirect(sourceTotalPrice)
}
