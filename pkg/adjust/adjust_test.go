package adjust

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestAdjustUnitPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10000, 9119.0},
		{15000, 13678.5},
		{20000, 18238.0},
		{25000, 22797.5},
		{30000, 27357.0},
		{0, 0},
		{-1000, -911.9},
	}
	for _, c := range cases {
		if got := AdjustUnitPrice(c.in); !approxEqual(got, c.want) {
			t.Errorf("AdjustUnitPrice(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAdjustUnitPriceIsCoefficientTimesInput(t *testing.T) {
	for _, p := range []float64{1, 0.01, 123.456, 9_999_999, -42, 1e12} {
		if got := AdjustUnitPrice(p); !approxEqual(got, Coefficient*p) {
			t.Errorf("AdjustUnitPrice(%v) = %v, want %v", p, got, Coefficient*p)
		}
	}
}

func TestAdjustTotalPriceFromUnitPrice(t *testing.T) {
	got := AdjustTotalPriceFromUnitPrice(15000, 100)
	if !approxEqual(got, 1367850.0) {
		t.Errorf("AdjustTotalPriceFromUnitPrice(15000, 100) = %v, want 1367850", got)
	}

	for _, c := range []struct{ p, a float64 }{{10000, 89.5}, {32000, 1}, {18000, 143.27}, {5000, -10}} {
		want := AdjustUnitPrice(c.p) * c.a
		if got := AdjustTotalPriceFromUnitPrice(c.p, c.a); got != want {
			t.Errorf("AdjustTotalPriceFromUnitPrice(%v, %v) = %v, want %v", c.p, c.a, got, want)
		}
	}
}

func TestAdjustTotalPrice(t *testing.T) {
	got, err := AdjustTotalPrice(2_000_000, 100)
	if err != nil {
		t.Fatalf("AdjustTotalPrice: %v", err)
	}
	if !approxEqual(got, 1823800.0) {
		t.Errorf("AdjustTotalPrice(2000000, 100) = %v, want 1823800", got)
	}
}

func TestAdjustTotalPriceRoundTrip(t *testing.T) {
	for _, c := range []struct{ p, a float64 }{
		{10000, 100}, {12345.67, 89.3}, {30000, 0.5}, {8000, 1234}, {22000, 3},
	} {
		got, err := AdjustTotalPrice(c.p*c.a, c.a)
		if err != nil {
			t.Fatalf("AdjustTotalPrice(%v, %v): %v", c.p*c.a, c.a, err)
		}
		want := AdjustUnitPrice(c.p) * c.a
		if !approxEqual(got, want) {
			t.Errorf("AdjustTotalPrice(%v, %v) = %v, want %v", c.p*c.a, c.a, got, want)
		}
	}
}

func TestAdjustTotalPriceZeroArea(t *testing.T) {
	for _, total := range []float64{100, 0, -5, 2_000_000} {
		got, err := AdjustTotalPrice(total, 0)
		if !errors.Is(err, ErrZeroArea) {
			t.Errorf("AdjustTotalPrice(%v, 0) error = %v, want ErrZeroArea", total, err)
		}
		if got != 0 {
			t.Errorf("AdjustTotalPrice(%v, 0) = %v, want 0 on error", total, got)
		}
	}
}

func TestAdjustTotalPriceDirect(t *testing.T) {
	if got := AdjustTotalPriceDirect(2_000_000); !approxEqual(got, 1823800.0) {
		t.Errorf("AdjustTotalPriceDirect(2000000) = %v, want 1823800", got)
	}

	// Both total-price paths agree when the area is the same.
	viaArea, err := AdjustTotalPrice(1_500_000, 120)
	if err != nil {
		t.Fatal(err)
	}
	if direct := AdjustTotalPriceDirect(1_500_000); !approxEqual(direct, viaArea) {
		t.Errorf("direct = %v, via area = %v", direct, viaArea)
	}
}

func TestNew(t *testing.T) {
	a, err := New(0.95)
	if err != nil {
		t.Fatalf("New(0.95): %v", err)
	}
	if a.Coefficient() != 0.95 {
		t.Errorf("Coefficient() = %v, want 0.95", a.Coefficient())
	}
	if got := a.UnitPrice(10000); !approxEqual(got, 9500) {
		t.Errorf("UnitPrice(10000) = %v, want 9500", got)
	}

	for _, bad := range []float64{0, -0.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := New(bad); !errors.Is(err, ErrInvalidCoefficient) {
			t.Errorf("New(%v) error = %v, want ErrInvalidCoefficient", bad, err)
		}
	}
}

func TestDefaultAdjuster(t *testing.T) {
	if Default().Coefficient() != Coefficient {
		t.Errorf("Default().Coefficient() = %v, want %v", Default().Coefficient(), Coefficient)
	}
	if _, err := Default().TotalPrice(1, 0); !errors.Is(err, ErrZeroArea) {
		t.Errorf("Default().TotalPrice(1, 0) error = %v, want ErrZeroArea", err)
	}
}

func TestUnitPrice(t *testing.T) {
	got, err := UnitPrice(2_000_000, 100)
	if err != nil || got != 20000 {
		t.Errorf("UnitPrice(2000000, 100) = %v, %v; want 20000, nil", got, err)
	}
	if _, err := UnitPrice(1, 0); !errors.Is(err, ErrZeroArea) {
		t.Errorf("UnitPrice(1, 0) error = %v, want ErrZeroArea", err)
	}
}

func TestDefaultIsFreshValue(t *testing.T) {
	a := Default()
	a.coefficient = 0
	if a.UnitPrice(10000) != 0 {
		t.Fatal("expected the local copy to be modified")
	}

	if Default().Coefficient() != Coefficient {
		t.Errorf("Default().Coefficient() = %v, want %v", Default().Coefficient(), Coefficient)
	}
	if got := AdjustUnitPrice(10000); !approxEqual(got, 9119) {
		t.Errorf("AdjustUnitPrice(10000) = %v, want 9119", got)
	}
	got, err := AdjustTotalPrice(2_000_000, 100)
	if err != nil || !approxEqual(got, 1823800) {
		t.Errorf("AdjustTotalPrice(2000000, 100) = %v, %v; want 1823800, nil", got, err)
	}
}
