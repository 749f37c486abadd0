package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr string
	}{
		{"10000", 10000, ""},
		{" 2,000,000 ", 2_000_000, ""},
		{"1,234.56", 1234.56, ""},
		{"-12,500", -12500, ""},
		{"1_500", 1500, ""},
		{"-12.5", -12.5, ""},
		{"1e3", 1000, ""},
		{"", 0, "price is required"},
		{"abc", 0, "not a number"},
		{"NaN", 0, "must be finite"},
		{"+Inf", 0, "must be finite"},
		{"1,5", 0, "separators must group thousands"},
		{"12,34,567", 0, "separators must group thousands"},
		{"1,000_000", 0, "separators must group thousands"},
		{"1_5", 0, "separators must group thousands"},
		{"1000,", 0, "separators must group thousands"},
	}
	for _, c := range cases {
		got, err := ParseAmount("price", c.in)
		if c.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("ParseAmount(%q) error = %v, want containing %q", c.in, err, c.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseInputs(t *testing.T) {
	values, r := ParseInputs(
		Input{Field: "total price", Raw: "2,000,000"},
		Input{Field: "area", Raw: "100", NonZero: true},
	)
	if !r.Valid {
		t.Fatalf("expected valid inputs, got %+v", r.Errors)
	}
	if values[0] != 2_000_000 || values[1] != 100 {
		t.Errorf("values = %v, want [2000000 100]", values)
	}
}

func TestParseInputsCollectsEveryFailure(t *testing.T) {
	_, r := ParseInputs(
		Input{Field: "total price", Raw: "two million"},
		Input{Field: "area", Raw: "0", NonZero: true},
	)
	if r.Valid {
		t.Fatal("expected invalid inputs")
	}
	if len(r.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %+v", r.Errors)
	}
	for _, e := range r.Errors {
		if e.Level != LevelInput {
			t.Errorf("level = %s, want %s", e.Level, LevelInput)
		}
	}
	if r.Errors[1].Path != "area" || !strings.Contains(r.Errors[1].Message, "area must be non-zero") {
		t.Errorf("unexpected area finding: %+v", r.Errors[1])
	}
}

func TestParseInputsZeroAllowedWithoutDivision(t *testing.T) {
	values, r := ParseInputs(Input{Field: "area", Raw: "0"})
	if !r.Valid || values[0] != 0 {
		t.Errorf("area 0 without NonZero should parse, got %v %+v", values, r.Errors)
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("adjusted total price", 1823800); err != nil {
		t.Errorf("finite value rejected: %v", err)
	}
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		err := CheckFinite("adjusted total price", v)
		if !errors.Is(err, ErrNotFinite) {
			t.Errorf("CheckFinite(%v) = %v, want ErrNotFinite", v, err)
		}
		if err != nil && !strings.HasPrefix(err.Error(), "adjusted total price: ") {
			t.Errorf("error should name the field: %v", err)
		}
	}
}

func TestCheckOverride(t *testing.T) {
	if r := CheckOverride("--coefficient", 0.9119, 0.9119); len(r.Info)+len(r.Warnings) != 0 {
		t.Errorf("fitted coefficient should produce no findings, got %+v", r)
	}

	r := CheckOverride("PRICEADJUST_COEFFICIENT", 0.95, 0.9119)
	if !r.Valid || len(r.Info) != 1 || len(r.Warnings) != 0 {
		t.Errorf("near override: want 1 info, got %+v", r)
	}
	if r.Info[0].Path != "PRICEADJUST_COEFFICIENT" {
		t.Errorf("path = %q, want PRICEADJUST_COEFFICIENT", r.Info[0].Path)
	}

	r = CheckOverride("--coefficient", 2, 0.9119)
	if !r.Valid || len(r.Warnings) != 1 {
		t.Errorf("far override: want 1 warning and still valid, got %+v", r)
	}
}
