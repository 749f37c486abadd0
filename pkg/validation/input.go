package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotFinite is returned when a computed amount overflows to ±Inf or is NaN.
var ErrNotFinite = errors.New("result is not a finite number")

// Digit groups of three, separated by a single kind of separator.
var (
	commaGrouped      = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)
	underscoreGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(_\d{3})+(\.\d*)?$`)
)

// ParseAmount parses a price or area supplied on the command line or in
// a query string. Malformed and non-finite values are rejected.
func ParseAmount(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	switch {
	case commaGrouped.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case underscoreGrouped.MatchString(s):
		s = strings.ReplaceAll(s, "_", "")
	case strings.ContainsAny(s, ",_"):
		return 0, fmt.Errorf("invalid %s %q: separators must group thousands", field, raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: not a number", field, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q: must be finite", field, raw)
	}
	return v, nil
}

// CheckFinite reports an error wrapping ErrNotFinite when a computed
// amount is ±Inf or NaN.
func CheckFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %w (got %v)", field, ErrNotFinite, v)
	}
	return nil
}

// Input is one raw amount from the command line or a query string.
type Input struct {
	Field   string
	Raw     string
	NonZero bool // set where the amount is used as a divisor
}

// ParseInputs parses every input and collects all failures into an
// input-level report instead of stopping at the first one.
func ParseInputs(inputs ...Input) ([]float64, *Report) {
	r := NewReport()
	values := make([]float64, len(inputs))
	for i, in := range inputs {
		v, err := ParseAmount(in.Field, in.Raw)
		if err == nil && in.NonZero && v == 0 {
			err = fmt.Errorf("invalid %s %q: %s must be non-zero", in.Field, in.Raw, in.Field)
		}
		if err != nil {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     err.Error(),
				Path:        in.Field,
				ActualValue: in.Raw,
			})
			continue
		}
		values[i] = v
	}
	return values, r
}

// CheckOverride reports on a coefficient that replaces the fitted one.
// source names where it came from, e.g. "--coefficient".
func CheckOverride(source string, coefficient, fitted float64) *Report {
	r := NewReport()
	if coefficient == fitted {
		return r
	}
	r.AddInfo(Result{
		Level:       LevelInput,
		Message:     fmt.Sprintf("coefficient %g from %s replaces fitted %g", coefficient, source, fitted),
		Path:        source,
		ActualValue: coefficient,
	})
	if coefficient > 1.5 || coefficient < 0.5 {
		r.AddWarning(Result{
			Level:       LevelInput,
			Message:     fmt.Sprintf("coefficient %.4f is far from the fitted value", coefficient),
			Path:        source,
			ActualValue: coefficient,
			Expected:    "0.5 - 1.5",
		})
	}
	return r
}
