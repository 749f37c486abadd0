package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xiaolizigogogo/priceadjust/pkg/report"
	"github.com/xiaolizigogogo/priceadjust/pkg/sheet"
	"github.com/xiaolizigogogo/priceadjust/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, e := range r.Warnings {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, e validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
	if e.Path != "" {
		fmt.Fprintf(w, "    -> %s = %v\n", e.Path, e.ActualValue)
	}
	if e.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", e.Expected)
	}
	for _, s := range e.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}

func printReport(w io.Writer, r *report.Report) {
	title := "Adjusted Valuations"
	if r.Title != "" {
		title += " (" + r.Title + ")"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "Coefficient: %g\n\n", r.Coefficient)

	fmt.Fprintf(w, "%-20s %-6s %10s %14s %16s %14s %16s\n",
		"Listing", "Mode", "Area", "Source/m²", "Source total", "Adjusted/m²", "Adjusted total")
	fmt.Fprintf(w, "%-20s %-6s %10s %14s %16s %14s %16s\n",
		strings.Repeat("-", 20), "------", strings.Repeat("-", 10), strings.Repeat("-", 14),
		strings.Repeat("-", 16), strings.Repeat("-", 14), strings.Repeat("-", 16))

	for _, l := range r.Lines {
		fmt.Fprintf(w, "%-20s %-6s %10s %14s %16s %14s %16s\n",
			truncate(l.Name, 20), l.Mode, formatAmount(l.Area),
			formatAmount(l.SourceUnitPrice), formatAmount(l.SourceTotalPrice),
			formatAmount(l.AdjustedUnitPrice), formatAmount(l.AdjustedTotalPrice))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "  Listings:        %d\n", r.Summary.Listings)
	fmt.Fprintf(w, "  Source total:    %s\n", formatAmount(r.Summary.SourceTotal))
	fmt.Fprintf(w, "  Adjusted total:  %s\n", formatAmount(r.Summary.AdjustedTotal))
	fmt.Fprintf(w, "  Difference:      %s\n", formatAmount(r.Summary.Difference))
}

// printDemo lists unit-price listings first, then the total-price ones
// compared against the direct (area-free) scaling.
func printDemo(w io.Writer, r *report.Report) {
	fmt.Fprintln(w, "Price adjustment demo")
	fmt.Fprintf(w, "Coefficient: %g\n\n", r.Coefficient)

	for _, l := range r.Lines {
		if l.Mode != sheet.ModeUnit {
			continue
		}
		fmt.Fprintf(w, "unit  %s/m² -> %s/m²   total %s -> %s   (%s m²)\n",
			formatWhole(l.SourceUnitPrice), formatWhole(l.AdjustedUnitPrice),
			formatWhole(l.SourceTotalPrice), formatWhole(l.AdjustedTotalPrice),
			formatWhole(l.Area))
	}

	fmt.Fprintln(w)
	for _, l := range r.Lines {
		if l.Mode != sheet.ModeTotal {
			continue
		}
		fmt.Fprintf(w, "total %s -> %s via area, %s direct   (%s m²)\n",
			formatWhole(l.SourceTotalPrice), formatWhole(l.AdjustedTotalPrice),
			formatWhole(l.DirectTotalPrice), formatWhole(l.Area))
	}
}

// formatAmount prints v with two decimals and thousands separators.
func formatAmount(v float64) string {
	return groupThousands(decimal.NewFromFloat(v).StringFixed(2))
}

func formatWhole(v float64) string {
	return groupThousands(decimal.NewFromFloat(v).StringFixed(0))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + frac
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
