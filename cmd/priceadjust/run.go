package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiaolizigogogo/priceadjust/internal/config"
	"github.com/xiaolizigogogo/priceadjust/internal/logging"
	"github.com/xiaolizigogogo/priceadjust/internal/server"
	"github.com/xiaolizigogogo/priceadjust/pkg/adjust"
	"github.com/xiaolizigogogo/priceadjust/pkg/report"
	"github.com/xiaolizigogogo/priceadjust/pkg/sheet"
	"github.com/xiaolizigogogo/priceadjust/pkg/validation"
)

type options struct {
	coefficient *float64
}

// setup is the resolved configuration shared by every command.
type setup struct {
	cfg      config.Config
	adjuster adjust.Adjuster
	source   string // where the coefficient came from
}

// overrides reports on a coefficient that is not the fitted one.
func (s setup) overrides() *validation.Report {
	return validation.CheckOverride(s.source, s.adjuster.Coefficient(), adjust.Coefficient)
}

// resolve picks the coefficient: flag, then environment, then the
// fitted constant.
func (o *options) resolve(cfg config.Config) (setup, error) {
	c, source := cfg.Coefficient, "PRICEADJUST_COEFFICIENT"
	if o.coefficient != nil && *o.coefficient != 0 {
		c, source = *o.coefficient, "--coefficient"
	}
	if c == 0 {
		return setup{cfg: cfg, adjuster: adjust.Default(), source: "built-in"}, nil
	}
	a, err := adjust.New(c)
	if err != nil {
		return setup{}, fmt.Errorf("%s: %w", source, err)
	}
	return setup{cfg: cfg, adjuster: a, source: source}, nil
}

func (o *options) load() (setup, error) {
	cfg, err := config.Load()
	if err != nil {
		return setup{}, fmt.Errorf("loading config: %w", err)
	}
	return o.resolve(cfg)
}

// parseArgs parses positional amounts, reporting every bad one at once.
func parseArgs(inputs ...validation.Input) ([]float64, error) {
	values, vr := validation.ParseInputs(inputs...)
	if err := vr.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// printAmount refuses to print an amount that overflowed.
func printAmount(w io.Writer, field string, v float64) error {
	if err := validation.CheckFinite(field, v); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", formatAmount(v))
	return nil
}

func runUnit(w io.Writer, opts *options, rawPrice string) error {
	st, err := opts.load()
	if err != nil {
		return err
	}
	v, err := parseArgs(validation.Input{Field: "unit price", Raw: rawPrice})
	if err != nil {
		return err
	}
	return printAmount(w, "adjusted unit price", st.adjuster.UnitPrice(v[0]))
}

func runTotal(w io.Writer, opts *options, rawPrice, rawArea string) error {
	st, err := opts.load()
	if err != nil {
		return err
	}
	v, err := parseArgs(
		validation.Input{Field: "total price", Raw: rawPrice},
		validation.Input{Field: "area", Raw: rawArea, NonZero: true},
	)
	if err != nil {
		return err
	}
	total, err := st.adjuster.TotalPrice(v[0], v[1])
	if err != nil {
		return err
	}
	return printAmount(w, "adjusted total price", total)
}

func runFromUnit(w io.Writer, opts *options, rawPrice, rawArea string) error {
	st, err := opts.load()
	if err != nil {
		return err
	}
	v, err := parseArgs(
		validation.Input{Field: "unit price", Raw: rawPrice},
		validation.Input{Field: "area", Raw: rawArea},
	)
	if err != nil {
		return err
	}
	return printAmount(w, "adjusted total price", st.adjuster.TotalPriceFromUnitPrice(v[0], v[1]))
}

func runDirect(w io.Writer, opts *options, rawPrice string) error {
	st, err := opts.load()
	if err != nil {
		return err
	}
	v, err := parseArgs(validation.Input{Field: "total price", Raw: rawPrice})
	if err != nil {
		return err
	}
	return printAmount(w, "adjusted total price", st.adjuster.TotalPriceDirect(v[0]))
}

func runCoefficient(w io.Writer, opts *options) error {
	st, err := opts.load()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%g (%s)\n", st.adjuster.Coefficient(), st.source)
	return nil
}

// evaluateSheet validates the sheet, merges in the report on a flag or
// environment coefficient override and, when valid, computes its report.
// A coefficient set in the sheet itself takes precedence.
func evaluateSheet(s *sheet.Sheet, st setup) (*report.Report, *validation.Report, error) {
	vr := validation.ValidateSheet(s)
	if s.Coefficient == nil && st.adjuster.Coefficient() != adjust.Coefficient {
		c := st.adjuster.Coefficient()
		s.Coefficient = &c
		vr.Merge(st.overrides())
	}
	if !vr.Valid {
		return nil, vr, nil
	}
	rep, err := report.Evaluate(s)
	if err != nil {
		return nil, vr, err
	}
	return rep, vr, nil
}

func runSheet(w io.Writer, opts *options, path string, asJSON bool) error {
	st, err := opts.load()
	if err != nil {
		return err
	}
	s, err := sheet.Load(path)
	if err != nil {
		return fmt.Errorf("loading sheet: %w", err)
	}

	rep, vr, err := evaluateSheet(s, st)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"validation": vr, "report": rep}); err != nil {
			return err
		}
		return vr.Err()
	}

	if rep == nil {
		printValidationReport(w, vr)
		return fmt.Errorf("sheet has validation errors; fix before adjusting")
	}
	printReport(w, rep)
	if len(vr.Warnings) > 0 || len(vr.Info) > 0 {
		fmt.Fprintln(w)
		printValidationReport(w, vr)
	}
	return nil
}

func runDemo(w io.Writer, opts *options) error {
	st, err := opts.load()
	if err != nil {
		return err
	}
	rep, vr, err := evaluateSheet(sheet.DemoSheet(), st)
	if err != nil {
		return err
	}
	if rep == nil {
		printValidationReport(w, vr)
		return vr.Err()
	}
	printDemo(w, rep)
	return nil
}

func runServe(ctx context.Context, opts *options, addr string) error {
	st, err := opts.load()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = st.cfg.HTTPAddr
	}

	logger, err := logging.New(st.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range st.overrides().Warnings {
		logger.Warn(w.Message, zap.String("source", w.Path))
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(addr, st.adjuster, logger).Start(ctx); err != nil {
		logger.Error("server failed", zap.Error(err))
		return err
	}
	return nil
}
