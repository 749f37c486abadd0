package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xiaolizigogogo/priceadjust/internal/config"
	"github.com/xiaolizigogogo/priceadjust/pkg/adjust"
	"github.com/xiaolizigogogo/priceadjust/pkg/report"
	"github.com/xiaolizigogogo/priceadjust/pkg/sheet"
	"github.com/xiaolizigogogo/priceadjust/pkg/validation"
)

const maxSheetBytes = 1 << 20

// Server exposes the adjuster over a small JSON API.
type Server struct {
	addr     string
	adjuster adjust.Adjuster
	logger   *zap.Logger
}

// New creates a server listening on addr.
func New(addr string, adjuster adjust.Adjuster, logger *zap.Logger) *Server {
	return &Server{
		addr:     addr,
		adjuster: adjuster,
		logger:   logger,
	}
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/api/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"name":    config.AppName,
			"version": config.Version,
		})
	})
	r.Get("/api/coefficient", s.handleCoefficient)

	r.Route("/api/adjust", func(r chi.Router) {
		r.Get("/unit", s.handleUnit)
		r.Get("/total", s.handleTotal)
		r.Get("/from-unit", s.handleFromUnit)
		r.Get("/direct", s.handleDirect)
	})
	r.Post("/api/sheet", s.handleSheet)

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			zap.String("addr", s.addr),
			zap.Float64("coefficient", s.adjuster.Coefficient()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleCoefficient(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"coefficient": s.adjuster.Coefficient(),
		"fitted":      adjust.Coefficient,
	})
}

// parseQuery parses the named amounts from the query string. On failure
// it writes a 400 carrying the input-level report and returns false.
func parseQuery(w http.ResponseWriter, r *http.Request, inputs ...validation.Input) ([]float64, bool) {
	q := r.URL.Query()
	for i := range inputs {
		inputs[i].Raw = q.Get(inputs[i].Field)
	}
	values, vr := validation.ParseInputs(inputs...)
	if err := vr.Err(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      err.Error(),
			"validation": vr,
		})
		return nil, false
	}
	return values, true
}

func (s *Server) handleUnit(w http.ResponseWriter, r *http.Request) {
	v, ok := parseQuery(w, r, validation.Input{Field: "price"})
	if !ok {
		return
	}
	adjusted := s.adjuster.UnitPrice(v[0])
	if !checkFinite(w, map[string]float64{"adjusted unit price": adjusted}) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source_unit_price":   v[0],
		"adjusted_unit_price": adjusted,
	})
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	v, ok := parseQuery(w, r, validation.Input{Field: "price"}, validation.Input{Field: "area"})
	if !ok {
		return
	}
	total, err := s.adjuster.TotalPrice(v[0], v[1])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !checkFinite(w, map[string]float64{"adjusted total price": total}) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source_total_price":   v[0],
		"area":                 v[1],
		"adjusted_total_price": total,
	})
}

func (s *Server) handleFromUnit(w http.ResponseWriter, r *http.Request) {
	v, ok := parseQuery(w, r, validation.Input{Field: "price"}, validation.Input{Field: "area"})
	if !ok {
		return
	}
	unit := s.adjuster.UnitPrice(v[0])
	total := s.adjuster.TotalPriceFromUnitPrice(v[0], v[1])
	if !checkFinite(w, map[string]float64{"adjusted unit price": unit, "adjusted total price": total}) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source_unit_price":    v[0],
		"area":                 v[1],
		"adjusted_unit_price":  unit,
		"adjusted_total_price": total,
	})
}

func (s *Server) handleDirect(w http.ResponseWriter, r *http.Request) {
	v, ok := parseQuery(w, r, validation.Input{Field: "price"})
	if !ok {
		return
	}
	total := s.adjuster.TotalPriceDirect(v[0])
	if !checkFinite(w, map[string]float64{"adjusted total price": total}) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source_total_price":   v[0],
		"adjusted_total_price": total,
	})
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSheetBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body: "+err.Error())
		return
	}
	sh, err := sheet.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vr := validation.ValidateSheet(sh)
	if sh.Coefficient == nil && s.adjuster.Coefficient() != adjust.Coefficient {
		c := s.adjuster.Coefficient()
		sh.Coefficient = &c
		vr.Merge(validation.CheckOverride("server", c, adjust.Coefficient))
	}
	if !vr.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"validation": vr})
		return
	}
	rep, err := report.Evaluate(sh)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.logger.Info("sheet evaluated",
		zap.String("title", sh.Title),
		zap.Int("listings", rep.Summary.Listings),
		zap.Float64("adjusted_total", rep.Summary.AdjustedTotal))
	writeJSON(w, http.StatusOK, map[string]any{
		"validation": vr,
		"report":     rep,
	})
}

// writeJSON encodes before committing the status so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(map[string]string{"error": "encoding response: " + err.Error()})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// checkFinite writes a 422 and returns false when any computed amount
// overflowed.
func checkFinite(w http.ResponseWriter, amounts map[string]float64) bool {
	for field, v := range amounts {
		if err := validation.CheckFinite(field, v); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return false
		}
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
