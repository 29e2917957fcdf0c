// Package server exposes the calculators and the design pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/caraudioevents/subdesigner/internal/logger"
	"github.com/caraudioevents/subdesigner/internal/store"
	"github.com/caraudioevents/subdesigner/internal/telemetry"
	"github.com/caraudioevents/subdesigner/pkg/classify"
	"github.com/caraudioevents/subdesigner/pkg/design"
	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

// Options configures a Server. Zero values fall back to defaults; a nil
// Store disables the saved-design routes.
type Options struct {
	Port      int
	Engine    *classify.Engine
	Store     *store.Store
	Metrics   *telemetry.Metrics
	Log       *logger.Log
	RateLimit float64 // requests per second, 0 disables limiting
	RateBurst int
}

// Server is the design API server.
type Server struct {
	projectPath string
	port        int
	engine      *classify.Engine
	store       *store.Store
	metrics     *telemetry.Metrics
	log         *logger.Entry
	limiter     *rate.Limiter
}

// New creates a server for the given project directory. projectPath may be
// empty when no project design is served.
func New(projectPath string, opts Options) *Server {
	s := &Server{
		projectPath: projectPath,
		port:        opts.Port,
		engine:      opts.Engine,
		store:       opts.Store,
		metrics:     opts.Metrics,
	}
	if s.port == 0 {
		s.port = 3000
	}
	if s.engine == nil {
		s.engine = classify.Default()
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewMetrics()
	}
	log := opts.Log
	if log == nil {
		log = logger.Get()
	}
	s.log = log.WithComponent("server")
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Handler returns the routed, instrumented API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST /api/area", s.handleArea)
	s.route(mux, "POST /api/tuning", s.handleTuning)
	s.route(mux, "POST /api/sealed", s.handleSealed)
	s.route(mux, "POST /api/wiring", s.handleWiring)
	s.route(mux, "POST /api/classify", s.handleClassify)
	s.route(mux, "GET /api/organizations", s.handleOrganizations)
	s.route(mux, "POST /api/design", s.handleEvaluate)
	s.route(mux, "GET /api/design", s.handleProjectDesign)
	s.route(mux, "POST /api/designs", s.handleSaveDesign)
	s.route(mux, "GET /api/designs", s.handleListDesigns)
	s.route(mux, "GET /api/designs/{id}", s.handleGetDesign)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return mux
}

// Start launches the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.WithFields(logger.Fields{"addr": addr, "project": s.projectPath}).
		Infof("subdesigner server starting on http://localhost%s", addr)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON request body, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &requestError{err: err}
	}
	return nil
}

type requestError struct{ err error }

func (e *requestError) Error() string { return "malformed request body: " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

type errorBody struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		inputErr *validation.InputError
		reqErr   *requestError
	)
	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:    err.Error(),
			Field:    inputErr.Field,
			Expected: inputErr.Expected,
		})
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		s.log.WithError(err).WithFields(logger.Fields{"path": r.URL.Path}).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// evaluation is the response for every route that runs the pipeline.
type evaluation struct {
	ID         string             `json:"id,omitempty"`
	Design     *spec.Design       `json:"design"`
	Evaluation *design.Evaluation `json:"evaluation,omitempty"`
	Report     *validation.Report `json:"report"`
}

// evaluate validates the design schema and, when it is clean, runs the
// pipeline. A schema failure returns the report with a nil evaluation.
func (s *Server) evaluate(d *spec.Design) (*evaluation, error) {
	report := validation.ValidateDesign(d)
	if !report.Valid {
		return &evaluation{Design: d, Report: report}, nil
	}
	ev, advisories, err := design.Evaluate(d, s.engine)
	if err != nil {
		return nil, err
	}
	report.Merge(advisories)
	if ev.Classification != nil {
		s.metrics.ObserveClassification(ev.Classification.Organization, ev.Classification.Matched())
	}
	return &evaluation{Design: d, Evaluation: ev, Report: report}, nil
}

func evaluationStatus(ev *evaluation) int {
	if ev.Evaluation == nil {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
