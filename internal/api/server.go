// Package api serves planning over HTTP.
//
// Endpoints:
//
//	POST /v1/plans         run one planning job, respond with rated plans
//	GET  /v1/plans/stream  websocket: one request message, then one message per plan
//	GET  /v1/widgets       list the widgets of the active catalogue
//	GET  /v1/widgets/{id}  one widget of the active catalogue
//	GET  /healthz          liveness
//
// Every job plans against a snapshot of the repository wrapped in its own
// LRU cache, so a catalogue reload never changes a running job.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Iron-Ham/cobalt/internal/catalog"
	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/errors"
	"github.com/Iron-Ham/cobalt/internal/event"
	"github.com/Iron-Ham/cobalt/internal/logging"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/planner"
	"github.com/Iron-Ham/cobalt/internal/rating"
)

// maxBodyBytes bounds planning request bodies.
const maxBodyBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Repository answers catalogue queries. When it has a Current method
	// (like catalog.Reloadable) each job uses the repository current when
	// it starts.
	Repository model.Repository

	// Strategy is the composition strategy used when a request names none.
	Strategy planner.CompositionStrategy

	// CacheSize is the per-job LRU cache size; catalog.DefaultCacheSize when zero.
	CacheSize int

	// JobTimeout bounds each planning job. Zero means no timeout.
	JobTimeout time.Duration

	// DefaultLimit caps the plans of requests without a limit. Zero means
	// no cap.
	DefaultLimit int

	Bus    *event.Bus
	Logger *logging.Logger
}

// Server is the planning HTTP server.
type Server struct {
	cfg    Config
	mux    *http.ServeMux
	bus    *event.Bus
	logger *logging.Logger
}

// NewServer validates cfg and registers the routes.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Repository == nil {
		return nil, errors.Invalidf("api: Repository is required")
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = catalog.DefaultCacheSize
	}
	if cfg.CacheSize < 0 {
		return nil, errors.Invalidf("api: expecting a positive cache size, got %d", cfg.CacheSize)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger()
	}
	if cfg.Bus == nil {
		cfg.Bus = event.NewBus(event.WithLogger(cfg.Logger))
	}

	s := &Server{
		cfg:    cfg,
		mux:    http.NewServeMux(),
		bus:    cfg.Bus,
		logger: cfg.Logger.WithComponent("api"),
	}
	s.mux.HandleFunc("POST /v1/plans", s.handlePlans)
	s.mux.HandleFunc("OPTIONS /v1/plans", s.handleOptions)
	s.mux.HandleFunc("GET /v1/plans/stream", s.handleStream)
	s.mux.HandleFunc("GET /v1/widgets", s.handleWidgets)
	s.mux.HandleFunc("GET /v1/widgets/{id...}", s.handleWidget)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s, nil
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.withLogging(s.mux)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("api stopped")
		return nil
	}
}

// PlanResponse is the body of a planning response. Exactly one of Plans and
// Error is set.
type PlanResponse struct {
	ID    string     `json:"id,omitempty"`
	Plans []PlanJSON `json:"plans,omitempty"`
	Error string     `json:"error,omitempty"`
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	allowOrigin(w)

	var req PlanRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, PlanResponse{Error: "expecting valid JSON: " + err.Error()})
		return
	}

	var rc *collect.Rating
	j, err := s.newJob(req, func(r rating.Rater) collect.Collector {
		rc = collect.NewRating(r)
		return rc
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, PlanResponse{Error: err.Error()})
		return
	}

	ctx, cancel := s.jobContext(r.Context())
	defer cancel()
	if _, err := j.Run(ctx); err != nil {
		status := statusOf(err)
		writeJSON(w, status, PlanResponse{ID: j.ID(), Error: s.errorMessage(status, err)})
		return
	}

	plans := rc.Plans()
	if limit := s.limit(req); limit > 0 && len(plans) > limit {
		plans = plans[:limit]
	}
	resp := PlanResponse{ID: j.ID(), Plans: make([]PlanJSON, 0, len(plans))}
	for _, rp := range plans {
		resp.Plans = append(resp.Plans, EncodeRatedPlan(rp))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	allowOrigin(w)
	if h := r.Header.Get("Access-Control-Request-Headers"); h != "" {
		w.Header().Set("Access-Control-Allow-Headers", h)
	}
	w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, POST")
	w.WriteHeader(http.StatusOK)
}

// WidgetJSON lists a widget and the names of its actions.
type WidgetJSON struct {
	IdentifierJSON
	Actions []string `json:"actions"`
}

type widgetLister interface {
	Widgets() []model.Widget
}

type widgetFinder interface {
	Widget(id string) (model.Widget, error)
}

func (s *Server) handleWidgets(w http.ResponseWriter, r *http.Request) {
	allowOrigin(w)
	repo := s.snapshot()
	lister, ok := repo.(widgetLister)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "repository cannot list widgets"})
		return
	}

	out := make([]WidgetJSON, 0)
	for _, widget := range lister.Widgets() {
		wj, err := encodeWidget(r.Context(), repo, widget)
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, wj)
	}
	writeJSON(w, http.StatusOK, map[string]any{"widgets": out})
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	allowOrigin(w)
	repo := s.snapshot()
	finder, ok := repo.(widgetFinder)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "repository cannot look up widgets"})
		return
	}
	widget, err := finder.Widget(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	wj, err := encodeWidget(r.Context(), repo, widget)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wj)
}

func encodeWidget(ctx context.Context, repo model.Repository, widget model.Widget) (WidgetJSON, error) {
	actions, err := repo.WidgetActions(ctx, widget)
	if err != nil {
		return WidgetJSON{}, err
	}
	wj := WidgetJSON{IdentifierJSON: encodeIdentifier(widget.Identifier), Actions: make([]string, 0, len(actions))}
	for _, a := range actions {
		wj.Actions = append(wj.Actions, a.Name())
	}
	return wj, nil
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	host, _ := os.Hostname()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   "cobalt",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// newJob wires a planning job for req. build creates the job's collector
// from a rater over the job's repository.
func (s *Server) newJob(req PlanRequest, build func(rating.Rater) collect.Collector) (*planner.Job, error) {
	problem, err := req.Problem()
	if err != nil {
		return nil, err
	}
	strategy, err := req.CompositionStrategy(s.cfg.Strategy)
	if err != nil {
		return nil, err
	}

	repo, err := catalog.NewCache(s.snapshot(), s.cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	c := build(rating.NewTraversingRater(rating.DefaultStrategy(repo)))
	if limit := s.limit(req); limit > 0 {
		c = collect.NewLimit(c, limit)
	}

	return planner.NewJob(planner.JobConfig{
		Repository: repo,
		Problem:    problem,
		Strategy:   strategy,
		Collector:  c,
	}, planner.WithLogger(s.cfg.Logger), planner.WithBus(s.bus))
}

func (s *Server) snapshot() model.Repository {
	if r, ok := s.cfg.Repository.(interface{ Current() model.Repository }); ok {
		return r.Current()
	}
	return s.cfg.Repository
}

func (s *Server) limit(req PlanRequest) int {
	if req.Limit > 0 {
		return req.Limit
	}
	return s.cfg.DefaultLimit
}

func (s *Server) jobContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.JobTimeout > 0 {
		return context.WithTimeout(parent, s.cfg.JobTimeout)
	}
	return context.WithCancel(parent)
}

// statusOf maps a job error to an HTTP status. Expected planning failures
// are the client's problem; anything else is ours.
func statusOf(err error) int {
	switch {
	case errors.Is(err, &errors.NotFoundError{}):
		return http.StatusNotFound
	case errors.IsPlanningFailure(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides the details of server-side failures that are not meant
// for clients.
func (s *Server) errorMessage(status int, err error) string {
	if status >= http.StatusInternalServerError && !errors.IsUserFacing(err) {
		s.logger.Error("request failed", "error", err)
		return http.StatusText(status)
	}
	return err.Error()
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	writeJSON(w, status, map[string]string{"error": s.errorMessage(status, err)})
}

func allowOrigin(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack hands the connection to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer cannot be hijacked")
	}
	return h.Hijack()
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
