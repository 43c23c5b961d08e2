// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	repository "github.com/okian/rallyscore/internal/adapters/repository"
	"github.com/okian/rallyscore/internal/domain/manual"
	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/rally"
	"github.com/okian/rallyscore/internal/domain/scoring"
	"github.com/okian/rallyscore/pkg/logger"
)

const defaultMaxBodyBytes int64 = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SectionDependencies
	ScoreDependencies
	ManualDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sectionsHandler *SectionsHandler
	scoreHandler    *ScoreHandler
	manualHandler   *ManualHandler
}

// Option applies a configuration option to the Server.
type Option func(*responder)

// WithLogger logs server-side failures on l.
func WithLogger(l logger.Logger) Option {
	return func(r *responder) {
		r.log = l
	}
}

// WithMaxBodyBytes bounds request bodies. Non-positive values keep the
// default.
func WithMaxBodyBytes(n int64) Option {
	return func(r *responder) {
		if n > 0 {
			r.maxBody = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	rsp := &responder{maxBody: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(rsp)
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sectionsHandler: &SectionsHandler{deps: deps, rsp: rsp},
		scoreHandler:    &ScoreHandler{deps: deps, rsp: rsp},
		manualHandler:   &ManualHandler{deps: deps, rsp: rsp},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("PUT /matches/{match}/sections", MetricsMiddleware(s.sectionsHandler.HandleReplace, "sections"))
	mux.HandleFunc("POST /matches/{match}/sections", MetricsMiddleware(s.sectionsHandler.HandleAppend, "sections"))
	mux.HandleFunc("DELETE /matches/{match}", MetricsMiddleware(s.sectionsHandler.HandleDelete, "match"))

	mux.HandleFunc("GET /matches/{match}/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("GET /matches/{match}/games", MetricsMiddleware(s.scoreHandler.HandleGames, "games"))
	mux.HandleFunc("GET /matches/{match}/timeline", MetricsMiddleware(s.scoreHandler.HandleTimeline, "timeline"))

	mux.HandleFunc("POST /matches/{match}/manual", MetricsMiddleware(s.manualHandler.HandleSeed, "manual_seed"))
	mux.HandleFunc("POST /manual/up", MetricsMiddleware(s.manualHandler.HandleMove(manual.DirectionUp), "manual_up"))
	mux.HandleFunc("POST /manual/down", MetricsMiddleware(s.manualHandler.HandleMove(manual.DirectionDown), "manual_down"))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestID(r.Context())})
}

// statusFor maps an error kind to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, repository.ErrTooManySections):
		return http.StatusRequestEntityTooLarge, "too_many_sections"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "match_not_found"
	case errors.Is(err, scoring.ErrSectionNotFound):
		return http.StatusNotFound, "section_not_found"
	case errors.Is(err, repository.ErrDuplicateSection):
		return http.StatusConflict, "duplicate_section"
	case errors.Is(err, rally.ErrMalformedSection):
		return http.StatusBadRequest, "malformed_section"
	case errors.Is(err, rally.ErrInvalidDefaultWinner),
		errors.Is(err, manual.ErrInvalidPlayerIndex):
		return http.StatusBadRequest, "invalid_side"
	case errors.Is(err, manual.ErrInvalidDirection),
		errors.Is(err, repository.ErrInvalidMatchID),
		errors.Is(err, repository.ErrInvalidSectionID),
		errors.Is(err, ErrMissingParam),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// responder holds what every business handler shares.
type responder struct {
	log     logger.Logger
	maxBody int64
}

func (rs *responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError && rs.log != nil {
		rs.log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, r, status, code, err)
}

// decode reads one JSON value from the bounded request body.
func (rs *responder) decode(op string, w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, rs.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return WrapKind(op, ErrBodyTooLarge, err)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// sectionParam returns the required section query parameter.
func sectionParam(op string, r *http.Request) (string, error) {
	id := strings.TrimSpace(r.URL.Query().Get("section"))
	if id == "" {
		return "", WrapKind(op, ErrMissingParam, errors.New("section"))
	}
	return id, nil
}

// winnerParam reads the optional default_winner override. An absent value
// selects the server default.
func winnerParam(op string, r *http.Request) (model.Side, error) {
	raw := r.URL.Query().Get("default_winner")
	if raw == "" {
		return model.SideUnknown, nil
	}
	side := model.ParseSide(raw)
	if !side.Valid() {
		return model.SideUnknown, WrapKind(op, rally.ErrInvalidDefaultWinner, fmt.Errorf("%q", raw))
	}
	return side, nil
}
