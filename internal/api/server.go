package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

// Server is an HTTP API server that exposes the export operations.
type Server struct {
	op        *operator.Operator
	logger    *slog.Logger
	authToken string
}

// NewServer creates a Server. An empty authToken disables authentication.
func NewServer(op *operator.Operator, logger *slog.Logger, authToken string) *Server {
	return &Server{
		op:        op,
		logger:    logger,
		authToken: authToken,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check, no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /v1/export", s.auth(s.handleExport))
	mux.HandleFunc("POST /v1/export/selected", s.auth(s.handleExportSelected))
	mux.HandleFunc("GET /v1/highlight", s.auth(s.handleHighlight))
	mux.HandleFunc("GET /v1/orphans", s.auth(s.handleFindOrphans))
	mux.HandleFunc("POST /v1/orphans/clean", s.auth(s.handleCleanOrphans))
	mux.HandleFunc("DELETE /v1/ledger", s.auth(s.handleDeleteLedger))
	mux.HandleFunc("GET /v1/validate", s.auth(s.handleValidate))
	mux.Handle("GET /debug/vars", s.auth(expvar.Handler().ServeHTTP))

	return mux
}

// --- middleware ---

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// exportRequest is the body accepted by POST /v1/export and /v1/export/selected.
type exportRequest struct {
	operator.Overrides
	Names []string `json:"names,omitempty"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}
	settings, err := s.op.SettingsWith(req.Overrides)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sum, err := s.op.Export(r.Context(), settings)
	if err != nil {
		s.fail(w, "export", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleExportSelected(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Names) == 0 {
		s.writeError(w, http.StatusBadRequest, "names is required")
		return
	}
	settings, err := s.op.SettingsWith(req.Overrides)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sum, err := s.op.ExportSelected(r.Context(), settings, req.Names)
	if err != nil {
		s.fail(w, "export selected", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	settings, ok := s.querySettings(w, r)
	if !ok {
		return
	}
	res, err := s.op.Highlight(r.Context(), settings)
	if err != nil {
		s.fail(w, "highlight", err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// orphansResponse is returned by GET /v1/orphans.
type orphansResponse struct {
	Orphans []string `json:"orphans"`
	Count   int      `json:"count"`
}

func (s *Server) handleFindOrphans(w http.ResponseWriter, r *http.Request) {
	settings, ok := s.querySettings(w, r)
	if !ok {
		return
	}
	orphans, err := s.op.FindOrphans(r.Context(), settings)
	if err != nil {
		s.fail(w, "find orphans", err)
		return
	}
	if orphans == nil {
		orphans = []string{}
	}
	s.writeJSON(w, http.StatusOK, orphansResponse{Orphans: orphans, Count: len(orphans)})
}

// cleanRequest is the body accepted by POST /v1/orphans/clean.
type cleanRequest struct {
	operator.Overrides
	EmptyDirs bool `json:"empty_dirs"`
}

func (s *Server) handleCleanOrphans(w http.ResponseWriter, r *http.Request) {
	var req cleanRequest
	if !s.decode(w, r, &req) {
		return
	}
	settings, err := s.op.SettingsWith(req.Overrides)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := s.op.CleanOrphans(r.Context(), settings, req.EmptyDirs)
	if err != nil && report == nil {
		s.fail(w, "clean orphans", err)
		return
	}
	if err != nil {
		s.logger.Warn("orphan cleanup could not update ledger", "error", err)
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteLedger(w http.ResponseWriter, r *http.Request) {
	settings, ok := s.querySettings(w, r)
	if !ok {
		return
	}
	regenerate, _ := strconv.ParseBool(r.URL.Query().Get("regenerate"))
	res, err := s.op.DeleteTrackFile(r.Context(), settings, regenerate)
	if err != nil {
		s.fail(w, "delete ledger", err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	settings, ok := s.querySettings(w, r)
	if !ok {
		return
	}
	report, err := s.op.Validate(r.Context(), settings)
	if err != nil {
		s.fail(w, "validate", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// --- helpers ---

// decode reads an optional JSON body into v. An empty body leaves v zero.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// querySettings reads overrides from query parameters.
func (s *Server) querySettings(w http.ResponseWriter, r *http.Request) (exporter.Settings, bool) {
	q := r.URL.Query()
	settings, err := s.op.SettingsWith(operator.Overrides{
		Path:       q.Get("path"),
		Scope:      q.Get("scope"),
		Mode:       q.Get("mode"),
		Format:     q.Get("format"),
		SkBehavior: q.Get("sk_behavior"),
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return settings, false
	}
	return settings, true
}

// fail maps an operation error onto a status code.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, exporter.ErrNoExportPath),
		errors.Is(err, operator.ErrEmptySelection),
		errors.Is(err, scene.ErrUnknownEntity):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, exporter.ErrExportInProgress),
		errors.Is(err, operator.ErrTrackingDisabled):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, exporter.ErrValidationFailed):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("operation failed", "op", op, "error", err)
		s.writeError(w, http.StatusInternalServerError, op+" failed")
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown stops srv, waiting up to timeout for in-flight exports to finish.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
