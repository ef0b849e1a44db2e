package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/pulsegraph/pkg/errors"
	"github.com/matzehuels/pulsegraph/pkg/graph"
	"github.com/matzehuels/pulsegraph/pkg/observability"
	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// =============================================================================
// Response Shapes
// =============================================================================

// SimulateResponse is the reply to POST /v1/simulate. Artifact bytes are
// base64-encoded by the standard JSON encoding of []byte.
type SimulateResponse struct {
	RunID     string            `json:"runId"`
	Snapshot  graph.Snapshot    `json:"snapshot"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
	Stats     RunStats          `json:"stats"`
	Cached    CacheFlags        `json:"cached"`
}

// RunStats summarizes one pipeline execution.
type RunStats struct {
	Nodes        int   `json:"nodes"`
	Links        int   `json:"links"`
	Events       int   `json:"events"`
	LayoutMillis int64 `json:"layoutMillis"`
	RunMillis    int64 `json:"runMillis"`
	ExportMillis int64 `json:"exportMillis"`
}

// CacheFlags reports which pipeline stages were served from cache.
type CacheFlags struct {
	Layout bool `json:"layout"`
	Run    bool `json:"run"`
	Export bool `json:"export"`
}

// LayoutResponse is the reply to POST /v1/layout.
type LayoutResponse struct {
	Snapshot graph.Snapshot `json:"snapshot"`
	Cached   bool           `json:"cached"`
}

// RunList is the reply to GET /v1/runs.
type RunList struct {
	Runs []RunRecord `json:"runs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// Handlers
// =============================================================================

// handleSimulate runs the full pipeline on the posted options and archives
// the resulting run.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var opts playback.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	s.cfg.applyDefaults(&opts)
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, errorStatus(err), err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, errorStatus(err), err)
		return
	}

	rec := RunRecord{
		ID:        result.RunID,
		NodeCount: result.Stats.NodeCount,
		LinkCount: result.Stats.LinkCount,
		Events:    result.Stats.Events,
		Snapshot:  result.Snapshot,
		CreatedAt: time.Now().UTC(),
	}
	if opts.Sequence != nil {
		rec.Sequence = opts.Sequence.Name
	}
	if err := s.runs.Put(r.Context(), rec); err != nil {
		// The run itself succeeded; archiving is best-effort.
		s.logger.Warn("archive run failed", "run", result.RunID, "err", err)
	}

	s.writeJSON(w, http.StatusOK, SimulateResponse{
		RunID:     result.RunID,
		Snapshot:  result.Snapshot,
		Artifacts: result.Artifacts,
		Stats: RunStats{
			Nodes:        result.Stats.NodeCount,
			Links:        result.Stats.LinkCount,
			Events:       result.Stats.Events,
			LayoutMillis: result.Stats.LayoutTime.Milliseconds(),
			RunMillis:    result.Stats.RunTime.Milliseconds(),
			ExportMillis: result.Stats.ExportTime.Milliseconds(),
		},
		Cached: CacheFlags{
			Layout: result.CacheInfo.LayoutHit,
			Run:    result.CacheInfo.RunHit,
			Export: result.CacheInfo.ExportHit,
		},
	})
}

// handleLayout computes positions only and returns the laid-out snapshot.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts playback.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	s.cfg.applyDefaults(&opts)
	opts.Logger = s.logger

	st, err := s.runner.Build(opts)
	if err != nil {
		s.writeError(w, r, errorStatus(err), err)
		return
	}
	hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), st, opts)
	if err != nil {
		s.writeError(w, r, errorStatus(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, LayoutResponse{
		Snapshot: graph.TakeSnapshot(st),
		Cached:   hit,
	})
}

// handleGetRun returns one archived run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.runs.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, errorStatus(err), fmt.Errorf("run %s: %w", id, err))
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleListRuns returns archived runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = val
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	recs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RunList{Runs: recs})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Write Helpers
// =============================================================================

// errorStatus maps pipeline and store errors to HTTP status codes: missing
// runs are 404, INVALID_* validation codes are 400, everything else is 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrRunNotFound):
		return http.StatusNotFound
	case apperrors.IsInvalid(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
