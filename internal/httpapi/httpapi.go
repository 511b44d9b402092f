package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Andreiisthebest/PRLabs/internal/metrics"
	"github.com/Andreiisthebest/PRLabs/internal/node"
	"github.com/Andreiisthebest/PRLabs/internal/types"
)

// Server serves the HTTP API backed by a role-specific node.
type Server struct {
	node    node.Node
	metrics *metrics.Metrics
}

// New creates a new HTTP API server. m may be nil to disable
// instrumentation.
func New(n node.Node, m *metrics.Metrics) *Server {
	return &Server{node: n, metrics: m}
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// shared middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Post("/set", s.Set)
	r.Post("/replicate", s.Replicate)
	r.Get("/get/{key}", s.Get)
	r.Get("/dump", s.Dump)
	r.Get("/healthz", s.Healthz)
	r.Get("/status", s.Status)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}

// Set handles an external client write. Only the leader accepts it; a
// follower rejects with 403 before touching any state.
func (s *Server) Set(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req types.SetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "key is required")
		return
	}

	resp, err := s.node.Write(r.Context(), req.Key, req.Value)
	if err != nil {
		s.countWrite(metrics.OutcomeRejected)
		writeError(w, http.StatusForbidden, "not_leader", err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.WriteLatency.Observe(time.Since(start).Seconds())
		s.metrics.Confirmations.Add(float64(resp.Confirmations))
		if resp.Ok {
			s.metrics.Writes.WithLabelValues(metrics.OutcomeOK).Inc()
		} else {
			s.metrics.Writes.WithLabelValues(metrics.OutcomeQuorumFailed).Inc()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Replicate handles an update pushed by the leader. Staleness is reported
// in the payload with status 200; it is not a fault.
func (s *Server) Replicate(w http.ResponseWriter, r *http.Request) {
	var req types.ReplicateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "key is required")
		return
	}

	resp := s.node.Apply(req.Key, req.Value, req.Version)
	if s.metrics != nil {
		if resp.Applied {
			s.metrics.Applies.WithLabelValues("applied").Inc()
		} else {
			s.metrics.Applies.WithLabelValues("stale").Inc()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	e, ok := s.node.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "key not found")
		return
	}
	writeJSON(w, http.StatusOK, types.GetResponse{Key: key, Value: e.Value, Version: e.Version})
}

func (s *Server) Dump(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.node.Dump())
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.node.Status())
}

func (s *Server) countWrite(outcome string) {
	if s.metrics != nil {
		s.metrics.Writes.WithLabelValues(outcome).Inc()
	}
}

// --- JSON helpers ---

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}
