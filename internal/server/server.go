package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/copyleftdev/hypervol/internal/config"
	"github.com/copyleftdev/hypervol/internal/errors"
	"github.com/copyleftdev/hypervol/internal/hypervolume"
	"github.com/copyleftdev/hypervol/internal/logging"
)

// Logger defines the logging interface used by the server
// This allows us to be flexible with our logging implementation
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
)

// ComputeRequest is the body of a hypervolume computation. Optional flags
// override the server's calculator configuration for this request only.
type ComputeRequest struct {
	Points           [][]float64 `json:"points"`
	Reference        []float64   `json:"reference"`
	UseLogHyp        *bool       `json:"use_log_hyp,omitempty"`
	UseApproximation *bool       `json:"use_approximation,omitempty"`
	Epsilon          *float64    `json:"epsilon,omitempty"`
	Delta            *float64    `json:"delta,omitempty"`
}

// ComputeResponse reports a computed hypervolume.
type ComputeResponse struct {
	Hypervolume float64 `json:"hypervolume"`
	Algorithm   string  `json:"algorithm"`
	Dimensions  int     `json:"dimensions"`
	Points      int     `json:"points"`
}

// Server implements the HTTP and JSON-RPC surface over a shared calculator.
// Requests compute on a snapshot of the configuration, so a concurrent
// config update never changes a computation in flight.
type Server struct {
	cfg     *config.Config
	logger  Logger
	metrics *Metrics

	mu   sync.RWMutex // Protects calc
	calc *hypervolume.Calculator
}

// Option configures a Server.
type Option func(*Server)

// WithRegisterer registers the server's metrics with reg instead of the
// default Prometheus registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Server) { s.metrics = NewMetrics(reg) }
}

// NewServer creates a server computing with calc. A nil calc starts from
// hypervolume.NewCalculator.
func NewServer(cfg *config.Config, logger Logger, calc *hypervolume.Calculator, opts ...Option) *Server {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if calc == nil {
		calc = hypervolume.NewCalculator()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		calc:   calc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(prometheus.DefaultRegisterer)
	}
	return s
}

func (s *Server) RegisterRoutes(r chi.Router) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/hypervolume", s.handleCompute)
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleSetConfig)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// snapshot returns a copy of the current calculator configuration.
func (s *Server) snapshot() hypervolume.Calculator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.calc
}

// Compute computes the hypervolume for req.
func (s *Server) Compute(req ComputeRequest) (*ComputeResponse, error) {
	d := len(req.Reference)
	if limit := s.cfg.Hypervolume.MaxPoints; limit > 0 && len(req.Points) > limit {
		err := errors.Errorf("request has %d points, limit is %d", len(req.Points), limit).
			WithStatus(http.StatusRequestEntityTooLarge)
		s.metrics.observe("", len(req.Points), 0, err)
		return nil, err
	}

	calc := s.snapshot()
	if req.UseLogHyp != nil {
		calc.UseLogHyp = *req.UseLogHyp
	}
	if req.UseApproximation != nil {
		calc.UseApproximation = *req.UseApproximation
	}
	if req.Epsilon != nil {
		calc.SetApproximationEpsilon(*req.Epsilon)
	}
	if req.Delta != nil {
		calc.SetApproximationDelta(*req.Delta)
	}

	algorithm, err := calc.Algorithm(d)
	if err != nil {
		s.metrics.observe("", len(req.Points), 0, err)
		return nil, err
	}
	if limit := s.cfg.Hypervolume.MaxExactDimensions; algorithm == hypervolume.AlgorithmExactND && limit > 0 && d > limit {
		err := errors.Errorf("exact computation is limited to %d objectives, got %d; enable use_approximation", limit, d).
			WithStatus(http.StatusBadRequest)
		s.metrics.observe(algorithm, len(req.Points), 0, err)
		return nil, err
	}

	start := time.Now()
	v, err := calc.Compute(req.Points, req.Reference)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errors.Errorf("hypervolume is not finite (%v); check log-transformed coordinates", v).
			WithStatus(http.StatusBadRequest)
	}
	s.metrics.observe(algorithm, len(req.Points), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Hypervolume computed", map[string]interface{}{
		"algorithm":   algorithm,
		"dimensions":  d,
		"points":      len(req.Points),
		"hypervolume": v,
		"elapsed_ms":  float64(time.Since(start).Microseconds()) / 1000.0,
	})

	return &ComputeResponse{
		Hypervolume: v,
		Algorithm:   algorithm,
		Dimensions:  d,
		Points:      len(req.Points),
	}, nil
}

// Configuration returns the current calculator configuration.
func (s *Server) Configuration() hypervolume.Calculator {
	return s.snapshot()
}

// SetConfiguration decodes a JSON calculator configuration from r on top
// of the current one and installs it. Approximation parameters are
// validated only when approximation is enabled. When a configuration file
// is configured the new settings are persisted to it.
func (s *Server) SetConfiguration(r io.Reader) (hypervolume.Calculator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.calc
	if err := next.LoadConfig(r, hypervolume.FormatJSON); err != nil {
		return hypervolume.Calculator{}, errors.BadRequest(err, "invalid calculator configuration")
	}
	if next.UseApproximation {
		if err := next.Approximator.Validate(); err != nil {
			return hypervolume.Calculator{}, err
		}
	}
	if path := s.cfg.Hypervolume.ConfigFile; path != "" {
		if err := next.SaveConfigFile(path); err != nil {
			return hypervolume.Calculator{}, errors.Wrap(err, "persist calculator configuration").
				WithOperation("SetConfiguration").WithComponent("server")
		}
	}
	*s.calc = next

	s.logger.Info("Calculator configuration updated", map[string]interface{}{
		"use_log_hyp":       next.UseLogHyp,
		"use_approximation": next.UseApproximation,
		"epsilon":           next.ApproximationEpsilon(),
		"delta":             next.ApproximationDelta(),
	})
	return next, nil
}

// handleCompute handles POST /api/v1/hypervolume
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteJSON(w, errors.BadRequest(err, "invalid request body"))
		return
	}

	result, err := s.Compute(req)
	if err != nil {
		errors.WriteJSON(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleGetConfig handles GET /api/v1/config
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Configuration())
}

// handleSetConfig handles PUT /api/v1/config
func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	calc, err := s.SetConfiguration(r.Body)
	if err != nil {
		errors.WriteJSON(w, err)
		return
	}
	respondJSON(w, http.StatusOK, calc)
}

// handleJSONRPC handles JSON-RPC 2.0 requests
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, codeParseError, "Parse error", nil)
		return
	}

	// Validate JSON-RPC 2.0 request
	if request.JSONRPC != "2.0" {
		s.respondWithError(w, codeInvalidRequest, "Invalid Request", request.ID)
		return
	}

	var result interface{}
	var err error

	switch request.Method {
	case "hypervolume.compute":
		var req ComputeRequest
		if err = decodeParams(request.Params, &req); err == nil {
			result, err = s.Compute(req)
		}
	case "hypervolume.config.get":
		result = s.Configuration()
	case "hypervolume.config.set":
		var raw json.RawMessage
		if err = decodeParams(request.Params, &raw); err == nil {
			result, err = s.SetConfiguration(bytes.NewReader(raw))
		}
	default:
		s.respondWithError(w, codeMethodNotFound, "Method not found", request.ID)
		return
	}

	if err != nil {
		if errors.HTTPStatus(err) < http.StatusInternalServerError {
			s.respondWithError(w, codeInvalidParams, err.Error(), request.ID)
			return
		}
		s.respondWithError(w, codeServerError, "Server error", request.ID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	})
}

// decodeParams accepts params either as an object or as a one-element
// positional array holding that object.
func decodeParams(raw json.RawMessage, v interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errors.BadRequest(nil, "missing required parameters")
	}
	if raw[0] == '[' {
		var positional []json.RawMessage
		if err := json.Unmarshal(raw, &positional); err != nil {
			return errors.BadRequest(err, "invalid parameter format")
		}
		if len(positional) == 0 {
			return errors.BadRequest(nil, "missing required parameters")
		}
		raw = positional[0]
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.BadRequest(err, "invalid parameter format, expected object")
	}
	return nil
}

// respondWithError sends a JSON-RPC 2.0 error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Warn("JSON-RPC error", map[string]interface{}{
		"code":    code,
		"message": message,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
