package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/concerto/internal/dto"
	"github.com/aretw0/concerto/internal/logging"
	"github.com/aretw0/concerto/pkg/metamodel"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes caps the size of a document sent to POST /validate.
const MaxBodyBytes = 10 << 20

// Validator defines what the HTTP server needs from the validator core.
type Validator interface {
	ValidateContext(ctx context.Context, source string, data []byte) error
	ValidateYAML(data []byte) error
	ValidateAs(data []byte, qualifiedName string) error
	Registry() *metamodel.Registry
}

// Server serves a Validator over HTTP.
type Server struct {
	validator Validator
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates the HTTP handler. It fails when the embedded OpenAPI document is invalid.
func NewHandler(ctx context.Context, v Validator, opts ...Option) (http.Handler, error) {
	if _, err := Spec(ctx); err != nil {
		return nil, err
	}

	s := &Server{validator: v, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID, enableCORS)

	r.Post("/validate", s.Validate)
	r.Get("/types", s.ListTypes)
	r.Get("/types/{name}", s.GetType)
	r.Get("/health", s.Health)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r, nil
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("document exceeds %d bytes", MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	source := "http:" + w.Header().Get("X-Request-ID")
	switch class := r.URL.Query().Get("class"); {
	case class != "":
		err = s.validator.ValidateAs(body, s.validator.Registry().Qualify(class))
	case strings.Contains(r.Header.Get("Content-Type"), "yaml"):
		err = s.validator.ValidateYAML(body)
	default:
		err = s.validator.ValidateContext(r.Context(), source, body)
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
		s.logger.Debug("Validate: document rejected", "source", source, "error", err)
	}
	s.writeJSON(w, status, dto.NewValidationResult(err))
}

// ListTypes handles the GET /types request.
func (s *Server) ListTypes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.validator.Registry().Summaries())
}

// GetType handles the GET /types/{name} request.
func (s *Server) GetType(w http.ResponseWriter, r *http.Request) {
	reg := s.validator.Registry()
	td, ok := reg.Lookup(reg.Qualify(chi.URLParam(r, "name")))
	if !ok {
		http.Error(w, "type not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, td.Summary())
}

// Health handles the GET /health request.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	reg := s.validator.Registry()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"namespace": reg.Namespace(),
		"types":     reg.Len(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
