package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/llmstxt-crawler/internal/hash/sha256"
	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
	"github.com/JakeFAU/llmstxt-crawler/internal/metrics"
	"github.com/JakeFAU/llmstxt-crawler/internal/orchestrator"
)

// Version is reported by the liveness banner.
const Version = "1.0.0"

// Starter admits generation jobs.
type Starter interface {
	Start(ctx context.Context, cfg llmstxt.GenerationConfig) (string, error)
}

// StatusBook reads and removes job records.
type StatusBook interface {
	Read(ctx context.Context, key string) (llmstxt.JobStatus, error)
	Delete(ctx context.Context, key string) error
}

// Defaults are applied to fields omitted from a generate request.
type Defaults struct {
	MaxPages int
}

// Server wires HTTP handlers to the orchestrator and tracker.
type Server struct {
	router   chi.Router
	starter  Starter
	statuses StatusBook
	defaults Defaults
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(starter Starter, statuses StatusBook, defaults Defaults, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.MaxPages < 1 {
		defaults.MaxPages = llmstxt.DefaultMaxPages
	}
	s := &Server{
		starter:  starter,
		statuses: statuses,
		defaults: defaults,
		logger:   logger.Named("api"),
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(recoverMiddleware(s.logger))
	r.Use(metrics.Middleware)

	r.Get("/", s.root)
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/generate", s.startGeneration)
	r.Get("/status/*", s.getStatus)
	r.Get("/result/*", s.getResult)
	r.Delete("/generation/*", s.deleteGeneration)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "llms.txt generator API is running",
		"version": Version,
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequest struct {
	SiteURL          string  `json:"siteUrl"`
	Extras           string  `json:"extras"`
	MaxPages         *int    `json:"maxPages"`
	Language         *string `json:"language"`
	StrictMode       *bool   `json:"strictMode"`
	IncludeOptional  *bool   `json:"includeOptional"`
	WhitelistDomains string  `json:"whitelistDomains"`
}

type generateResponse struct {
	Message        string `json:"message"`
	SiteURL        string `json:"site_url"`
	StatusEndpoint string `json:"status_endpoint"`
}

type statusResponse struct {
	Status    llmstxt.Status `json:"status"`
	Step      llmstxt.Step   `json:"step"`
	Progress  int            `json:"progress"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}

type resultResponse struct {
	Content   string    `json:"content"`
	SiteURL   string    `json:"siteUrl"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) startGeneration(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	cfg := s.toConfig(req)
	key, err := s.starter.Start(r.Context(), cfg)
	switch {
	case errors.Is(err, orchestrator.ErrAlreadyRunning):
		writeJSON(w, http.StatusConflict, generateResponse{
			Message:        "Generation already in progress",
			SiteURL:        key,
			StatusEndpoint: statusEndpoint(key),
		})
		return
	case err != nil && key == "":
		// Validation failures happen before a key exists.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("start generation failed", zap.String("site_url", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start generation")
		return
	}
	writeJSON(w, http.StatusAccepted, generateResponse{
		Message:        "Generation started",
		SiteURL:        key,
		StatusEndpoint: statusEndpoint(key),
	})
}

func (s *Server) toConfig(req generateRequest) llmstxt.GenerationConfig {
	return llmstxt.GenerationConfig{
		SiteURL:          req.SiteURL,
		Extras:           req.Extras,
		MaxPages:         valueOrDefault(req.MaxPages, s.defaults.MaxPages),
		Language:         valueOrDefault(req.Language, llmstxt.LanguageAuto),
		StrictMode:       valueOrDefault(req.StrictMode, true),
		IncludeOptional:  valueOrDefault(req.IncludeOptional, true),
		WhitelistDomains: req.WhitelistDomains,
	}
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	_, status, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:    status.Status,
		Step:      status.Step,
		Progress:  status.Progress,
		Message:   status.Message,
		Timestamp: status.Timestamp,
	})
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	key, status, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if status.Status != llmstxt.StatusCompleted {
		writeError(w, http.StatusBadRequest, "Generation not completed yet")
		return
	}
	if status.Content == "" {
		writeError(w, http.StatusInternalServerError, "Generated content not found")
		return
	}
	etag := sha256.ETag(status.Content)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{
		Content:   status.Content,
		SiteURL:   key,
		Timestamp: status.Timestamp,
	})
}

func (s *Server) deleteGeneration(w http.ResponseWriter, r *http.Request) {
	key, err := siteKey(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Generation not found")
		return
	}
	if err := s.statuses.Delete(r.Context(), key); err != nil {
		if errors.Is(err, llmstxt.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Generation not found")
			return
		}
		s.logger.Error("delete generation failed", zap.String("site_url", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete generation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Generation cancelled/cleaned up",
		"site_url": key,
	})
}

// lookup resolves the site key from the path and loads its record, writing
// the error response itself when it fails.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, llmstxt.JobStatus, bool) {
	key, err := siteKey(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Generation not found")
		return "", llmstxt.JobStatus{}, false
	}
	status, err := s.statuses.Read(r.Context(), key)
	if err != nil {
		if errors.Is(err, llmstxt.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Generation not found")
		} else {
			s.logger.Error("read status failed", zap.String("site_url", key), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read generation status")
		}
		return "", llmstxt.JobStatus{}, false
	}
	return key, status, true
}

// siteKey extracts and normalizes the site URL carried in the path wildcard.
func siteKey(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	if r.URL.RawQuery != "" && !strings.Contains(raw, "?") {
		raw += "?" + r.URL.RawQuery
	}
	return llmstxt.NormalizeSiteURL(raw)
}

func statusEndpoint(key string) string {
	return "/status/" + key
}

func valueOrDefault[T any](ptr *T, def T) T {
	if ptr == nil {
		return def
	}
	return *ptr
}
