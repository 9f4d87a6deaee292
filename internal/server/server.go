// Package server implements the gedtree HTTP API.
//
// The API lets clients upload GEDCOM documents as datasets and render
// genealogytree, DOT, SVG or PNG trees from them:
//
//	POST   /render                  render a tree from a GEDCOM body
//	POST   /datasets                upload a GEDCOM document
//	GET    /datasets                list datasets
//	GET    /datasets/{id}           dataset metadata
//	DELETE /datasets/{id}           delete a dataset
//	GET    /datasets/{id}/persons   persons in the dataset
//	GET    /datasets/{id}/tree      render a tree for one person
//	GET    /healthz                 liveness probe
//
// Rendered artifacts are cached keyed by document hash and render options,
// so repeated renders of an unchanged dataset are served from cache.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gedtree/gedtree/pkg/cache"
	"github.com/gedtree/gedtree/pkg/store"
)

// Config configures the HTTP server.
type Config struct {
	// Store holds uploaded datasets.
	Store store.Store

	// Cache holds rendered artifacts. Nil disables caching.
	Cache cache.Cache

	// CacheTTL bounds the lifetime of cached artifacts. 0 means no
	// expiration.
	CacheTTL time.Duration

	// MaxUploadBytes bounds the size of uploaded GEDCOM documents.
	// 0 uses the default of 32 MiB.
	MaxUploadBytes int64

	// Logger receives request logs. Nil disables logging.
	Logger *log.Logger
}

const defaultMaxUploadBytes = 32 << 20

// Server is the gedtree HTTP API server.
type Server struct {
	store     store.Store
	cache     cache.Cache
	cacheTTL  time.Duration
	maxUpload int64
	logger    *log.Logger
}

// New creates a server from the given configuration.
func New(cfg Config) *Server {
	s := &Server{
		store:     cfg.Store,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		maxUpload: cfg.MaxUploadBytes,
		logger:    cfg.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUploadBytes
	}
	return s
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	r.Route("/datasets", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/persons", s.handlePersons)
			r.Get("/tree", s.handleTree)
		})
	})
	return r
}

// requestIDHeader carries the request id to clients and into logs.
const requestIDHeader = "X-Request-Id"

// requestID assigns each request a UUID unless the client provided one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// logRequests logs method, path, status and duration of each request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.logger == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debugf("%s %s -> %d (%s) request=%s",
			r.Method, r.URL.Path, rec.status, time.Since(start), rec.Header().Get(requestIDHeader))
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
