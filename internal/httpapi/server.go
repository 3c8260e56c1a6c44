// Package httpapi is the local surface consumed by the logbook UI. It is an
// internal contract, not a stable public API.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"scobro-sync/internal/clarizen"
	"scobro-sync/internal/jira"
	"scobro-sync/internal/metrics"
	"scobro-sync/internal/resourcing"
	"scobro-sync/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Server wires the logbook store and the remote adapters behind HTTP routes.
type Server struct {
	store      *store.Store
	ppm        *clarizen.Client
	tracker    *jira.Client
	reconciler *resourcing.Reconciler
	tree       *resourcing.TreeFetcher
	collector  *metrics.Collector
}

// NewServer creates a Server. tracker may be nil when no issue tracker is
// configured; the issue routes then return 503.
func NewServer(st *store.Store, ppm *clarizen.Client, tracker *jira.Client, batch clarizen.BatchOptions, collector *metrics.Collector) *Server {
	return &Server{
		store:      st,
		ppm:        ppm,
		tracker:    tracker,
		reconciler: resourcing.NewReconciler(ppm, collector),
		tree:       resourcing.NewTreeFetcher(ppm, batch, collector),
		collector:  collector,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.collector.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/entries", s.handleListEntries)
		r.Post("/entries", s.handleCreateEntry)
		r.Delete("/entries/{id}", s.handleDeleteEntry)
		r.Put("/items/{id}", s.handleUpdateItem)
		r.Delete("/items/{id}", s.handleDeleteItem)

		r.Get("/export/csv", s.handleExportCSV)
		r.Get("/export/markdown", s.handleExportMarkdown)

		r.Get("/projects", s.handleListProjects)
		r.Post("/projects", s.handleCreateProject)
		r.Put("/projects/{id}", s.handleUpdateProject)
		r.Delete("/projects/{id}", s.handleDeleteProject)

		r.Get("/meetings", s.handleListMeetings)
		r.Post("/meetings", s.handleCreateMeeting)
		r.Delete("/meetings/{id}", s.handleDeleteMeeting)

		r.Get("/issues", s.handleSearchIssues)
		r.Get("/issues/{key}", s.handleGetIssue)

		r.Get("/resourcing", s.handleResourcing)
		r.Get("/resourcing/hierarchy", s.handleHierarchy)
	})
	return r
}

// countRequests feeds the per-route request counter.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.collector.RecordHTTPRequest(route, strconv.Itoa(ww.Status()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
