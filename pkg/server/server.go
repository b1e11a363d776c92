package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elonfeng/aitrending/internal/store"
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/elonfeng/aitrending/pkg/trend"
	"github.com/elonfeng/aitrending/pkg/view"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Server provides the HTTP API.
type Server struct {
	loader   *view.Loader
	store    store.Store
	defaults view.State
	port     int
	log      logrus.FieldLogger
}

// New creates a new HTTP server. defaults is the view state every request
// starts from before its query parameters are applied.
func New(loader *view.Loader, s store.Store, defaults view.State, port int, log logrus.FieldLogger) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		loader:   loader,
		store:    s,
		defaults: defaults,
		port:     port,
		log:      log,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/trending", getOnly(s.handleTrending))
	mux.HandleFunc("/api/v1/categories", getOnly(s.handleCategories))
	mux.HandleFunc("/api/v1/growth", getOnly(s.handleGrowth))
	mux.HandleFunc("/api/v1/taxonomy", getOnly(s.handleTaxonomy))
	mux.HandleFunc("/api/v1/repos", getOnly(s.handleRepos))
	mux.HandleFunc("/api/v1/status", getOnly(s.handleStatus))
	return s.withRequestLog(mux)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.WithField("addr", srv.Addr).Info("aitrending server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ws := s.loader.Load(r.Context(), st.Range)
	writeJSON(w, http.StatusOK, view.Dashboard(ws, st))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ws := s.loader.Load(r.Context(), st.Range)
	writeJSON(w, http.StatusOK, view.Explorer(ws, st))
}

func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	owner, repo := q.Get("owner"), q.Get("repo")
	if (owner == "") != (repo == "") {
		writeError(w, http.StatusBadRequest, errors.New("owner and repo must be given together"))
		return
	}

	ws := s.loader.Load(r.Context(), st.Range)

	var selected *source.Repo
	if owner != "" {
		detail, fallback := s.loader.LoadRepo(r.Context(), owner, repo)
		selected = &detail
		ws.Fallback = ws.Fallback || fallback
	}

	writeJSON(w, http.StatusOK, view.Growth(ws, selected))
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	tags := trend.Taxonomy()
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  tags,
		"count": len(tags),
	})
}

func (s *Server) handleRepos(w http.ResponseWriter, r *http.Request) {
	repos, fallback := s.loader.LoadAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"data":     repos,
		"count":    len(repos),
		"fallback": fallback,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	statuses := s.store.Statuses()
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  statuses,
		"count": len(statuses),
	})
}

func (s *Server) parseState(r *http.Request) (view.State, error) {
	q := r.URL.Query()

	var limit *int
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return view.State{}, fmt.Errorf("invalid limit %q", v)
		}
		limit = &n
	}

	return view.ParseState(s.defaults, q.Get("range"), q.Get("sort"), q.Get("scheme"), q.Get("category"), limit)
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags each request with an ID and logs it once served.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start),
		}).Debug("request served")
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
