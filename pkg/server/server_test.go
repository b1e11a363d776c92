package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elonfeng/aitrending/internal/store"
	"github.com/elonfeng/aitrending/pkg/source"
	"github.com/elonfeng/aitrending/pkg/view"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailySnapshot = `[
	{"owner":"a","repo":"rag-kit","stars":100,"forks":5,"growth":10,"tags":["RAG"],"last_seen":"2024-01-30"},
	{"owner":"b","repo":"agents","stars":50,"forks":1,"growth":100,"tags":["Agent Framework","RAG"]},
	{"owner":"c","repo":"big","stars":4000,"forks":900,"growth":2,"tags":["Foundation Model"]}
]`

// newSnapshotHost serves daily snapshots and one repository detail; every
// other path fails.
func newSnapshotHost(t *testing.T) string {
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/data/daily/"):
			fmt.Fprint(w, dailySnapshot)
		case r.URL.Path == "/data/projects/acme/agent.json":
			fmt.Fprint(w, `{"owner":"acme","repo":"agent","stargazers_count":120,"forks_count":9,"star_history":[
				{"date":"2024-01-01","count":20},{"date":"2024-01-30","count":120}]}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(host.Close)
	return host.URL
}

func setupTestServer(t *testing.T) (http.Handler, *store.MemoryStore) {
	log, _ := test.NewNullLogger()
	s := store.New()
	loader := view.NewLoader(source.NewClient(newSnapshotHost(t), time.Second), s, log)
	return New(loader, s, view.DefaultState(), 0, log).Handler(), s
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func repoNames(t *testing.T, v any) []string {
	t.Helper()
	list, ok := v.([]any)
	require.True(t, ok)
	names := make([]string, len(list))
	for i, item := range list {
		m := item.(map[string]any)
		names[i] = m["owner"].(string) + "/" + m["repo"].(string)
	}
	return names
}

func TestServer_Trending(t *testing.T) {
	h, _ := setupTestServer(t)

	rec, body := get(t, h, "/api/v1/trending?sort=stars&limit=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, false, body["fallback"])
	assert.Equal(t, []string{"c/big", "a/rag-kit"}, repoNames(t, body["repos"]))

	_, body = get(t, h, "/api/v1/trending?range=weekly")
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, "weekly", body["range"])
}

func TestServer_BadRequests(t *testing.T) {
	h, _ := setupTestServer(t)

	for _, target := range []string{
		"/api/v1/trending?sort=forks",
		"/api/v1/trending?range=yearly",
		"/api/v1/trending?limit=abc",
		"/api/v1/trending?limit=-3",
		"/api/v1/categories?scheme=labels",
		"/api/v1/growth?owner=acme",
	} {
		rec, body := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/trending", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Categories(t *testing.T) {
	h, _ := setupTestServer(t)

	_, body := get(t, h, "/api/v1/categories?category=rag&sort=trend")
	assert.Equal(t, "rag", body["category"])
	assert.Equal(t, float64(2), body["found"])
	assert.Equal(t, []string{"b/agents", "a/rag-kit"}, repoNames(t, body["repos"]))

	categories := body["categories"].([]any)
	first := categories[0].(map[string]any)
	assert.Equal(t, "All", first["name"])
	assert.Equal(t, float64(3), first["count"])
}

func TestServer_Growth(t *testing.T) {
	h, _ := setupTestServer(t)

	_, body := get(t, h, "/api/v1/growth")
	selected := body["selected"].(map[string]any)
	assert.Equal(t, "rag-kit", selected["repo"])
	assert.Equal(t, false, body["has_history"])
	assert.Equal(t, []string{"b/agents", "a/rag-kit", "c/big"}, repoNames(t, body["top_growers"]))

	_, body = get(t, h, "/api/v1/growth?owner=acme&repo=agent")
	assert.Equal(t, true, body["has_history"])
	assert.Equal(t, false, body["fallback"])
	assert.Equal(t, float64(120), body["selected"].(map[string]any)["stars"])
	assert.Equal(t, float64(9), body["selected"].(map[string]any)["forks"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(100), summary["gain"])

	_, body = get(t, h, "/api/v1/growth?owner=ghost&repo=missing")
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, "not-a-real-repo", body["selected"].(map[string]any)["repo"])
}

func TestServer_TaxonomyReposStatus(t *testing.T) {
	h, s := setupTestServer(t)

	_, body := get(t, h, "/api/v1/taxonomy")
	assert.Equal(t, float64(24), body["count"])

	_, body = get(t, h, "/api/v1/repos")
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, float64(2), body["count"])

	get(t, h, "/api/v1/trending")
	_, body = get(t, h, "/api/v1/status")
	assert.Equal(t, float64(1), body["count"])
	ws, ok := s.Get(source.RangeDaily)
	require.True(t, ok)
	assert.Len(t, ws.Repos, 3)

	_, body = get(t, h, "/health")
	assert.Equal(t, "ok", body["status"])
}

func TestServer_LimitZeroListsEverything(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := store.New()
	loader := view.NewLoader(source.NewClient(newSnapshotHost(t), time.Second), s, log)
	defaults := view.DefaultState()
	defaults.Limit = 1
	h := New(loader, s, defaults, 0, log).Handler()

	_, body := get(t, h, "/api/v1/trending")
	assert.Len(t, body["repos"], 1, "configured default applies when limit is omitted")

	_, body = get(t, h, "/api/v1/trending?limit=0")
	assert.Len(t, body["repos"], 3)
}
