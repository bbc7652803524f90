package proxy

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, backend http.Handler) *chi.Mux {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(srv.URL, "/api/v1", &http.Client{Timeout: 5 * time.Second}, log)

	router := chi.NewRouter()
	router.Handle("/proxy/*", h)
	return router
}

func TestRelay_PathQueryAndHeaders(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotAuth, gotAccept string

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("X-Custom")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 0, "results": []}`))
	})

	router := newTestRouter(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/proxy/scheduling/sessions?week=1", nil)
	req.Header.Set("Authorization", "Bearer T1")
	req.Header.Set("X-Custom", "should-not-pass")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.MethodGet, gotMethod)
	// завершающий слэш достраивается
	assert.Equal(t, "/api/v1/scheduling/sessions/", gotPath)
	assert.Equal(t, "week=1", gotQuery)
	assert.Equal(t, "Bearer T1", gotAuth)
	// заголовки вне белого списка не пересылаются
	assert.Empty(t, gotAccept)
}

func TestRelay_ForwardsBodyAndStatus(t *testing.T) {
	var gotBody string

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "s1"}`))
	})

	router := newTestRouter(t, backend)

	req := httptest.NewRequest(http.MethodPost, "/proxy/scheduling/sessions/",
		strings.NewReader(`{"title": "Yoga"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"title": "Yoga"}`, gotBody)
	assert.JSONEq(t, `{"id": "s1"}`, rec.Body.String())
}

func TestRelay_TextPassthroughKeepsContentType(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	})

	router := newTestRouter(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/proxy/reports/visits", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "a,b\n1,2\n", rec.Body.String())
}

func TestRelay_MalformedJSONBecomesStructured500(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 1, "results": [truncated`))
	})

	router := newTestRouter(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/proxy/users/profiles", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Proxy request failed", body.Error)
	assert.NotEmpty(t, body.Message)
}

func TestRelay_BackendDownReturnsStructured500(t *testing.T) {
	// поднимаем и сразу гасим сервер, чтобы получить гарантированный отказ
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(srv.URL, "/api/v1", &http.Client{Timeout: time.Second}, log)

	router := chi.NewRouter()
	router.Handle("/proxy/*", h)

	req := httptest.NewRequest(http.MethodGet, "/proxy/users/profiles", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Proxy request failed", body.Error)
	assert.NotEmpty(t, body.Message)
}
