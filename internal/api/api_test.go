package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/catalog"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/metrics"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/sessions"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/store"
)

type testServer struct {
	handler http.Handler
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, kv store.KeyValue) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := store.NewGateway(kv, logger)
	m := metrics.New()
	return &testServer{
		handler: NewRouter(gw, sessions.NewRepository(gw, logger), catalog.Default(), m, logger),
		metrics: m,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createSession(t *testing.T, s *testServer, name string) models.Session {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/sessions", models.CreateSessionRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Session](t, rec)
}

func addPole(t *testing.T, s *testServer, sessionID string) models.Pole {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/sessions/"+sessionID+"/poles",
		models.AddPoleRequest{Name: "P1", Height: 9, Class: "C2"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Pole](t, rec)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())

	sess := createSession(t, s, "Chantier A")
	assert.Equal(t, "Chantier A", sess.Name)

	rec := s.do(t, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]models.Session](t, rec)["sessions"]
	require.Len(t, list, 1)
	assert.Equal(t, "Chantier A", list[0].Name)
	assert.Empty(t, list[0].Poles)

	rec = s.do(t, http.MethodGet, "/sessions/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sess.ID, decode[models.Session](t, rec).ID)

	other := createSession(t, s, "Chantier B")
	rec = s.do(t, http.MethodPut, "/sessions/current", models.SelectSessionRequest{ID: sess.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sess.ID, decode[models.Session](t, rec).ID)

	rec = s.do(t, http.MethodPut, "/sessions/current", models.SelectSessionRequest{ID: "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/sessions/current", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/sessions/"+other.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.Mutations.WithLabelValues("create_session")))
}

func TestCreateSessionRejectsBlankName(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())

	rec := s.do(t, http.MethodPost, "/sessions", models.CreateSessionRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCurrent(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())
	createSession(t, s, "A")

	rec := s.do(t, http.MethodDelete, "/sessions/current", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/sessions/current", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPolesAndElements(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())
	sess := createSession(t, s, "Chantier A")
	pole := addPole(t, s, sess.ID)
	base := "/sessions/" + sess.ID + "/poles/" + pole.ID + "/elements"

	rec := s.do(t, http.MethodPost, base, map[string]any{"name": "EAS 35Alu", "quantity": 2, "status": "pose"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	el := decode[models.PoleElement](t, rec)
	assert.False(t, el.IsCustom, "catalogue element")

	rec = s.do(t, http.MethodPost, base, map[string]any{"name": "Potelet", "quantity": 1, "status": "depose"})
	require.Equal(t, http.StatusCreated, rec.Code)
	custom := decode[models.PoleElement](t, rec)
	assert.True(t, custom.IsCustom, "element outside the catalogue")

	rec = s.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[models.ElementGroups](t, rec)
	require.Len(t, groups[models.StatusPose], 1)
	assert.Equal(t, 2, groups[models.StatusPose][0].Quantity)
	assert.Len(t, groups[models.StatusDepose], 1)
	assert.Empty(t, groups[models.StatusConserve])

	t.Run("delete unknown element is a no-op", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, base+"/missing", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = s.do(t, http.MethodGet, base, nil)
		groups := decode[models.ElementGroups](t, rec)
		assert.Len(t, groups[models.StatusPose], 1)
		assert.Len(t, groups[models.StatusDepose], 1)
	})

	t.Run("delete element", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, base+"/"+custom.ID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = s.do(t, http.MethodGet, base, nil)
		assert.Empty(t, decode[models.ElementGroups](t, rec)[models.StatusDepose])
	})

	t.Run("element on unknown pole", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/sessions/"+sess.ID+"/poles/missing/elements",
			map[string]any{"name": "BRN2", "quantity": 1, "status": "pose"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = s.do(t, http.MethodGet, "/sessions/"+sess.ID+"/poles/missing/elements", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid element", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, base, map[string]any{"name": "BRN2", "quantity": 0, "status": "pose"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = s.do(t, http.MethodPost, base, map[string]any{"name": "BRN2", "quantity": 1, "status": "swap"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete pole twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := s.do(t, http.MethodDelete, "/sessions/"+sess.ID+"/poles/"+pole.ID, nil)
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
		rec := s.do(t, http.MethodGet, "/sessions/"+sess.ID, nil)
		assert.Empty(t, decode[models.Session](t, rec).Poles)
	})
}

func TestAddPoleValidation(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())
	sess := createSession(t, s, "A")

	rec := s.do(t, http.MethodPost, "/sessions/"+sess.ID+"/poles", models.AddPoleRequest{Name: "P1", Height: -1, Class: "C2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "height")

	rec = s.do(t, http.MethodPost, "/sessions/missing/poles", models.AddPoleRequest{Name: "P1", Height: 9, Class: "C2"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormNumbersAsText(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())
	sess := createSession(t, s, "A")

	rec := s.do(t, http.MethodPost, "/sessions/"+sess.ID+"/poles",
		map[string]any{"name": "P1", "height": "9,5", "class": "C2"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pole := decode[models.Pole](t, rec)
	assert.Equal(t, 9.5, pole.Height)

	base := "/sessions/" + sess.ID + "/poles/" + pole.ID + "/elements"
	rec = s.do(t, http.MethodPost, base, map[string]any{"name": "BRN2", "quantity": " 3 ", "status": "pose"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decode[models.PoleElement](t, rec).Quantity)

	tests := []struct {
		name string
		path string
		body map[string]any
		want string
	}{
		{"height not a number", "/sessions/" + sess.ID + "/poles", map[string]any{"name": "P2", "height": "neuf", "class": "C2"}, "height"},
		{"height missing", "/sessions/" + sess.ID + "/poles", map[string]any{"name": "P2", "class": "C2"}, "height"},
		{"quantity not an integer", base, map[string]any{"name": "BRN2", "quantity": "deux", "status": "pose"}, "quantity"},
		{"quantity null", base, map[string]any{"name": "BRN2", "quantity": nil, "status": "pose"}, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	rec = s.do(t, http.MethodGet, "/sessions/"+sess.ID, nil)
	got := decode[models.Session](t, rec)
	require.Len(t, got.Poles, 1)
	assert.Len(t, got.Poles[0].Elements, 1)
}

func TestPreview(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())
	sess := createSession(t, s, "Chantier A")
	pole := addPole(t, s, sess.ID)
	rec := s.do(t, http.MethodPost, "/sessions/"+sess.ID+"/poles/"+pole.ID+"/elements",
		map[string]any{"name": "RAS BT", "quantity": 1, "status": "depose"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/sessions/"+sess.ID+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "1 RAS BT")
	assert.Contains(t, rec.Body.String(), "9C2")

	rec = s.do(t, http.MethodGet, "/sessions/"+sess.ID+"/preview?format=text", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Aucun élément")

	rec = s.do(t, http.MethodGet, "/sessions/missing/preview", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())
	rec := s.do(t, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]string](t, rec)["elements"], 20)
}

// brokenKV accepts reads but fails every write.
type brokenKV struct{ *store.MemoryKV }

func (brokenKV) Set(context.Context, string, string) error { return errors.New("quota exceeded") }

func TestStorageFailure(t *testing.T) {
	s := newTestServer(t, brokenKV{store.NewMemoryKV()})

	rec := s.do(t, http.MethodPost, "/sessions", models.CreateSessionRequest{Name: "A"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.StorageErrors.WithLabelValues("save sessions")))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())
	createSession(t, s, "A")

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.SessionCount)
}

func TestMiddleware(t *testing.T) {
	s := newTestServer(t, store.NewMemoryKV())

	rec := s.do(t, http.MethodOptions, "/sessions", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.do(t, http.MethodGet, "/sessions", nil)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 8)

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `poteau_http_requests_total{method="GET",route="/sessions`)
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
