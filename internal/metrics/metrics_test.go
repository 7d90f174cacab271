package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Mutation("add_pole")
	m.Mutation("add_pole")
	m.StorageError("save sessions")
	m.ObserveRequest(http.MethodPost, "/sessions", http.StatusCreated, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add_pole")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageErrors.WithLabelValues("save sessions")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/sessions", "201")))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Mutation("delete_pole")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Mutations.WithLabelValues("delete_pole")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Mutation("create_session")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `poteau_mutations_total{op="create_session"} 1`)
}
