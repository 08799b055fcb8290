package reconcile

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/hub"))
	return r
}

func TestHandler_Sync(t *testing.T) {
	client := fakeHub(t, map[string]string{"/seasons": crystalWinter}, nil)
	store := NewMemoryStore()
	r := newRouter(NewHandler(NewEngine(client, store), nil))

	t.Run("json body scope", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/hub/sync", strings.NewReader(`{"scope":"taxonomy"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp SyncResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.Results["taxonomy"].Synced)
		assert.Len(t, resp.Results, 1)
	})

	t.Run("query scope", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hub/sync?scope=colors", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp SyncResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Contains(t, resp.Results, "colors")
		assert.NotEmpty(t, resp.Results["colors"].Errors)
	})

	t.Run("default scope is all", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hub/sync", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp SyncResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Results, 5)
	})

	t.Run("invalid scope", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hub/sync?scope=nope", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("json body of unknown length", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/hub/sync", strings.NewReader(`{"scope":"colors"}`))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp SyncResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Results, 1)
		assert.Contains(t, resp.Results, "colors")
	})

	t.Run("invalid json", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hub/sync", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_StoreFailureIs500(t *testing.T) {
	store := NewMemoryStore()
	store.FailPing(errors.New("locked"))
	r := newRouter(NewHandler(NewEngine(fakeHub(t, nil, nil), store), nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hub/sync", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "local store unavailable")
}

func TestHandler_GuardRunsFirst(t *testing.T) {
	guard := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
	}
	r := newRouter(NewHandler(NewEngine(fakeHub(t, nil, nil), NewMemoryStore()), guard))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hub/sync", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
