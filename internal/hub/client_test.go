package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_DecodesGenericJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name":"Winter","subtypes":[{"slug":"crystal-winter"}]}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", "key")
	v, err := c.Fetch(context.Background(), "/seasons")
	require.NoError(t, err)

	groups, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, groups, 1)
	group := groups[0].(map[string]any)
	assert.Equal(t, "Winter", group["name"])
}

func TestFetch_SendsCredentials(t *testing.T) {
	var gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "secret-token", "anon-key")
	_, err := c.Fetch(context.Background(), "colors")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "anon-key", gotKey)
}

func TestFetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such function"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", "").Fetch(context.Background(), "/eras")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "no such function")
}

func TestFetch_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", "").Fetch(context.Background(), "/colors")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", WithRetries(2, time.Millisecond))
	v, err := c.Fetch(context.Background(), "/fabrics")
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_RetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", WithRetries(1, time.Millisecond))
	_, err := c.Fetch(context.Background(), "/artists")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestFetch_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := New(srv.URL, "", "", WithRetries(3, time.Hour))
	_, err := c.Fetch(ctx, "/colors")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", "").Fetch(context.Background(), "/colors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestBackoffDelay(t *testing.T) {
	c := New("http://hub", "", "", WithRetries(3, 100*time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, c.backoffDelay(1, nil))
	assert.Equal(t, 400*time.Millisecond, c.backoffDelay(3, nil))
	assert.Equal(t, 5*time.Second, c.backoffDelay(1, &APIError{StatusCode: 429, retryAfter: "5"}))
}

func TestFetch_APIErrorBodyKeepsRunesWhole(t *testing.T) {
	// "x" shifts every two-byte rune so byte 512 lands mid-rune.
	body := "x" + strings.Repeat("é", 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "tok", "").Fetch(context.Background(), "/colors")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Len(t, apiErr.Body, 511)
	assert.True(t, utf8.ValidString(apiErr.Body))
	assert.True(t, utf8.ValidString(apiErr.Error()))
	assert.True(t, strings.HasPrefix(body, apiErr.Body))
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, "short", truncateBody([]byte("short")))
	assert.Len(t, truncateBody([]byte(strings.Repeat("a", 600))), maxErrorBody)
}
