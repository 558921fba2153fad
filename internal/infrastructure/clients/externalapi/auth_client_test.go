package externalapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthClient_SetsBearerToken(t *testing.T) {
	auth := newAuthServer(t, http.StatusOK, 0)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer login-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	client := NewAuthClient(newTestCache(auth, "agenda"), upstream.Client(), nil)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, upstream.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthClient_AlwaysUnauthorizedRetriesOnce(t *testing.T) {
	auth := newAuthServer(t, http.StatusOK, 0)
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("X-Attempt", string(rune('0'+n)))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	client := NewAuthClient(newTestCache(auth, "agenda"), upstream.Client(), nil)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, upstream.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("X-Attempt"))
}

func TestAuthClient_RetryUsesRefreshedTokenAndReplaysBody(t *testing.T) {
	auth := newAuthServer(t, http.StatusOK, 0)
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"a":1}`, string(body))
		if calls.Add(1) == 1 {
			assert.Equal(t, "Bearer login-token", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer refreshed-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	client := NewAuthClient(newTestCache(auth, "agenda"), upstream.Client(), nil)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, upstream.URL, strings.NewReader(`{"a":1}`))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 2, calls.Load())
	assert.EqualValues(t, 1, auth.refreshes.Load())
}

func TestAuthClient_OtherErrorsPassThrough(t *testing.T) {
	auth := newAuthServer(t, http.StatusOK, 0)
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client := NewAuthClient(newTestCache(auth, "agenda"), upstream.Client(), nil)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, upstream.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.EqualValues(t, 1, calls.Load())
}
