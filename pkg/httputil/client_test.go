package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlystock/stock-momentum/pkg/config"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

func newTestClient() *Client {
	cfg := &config.Config{HTTPTimeout: 5 * time.Second}
	return New(cfg, logger.Nop())
}

func TestNew(t *testing.T) {
	client := newTestClient()

	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, BrowserUserAgent, client.headers["User-Agent"])
}

func TestNew_DefaultTimeout(t *testing.T) {
	client := New(&config.Config{}, logger.Nop())
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestNewWithTimeout(t *testing.T) {
	client := NewWithTimeout(&config.Config{HTTPTimeout: time.Second}, logger.Nop(), 10*time.Second)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
}

func TestGetBody_SendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient().WithHeader("Accept", "text/html")
	body, err := client.GetBody(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, BrowserUserAgent, gotUA)
	assert.Equal(t, "text/html", gotAccept)
}

func TestGetBody_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such symbol"))
	}))
	defer server.Close()

	_, err := newTestClient().GetBody(context.Background(), server.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "no such symbol", statusErr.Body)
	assert.True(t, IsNotFound(err))
}

func TestIsNotFound_Wrapped(t *testing.T) {
	notFound := &StatusError{URL: "http://x", StatusCode: http.StatusNotFound}

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(fmt.Errorf("fetch PETR4.SA: %w", notFound)))
	assert.True(t, IsNotFound(fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", notFound))))
	assert.False(t, IsNotFound(fmt.Errorf("fetch: %w", &StatusError{StatusCode: http.StatusForbidden})))
	assert.False(t, IsNotFound(nil))
}

func TestGetBody_NoRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient().GetBody(context.Background(), server.URL)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, 1, calls)
}

func TestGet_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient().Get(ctx, server.URL)
	assert.Error(t, err)
}

func TestWithLimiter(t *testing.T) {
	client := newTestClient().WithLimiter(0)
	assert.Nil(t, client.limiter)

	client.WithLimiter(5)
	require.NotNil(t, client.limiter)
	assert.InDelta(t, 5.0, float64(client.limiter.Limit()), 1e-9)
}

func TestWithLimiter_CancelledWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient().WithLimiter(0.001)

	// first request consumes the burst
	_, err := client.GetBody(context.Background(), server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.GetBody(ctx, server.URL)
	assert.Error(t, err)
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{URL: "http://x", StatusCode: 500}
	assert.Equal(t, "unexpected status code 500 from http://x", err.Error())

	err.Body = "boom"
	assert.Contains(t, err.Error(), "boom")
}
