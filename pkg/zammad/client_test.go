package zammad_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...zammad.Option) *zammad.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := zammad.New(server.URL, opts...)
	require.NoError(t, err)
	return client
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := zammad.New("zammad.example.com")
	require.Error(t, err)
}

func TestClientTokenAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token token=abc123", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}, zammad.WithToken("abc123"))

	_, err := client.Tickets.List(context.Background(), nil)
	require.NoError(t, err)
}

func TestClientOAuthAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}, zammad.WithOAuth("tok"))

	_, err := client.Tickets.List(context.Background(), nil)
	require.NoError(t, err)
}

func TestClientBasicAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin@example.com", user)
		assert.Equal(t, "secret", pass)
		w.Write([]byte(`[]`))
	}, zammad.WithBasicAuth("admin@example.com", "secret"))

	_, err := client.Tickets.List(context.Background(), nil)
	require.NoError(t, err)
}

func TestClientDecodesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"authentication failed","error_human":"Invalid token."}`))
	})

	_, err := client.Tickets.Get(context.Background(), 1)
	require.Error(t, err)

	var apiErr *zammad.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "authentication failed", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "Invalid token.")
}

func TestIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"No lookup value found"}`))
	})

	_, err := client.Tickets.Get(context.Background(), 9999)
	assert.True(t, zammad.IsNotFound(err))
}
