package airtable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResilientClient_RetriesUpdate(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"temporarily unavailable"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"rec123"}`))
	}))
	t.Cleanup(server.Close)

	client := NewResilientClient(New(Config{
		APIKey:  "key",
		BaseID:  "base",
		TableID: "table",
		BaseURL: server.URL,
	}, nil))

	result, err := client.Upsert(context.Background(), map[string]string{"name": "Asha"}, "rec123")
	require.NoError(t, err)
	assert.Equal(t, "rec123", result.RecordID)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestResilientClient_DoesNotRetryCreate(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"temporarily unavailable"}}`))
	}))
	t.Cleanup(server.Close)

	client := NewResilientClient(New(Config{
		APIKey:  "key",
		BaseID:  "base",
		TableID: "table",
		BaseURL: server.URL,
	}, nil))

	_, err := client.Upsert(context.Background(), map[string]string{"name": "Asha"}, "")
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}
