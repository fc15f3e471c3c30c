package ipinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ip": "203.0.113.7"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil)
	assert.Equal(t, "203.0.113.7", client.Resolve(context.Background()))
}

func TestResolve_FailuresYieldUnknown(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		close   bool
	}{
		{
			name:    "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		},
		{
			name:    "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not json")) },
		},
		{
			name:    "empty ip field",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"ip": ""}`)) },
		},
		{
			name:    "connection refused",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			close:   true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			if tc.close {
				srv.Close()
			} else {
				defer srv.Close()
			}

			client := New(srv.URL, nil)
			assert.Equal(t, UnknownIP, client.Resolve(context.Background()))
		})
	}
}
