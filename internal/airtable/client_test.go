package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/karbonfx/leadform/internal/errors"
)

func testConfig(baseURL string) Config {
	return Config{
		APIKey:  "key_test",
		BaseID:  "appTESTBASE",
		TableID: "tblW69KuZCiBzEA1R",
		BaseURL: baseURL,
	}
}

func TestUpsert_CreateIssuesPost(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody map[string]map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "recNEW123"}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), nil)

	result, err := client.Upsert(context.Background(), map[string]string{"name": "Priya Shah"}, "")
	require.NoError(t, err)

	assert.Equal(t, "recNEW123", result.RecordID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/appTESTBASE/tblW69KuZCiBzEA1R", gotPath)
	assert.Equal(t, "Bearer key_test", gotAuth)
	assert.Equal(t, "Priya Shah", gotBody["fields"]["name"])
}

func TestUpsert_UpdateIssuesPatchWithID(t *testing.T) {
	var gotMethod, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id": "recEXISTING"}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), nil)

	result, err := client.Upsert(context.Background(), map[string]string{"email": "p@karbonfx.com"}, "recEXISTING")
	require.NoError(t, err)

	assert.Equal(t, "recEXISTING", result.RecordID)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/appTESTBASE/tblW69KuZCiBzEA1R/recEXISTING", gotPath)
}

func TestUpsert_MissingCredentials(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer srv.Close()

	client := New(Config{TableID: "tblW69KuZCiBzEA1R", BaseURL: srv.URL}, nil)

	_, err := client.Upsert(context.Background(), map[string]string{"name": "x"}, "")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "E200", appErr.Code)
	assert.False(t, requested, "no request may be sent without credentials")
}

func TestUpsert_APIErrorCarriesStoreMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": {"type": "INVALID_VALUE_FOR_COLUMN", "message": "Field phone_number cannot accept the provided value"}}`))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), nil)

	_, err := client.Upsert(context.Background(), map[string]string{"phone_number": "abc"}, "")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "E300", appErr.Code)
	assert.Contains(t, appErr.Message, "Field phone_number cannot accept the provided value")
	assert.True(t, appErr.Retryable)
}

func TestUpsert_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := New(testConfig(srv.URL), nil)

	_, err := client.Upsert(context.Background(), map[string]string{"name": "x"}, "")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "E400", appErr.Code)
}
