package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_SendsHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "cb_1", r.Header.Get("Idempotency-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "after12", body["strategy"])
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(time.Second).WithHeader("Authorization", "Bearer key")
	resp, err := client.PostJSON(context.Background(), srv.URL, map[string]string{"strategy": "after12"},
		map[string]string{"Idempotency-Key": "cb_1"})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestWithHeader_DoesNotMutateParent(t *testing.T) {
	parent := NewClient(time.Second)
	child := parent.WithHeader("X-Test", "1")
	assert.Empty(t, parent.headers)
	assert.Equal(t, "1", child.headers["X-Test"])
}
