package indexcareerreport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-brief-workers/internal/common/camunda/camundatest"
	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/common/logger"
	"career-brief-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Index: "career-reports", Timeout: 5 * time.Second}
}

func createTestInput() *Input {
	return &Input{
		ReportID:       "report-1",
		Token:          "cb_0123456789abcdef0123456789abcdef",
		StudentID:      "student-1",
		Strategy:       "after12",
		InterestCode:   "IRC",
		StreamCategory: models.StreamScience,
		Clusters: []models.CareerCluster{
			{Title: "Software Engineering", MatchScore: 91},
			{Title: "Data Science", MatchScore: 78},
			{Title: "Product Design", MatchScore: 66},
		},
		Report: map[string]interface{}{"summary": "Analytical builder"},
	}
}

// esServer fakes the index API and hands back the last indexed document.
func esServer(t *testing.T, status int, doc *reportDocument, path *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		*path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(doc))
		w.WriteHeader(status)
		if status < 300 {
			_, _ = w.Write([]byte(`{"_index":"career-reports","result":"created"}`))
			return
		}
		_, _ = w.Write([]byte(`{"error":{"type":"mapper_parsing_exception"}}`))
	}))
}

func createTestHandler(t *testing.T, url string) *Handler {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{url}})
	require.NoError(t, err)
	return NewHandler(createTestConfig(), es, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	var (
		doc  reportDocument
		path string
	)
	srv := esServer(t, http.StatusCreated, &doc, &path)
	defer srv.Close()

	output, err := createTestHandler(t, srv.URL).Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.True(t, output.Indexed)
	assert.Equal(t, "created", output.Result)
	assert.Equal(t, "/career-reports/_doc/cb_0123456789abcdef0123456789abcdef", path)
	assert.Equal(t, []string{"Software Engineering", "Data Science", "Product Design"}, doc.Clusters)
	assert.Equal(t, 91, doc.TopMatchScore)
	assert.Equal(t, "IRC", doc.InterestCode)
	assert.Equal(t, "science", doc.StreamCategory)
	assert.Equal(t, "Analytical builder", doc.Summary)
}

func TestBuildDocument_FallsBackToReportClusters(t *testing.T) {
	input := createTestInput()
	input.Clusters = nil
	input.Report = map[string]interface{}{
		"careerClusters": []interface{}{
			map[string]interface{}{"title": "Law", "matchScore": float64(84)},
			map[string]interface{}{"title": "Journalism", "matchScore": float64(72)},
		},
	}

	doc := buildDocument(input, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, []string{"Law", "Journalism"}, doc.Clusters)
	assert.Equal(t, 84, doc.TopMatchScore)
	assert.Equal(t, "2026-01-02T03:04:05Z", doc.IndexedAt)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		h := createTestHandler(t, "http://127.0.0.1:1")
		input := createTestInput()
		input.Token = ""
		_, err := h.Execute(context.Background(), input)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMalformedInput))
	})

	t.Run("rejected document", func(t *testing.T) {
		var (
			doc  reportDocument
			path string
		)
		srv := esServer(t, http.StatusBadRequest, &doc, &path)
		defer srv.Close()

		_, err := createTestHandler(t, srv.URL).Execute(context.Background(), createTestInput())
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIndexRequestFailed), err.Error())
	})
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle(t *testing.T) {
	var (
		doc  reportDocument
		path string
	)
	srv := esServer(t, http.StatusOK, &doc, &path)
	defer srv.Close()

	client := camundatest.NewJobClient()
	createTestHandler(t, srv.URL).Handle(client, camundatest.NewJob(1, TaskType, createTestInput()))

	var out Output
	require.True(t, client.Completed(&out))
	assert.True(t, out.Indexed)
}
