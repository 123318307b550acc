package synthesizecareerreport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-brief-workers/internal/common/camunda/camundatest"
	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/common/logger"
)

const testToken = "cb_0123456789abcdef0123456789abcdef"

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(baseURL string) *Config {
	return &Config{
		GenAIBaseURL: baseURL,
		APIKey:       "test-key",
		Model:        "career-reasoner",
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		BaseBackoff:  time.Millisecond,
		MaxTokens:    2048,
		Temperature:  0.2,
	}
}

func createTestInput() *Input {
	return &Input{Token: testToken, Strategy: "middle", Brief: "You are a career counsellor..."}
}

func cluster(title, fit string, score int) map[string]interface{} {
	return map[string]interface{}{
		"title":      title,
		"fit":        fit,
		"matchScore": score,
		"evidence": map[string]string{
			"interest":    "Investigative 8/24 leads the profile",
			"aptitude":    "numerical 88%",
			"personality": "openness 4.0",
		},
		"roles":         []string{"Lab assistant"},
		"educationPath": "Science stream after 10th",
	}
}

func createValidReport() map[string]interface{} {
	return map[string]interface{}{
		"token":    testToken,
		"strategy": "middle",
		"careerClusters": []interface{}{
			cluster("Science and Research", "High", 88),
			cluster("Engineering", "Medium", 76),
			cluster("Design", "Explore", 64),
		},
		"scores": map[string]interface{}{
			"riasec":   map[string]int{"I": 8},
			"aptitude": map[string]int{"numerical": 88},
			"bigFive":  map[string]float64{"O": 4},
		},
		"summary":   "You enjoy figuring out how things work.",
		"nextSteps": []string{"Join the school science club"},
	}
}

// reasoningServer answers with the given reports in order, repeating the last.
func reasoningServer(t *testing.T, calls *int32, status []int, reply interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		assert.Equal(t, generatePath, r.URL.Path)
		assert.Equal(t, testToken, r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "json", req.ResponseFormat)
		assert.Equal(t, testToken, req.Metadata["token"])

		code := status[len(status)-1]
		if int(n) <= len(status) {
			code = status[n-1]
		}
		if code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		text, _ := json.Marshal(reply)
		_ = json.NewEncoder(w).Encode(generateResponse{Text: string(text)})
	}))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		status         []int
		validateOutput func(t *testing.T, output *Output, calls int32)
	}{
		{
			name:   "first attempt",
			status: []int{http.StatusOK},
			validateOutput: func(t *testing.T, output *Output, calls int32) {
				assert.Equal(t, int32(1), calls)
				assert.Equal(t, 1, output.Attempts)
				assert.Equal(t, "You enjoy figuring out how things work.", output.Summary)
				assert.Equal(t, testToken, output.Report["token"])
			},
		},
		{
			name:   "recovers after server errors",
			status: []int{http.StatusBadGateway, http.StatusTooManyRequests, http.StatusOK},
			validateOutput: func(t *testing.T, output *Output, calls int32) {
				assert.Equal(t, int32(3), calls)
				assert.Equal(t, 3, output.Attempts)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := reasoningServer(t, &calls, tt.status, createValidReport())
			defer srv.Close()

			h := NewHandler(createTestConfig(srv.URL), logger.NewTestLogger(t))
			output, err := h.Execute(context.Background(), createTestInput())
			require.NoError(t, err)
			tt.validateOutput(t, output, atomic.LoadInt32(&calls))
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(` {"a":1} `))
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name          string
		input         *Input
		status        []int
		reply         func() interface{}
		code          apperrors.ErrorCode
		expectedCalls int32
	}{
		{
			name:          "unknown strategy",
			input:         &Input{Token: testToken, Strategy: "kindergarten", Brief: "x"},
			status:        []int{http.StatusOK},
			reply:         func() interface{} { return createValidReport() },
			code:          apperrors.ErrCodeMalformedInput,
			expectedCalls: 0,
		},
		{
			name:          "retries exhausted",
			input:         createTestInput(),
			status:        []int{http.StatusServiceUnavailable},
			reply:         func() interface{} { return createValidReport() },
			code:          apperrors.ErrCodeLLMSynthesisFailed,
			expectedCalls: 3,
		},
		{
			name:          "client error is not retried",
			input:         createTestInput(),
			status:        []int{http.StatusBadRequest},
			reply:         func() interface{} { return createValidReport() },
			code:          apperrors.ErrCodeLLMSynthesisFailed,
			expectedCalls: 1,
		},
		{
			name:   "report for another brief",
			input:  createTestInput(),
			status: []int{http.StatusOK},
			reply: func() interface{} {
				r := createValidReport()
				r["token"] = "cb_ffffffffffffffffffffffffffffffff"
				return r
			},
			code:          apperrors.ErrCodeReportContractViolation,
			expectedCalls: 1,
		},
		{
			name:   "match score outside its tier",
			input:  createTestInput(),
			status: []int{http.StatusOK},
			reply: func() interface{} {
				r := createValidReport()
				r["careerClusters"].([]interface{})[0].(map[string]interface{})["matchScore"] = 55
				return r
			},
			code:          apperrors.ErrCodeReportContractViolation,
			expectedCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := reasoningServer(t, &calls, tt.status, tt.reply())
			defer srv.Close()

			h := NewHandler(createTestConfig(srv.URL), logger.NewTestLogger(t))
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), err.Error())
			assert.Equal(t, tt.expectedCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestHandler_Generate_AttemptCount(t *testing.T) {
	tests := []struct {
		name             string
		status           []int
		expectedAttempts int
		expectError      bool
	}{
		{name: "first attempt", status: []int{http.StatusOK}, expectedAttempts: 1},
		{name: "one retry", status: []int{http.StatusInternalServerError, http.StatusOK}, expectedAttempts: 2},
		{name: "stops on client error", status: []int{http.StatusBadRequest}, expectedAttempts: 1, expectError: true},
		{name: "stops on client error after retry", status: []int{http.StatusBadGateway, http.StatusUnprocessableEntity}, expectedAttempts: 2, expectError: true},
		{name: "retries exhausted", status: []int{http.StatusServiceUnavailable}, expectedAttempts: 3, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := reasoningServer(t, &calls, tt.status, createValidReport())
			defer srv.Close()

			h := NewHandler(createTestConfig(srv.URL), logger.NewTestLogger(t))
			_, attempts, err := h.generate(context.Background(), createTestInput())
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectedAttempts, attempts)
			assert.Equal(t, int32(tt.expectedAttempts), atomic.LoadInt32(&calls))
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	h := NewHandler(createTestConfig(srv.URL), logger.NewTestLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, createTestInput())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeLLMTimeout), err.Error())
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle_ContractViolationIsRetried(t *testing.T) {
	var calls int32
	bad := createValidReport()
	delete(bad, "nextSteps")
	srv := reasoningServer(t, &calls, []int{http.StatusOK}, bad)
	defer srv.Close()

	h := NewHandler(createTestConfig(srv.URL), logger.NewTestLogger(t))
	client := camundatest.NewJobClient()
	h.Handle(client, camundatest.NewJob(1, TaskType, createTestInput()))

	assert.False(t, client.Completed(nil))
	assert.Equal(t, int32(1), client.FailedRetries())
}
