// internal/workers/guidance/synthesize-career-report/handler.go
package synthesizecareerreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-brief-workers/internal/brief"
	apperrors "career-brief-workers/internal/common/errors"
	commonhttp "career-brief-workers/internal/common/http"
	"career-brief-workers/internal/common/logger"
	"career-brief-workers/internal/common/metrics"
	"career-brief-workers/internal/dispatch"
)

const (
	TaskType = "synthesize-career-report"

	generatePath = "/api/ai/generate"
)

var (
	errRetryable = errors.New("retryable")
)

type Handler struct {
	config       *Config
	client       *commonhttp.Client
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	client := commonhttp.NewClient(config.Timeout)
	if config.APIKey != "" {
		client = client.WithHeader("Authorization", "Bearer "+config.APIKey)
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			apperrors.NewMalformedInputError("job variables", fmt.Sprintf("parse input: %v", err), nil))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute sends the brief to the reasoning service and checks the reply
// against the strategy's output contract.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	strategy, ok := dispatch.ParseStrategy(input.Strategy)
	if !ok {
		return nil, apperrors.NewMalformedInputError("strategy", fmt.Sprintf("unknown strategy %q", input.Strategy), input.Strategy)
	}
	if strings.TrimSpace(input.Brief) == "" {
		return nil, apperrors.NewMalformedInputError("brief", "brief is required", nil)
	}

	text, attempts, err := h.generate(ctx, input)
	if err != nil {
		return nil, err
	}

	result := []byte(stripFences(text))
	if err := brief.ValidateResult(strategy, input.Token, result); err != nil {
		metrics.ReportContractViolations.WithLabelValues(string(strategy)).Inc()
		return nil, err
	}

	var report map[string]interface{}
	if err := json.Unmarshal(result, &report); err != nil {
		return nil, apperrors.NewReportContractViolationError(string(strategy), []string{"result is not a JSON object"})
	}
	summary, _ := report["summary"].(string)

	h.logger.Info("career report synthesized", map[string]interface{}{
		"token":    input.Token,
		"strategy": input.Strategy,
		"attempts": attempts,
	})

	return &Output{
		Token:    input.Token,
		Strategy: input.Strategy,
		Report:   report,
		Summary:  summary,
		Attempts: attempts,
	}, nil
}

// generate posts the brief, retrying transport errors, 429 and 5xx replies
// with exponential backoff. The token doubles as the idempotency key so a
// retried call is not billed twice.
func (h *Handler) generate(ctx context.Context, input *Input) (string, int, error) {
	body := generateRequest{
		Prompt:         input.Brief,
		Model:          h.config.Model,
		MaxTokens:      h.config.MaxTokens,
		Temperature:    h.config.Temperature,
		ResponseFormat: "json",
		Metadata: map[string]string{
			"token":    input.Token,
			"strategy": input.Strategy,
		},
	}
	headers := map[string]string{"Idempotency-Key": input.Token}

	var (
		lastErr  error
		attempts int
	)
	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := h.config.BaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", attempts, apperrors.NewLLMTimeoutError(h.config.Timeout)
			}
		}

		attempts++
		text, err := h.call(ctx, body, headers)
		if err == nil {
			return text, attempts, nil
		}
		if ctx.Err() != nil {
			return "", attempts, apperrors.NewLLMTimeoutError(h.config.Timeout)
		}
		lastErr = err
		if !errors.Is(err, errRetryable) {
			break
		}
		h.logger.Warn("report synthesis attempt failed", map[string]interface{}{
			"attempt": attempts,
			"error":   err,
		})
	}
	return "", attempts, apperrors.NewLLMSynthesisFailedError(lastErr)
}

func (h *Handler) call(ctx context.Context, body generateRequest, headers map[string]string) (string, error) {
	resp, err := h.client.PostJSON(ctx, strings.TrimRight(h.config.GenAIBaseURL, "/")+generatePath, body, headers)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", fmt.Errorf("%w: status %d", errRetryable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("%w: empty response text", errRetryable)
	}
	return out.Text, nil
}

// stripFences removes a markdown code fence around a JSON reply.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimPrefix(t, "json")
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}
