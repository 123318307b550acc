// internal/workers/guidance/index-career-report/handler.go
package indexcareerreport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/common/logger"
)

const (
	TaskType = "index-career-report"
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			apperrors.NewMalformedInputError("job variables", fmt.Sprintf("parse input: %v", err), nil))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute indexes the report summary under its token, so re-indexing the
// same report overwrites the document.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Token == "" || input.ReportID == "" {
		return nil, apperrors.NewMalformedInputError("report", "token and reportId are required", nil)
	}

	body, err := json.Marshal(buildDocument(input, time.Now().UTC()))
	if err != nil {
		return nil, apperrors.NewMalformedInputError("report", err.Error(), nil)
	}

	res, err := h.client.Index(
		h.config.Index,
		bytes.NewReader(body),
		h.client.Index.WithContext(ctx),
		h.client.Index.WithDocumentID(input.Token),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("elasticsearch", err)
		}
		return nil, apperrors.NewIndexRequestFailedError(h.config.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewIndexRequestFailedError(h.config.Index, fmt.Errorf("status %s", res.Status()))
	}

	var ack struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&ack); err != nil {
		return nil, apperrors.NewIndexRequestFailedError(h.config.Index, fmt.Errorf("decode response: %w", err))
	}

	h.logger.Info("career report indexed", map[string]interface{}{
		"reportId": input.ReportID,
		"token":    input.Token,
		"result":   ack.Result,
	})
	return &Output{Indexed: true, Result: ack.Result}, nil
}

// buildDocument prefers the compiled clusters and falls back to the titles
// in the generated report.
func buildDocument(input *Input, now time.Time) reportDocument {
	doc := reportDocument{
		ReportID:       input.ReportID,
		Token:          input.Token,
		StudentID:      input.StudentID,
		Strategy:       input.Strategy,
		InterestCode:   input.InterestCode,
		StreamCategory: string(input.StreamCategory),
		Clusters:       []string{},
		IndexedAt:      now.Format(time.RFC3339),
	}
	doc.Summary, _ = input.Report["summary"].(string)

	for _, c := range input.Clusters {
		doc.Clusters = append(doc.Clusters, c.Title)
		if c.MatchScore > doc.TopMatchScore {
			doc.TopMatchScore = c.MatchScore
		}
	}
	if len(doc.Clusters) > 0 {
		return doc
	}

	items, _ := input.Report["careerClusters"].([]interface{})
	for _, it := range items {
		c, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		if title, ok := c["title"].(string); ok {
			doc.Clusters = append(doc.Clusters, title)
		}
		if score, ok := c["matchScore"].(float64); ok && int(score) > doc.TopMatchScore {
			doc.TopMatchScore = int(score)
		}
	}
	return doc
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
