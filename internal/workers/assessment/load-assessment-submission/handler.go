// internal/workers/assessment/load-assessment-submission/handler.go
package loadassessmentsubmission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-brief-workers/internal/common/database"
	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/common/logger"
	"career-brief-workers/internal/models"
)

const (
	TaskType = "load-assessment-submission"

	cacheKeyPrefix = "assessment:submission:"
	queryType      = "assessment_attempt"
)

const selectAttempt = `SELECT student_id, context, interest, personality, work_values, aptitude,
	employability, knowledge, adaptive, section_timings
	FROM assessment_attempts WHERE id = $1`

type Handler struct {
	config       *Config
	db           *sql.DB
	cache        *database.RedisClient
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler wires the worker. cache may be nil, in which case every job
// reads postgres.
func NewHandler(config *Config, db *sql.DB, cache *database.RedisClient, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		cache:        cache,
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

// Execute returns the submission for one attempt, from cache when present.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	id := strings.TrimSpace(input.AttemptID)
	if id == "" {
		return nil, apperrors.NewMalformedInputError("attemptId", "attemptId is required", input.AttemptID)
	}

	if sub := h.fromCache(ctx, id); sub != nil {
		return newOutput(sub, true), nil
	}

	sub, err := h.query(ctx, id)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, cacheKeyPrefix+id, sub, h.config.CacheTTL); err != nil {
			h.logger.Warn("failed to cache submission", map[string]interface{}{
				"attemptId": id,
				"error":     err,
			})
		}
	}
	return newOutput(sub, false), nil
}

func newOutput(sub *models.Submission, cached bool) *Output {
	return &Output{
		Submission: sub,
		StudentID:  sub.StudentID,
		GradeLevel: sub.Context.GradeLevel,
		Cached:     cached,
	}
}

func (h *Handler) fromCache(ctx context.Context, id string) *models.Submission {
	if h.cache == nil {
		return nil
	}
	var sub models.Submission
	found, err := h.cache.GetJSON(ctx, cacheKeyPrefix+id, &sub)
	if err != nil {
		h.logger.Warn("submission cache read failed", map[string]interface{}{
			"attemptId": id,
			"error":     err,
		})
		return nil
	}
	if !found {
		return nil
	}
	return &sub
}

func (h *Handler) query(ctx context.Context, id string) (*models.Submission, error) {
	var (
		studentID string
		columns   [9][]byte
	)
	dest := []interface{}{&studentID}
	for i := range columns {
		dest = append(dest, &columns[i])
	}

	err := h.db.QueryRowContext(ctx, selectAttempt, id).Scan(dest...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, apperrors.NewSubmissionNotFoundError(id)
	case err != nil && ctx.Err() == context.DeadlineExceeded:
		return nil, apperrors.NewQueryTimeoutError(queryType)
	case err != nil:
		return nil, apperrors.NewQueryExecutionFailedError(queryType, err)
	}

	sub := &models.Submission{AttemptID: id, StudentID: studentID}
	targets := []struct {
		name string
		dst  interface{}
	}{
		{"context", &sub.Context},
		{"interest", &sub.Interest},
		{"personality", &sub.Personality},
		{"work_values", &sub.Values},
		{"aptitude", &sub.Aptitude},
		{"employability", &sub.Employability},
		{"knowledge", &sub.Knowledge},
		{"adaptive", &sub.Adaptive},
		{"section_timings", &sub.SectionTimings},
	}
	for i, t := range targets {
		if len(columns[i]) == 0 {
			continue
		}
		if err := json.Unmarshal(columns[i], t.dst); err != nil {
			return nil, apperrors.NewMalformedInputError(t.name, fmt.Sprintf("stored %s is not valid JSON: %v", t.name, err), id)
		}
	}
	return sub, nil
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
