// internal/workers/guidance/store-career-report/handler.go
package storecareerreport

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"career-brief-workers/internal/brief"
	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/common/logger"
)

const (
	TaskType = "store-career-report"
)

// upsertReport keeps one row per token. xmax is zero only for a freshly
// inserted row, which tells a first store from a replay.
const upsertReport = `INSERT INTO career_reports (id, token, attempt_id, student_id, strategy, report, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	ON CONFLICT (token) DO UPDATE SET report = EXCLUDED.report, updated_at = EXCLUDED.updated_at
	RETURNING id, (xmax = 0) AS created`

const markReported = `UPDATE assessment_attempts SET status = 'reported' WHERE id = $1`

var tokenPattern = regexp.MustCompile(brief.TokenPattern)

type Handler struct {
	config       *Config
	db           *sql.DB
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
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

// Execute upserts the report and marks its attempt as reported, in one
// transaction. Storing the same token twice updates the existing row.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	reportJSON, err := json.Marshal(input.Report)
	if err != nil {
		return nil, apperrors.NewMalformedInputError("report", err.Error(), nil)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	var (
		reportID string
		created  bool
	)
	err = tx.QueryRowContext(ctx, upsertReport,
		uuid.New().String(),
		input.Token,
		input.AttemptID,
		input.StudentID,
		input.Strategy,
		reportJSON,
		now,
	).Scan(&reportID, &created)
	if err != nil {
		return nil, apperrors.NewReportStoreFailedError(err)
	}

	if _, err := tx.ExecContext(ctx, markReported, input.AttemptID); err != nil {
		return nil, apperrors.NewReportStoreFailedError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewReportStoreFailedError(err)
	}

	h.logger.Info("career report stored", map[string]interface{}{
		"reportId":  reportID,
		"token":     input.Token,
		"attemptId": input.AttemptID,
		"created":   created,
	})

	return &Output{
		ReportID: reportID,
		Created:  created,
		StoredAt: now.Format(time.RFC3339),
	}, nil
}

func validate(input *Input) error {
	switch {
	case !tokenPattern.MatchString(input.Token):
		return apperrors.NewMalformedInputError("token", "token is not a brief token", input.Token)
	case input.AttemptID == "":
		return apperrors.NewMalformedInputError("attemptId", "attemptId is required", nil)
	case input.StudentID == "":
		return apperrors.NewMalformedInputError("studentId", "studentId is required", nil)
	case len(input.Report) == 0:
		return apperrors.NewMalformedInputError("report", "report is empty", nil)
	}
	return nil
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
