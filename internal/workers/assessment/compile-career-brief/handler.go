// internal/workers/assessment/compile-career-brief/handler.go
package compilecareerbrief

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	"career-brief-workers/internal/brief"
	"career-brief-workers/internal/common/database"
	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/common/logger"
	"career-brief-workers/internal/common/metrics"
	"career-brief-workers/internal/common/observability"
	"career-brief-workers/internal/common/validation"
	"career-brief-workers/internal/models"
)

const (
	TaskType = "compile-career-brief"

	cacheKeyPrefix = "career:brief:"
)

type Handler struct {
	config       *Config
	compiler     *brief.Compiler
	cache        *database.RedisClient
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler wires the worker. cache and obs may be nil.
func NewHandler(config *Config, compiler *brief.Compiler, cache *database.RedisClient, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		compiler:     compiler,
		cache:        cache,
		obs:          obs,
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
		h.fail(client, job, apperrors.NewMalformedInputError("job variables", fmt.Sprintf("parse input: %v", err), nil))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute validates and compiles the submission. A brief compiled earlier
// for the same token is returned from cache.
func (h *Handler) Execute(ctx context.Context, input *Input) (out *Output, err error) {
	ctx, span := h.obs.StartSpan(ctx, TaskType)
	defer func() { observability.EndSpan(span, err) }()

	sub, err := DecodeSubmission(input.Submission)
	if err != nil {
		return nil, err
	}

	token, err := brief.Token(sub)
	if err != nil {
		return nil, apperrors.NewMalformedInputError("submission", fmt.Sprintf("cannot encode submission: %v", err), nil)
	}

	key := h.cacheKey(token)
	if compiled := h.fromCache(ctx, key); compiled != nil {
		metrics.BriefsCompiled.WithLabelValues(compiled.Strategy, "true").Inc()
		return newOutput(compiled, true), nil
	}

	compiled, err := h.compiler.Compile(sub)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("strategy", compiled.Strategy))
	metrics.BriefsCompiled.WithLabelValues(compiled.Strategy, strconv.FormatBool(false)).Inc()
	for _, c := range compiled.Clusters {
		metrics.ClusterMatchScore.WithLabelValues(string(c.Fit)).Observe(float64(c.MatchScore))
	}
	h.obs.RecordBriefSize(ctx, compiled.Strategy, len(compiled.Text))

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, key, compiled, h.config.CacheTTL); err != nil {
			h.logger.Warn("failed to cache brief", map[string]interface{}{
				"token": token,
				"error": err,
			})
		}
	}

	h.logger.Info("brief compiled", map[string]interface{}{
		"token":          token,
		"strategy":       compiled.Strategy,
		"interestCode":   compiled.InterestCode,
		"streamCategory": string(compiled.StreamCategory),
		"briefBytes":     len(compiled.Text),
	})
	return newOutput(compiled, false), nil
}

// DecodeSubmission validates raw submission JSON against the submission
// schema before decoding it.
func DecodeSubmission(raw json.RawMessage) (*models.Submission, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, apperrors.NewMalformedInputError("submission", "submission is required", nil)
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(trimmed, &generic); err != nil {
		return nil, apperrors.NewMalformedInputError("submission", fmt.Sprintf("submission is not an object: %v", err), nil)
	}
	if result := validation.ValidateInput(generic, validation.SubmissionSchema); !result.Valid {
		return nil, apperrors.NewMalformedInputError("submission", strings.Join(result.GetErrorMessages(), "; "), nil)
	}

	var sub models.Submission
	if err := json.Unmarshal(trimmed, &sub); err != nil {
		return nil, apperrors.NewMalformedInputError("submission", err.Error(), nil)
	}
	return &sub, nil
}

// cacheKey scopes a token to the compiler's catalog and options, so a
// reloaded rule table never serves briefs rendered from the old one.
func (h *Handler) cacheKey(token string) string {
	return cacheKeyPrefix + h.compiler.Fingerprint() + ":" + token
}

func (h *Handler) fromCache(ctx context.Context, key string) *models.CompiledBrief {
	if h.cache == nil {
		return nil
	}
	var compiled models.CompiledBrief
	found, err := h.cache.GetJSON(ctx, key, &compiled)
	if err != nil {
		h.logger.Warn("brief cache read failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
		return nil
	}
	if !found {
		return nil
	}
	return &compiled
}

func newOutput(c *models.CompiledBrief, cached bool) *Output {
	return &Output{
		Token:          c.Token,
		Strategy:       c.Strategy,
		Brief:          c.Text,
		Clusters:       c.Clusters,
		StreamCategory: c.StreamCategory,
		InterestCode:   c.InterestCode,
		Scores:         c.Scores,
		Cached:         cached,
	}
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error) {
	metrics.BriefCompileFailures.WithLabelValues(string(apperrors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
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
