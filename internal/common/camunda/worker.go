// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"career-brief-workers/internal/common/config"
	"career-brief-workers/internal/common/logger"
	"career-brief-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every task handler. Handlers complete or fail
// the job themselves.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Worker is one open job subscription.
type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled in config.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log logger.Logger) *Worker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	if !wcfg.Enabled {
		log.Info("worker disabled", nil)
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Recover(taskType, handler, log)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return &Worker{worker: jobWorker, logger: log, taskType: taskType}
}

// outcomeClient notes whether a handler failed the job or threw a BPMN error.
type outcomeClient struct {
	worker.JobClient
	code string
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.code = "JOB_FAILED"
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.code = "BPMN_ERROR"
	return c.JobClient.NewThrowErrorCommand()
}

// Recover wraps a handler so a panic fails the job instead of the process.
// Job counts and durations are recorded for every activation.
func Recover(taskType string, handler JobHandler, log logger.Logger) worker.JobHandler {
	return func(jobClient worker.JobClient, job entities.Job) {
		timer := metrics.StartJob(taskType)
		client := &outcomeClient{JobClient: jobClient}
		defer func() {
			code := client.code
			if r := recover(); r != nil {
				code = "PANIC"
				log.Error("handler panicked", map[string]interface{}{
					"jobKey": job.Key,
					"panic":  fmt.Sprint(r),
				})
				retries := job.Retries - 1
				if retries < 0 {
					retries = 0
				}
				_, _ = jobClient.NewFailJobCommand().
					JobKey(job.Key).
					Retries(retries).
					ErrorMessage(fmt.Sprintf("handler panic: %v", r)).
					Send(context.Background())
			}
			timer.Done(code)
		}()
		handler.Handle(client, job)
	}
}

// Stop closes the subscription and waits for running jobs.
func (w *Worker) Stop() {
	if w == nil {
		return
	}
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
