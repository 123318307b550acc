// Package camundatest provides an in-memory worker.JobClient that records
// the commands a handler sends.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// JobClient satisfies worker.JobClient.
type JobClient struct {
	gw *gateway
}

func NewJobClient() *JobClient {
	return &JobClient{gw: &gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gw, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gw, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gw, noRetry)
}

// Completed decodes the variables of the single completed job into dst and
// reports whether the job was completed.
func (c *JobClient) Completed(dst interface{}) bool {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	if len(c.gw.completed) == 0 {
		return false
	}
	if dst != nil {
		_ = json.Unmarshal([]byte(c.gw.completed[0].Variables), dst)
	}
	return true
}

// ThrownCode returns the error code of the first thrown BPMN error.
func (c *JobClient) ThrownCode() string {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	if len(c.gw.thrown) == 0 {
		return ""
	}
	return c.gw.thrown[0].ErrorCode
}

// FailedRetries returns the retries of the first failed job, or -1.
func (c *JobClient) FailedRetries() int32 {
	c.gw.mu.Lock()
	defer c.gw.mu.Unlock()
	if len(c.gw.failed) == 0 {
		return -1
	}
	return c.gw.failed[0].Retries
}

// NewJob builds an activated job carrying vars as its variables.
func NewJob(key int64, jobType string, vars interface{}) entities.Job {
	raw, _ := json.Marshal(vars)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               jobType,
		ProcessInstanceKey: key * 10,
		Retries:            3,
		Variables:          string(raw),
	}}
}

// NewRawJob is NewJob with the variables used verbatim.
func NewRawJob(key int64, jobType, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       key,
		Type:      jobType,
		Retries:   3,
		Variables: variables,
	}}
}

type gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (g *gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}
