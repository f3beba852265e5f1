// Copyright 2025 Docucore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/inference"
	"github.com/docucore/docucore/stage"
	"github.com/docucore/docucore/storage"
)

const (
	defaultStageTimeout   = 2 * time.Minute
	defaultRetryLimit     = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// Orchestrator executes a job's pipeline: it resolves the stage DAG,
// runs eligible stages concurrently, retries transient failures with
// exponential backoff, and records results. It never executes stage
// logic itself; executors do the work and the orchestrator records
// whatever they return, panics included.
type Orchestrator struct {
	registry *stage.Registry
	runtime  stage.ModelRuntime
	jobs     storage.JobRepository
	logger   *slog.Logger

	stageTimeout   time.Duration
	retryLimit     int
	retryBaseDelay time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStageTimeout bounds a single stage attempt. Expired attempts count
// as transient failures eligible for retry. Default is 2m.
func WithStageTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.stageTimeout = timeout
		}
	}
}

// WithRetryLimit sets the maximum attempts per stage. Default is 3.
// Limits below one are rejected by NewOrchestrator.
func WithRetryLimit(limit int) Option {
	return func(o *Orchestrator) {
		o.retryLimit = limit
	}
}

// WithRetryBaseDelay sets the base delay for exponential backoff between
// attempts. Default is 500ms.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(o *Orchestrator) {
		if delay > 0 {
			o.retryBaseDelay = delay
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates an orchestrator dispatching to the given
// registry, model runtime, and job store.
func NewOrchestrator(registry *stage.Registry, runtime stage.ModelRuntime, jobs storage.JobRepository, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, errors.New("stage registry required")
	}
	if jobs == nil {
		return nil, errors.New("job repository required")
	}

	o := &Orchestrator{
		registry:       registry,
		runtime:        runtime,
		jobs:           jobs,
		logger:         slog.Default().With("component", "orchestrator"),
		stageTimeout:   defaultStageTimeout,
		retryLimit:     defaultRetryLimit,
		retryBaseDelay: defaultRetryBaseDelay,
	}

	for _, opt := range opts {
		opt(o)
	}
	if o.retryLimit < 1 {
		return nil, ErrInvalidMaxAttempts
	}

	return o, nil
}

// stageOutcome carries one finished stage from its worker goroutine back
// to the scheduling loop.
type stageOutcome struct {
	result core.StageResult
}

// Execute runs the job to a terminal state. A stage starts only after all
// its dependencies recorded success; dependents of a failed stage are
// skipped, transitively, with a dependency-failed detail. Cancelling ctx
// stops further scheduling, lets in-flight attempts finish or time out,
// and resolves the job as cancelled.
func (o *Orchestrator) Execute(ctx context.Context, job *core.Job, doc *core.Document, def *core.PipelineDefinition) error {
	g, err := buildGraph(def, o.registry)
	if err != nil {
		o.failJob(job, fmt.Sprintf("invalid pipeline: %v", err))
		if updateErr := o.jobs.UpdateJob(context.Background(), job); updateErr != nil {
			o.logger.Error("error persisting failed job", "job", job.Id, "err", updateErr)
		}
		return err
	}

	job.Status = core.JobRunning
	if job.Results == nil {
		job.Results = make(map[string]core.StageResult, len(g.order))
	}
	if err := o.jobs.UpdateJob(ctx, job); err != nil {
		return err
	}

	logger := o.logger.With("job", job.Id, "pipeline", def.Name)
	logger.Info("job started", "stages", len(g.order))

	outcomes := make(chan stageOutcome)
	inflight := make(map[string]bool, len(g.order))
	running := 0
	cancelled := false

	record := func(res core.StageResult) {
		job.Results[res.Stage] = res
		job.Progress = len(job.Results) * 100 / len(g.order)
		// Results survive even when the job context is already cancelled.
		if err := o.jobs.RecordStageResult(context.Background(), job.Id, res); err != nil {
			logger.Error("error recording stage result", "stage", res.Stage, "err", err)
		}
		logger.Info("stage resolved",
			"stage", res.Stage,
			"status", res.Status.String(),
			"attempts", res.Attempts,
			"duration", res.Duration)
	}

	for len(job.Results) < len(g.order) {
		if !cancelled && ctx.Err() != nil {
			cancelled = true
			logger.Info("job cancelled, draining in-flight stages", "running", running)
		}

		if !cancelled {
			for _, name := range g.order {
				if inflight[name] {
					continue
				}
				if _, done := job.Results[name]; done {
					continue
				}
				ready, blockedBy := g.readiness(name, job.Results)
				if blockedBy != "" {
					record(core.StageResult{
						Stage:       name,
						Status:      core.StageSkipped,
						ErrorDetail: fmt.Sprintf("%v: %s", ErrDependencyFailed, blockedBy),
						CompletedAt: time.Now().UTC(),
					})
					continue
				}
				if !ready {
					continue
				}

				inflight[name] = true
				running++
				go o.runStage(ctx, job.Id, name, g.executors[name], o.stageInput(doc, g, name, job.Results), outcomes)
			}
		}

		if len(job.Results) == len(g.order) {
			break
		}

		if running == 0 {
			if cancelled {
				break
			}
			// A valid DAG always leaves something runnable or resolvable.
			o.failJob(job, ErrStalled.Error())
			o.jobs.UpdateJob(context.Background(), job)
			return fmt.Errorf("%w: job %s", ErrStalled, job.Id)
		}

		outcome := <-outcomes
		running--
		delete(inflight, outcome.result.Stage)
		record(outcome.result)
	}

	// The cancelled flag is only ever set while stages are unresolved, so
	// it marks a job whose execution was cut short even when the drained
	// in-flight stages happened to resolve everything.
	if cancelled {
		job.Status = core.JobCancelled
	} else {
		job.Status = o.resolveStatus(job, g)
	}
	job.CompletedAt = time.Now().UTC()

	if err := o.jobs.UpdateJob(context.Background(), job); err != nil {
		logger.Error("error persisting terminal job", "err", err)
		return err
	}

	logger.Info("job finished", "status", job.Status.String(), "progress", job.Progress)
	return nil
}

// resolveStatus maps recorded results to the terminal job status using
// the graph's effective optionality.
func (o *Orchestrator) resolveStatus(job *core.Job, g *execGraph) core.JobStatus {
	specs := make([]core.StageSpec, 0, len(g.order))
	for _, name := range g.order {
		specs = append(specs, core.StageSpec{Name: name, Optional: g.optional[name]})
	}
	status := job.ResolveStatus(specs)
	if status == core.JobRunning {
		// Every stage has resolved by the time we get here, so a
		// non-terminal answer means a required stage is missing a result.
		return core.JobFailed
	}
	return status
}

func (o *Orchestrator) failJob(job *core.Job, detail string) {
	job.Status = core.JobFailed
	job.CompletedAt = time.Now().UTC()
	o.logger.Error("job failed", "job", job.Id, "detail", detail)
}

// stageInput assembles the executor input from the success outputs of the
// stage's dependencies.
func (o *Orchestrator) stageInput(doc *core.Document, g *execGraph, name string, results map[string]core.StageResult) stage.Input {
	upstream := make(map[string][]byte, len(g.deps[name]))
	for _, dep := range g.deps[name] {
		if res, ok := results[dep]; ok && res.Status == core.StageSuccess {
			upstream[dep] = res.Output
		}
	}
	return stage.Input{Document: doc, Upstream: upstream}
}

// runStage executes one stage with per-attempt timeouts and retries.
// Transient failures back off exponentially and retry up to the limit;
// permanent failures resolve the stage immediately. Every attempt is
// persisted as an append-only record.
func (o *Orchestrator) runStage(ctx context.Context, jobID, name string, exec stage.Executor, in stage.Input, outcomes chan<- stageOutcome) {
	var lastErr error
	attempts := 0
	totalStart := time.Now()

	for attempt := 1; attempt <= o.retryLimit; attempt++ {
		attempts = attempt
		start := time.Now()
		payload, err := o.attempt(ctx, exec, in)
		elapsed := time.Since(start)

		attemptStatus := core.StageSuccess
		detail := ""
		if err != nil {
			attemptStatus = core.StageFailed
			detail = err.Error()
		}
		if recErr := o.jobs.AppendStageAttempt(context.Background(), jobID, core.StageAttempt{
			Stage:       name,
			Attempt:     attempt,
			Status:      attemptStatus,
			ErrorDetail: detail,
			StartedAt:   start.UTC(),
			Duration:    elapsed,
		}); recErr != nil {
			o.logger.Error("error recording stage attempt", "job", jobID, "stage", name, "err", recErr)
		}

		if err == nil {
			outcomes <- stageOutcome{result: core.StageResult{
				Stage:       name,
				Status:      core.StageSuccess,
				Output:      payload,
				Attempts:    attempt,
				Duration:    time.Since(totalStart),
				CompletedAt: time.Now().UTC(),
			}}
			return
		}

		lastErr = err
		if !inference.IsRetryable(err) || attempt == o.retryLimit || ctx.Err() != nil {
			break
		}

		o.logger.Debug("stage attempt failed, will retry",
			"job", jobID, "stage", name, "attempt", attempt, "err", err)
		if sleepErr := sleepBackoff(ctx, o.retryBaseDelay, attempt); sleepErr != nil {
			break
		}
	}

	outcomes <- stageOutcome{result: core.StageResult{
		Stage:       name,
		Status:      core.StageFailed,
		ErrorDetail: lastErr.Error(),
		Attempts:    attempts,
		Duration:    time.Since(totalStart),
		CompletedAt: time.Now().UTC(),
	}}
}

// attempt runs a single bounded execution, converting executor panics
// into errors so a misbehaving stage cannot take the worker down.
func (o *Orchestrator) attempt(ctx context.Context, exec stage.Executor, in stage.Input) (payload []byte, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()

	return exec.Execute(attemptCtx, in, o.runtime)
}
