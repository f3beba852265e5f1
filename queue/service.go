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

package queue

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/pipeline"
	"github.com/docucore/docucore/storage"
)

const defaultQueueCapacity = 64

// submission is a job waiting for a worker, together with everything the
// worker needs to run it. The ready channel is closed once the job record
// has been persisted; the dispatcher must not start a job before that.
type submission struct {
	job   *core.Job
	doc   *core.Document
	def   *core.PipelineDefinition
	ctx   context.Context
	ready chan struct{}
	err   error
}

// Service accepts document jobs, persists them, and feeds them to a bounded
// worker pool. Admission is non-blocking: when the queue is full, Submit
// returns ErrQueueSaturated immediately instead of buffering.
type Service struct {
	orchestrator *pipeline.Orchestrator
	jobs         storage.JobRepository
	documents    storage.DocumentRepository
	definitions  map[string]*core.PipelineDefinition

	pool    *ants.Pool
	pending chan *submission

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	closed  bool

	dispatcherDone chan struct{}
	running        sync.WaitGroup

	logger *slog.Logger
}

// Option configures the queue service.
type Option func(*Service)

// WithMaxConcurrentJobs bounds the number of jobs executing at once.
func WithMaxConcurrentJobs(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pool.Tune(n)
		}
	}
}

// WithQueueCapacity sets the number of jobs that may wait for a worker.
func WithQueueCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pending = make(chan *submission, n)
		}
	}
}

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.With("component", "queue")
		}
	}
}

// NewService creates a queue service backed by a fixed-size worker pool.
// Definitions maps pipeline names to their definitions; submissions naming
// an unknown pipeline are rejected.
func NewService(orch *pipeline.Orchestrator, jobs storage.JobRepository, documents storage.DocumentRepository, definitions map[string]*core.PipelineDefinition, options ...Option) (*Service, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())

	s := &Service{
		orchestrator:   orch,
		jobs:           jobs,
		documents:      documents,
		definitions:    definitions,
		pool:           pool,
		pending:        make(chan *submission, defaultQueueCapacity),
		baseCtx:        baseCtx,
		baseCancel:     baseCancel,
		cancels:        make(map[string]context.CancelFunc),
		dispatcherDone: make(chan struct{}),
		logger:         slog.Default().With("component", "queue"),
	}

	for _, option := range options {
		option(s)
	}

	go s.dispatch()

	return s, nil
}

// Submit persists the document and a new pending job for it, then enqueues
// the job for execution. It returns the job record so callers can poll its
// status. When the queue is full nothing is persisted and
// ErrQueueSaturated is returned.
func (s *Service) Submit(ctx context.Context, doc *core.Document, pipelineName string) (*core.Job, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	def, ok := s.definitions[pipelineName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", pipeline.ErrUnknownPipeline, pipelineName)
	}

	job := &core.Job{
		Id:         uuid.NewString(),
		DocumentId: doc.Id,
		Pipeline:   pipelineName,
		Status:     core.JobPending,
		Results:    make(map[string]core.StageResult),
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrQueueClosed
	}
	jobCtx, cancel := context.WithCancel(s.baseCtx)
	item := &submission{
		job:   job,
		doc:   doc,
		def:   def,
		ctx:   jobCtx,
		ready: make(chan struct{}),
	}

	// Reserve a queue slot before persisting anything, so a rejected
	// submission leaves no trace.
	select {
	case s.pending <- item:
	default:
		cancel()
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: capacity %d", ErrQueueSaturated, cap(s.pending))
	}
	s.cancels[job.Id] = cancel
	s.mu.Unlock()

	if err := s.persist(ctx, item); err != nil {
		item.err = err
		close(item.ready)
		s.forget(job.Id)
		return nil, err
	}
	close(item.ready)

	s.logger.Debug("job enqueued",
		"job", job.Id,
		"document", doc.Id,
		"pipeline", pipelineName)

	return job, nil
}

func (s *Service) persist(ctx context.Context, item *submission) error {
	if err := s.documents.AddDocument(ctx, item.doc); err != nil {
		return fmt.Errorf("failed to persist document: %w", err)
	}
	if err := s.jobs.AddJob(ctx, item.job); err != nil {
		return fmt.Errorf("failed to persist job: %w", err)
	}
	return nil
}

// GetJob returns the stored job record.
func (s *Service) GetJob(ctx context.Context, jobID string) (*core.Job, error) {
	return s.jobs.GetJob(ctx, jobID)
}

// Cancel requests cancellation of a queued or running job. Cancelling a
// job that is already terminal or unknown is a no-op.
func (s *Service) Cancel(jobID string) {
	s.mu.Lock()
	cancel, ok := s.cancels[jobID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *Service) forget(jobID string) {
	s.mu.Lock()
	if cancel, ok := s.cancels[jobID]; ok {
		cancel()
		delete(s.cancels, jobID)
	}
	s.mu.Unlock()
}

// dispatch moves queued submissions onto the worker pool. Submission to the
// pool blocks while all workers are busy, which is what bounds concurrency.
func (s *Service) dispatch() {
	defer close(s.dispatcherDone)

	for item := range s.pending {
		<-item.ready
		if item.err != nil {
			continue
		}

		item := item
		s.running.Add(1)
		err := s.pool.Submit(func() {
			defer s.running.Done()
			s.run(item)
		})
		if err != nil {
			s.running.Done()
			s.fail(item, err)
		}
	}
}

func (s *Service) run(item *submission) {
	defer s.forget(item.job.Id)

	// A job cancelled while still queued never reaches the orchestrator.
	if item.ctx.Err() != nil {
		item.job.Status = core.JobCancelled
		item.job.CompletedAt = time.Now().UTC()
		if err := s.jobs.UpdateJob(context.Background(), item.job); err != nil {
			s.logger.Error("failed to mark queued job cancelled",
				"job", item.job.Id,
				"error", err)
		}
		return
	}

	if err := s.orchestrator.Execute(item.ctx, item.job, item.doc, item.def); err != nil {
		s.logger.Error("job execution failed",
			"job", item.job.Id,
			"error", err)
	}
}

func (s *Service) fail(item *submission, cause error) {
	s.logger.Error("failed to dispatch job", "job", item.job.Id, "error", cause)

	item.job.Status = core.JobFailed
	item.job.CompletedAt = time.Now().UTC()
	if err := s.jobs.UpdateJob(context.Background(), item.job); err != nil {
		s.logger.Error("failed to mark job failed", "job", item.job.Id, "error", err)
	}
	s.forget(item.job.Id)
}

// Close stops accepting submissions, lets queued and running jobs finish,
// and releases the worker pool.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.pending)
	<-s.dispatcherDone
	s.running.Wait()

	s.pool.Release()
	s.baseCancel()

	s.logger.Debug("queue service closed")

	return nil
}
