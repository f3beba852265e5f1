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

package docucore

import (
	"context"
	"log/slog"
	"time"

	"github.com/docucore/docucore/ai"
	"github.com/docucore/docucore/ai/openai"
	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/inference"
	"github.com/docucore/docucore/normalize"
	"github.com/docucore/docucore/pipeline"
	"github.com/docucore/docucore/queue"
	"github.com/docucore/docucore/report"
	"github.com/docucore/docucore/stage"
	"github.com/docucore/docucore/storage"
	"github.com/docucore/docucore/storage/badger"
)

// System wires storage, model runtime, stage registry, orchestrator, and
// job queue into one document-understanding service.
type System struct {
	backend      *badger.Backend
	jobRepo      storage.JobRepository
	documentRepo storage.DocumentRepository
	manager      *inference.Manager
	registry     *stage.Registry
	orchestrator *pipeline.Orchestrator
	queue        *queue.Service
	normalizer   *normalize.Service
	logger       *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig          *ai.Config
	loader            ai.Loader
	definitions       map[string]*core.PipelineDefinition
	modelID           string
	questions         []string
	maxConcurrentJobs int
	queueCapacity     int
	memoryBudget      int
	batchWindow       time.Duration
	stageTimeout      time.Duration
	retryLimit        int
	retryBaseDelay    time.Duration
}

// WithAIConfig sets the model provider configuration.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = config
	}
}

// WithLoader overrides the model loader. Intended for tests and custom
// providers; takes precedence over the AI config.
func WithLoader(loader ai.Loader) SystemOption {
	return func(o *systemOptions) {
		o.loader = loader
	}
}

// WithDefinitions sets the available pipeline definitions.
func WithDefinitions(definitions map[string]*core.PipelineDefinition) SystemOption {
	return func(o *systemOptions) {
		if len(definitions) > 0 {
			o.definitions = definitions
		}
	}
}

// WithModel sets the model id the built-in stages call.
func WithModel(modelID string) SystemOption {
	return func(o *systemOptions) {
		o.modelID = modelID
	}
}

// WithQuestions configures the questions the qa stage answers for every
// document.
func WithQuestions(questions []string) SystemOption {
	return func(o *systemOptions) {
		o.questions = questions
	}
}

// WithMaxConcurrentJobs bounds how many jobs execute at once.
func WithMaxConcurrentJobs(n int) SystemOption {
	return func(o *systemOptions) {
		o.maxConcurrentJobs = n
	}
}

// WithQueueCapacity bounds how many jobs may wait for a worker.
func WithQueueCapacity(n int) SystemOption {
	return func(o *systemOptions) {
		o.queueCapacity = n
	}
}

// WithModelMemoryBudget sets the runtime's memory budget in model units.
func WithModelMemoryBudget(units int) SystemOption {
	return func(o *systemOptions) {
		o.memoryBudget = units
	}
}

// WithBatchWindow sets the batching window for batch-capable models.
func WithBatchWindow(window time.Duration) SystemOption {
	return func(o *systemOptions) {
		o.batchWindow = window
	}
}

// WithStageTimeout bounds each stage execution attempt.
func WithStageTimeout(timeout time.Duration) SystemOption {
	return func(o *systemOptions) {
		o.stageTimeout = timeout
	}
}

// WithStageRetryLimit sets the maximum attempts per stage.
func WithStageRetryLimit(limit int) SystemOption {
	return func(o *systemOptions) {
		o.retryLimit = limit
	}
}

// WithRetryBaseDelay sets the initial backoff delay between attempts.
func WithRetryBaseDelay(delay time.Duration) SystemOption {
	return func(o *systemOptions) {
		o.retryBaseDelay = delay
	}
}

const defaultModelID = "gpt-4o-mini"

// NewSystem opens storage at filePath and assembles the full pipeline
// runtime. Close must be called to release resources.
func NewSystem(filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig:    ai.DefaultConfig(),
		definitions: pipeline.DefaultDefinitions(),
		modelID:     defaultModelID,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	return buildSystem(backend, options)
}

// NewMemorySystem assembles a system on in-memory storage. Intended for
// tests and short-lived tooling.
func NewMemorySystem(opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig:    ai.DefaultConfig(),
		definitions: pipeline.DefaultDefinitions(),
		modelID:     defaultModelID,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	return buildSystem(backend, options)
}

func buildSystem(backend *badger.Backend, options *systemOptions) (*System, error) {
	jobRepo := badger.NewJobRepository(backend)
	documentRepo := badger.NewDocumentRepository(backend)

	loader := options.loader
	if loader == nil {
		var err error
		loader, err = openai.NewLoader(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	var managerOpts []inference.Option
	if options.memoryBudget > 0 {
		managerOpts = append(managerOpts, inference.WithMemoryBudget(options.memoryBudget))
	}
	if options.batchWindow > 0 {
		managerOpts = append(managerOpts, inference.WithBatchWindow(options.batchWindow))
	}
	manager, err := inference.NewManager(loader, managerOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	registry := stage.NewRegistry()
	executors := []stage.Executor{
		stage.NewOCR(options.modelID),
		stage.NewChunking(0, 0),
		stage.NewClassification(options.modelID, nil),
		stage.NewInterpretation(options.modelID),
		stage.NewSummarization(options.modelID),
		stage.NewQA(options.modelID, options.questions),
		stage.NewMetadata(options.modelID),
	}
	for _, executor := range executors {
		if err := registry.Register(executor); err != nil {
			manager.Close()
			backend.Close()
			return nil, err
		}
	}

	var orchestratorOpts []pipeline.Option
	if options.stageTimeout > 0 {
		orchestratorOpts = append(orchestratorOpts, pipeline.WithStageTimeout(options.stageTimeout))
	}
	if options.retryLimit > 0 {
		orchestratorOpts = append(orchestratorOpts, pipeline.WithRetryLimit(options.retryLimit))
	}
	if options.retryBaseDelay > 0 {
		orchestratorOpts = append(orchestratorOpts, pipeline.WithRetryBaseDelay(options.retryBaseDelay))
	}
	orchestrator, err := pipeline.NewOrchestrator(registry, manager, jobRepo, orchestratorOpts...)
	if err != nil {
		manager.Close()
		backend.Close()
		return nil, err
	}

	var queueOpts []queue.Option
	if options.maxConcurrentJobs > 0 {
		queueOpts = append(queueOpts, queue.WithMaxConcurrentJobs(options.maxConcurrentJobs))
	}
	if options.queueCapacity > 0 {
		queueOpts = append(queueOpts, queue.WithQueueCapacity(options.queueCapacity))
	}
	queueService, err := queue.NewService(orchestrator, jobRepo, documentRepo, options.definitions, queueOpts...)
	if err != nil {
		manager.Close()
		backend.Close()
		return nil, err
	}

	return &System{
		backend:      backend,
		jobRepo:      jobRepo,
		documentRepo: documentRepo,
		manager:      manager,
		registry:     registry,
		orchestrator: orchestrator,
		queue:        queueService,
		normalizer:   normalize.DefaultService(),
		logger:       slog.Default(),
	}, nil
}

// SubmitDocument normalizes raw bytes of the given format and enqueues a
// job on the named pipeline. Returns the created job.
func (s *System) SubmitDocument(ctx context.Context, raw []byte, format core.FormatType, pipelineName string) (*core.Job, error) {
	doc, err := s.normalizer.Normalize(raw, format)
	if err != nil {
		return nil, err
	}
	return s.queue.Submit(ctx, doc, pipelineName)
}

// GetJob returns the current state of a job.
func (s *System) GetJob(ctx context.Context, jobID string) (*core.Job, error) {
	return s.queue.GetJob(ctx, jobID)
}

// CancelJob requests cancellation of a queued or running job.
func (s *System) CancelJob(jobID string) {
	s.queue.Cancel(jobID)
}

// ListJobsByStatus returns up to limit jobs in the given status.
func (s *System) ListJobsByStatus(ctx context.Context, status core.JobStatus, limit int) ([]*core.Job, error) {
	return s.jobRepo.ListJobsByStatus(ctx, status, limit)
}

// BuildReport consolidates a job's stage outputs into a report.
func (s *System) BuildReport(ctx context.Context, jobID string) (*report.Report, error) {
	job, err := s.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	doc, err := s.documentRepo.GetDocument(ctx, job.DocumentId)
	if err != nil {
		return nil, err
	}
	return report.Build(job, doc)
}

// JobRepository exposes the underlying job store.
func (s *System) JobRepository() storage.JobRepository {
	return s.jobRepo
}

// DocumentRepository exposes the underlying document store.
func (s *System) DocumentRepository() storage.DocumentRepository {
	return s.documentRepo
}

// Close shuts down the queue, the model runtime, and storage, in that
// order. Queued and running jobs are allowed to finish.
func (s *System) Close() error {
	if err := s.queue.Close(); err != nil {
		s.logger.Error("error closing job queue", "err", err)
	}
	if err := s.manager.Close(); err != nil {
		s.logger.Error("error closing model runtime", "err", err)
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}
