package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs are generated with content-based hashing so that identical
// normalized content always maps to the same document.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FormatType identifies the source format of an ingested document.
type FormatType int

const (
	// FormatPDF represents a PDF document.
	FormatPDF FormatType = iota + 1
	// FormatDOCX represents a Word (OOXML) document.
	FormatDOCX
	// FormatTXT represents a plain-text document.
	FormatTXT
)

// String returns the canonical lowercase tag for the format.
func (f FormatType) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatTXT:
		return "txt"
	default:
		return "unknown"
	}
}

// ParseFormatType maps a format tag (file extension, with or without the
// leading dot) to a FormatType. Returns 0 for unrecognized tags.
func ParseFormatType(tag string) FormatType {
	switch tag {
	case "pdf", ".pdf":
		return FormatPDF
	case "docx", ".docx":
		return FormatDOCX
	case "txt", ".txt", "text":
		return FormatTXT
	default:
		return 0
	}
}

// PageSpan records where one source page landed in the canonical text.
// Offsets are byte offsets into Document.Text.
type PageSpan struct {
	Page   int
	Offset int
	Length int
}

// Document is the canonical, normalized form of an uploaded file.
// It is immutable once produced by the normalizer and is owned by the
// Job that references it.
type Document struct {
	Id           ID
	Text         string
	Format       FormatType
	Pages        []PageSpan
	Metadata     map[string]string
	NormalizedAt time.Time
}

// StageSpec declares one stage of a pipeline definition.
// DependsOn may be empty, in which case the executor's statically declared
// dependencies apply.
type StageSpec struct {
	Name      string
	DependsOn []string
	Optional  bool
}

// PipelineDefinition is a DAG of stages describing how one document
// category is processed end to end. Definitions are loaded at process
// start and never mutated afterwards.
type PipelineDefinition struct {
	Name   string
	Stages []StageSpec
}

// StageNames returns the stage names in declaration order.
func (d *PipelineDefinition) StageNames() []string {
	names := make([]string, len(d.Stages))
	for i, s := range d.Stages {
		names[i] = s.Name
	}
	return names
}

// JobStatus is the lifecycle state of a Job.
// Terminal states (completed, failed, cancelled) are immutable.
type JobStatus int

const (
	// JobPending means the job is accepted but not yet picked up by a worker.
	JobPending JobStatus = iota + 1
	// JobRunning means stages are being executed.
	JobRunning
	// JobCompleted means every required stage succeeded.
	JobCompleted
	// JobFailed means at least one required stage failed or was skipped.
	JobFailed
	// JobCancelled means the job was cancelled before completion.
	JobCancelled
)

// String returns a lowercase label for the status.
func (s JobStatus) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobRunning:
		return "running"
	case JobCompleted:
		return "completed"
	case JobFailed:
		return "failed"
	case JobCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// StageStatus is the outcome of a single stage within a job.
type StageStatus int

const (
	// StageSuccess means the stage produced a valid output payload.
	StageSuccess StageStatus = iota + 1
	// StageFailed means the stage failed permanently or exhausted its retries.
	StageFailed
	// StageSkipped means the stage was never executed because a dependency failed.
	StageSkipped
)

// String returns a lowercase label for the status.
func (s StageStatus) String() string {
	switch s {
	case StageSuccess:
		return "success"
	case StageFailed:
		return "failed"
	case StageSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StageResult is the final outcome of one stage for one job.
// It is written at most once per (job, stage) pair; retries produce
// StageAttempt records, never a rewritten result.
type StageResult struct {
	Stage       string
	Status      StageStatus
	Output      []byte
	ErrorDetail string
	Attempts    int
	Duration    time.Duration
	CompletedAt time.Time
}

// StageAttempt is an append-only record of a single execution attempt.
type StageAttempt struct {
	Stage       string
	Attempt     int
	Status      StageStatus
	ErrorDetail string
	StartedAt   time.Time
	Duration    time.Duration
}

// Job tracks the processing of one document through one pipeline.
// Only the orchestrator and the queue mutate a Job; once Status is
// terminal the record is never modified again.
type Job struct {
	Id          string
	DocumentId  ID
	Pipeline    string
	Status      JobStatus
	Results     map[string]StageResult
	Progress    int // percent of stages resolved, 0-100
	CreatedAt   time.Time
	CompletedAt time.Time
}

// Result returns the recorded result for a stage, if any.
func (j *Job) Result(stage string) (StageResult, bool) {
	r, ok := j.Results[stage]
	return r, ok
}

// ResolveStatus derives the status implied by the recorded stage results,
// given the stage specs of the job's pipeline. It returns JobCompleted only
// when every stage has resolved and every required stage succeeded,
// JobFailed as soon as any required stage failed or was skipped, and
// JobRunning otherwise. Optional stage failures never fail the job.
func (j *Job) ResolveStatus(stages []StageSpec) JobStatus {
	allResolved := true
	for _, s := range stages {
		res, ok := j.Results[s.Name]
		if !ok {
			allResolved = false
			continue
		}
		if s.Optional {
			continue
		}
		if res.Status == StageFailed || res.Status == StageSkipped {
			return JobFailed
		}
	}
	if allResolved {
		return JobCompleted
	}
	return JobRunning
}
