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

package report

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/stage"
)

// StageReport summarizes how one stage of the job went.
type StageReport struct {
	Stage       string        `json:"stage"`
	Status      string        `json:"status"`
	Attempts    int           `json:"attempts"`
	Duration    time.Duration `json:"duration"`
	ErrorDetail string        `json:"error_detail,omitempty"`
}

// Report is the consolidated view of a completed (or failed) job: the
// document's derived understanding plus per-stage execution accounting.
type Report struct {
	JobId      string     `json:"job_id"`
	DocumentId core.ID    `json:"document_id"`
	Pipeline   string     `json:"pipeline"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	Category   string  `json:"category,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Summary    string  `json:"summary,omitempty"`

	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Language string   `json:"language,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	Notes   []string       `json:"notes,omitempty"`
	Answers []stage.Answer `json:"answers,omitempty"`

	Pages      int `json:"pages"`
	WordCount  int `json:"word_count"`
	ChunkCount int `json:"chunk_count"`

	Stages []StageReport `json:"stages"`
}

// Build consolidates a job's stage results into a single report. Results
// of stages that were skipped or failed simply leave their sections of the
// report empty; building a report never fails on missing stages, only on
// results that cannot be decoded.
func Build(job *core.Job, doc *core.Document) (*Report, error) {
	r := &Report{
		JobId:      job.Id,
		DocumentId: job.DocumentId,
		Pipeline:   job.Pipeline,
		Status:     job.Status.String(),
		CreatedAt:  job.CreatedAt,
	}
	if !job.CompletedAt.IsZero() {
		finished := job.CompletedAt
		r.FinishedAt = &finished
	}

	if doc != nil {
		r.Pages = len(doc.Pages)
		r.WordCount = len(strings.Fields(doc.Text))
	}

	for _, result := range job.Results {
		r.Stages = append(r.Stages, StageReport{
			Stage:       result.Stage,
			Status:      result.Status.String(),
			Attempts:    result.Attempts,
			Duration:    result.Duration,
			ErrorDetail: result.ErrorDetail,
		})

		if result.Status != core.StageSuccess {
			continue
		}
		if err := r.absorb(result); err != nil {
			return nil, fmt.Errorf("failed to decode %s output for job %s: %w", result.Stage, job.Id, err)
		}
	}

	sortStages(r.Stages)

	return r, nil
}

func (r *Report) absorb(result core.StageResult) error {
	switch result.Stage {
	case stage.StageChunking:
		var out stage.ChunkOutput
		if err := json.Unmarshal(result.Output, &out); err != nil {
			return err
		}
		r.ChunkCount = out.Count

	case stage.StageClassification:
		var out stage.ClassifyOutput
		if err := json.Unmarshal(result.Output, &out); err != nil {
			return err
		}
		r.Category = out.Category
		r.Confidence = out.Confidence

	case stage.StageSummarization:
		var out stage.SummarizeOutput
		if err := json.Unmarshal(result.Output, &out); err != nil {
			return err
		}
		r.Summary = out.Summary

	case stage.StageInterpretation:
		var out stage.InterpretOutput
		if err := json.Unmarshal(result.Output, &out); err != nil {
			return err
		}
		r.Notes = out.Notes

	case stage.StageQA:
		var out stage.QAOutput
		if err := json.Unmarshal(result.Output, &out); err != nil {
			return err
		}
		r.Answers = out.Answers

	case stage.StageMetadata:
		var out stage.MetadataOutput
		if err := json.Unmarshal(result.Output, &out); err != nil {
			return err
		}
		r.Title = out.Title
		r.Author = out.Author
		r.Language = out.Language
		r.Keywords = out.Keywords
	}

	return nil
}

// sortStages orders stage reports by name so report output is stable.
func sortStages(stages []StageReport) {
	slices.SortFunc(stages, func(a, b StageReport) int {
		return strings.Compare(a.Stage, b.Stage)
	})
}
