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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Format must be a recognized FormatType
//
// NOT validated:
//   - Pages (layout metadata is optional, e.g. plain text has none)
//   - Metadata (free-form)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}

	if err := ValidateFormatType(doc.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateFormatType validates that a FormatType has a valid value.
func ValidateFormatType(format FormatType) error {
	switch format {
	case FormatPDF, FormatDOCX, FormatTXT:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidFormat, format)
	}
}

// ValidateDefinition validates a PipelineDefinition according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - At least one stage must be declared
//   - Stage names must be unique and non-empty
//   - Every declared dependency must reference a declared stage
//   - A stage must not depend on itself
//
// Cycle detection is NOT performed here; the orchestrator's DAG
// construction rejects cyclic definitions.
func ValidateDefinition(def *PipelineDefinition) error {
	if def == nil {
		return fmt.Errorf("%w: definition is nil", ErrInvalidDefinition)
	}

	if def.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, ErrEmptyPipelineName)
	}

	if len(def.Stages) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, ErrNoStages)
	}

	seen := make(map[string]bool, len(def.Stages))
	for _, s := range def.Stages {
		if s.Name == "" {
			return fmt.Errorf("%w: stage name cannot be empty", ErrInvalidDefinition)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %w: %q", ErrInvalidDefinition, ErrDuplicateStage, s.Name)
		}
		seen[s.Name] = true
	}

	for _, s := range def.Stages {
		for _, dep := range s.DependsOn {
			if dep == s.Name {
				return fmt.Errorf("%w: %w: %q", ErrInvalidDefinition, ErrSelfDependency, s.Name)
			}
			if !seen[dep] {
				return fmt.Errorf("%w: %w: %q -> %q", ErrInvalidDefinition, ErrUnknownDependency, s.Name, dep)
			}
		}
	}

	return nil
}

// ValidateJob validates a Job according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - DocumentId must be nonzero
//   - Pipeline must not be empty
func ValidateJob(job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if job.Id == "" {
		return fmt.Errorf("%w: job id cannot be empty", ErrInvalidJob)
	}

	if job.DocumentId == 0 {
		return fmt.Errorf("%w: document id cannot be zero", ErrInvalidJob)
	}

	if job.Pipeline == "" {
		return fmt.Errorf("%w: pipeline name cannot be empty", ErrInvalidJob)
	}

	return nil
}
