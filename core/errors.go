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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidDefinition indicates a PipelineDefinition failed validation.
	ErrInvalidDefinition = errors.New("invalid pipeline definition")

	// ErrInvalidJob indicates a Job failed validation.
	ErrInvalidJob = errors.New("invalid job")

	// ErrEmptyText indicates the document Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidFormat indicates an unrecognized FormatType value.
	ErrInvalidFormat = errors.New("invalid format type")

	// ErrEmptyPipelineName indicates the definition Name field is empty.
	ErrEmptyPipelineName = errors.New("pipeline name cannot be empty")

	// ErrNoStages indicates a definition declares no stages.
	ErrNoStages = errors.New("pipeline must declare at least one stage")

	// ErrDuplicateStage indicates a stage name appears more than once.
	ErrDuplicateStage = errors.New("duplicate stage name")

	// ErrUnknownDependency indicates a stage depends on an undeclared stage.
	ErrUnknownDependency = errors.New("dependency on undeclared stage")

	// ErrSelfDependency indicates a stage depends on itself.
	ErrSelfDependency = errors.New("stage cannot depend on itself")

	// ErrTerminalJob indicates an attempt to mutate a job in a terminal state.
	ErrTerminalJob = errors.New("job is in a terminal state")
)
