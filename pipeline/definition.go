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
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/stage"
)

// definitionSchema validates pipeline definition files before decoding.
// Structural mistakes (wrong types, missing names) fail here with a
// precise path; semantic mistakes (unknown deps, cycles) fail in
// core.ValidateDefinition and buildGraph.
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["pipelines"],
  "properties": {
    "pipelines": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "stages"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "stages": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "depends_on": {"type": "array", "items": {"type": "string"}},
                "optional": {"type": "boolean"}
              },
              "additionalProperties": false
            }
          }
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

type definitionFile struct {
	Pipelines []struct {
		Name   string `json:"name"`
		Stages []struct {
			Name      string   `json:"name"`
			DependsOn []string `json:"depends_on"`
			Optional  bool     `json:"optional"`
		} `json:"stages"`
	} `json:"pipelines"`
}

// ParseDefinitions decodes and validates pipeline definitions from JSON.
func ParseDefinitions(raw []byte) (map[string]*core.PipelineDefinition, error) {
	schema, err := jsonschema.CompileString("definitions.schema.json", definitionSchema)
	if err != nil {
		return nil, fmt.Errorf("compiling definition schema: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidDefinition, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidDefinition, err)
	}

	var file definitionFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidDefinition, err)
	}

	defs := make(map[string]*core.PipelineDefinition, len(file.Pipelines))
	for _, p := range file.Pipelines {
		def := &core.PipelineDefinition{Name: p.Name}
		for _, s := range p.Stages {
			def.Stages = append(def.Stages, core.StageSpec{
				Name:      s.Name,
				DependsOn: s.DependsOn,
				Optional:  s.Optional,
			})
		}
		if err := core.ValidateDefinition(def); err != nil {
			return nil, err
		}
		if _, ok := defs[def.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate pipeline %q", core.ErrInvalidDefinition, def.Name)
		}
		defs[def.Name] = def
	}

	return defs, nil
}

// LoadDefinitions reads pipeline definitions from a JSON file.
func LoadDefinitions(path string) (map[string]*core.PipelineDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDefinitions(raw)
}

// DefaultDefinitions returns the built-in pipeline set: one "standard"
// pipeline covering every built-in stage, wired by the executors' static
// dependency declarations.
func DefaultDefinitions() map[string]*core.PipelineDefinition {
	return map[string]*core.PipelineDefinition{
		"standard": {
			Name: "standard",
			Stages: []core.StageSpec{
				{Name: stage.StageOCR},
				{Name: stage.StageChunking},
				{Name: stage.StageClassification},
				{Name: stage.StageInterpretation},
				{Name: stage.StageSummarization},
				{Name: stage.StageQA},
				{Name: stage.StageMetadata, Optional: true},
			},
		},
	}
}
