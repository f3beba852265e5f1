package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc:  &Document{Id: 1, Text: "content", Format: FormatTXT},
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty text",
			doc:     &Document{Id: 1, Format: FormatTXT},
			wantErr: ErrEmptyText,
		},
		{
			name:    "unknown format",
			doc:     &Document{Id: 1, Text: "content", Format: FormatType(42)},
			wantErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		def     *PipelineDefinition
		wantErr error
	}{
		{
			name: "valid definition",
			def: &PipelineDefinition{
				Name: "standard",
				Stages: []StageSpec{
					{Name: "ocr"},
					{Name: "chunking", DependsOn: []string{"ocr"}},
				},
			},
		},
		{
			name:    "nil definition",
			def:     nil,
			wantErr: ErrInvalidDefinition,
		},
		{
			name:    "empty name",
			def:     &PipelineDefinition{Stages: []StageSpec{{Name: "ocr"}}},
			wantErr: ErrEmptyPipelineName,
		},
		{
			name:    "no stages",
			def:     &PipelineDefinition{Name: "standard"},
			wantErr: ErrNoStages,
		},
		{
			name: "duplicate stage",
			def: &PipelineDefinition{
				Name:   "standard",
				Stages: []StageSpec{{Name: "ocr"}, {Name: "ocr"}},
			},
			wantErr: ErrDuplicateStage,
		},
		{
			name: "unknown dependency",
			def: &PipelineDefinition{
				Name:   "standard",
				Stages: []StageSpec{{Name: "chunking", DependsOn: []string{"ocr"}}},
			},
			wantErr: ErrUnknownDependency,
		},
		{
			name: "self dependency",
			def: &PipelineDefinition{
				Name:   "standard",
				Stages: []StageSpec{{Name: "ocr", DependsOn: []string{"ocr"}}},
			},
			wantErr: ErrSelfDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDefinition(tt.def)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateDefinition() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateDefinition() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJob(t *testing.T) {
	valid := &Job{Id: "job-1", DocumentId: 7, Pipeline: "standard"}
	if err := ValidateJob(valid); err != nil {
		t.Fatalf("ValidateJob() unexpected error: %v", err)
	}

	for _, job := range []*Job{
		nil,
		{DocumentId: 7, Pipeline: "standard"},
		{Id: "job-1", Pipeline: "standard"},
		{Id: "job-1", DocumentId: 7},
	} {
		if err := ValidateJob(job); !errors.Is(err, ErrInvalidJob) {
			t.Errorf("ValidateJob(%+v) error = %v, want ErrInvalidJob", job, err)
		}
	}
}
