package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/stage"
)

func successResult(stageName, output string) core.StageResult {
	return core.StageResult{
		Stage:       stageName,
		Status:      core.StageSuccess,
		Output:      []byte(output),
		Attempts:    1,
		Duration:    30 * time.Millisecond,
		CompletedAt: time.Now().UTC(),
	}
}

func reportJob(results ...core.StageResult) *core.Job {
	job := &core.Job{
		Id:         "job-1",
		DocumentId: 7,
		Pipeline:   "standard",
		Status:     core.JobCompleted,
		Results:    make(map[string]core.StageResult, len(results)),
		Progress:   100,
		CreatedAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	for _, res := range results {
		job.Results[res.Stage] = res
	}
	return job
}

func TestBuildConsolidatesStageOutputs(t *testing.T) {
	job := reportJob(
		successResult(stage.StageOCR, `{"text":"the full text","words":3}`),
		successResult(stage.StageChunking, `{"chunks":["the full","text"],"count":2}`),
		successResult(stage.StageClassification, `{"category":"invoice","confidence":0.93}`),
		successResult(stage.StageSummarization, `{"summary":"An invoice."}`),
		successResult(stage.StageInterpretation, `{"notes":["mentions a due date","lists three items"]}`),
		successResult(stage.StageQA, `{"answers":[{"question":"Who issued it?","answer":"Acme Corp"}]}`),
		successResult(stage.StageMetadata, `{"title":"Invoice 42","author":"Acme Corp","language":"en","keywords":["invoice","acme"]}`),
	)
	job.CompletedAt = time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)

	doc := &core.Document{
		Id:     7,
		Text:   "one two three four five",
		Format: core.FormatPDF,
		Pages:  []core.PageSpan{{Page: 1, Offset: 0, Length: 23}},
	}

	r, err := Build(job, doc)
	require.NoError(t, err)

	assert.Equal(t, "job-1", r.JobId)
	assert.Equal(t, "completed", r.Status)
	require.NotNil(t, r.FinishedAt)
	assert.True(t, r.FinishedAt.Equal(job.CompletedAt))

	assert.Equal(t, "invoice", r.Category)
	assert.InDelta(t, 0.93, r.Confidence, 1e-9)
	assert.Equal(t, "An invoice.", r.Summary)
	assert.Equal(t, "Invoice 42", r.Title)
	assert.Equal(t, "Acme Corp", r.Author)
	assert.Equal(t, "en", r.Language)
	assert.Equal(t, []string{"invoice", "acme"}, r.Keywords)
	assert.Len(t, r.Notes, 2)
	require.Len(t, r.Answers, 1)
	assert.Equal(t, "Acme Corp", r.Answers[0].Answer)

	assert.Equal(t, 2, r.ChunkCount)
	assert.Equal(t, 5, r.WordCount)
	assert.Equal(t, 1, r.Pages)

	require.Len(t, r.Stages, 7)
	for i := 0; i < len(r.Stages)-1; i++ {
		assert.LessOrEqual(t, r.Stages[i].Stage, r.Stages[i+1].Stage, "stage reports must be name-sorted")
	}
}

func TestBuildFailedStagesLeaveSectionsEmpty(t *testing.T) {
	job := reportJob(
		successResult(stage.StageOCR, `{"text":"text","words":1}`),
		core.StageResult{
			Stage:       stage.StageClassification,
			Status:      core.StageFailed,
			ErrorDetail: "unparseable model output",
			Attempts:    3,
		},
		core.StageResult{
			Stage:       stage.StageSummarization,
			Status:      core.StageSkipped,
			ErrorDetail: "dependency failed: classification",
		},
	)
	job.Status = core.JobFailed

	r, err := Build(job, &core.Document{Id: 7, Text: "text"})
	require.NoError(t, err)

	assert.Empty(t, r.Category)
	assert.Empty(t, r.Summary)
	assert.Equal(t, "failed", r.Status)

	require.Len(t, r.Stages, 3)
	byName := map[string]StageReport{}
	for _, s := range r.Stages {
		byName[s.Stage] = s
	}
	assert.Equal(t, "failed", byName[stage.StageClassification].Status)
	assert.Equal(t, 3, byName[stage.StageClassification].Attempts)
	assert.Equal(t, "unparseable model output", byName[stage.StageClassification].ErrorDetail)
	assert.Equal(t, "skipped", byName[stage.StageSummarization].Status)
}

func TestBuildWithoutDocument(t *testing.T) {
	job := reportJob()
	job.Status = core.JobCancelled

	r, err := Build(job, nil)
	require.NoError(t, err)

	assert.Zero(t, r.WordCount)
	assert.Zero(t, r.Pages)
	assert.Equal(t, "cancelled", r.Status)
	assert.Nil(t, r.FinishedAt)
}

func TestBuildRejectsUndecodableOutput(t *testing.T) {
	job := reportJob(successResult(stage.StageClassification, `not json at all`))

	_, err := Build(job, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), stage.StageClassification)
}

func TestBuildIgnoresUndecodableFailedOutput(t *testing.T) {
	job := reportJob(core.StageResult{
		Stage:  stage.StageClassification,
		Status: core.StageFailed,
		Output: []byte(`partial garbage`),
	})
	job.Status = core.JobFailed

	_, err := Build(job, nil)
	assert.NoError(t, err, "only successful results are decoded")
}
