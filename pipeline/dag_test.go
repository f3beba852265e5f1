package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/stage"
)

func testRegistry(t *testing.T) *stage.Registry {
	t.Helper()
	r := stage.NewRegistry()
	for _, e := range []stage.Executor{
		stage.NewOCR(""),
		stage.NewChunking(0, 0),
		stage.NewClassification("m", nil),
		stage.NewSummarization("m"),
		stage.NewMetadata("m"),
	} {
		require.NoError(t, r.Register(e))
	}
	return r
}

func TestBuildGraphStableOrder(t *testing.T) {
	def := &core.PipelineDefinition{
		Name: "standard",
		Stages: []core.StageSpec{
			{Name: stage.StageOCR},
			{Name: stage.StageChunking},
			{Name: stage.StageClassification},
			{Name: stage.StageSummarization},
		},
	}

	reg := testRegistry(t)

	first, err := buildGraph(def, reg)
	require.NoError(t, err)

	// Dependencies come from the executors' static declarations here.
	assert.Equal(t, []string{
		stage.StageOCR,
		stage.StageChunking,
		stage.StageClassification,
		stage.StageSummarization,
	}, first.order)

	for i := 0; i < 10; i++ {
		g, err := buildGraph(def, reg)
		require.NoError(t, err)
		assert.Equal(t, first.order, g.order)
	}
}

func TestBuildGraphExplicitDepsOverrideExecutor(t *testing.T) {
	def := &core.PipelineDefinition{
		Name: "custom",
		Stages: []core.StageSpec{
			{Name: stage.StageOCR},
			{Name: stage.StageChunking},
			{Name: stage.StageSummarization, DependsOn: []string{stage.StageOCR}},
		},
	}

	g, err := buildGraph(def, testRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, []string{stage.StageOCR}, g.deps[stage.StageSummarization])
}

func TestBuildGraphRejectsCycles(t *testing.T) {
	def := &core.PipelineDefinition{
		Name: "cyclic",
		Stages: []core.StageSpec{
			{Name: stage.StageOCR, DependsOn: []string{stage.StageChunking}},
			{Name: stage.StageChunking, DependsOn: []string{stage.StageOCR}},
		},
	}

	_, err := buildGraph(def, testRegistry(t))
	assert.ErrorIs(t, err, core.ErrInvalidDefinition)
}

func TestBuildGraphRejectsUnregisteredStage(t *testing.T) {
	def := &core.PipelineDefinition{
		Name:   "unknown",
		Stages: []core.StageSpec{{Name: "translate"}},
	}

	_, err := buildGraph(def, testRegistry(t))
	assert.ErrorIs(t, err, stage.ErrNotRegistered)
}

func TestBuildGraphOptionalFromSpecOrExecutor(t *testing.T) {
	def := &core.PipelineDefinition{
		Name: "optionality",
		Stages: []core.StageSpec{
			{Name: stage.StageOCR},
			{Name: stage.StageChunking, Optional: true},
			{Name: stage.StageMetadata},
		},
	}

	g, err := buildGraph(def, testRegistry(t))
	require.NoError(t, err)

	assert.False(t, g.optional[stage.StageOCR])
	assert.True(t, g.optional[stage.StageChunking], "spec optionality applies")
	assert.True(t, g.optional[stage.StageMetadata], "executor optionality applies")
}

func TestReadiness(t *testing.T) {
	g := &execGraph{deps: map[string][]string{
		"b": {"a"},
	}}

	ready, blockedBy := g.readiness("b", map[string]core.StageResult{})
	assert.False(t, ready)
	assert.Empty(t, blockedBy)

	ready, blockedBy = g.readiness("b", map[string]core.StageResult{
		"a": {Stage: "a", Status: core.StageSuccess},
	})
	assert.True(t, ready)
	assert.Empty(t, blockedBy)

	ready, blockedBy = g.readiness("b", map[string]core.StageResult{
		"a": {Stage: "a", Status: core.StageFailed},
	})
	assert.False(t, ready)
	assert.Equal(t, "a", blockedBy)

	ready, blockedBy = g.readiness("b", map[string]core.StageResult{
		"a": {Stage: "a", Status: core.StageSkipped},
	})
	assert.False(t, ready)
	assert.Equal(t, "a", blockedBy)
}

func TestBackoffDelay(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt, want := range map[int]time.Duration{
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 400 * time.Millisecond,
		4: 800 * time.Millisecond,
	} {
		assert.Equal(t, want, backoffDelay(base, attempt), "attempt %d", attempt)
	}
}
