package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/stage"
)

func TestParseDefinitions(t *testing.T) {
	raw := []byte(`{
		"pipelines": [
			{
				"name": "intake",
				"stages": [
					{"name": "ocr"},
					{"name": "chunking", "depends_on": ["ocr"]},
					{"name": "metadata", "depends_on": ["chunking"], "optional": true}
				]
			},
			{
				"name": "triage",
				"stages": [
					{"name": "ocr"},
					{"name": "classification", "depends_on": ["ocr"]}
				]
			}
		]
	}`)

	defs, err := ParseDefinitions(raw)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	intake := defs["intake"]
	require.NotNil(t, intake)
	require.Len(t, intake.Stages, 3)
	assert.Equal(t, []string{"chunking"}, intake.Stages[2].DependsOn)
	assert.True(t, intake.Stages[2].Optional)
	assert.False(t, intake.Stages[1].Optional)

	require.NotNil(t, defs["triage"])
}

func TestParseDefinitionsRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `pipelines:`},
		{"missing pipelines key", `{"flows": []}`},
		{"empty pipelines", `{"pipelines": []}`},
		{"pipeline without name", `{"pipelines": [{"stages": [{"name": "ocr"}]}]}`},
		{"pipeline without stages", `{"pipelines": [{"name": "x"}]}`},
		{"empty stage list", `{"pipelines": [{"name": "x", "stages": []}]}`},
		{"stage without name", `{"pipelines": [{"name": "x", "stages": [{"optional": true}]}]}`},
		{"unknown stage field", `{"pipelines": [{"name": "x", "stages": [{"name": "ocr", "retries": 5}]}]}`},
		{"optional not boolean", `{"pipelines": [{"name": "x", "stages": [{"name": "ocr", "optional": "yes"}]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(tc.raw))
			assert.ErrorIs(t, err, core.ErrInvalidDefinition)
		})
	}
}

func TestParseDefinitionsRejectsSemanticErrors(t *testing.T) {
	t.Run("unknown dependency", func(t *testing.T) {
		raw := []byte(`{"pipelines": [{"name": "x", "stages": [
			{"name": "chunking", "depends_on": ["missing"]}
		]}]}`)
		_, err := ParseDefinitions(raw)
		assert.ErrorIs(t, err, core.ErrUnknownDependency)
	})

	t.Run("duplicate stage", func(t *testing.T) {
		raw := []byte(`{"pipelines": [{"name": "x", "stages": [
			{"name": "ocr"}, {"name": "ocr"}
		]}]}`)
		_, err := ParseDefinitions(raw)
		assert.ErrorIs(t, err, core.ErrDuplicateStage)
	})

	t.Run("duplicate pipeline name", func(t *testing.T) {
		raw := []byte(`{"pipelines": [
			{"name": "x", "stages": [{"name": "ocr"}]},
			{"name": "x", "stages": [{"name": "ocr"}]}
		]}`)
		_, err := ParseDefinitions(raw)
		assert.ErrorIs(t, err, core.ErrInvalidDefinition)
		assert.ErrorContains(t, err, "duplicate pipeline")
	})
}

func TestDefaultDefinitions(t *testing.T) {
	defs := DefaultDefinitions()
	std := defs["standard"]
	require.NotNil(t, std)
	require.Len(t, std.Stages, 7)

	names := make([]string, 0, len(std.Stages))
	optional := map[string]bool{}
	for _, s := range std.Stages {
		names = append(names, s.Name)
		optional[s.Name] = s.Optional
	}

	assert.Contains(t, names, stage.StageOCR)
	assert.Contains(t, names, stage.StageQA)
	assert.True(t, optional[stage.StageMetadata])
	assert.False(t, optional[stage.StageOCR])

	require.NoError(t, core.ValidateDefinition(std))
}
