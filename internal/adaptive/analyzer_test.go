// internal/adaptive/analyzer_test.go
package adaptive

import (
	"testing"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name           string
		input          models.AdaptiveResult
		validateOutput func(t *testing.T, output *models.AdaptiveAnalysis)
	}{
		{
			name: "ranks and truncates strengths and weak areas",
			input: models.AdaptiveResult{
				Level:           3,
				OverallAccuracy: 62,
				AccuracyBySubtag: map[string]float64{
					"numerical_reasoning": 91,
					"spatial-reasoning":   84,
					"verbal_reasoning":    72,
					"pattern_recognition": 70,
					"data_interpretation": 49,
					"logical_reasoning":   30,
					"clerical_speed":      12,
				},
			},
			validateOutput: func(t *testing.T, output *models.AdaptiveAnalysis) {
				require.Len(t, output.Strengths, 3)
				assert.Equal(t, "numerical reasoning", output.Strengths[0].Name)
				assert.Equal(t, "spatial reasoning", output.Strengths[1].Name)
				assert.Equal(t, "verbal reasoning", output.Strengths[2].Name)

				require.Len(t, output.WeakAreas, 2)
				assert.Equal(t, "data interpretation", output.WeakAreas[0].Name)
				assert.Equal(t, "logical reasoning", output.WeakAreas[1].Name)

				assert.Len(t, output.Ranked, 7)
				assert.Equal(t, "Capable", output.Tier)
				assert.False(t, output.HighAptitude)
			},
		},
		{
			name: "seventy is a strength and fifty is not weak",
			input: models.AdaptiveResult{
				Level:            2,
				OverallAccuracy:  60,
				AccuracyBySubtag: map[string]float64{"verbal": 70, "numerical": 50},
			},
			validateOutput: func(t *testing.T, output *models.AdaptiveAnalysis) {
				require.Len(t, output.Strengths, 1)
				assert.Equal(t, "verbal", output.Strengths[0].Name)
				assert.Empty(t, output.WeakAreas)
			},
		},
		{
			name:  "empty subtags yield empty sequences",
			input: models.AdaptiveResult{Level: 5, OverallAccuracy: 40},
			validateOutput: func(t *testing.T, output *models.AdaptiveAnalysis) {
				assert.NotNil(t, output.Strengths)
				assert.Empty(t, output.Strengths)
				assert.Empty(t, output.WeakAreas)
				assert.True(t, output.HighAptitude)
				assert.Equal(t, "Exceptional", output.Tier)
			},
		},
		{
			name:  "accuracy alone can flag high aptitude",
			input: models.AdaptiveResult{Level: 1, OverallAccuracy: 75},
			validateOutput: func(t *testing.T, output *models.AdaptiveAnalysis) {
				assert.True(t, output.HighAptitude)
			},
		},
		{
			name: "ties ordered by name",
			input: models.AdaptiveResult{
				Level:            3,
				OverallAccuracy:  70,
				AccuracyBySubtag: map[string]float64{"b_skill": 80, "a_skill": 80},
			},
			validateOutput: func(t *testing.T, output *models.AdaptiveAnalysis) {
				assert.Equal(t, "a skill", output.Strengths[0].Name)
				assert.Equal(t, "b skill", output.Strengths[1].Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := Analyze(tt.input)
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestAnalyze_MalformedInput(t *testing.T) {
	inputs := []models.AdaptiveResult{
		{Level: 0, OverallAccuracy: 50},
		{Level: 6, OverallAccuracy: 50},
		{Level: 3, OverallAccuracy: 101},
		{Level: 3, OverallAccuracy: -1},
		{Level: 3, OverallAccuracy: 50, AccuracyBySubtag: map[string]float64{"x": 120}},
	}
	for _, input := range inputs {
		_, err := Analyze(input)
		require.Error(t, err)
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeMalformedInput, stdErr.Code)
	}
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	subtags := map[string]float64{"numerical_reasoning": 80}
	_, err := Analyze(models.AdaptiveResult{Level: 3, OverallAccuracy: 60, AccuracyBySubtag: subtags})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"numerical_reasoning": 80}, subtags)
}

func TestDescribeTrend(t *testing.T) {
	assert.Equal(t, "improving throughout the test", DescribeTrend("ascending"))
	assert.Equal(t, "consistent performance", DescribeTrend("stable"))
	assert.Equal(t, "variable performance", DescribeTrend("descending"))
}
