package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-brief-workers/internal/models"
	"career-brief-workers/internal/scoring"
)

func writeSubmission(t *testing.T) string {
	t.Helper()
	counts := map[string]int{"R": 3, "I": 4, "A": 1, "S": 1, "E": 1, "C": 2}
	sub := &models.Submission{
		AttemptID: "attempt-1",
		Context:   models.StudentContext{GradeLevel: "grade_7"},
	}
	for _, ty := range scoring.InterestTypes {
		for i := 0; i < counts[ty]; i++ {
			sub.Interest = append(sub.Interest, models.InterestAnswer{
				QuestionID: fmt.Sprintf("q-%s-%d", ty, i),
				Kind:       models.AnswerSingle,
				Selected:   []string{"opt"},
				Mapping:    map[string]string{"opt": ty},
			})
		}
	}
	for _, d := range scoring.PersonalityDimensions {
		for i := 0; i < 6; i++ {
			sub.Personality = append(sub.Personality, models.LikertItem{
				QuestionID: fmt.Sprintf("p-%s-%d", d, i), Dimension: d, Value: 4,
			})
		}
	}

	data, err := json.Marshal(sub)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "submission.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRun_Text(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(writeSubmission(t), "", 0, false, &out))

	assert.Contains(t, out.String(), "token:    cb_")
	assert.Contains(t, out.String(), "interest: IRC")
	assert.Contains(t, out.String(), "cluster:  High")
}

func TestRun_JSONIsStable(t *testing.T) {
	path := writeSubmission(t)

	var first, second bytes.Buffer
	require.NoError(t, run(path, "", 0, true, &first))
	require.NoError(t, run(path, "", 0, true, &second))
	assert.Equal(t, first.String(), second.String())

	var compiled models.CompiledBrief
	require.NoError(t, json.Unmarshal(first.Bytes(), &compiled))
	assert.Len(t, compiled.Clusters, 3)
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing rule table", func(t *testing.T) {
		err := run(writeSubmission(t), filepath.Join(t.TempDir(), "none.yaml"), 0, false, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("invalid submission", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"attemptId":"a"}`), 0644))
		assert.Error(t, run(path, "", 0, false, &bytes.Buffer{}))
	})
}
