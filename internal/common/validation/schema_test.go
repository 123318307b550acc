package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

// ==========================
// Submission Schema
// ==========================

func TestValidateInput_Submission(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		validateResult func(t *testing.T, r *ValidationResult)
	}{
		{
			name:  "valid submission",
			input: `{"attemptId":"a-1","context":{"gradeLevel":"after12"},"interest":[{"questionId":"q1","kind":"single"}],"sectionTimings":{"interest":310}}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.Valid, r.GetErrorMessages())
			},
		},
		{
			name:  "grade level absent",
			input: `{"attemptId":"a-1","context":{},"interest":[{"questionId":"q1","kind":"single"}]}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.Valid, r.GetErrorMessages())
			},
		},
		{
			name:  "empty grade level",
			input: `{"attemptId":"a-1","context":{"gradeLevel":""},"interest":[{"questionId":"q1","kind":"single"}]}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.True(t, r.Valid, r.GetErrorMessages())
			},
		},
		{
			name:  "missing context",
			input: `{"attemptId":"a-1","interest":[{"questionId":"q1","kind":"single"}]}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
				require.Len(t, r.GetErrorsForField("context"), 1)
				assert.Equal(t, "REQUIRED_FIELD_MISSING", r.Errors[0].Code)
			},
		},
		{
			name:  "empty interest",
			input: `{"attemptId":"a-1","context":{"gradeLevel":"middle"},"interest":[]}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				assert.False(t, r.Valid)
				assert.Equal(t, "MIN_ITEMS_VIOLATION", r.GetErrorsForField("interest")[0].Code)
			},
		},
		{
			name:  "unknown answer kind",
			input: `{"attemptId":"a-1","context":{"gradeLevel":"middle"},"interest":[{"questionId":"q1","kind":"ranked"}]}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				errs := r.GetErrorsForField("interest[0]")
				require.Len(t, errs, 1)
				assert.Equal(t, "interest[0].kind", errs[0].Field)
				assert.Equal(t, "INVALID_ENUM_VALUE", errs[0].Code)
			},
		},
		{
			name:  "grade level has wrong type",
			input: `{"attemptId":"a-1","context":{"gradeLevel":10},"interest":[{"questionId":"q1","kind":"single"}]}`,
			validateResult: func(t *testing.T, r *ValidationResult) {
				errs := r.GetErrorsForField("context")
				require.Len(t, errs, 1)
				assert.Equal(t, "INVALID_TYPE", errs[0].Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateResult(t, ValidateInput(decode(t, tt.input), SubmissionSchema))
		})
	}
}

func TestValidateType_IntegerFromJSON(t *testing.T) {
	assert.NoError(t, validateType(float64(3), "integer"))
	assert.Error(t, validateType(3.5, "integer"))
}

// ==========================
// Naming And Contact Checks
// ==========================

func TestValidateTaskType(t *testing.T) {
	assert.NoError(t, ValidateTaskType("compile-career-brief"))
	assert.Error(t, ValidateTaskType("compile"))
	assert.Error(t, ValidateTaskType("Compile-Brief"))
}

func TestContactFormats(t *testing.T) {
	assert.True(t, ValidateEmail("student@example.org"))
	assert.False(t, ValidateEmail("student@"))
	assert.True(t, ValidatePhone("+919876543210"))
	assert.False(t, ValidatePhone("98765"))
}
