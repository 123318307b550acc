package validation

func intPtr(n int) *int { return &n }

// SubmissionSchema describes the submission variable handed to the
// compile-career-brief job. Instrument contents are checked by the scorers;
// this only rejects payloads that are not submissions at all.
var SubmissionSchema = JSONSchema{
	Type:                 "object",
	Required:             []string{"attemptId", "context", "interest"},
	AdditionalProperties: true,
	Properties: map[string]Property{
		"attemptId": {Type: "string", MinLength: intPtr(1)},
		"studentId": {Type: "string"},
		"context": {
			Type: "object",
			Properties: map[string]Property{
				"gradeLevel":  {Type: "string"},
				"stream":      {Type: "string"},
				"programName": {Type: "string"},
				"programCode": {Type: "string"},
				"degreeLevel": {Type: "string"},
			},
		},
		"interest": {
			Type:     "array",
			MinItems: intPtr(1),
			Items: &Property{
				Type:     "object",
				Required: []string{"questionId", "kind"},
				Properties: map[string]Property{
					"questionId": {Type: "string"},
					"kind":       {Type: "string", Enum: []string{"single", "multi", "rating"}},
				},
			},
		},
		"personality":    {Type: "array"},
		"values":         {Type: "array"},
		"aptitude":       {Type: "object"},
		"employability":  {Type: "object"},
		"knowledge":      {Type: "array"},
		"adaptive":       {Type: "object"},
		"sectionTimings": {Type: "object"},
	},
}
