// internal/models/submission.go
package models

// AnswerKind identifies how an interest answer is scored.
type AnswerKind string

const (
	AnswerSingle AnswerKind = "single"
	AnswerMulti  AnswerKind = "multi"
	AnswerRating AnswerKind = "rating"
)

// Submission is one assessment attempt. It is read-only once loaded and is
// the only input to scoring and brief compilation.
type Submission struct {
	AttemptID      string                  `json:"attemptId"`
	StudentID      string                  `json:"studentId"`
	Context        StudentContext          `json:"context"`
	Interest       []InterestAnswer        `json:"interest"`
	Personality    []LikertItem            `json:"personality,omitempty"`
	Values         []LikertItem            `json:"values,omitempty"`
	Aptitude       map[string]AptitudePair `json:"aptitude,omitempty"`
	Employability  *EmployabilityAnswers   `json:"employability,omitempty"`
	Knowledge      []KnowledgeItem         `json:"knowledge,omitempty"`
	Adaptive       *AdaptiveResult         `json:"adaptive,omitempty"`
	SectionTimings map[string]int          `json:"sectionTimings,omitempty"`
}

type StudentContext struct {
	GradeLevel  string `json:"gradeLevel"`
	Stream      string `json:"stream,omitempty"`
	ProgramName string `json:"programName,omitempty"`
	ProgramCode string `json:"programCode,omitempty"`
	DegreeLevel string `json:"degreeLevel,omitempty"` // "undergraduate", "postgraduate", "diploma"
}

// InterestAnswer carries its own option-to-type mapping so the scorer never
// needs a question bank.
type InterestAnswer struct {
	QuestionID   string            `json:"questionId"`
	Kind         AnswerKind        `json:"kind"`
	Selected     []string          `json:"selected,omitempty"`
	Value        int               `json:"value,omitempty"`
	Mapping      map[string]string `json:"mapping,omitempty"`
	StrengthType string            `json:"strengthType,omitempty"`
}

type LikertItem struct {
	QuestionID string `json:"questionId"`
	Dimension  string `json:"dimension"`
	Value      int    `json:"value"`
}

type AptitudePair struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type EmployabilityAnswers struct {
	SelfRating []LikertItem `json:"selfRating,omitempty"`
	SJT        []SJTItem    `json:"sjt,omitempty"`
}

// SJTItem is one situational-judgement answer with its keyed best option.
type SJTItem struct {
	QuestionID string `json:"questionId"`
	Chosen     string `json:"chosen"`
	Best       string `json:"best"`
}

type KnowledgeItem struct {
	QuestionID string `json:"questionId"`
	Topic      string `json:"topic"`
	Correct    bool   `json:"correct"`
}

// AdaptiveResult is the already-scored output of the adaptive aptitude test.
type AdaptiveResult struct {
	Level              int                `json:"level"`
	OverallAccuracy    float64            `json:"overallAccuracy"`
	AccuracyBySubtag   map[string]float64 `json:"accuracyBySubtag,omitempty"`
	ConfidenceTag      string             `json:"confidenceTag,omitempty"`
	PathClassification string             `json:"pathClassification,omitempty"`
}
