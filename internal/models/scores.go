// internal/models/scores.go
package models

type InterestScore struct {
	Scores   map[string]int `json:"scores"`
	MaxScore int            `json:"maxScore"`
	TopThree []string       `json:"topThree"`
	Code     string         `json:"code"`
}

// Percentage returns the share of MaxScore held by an interest type, rounded.
func (s *InterestScore) Percentage(t string) int {
	if s == nil || s.MaxScore == 0 {
		return 0
	}
	return (s.Scores[t]*100 + s.MaxScore/2) / s.MaxScore
}

// TraitScore holds per-dimension means on the 1..5 Likert scale.
type TraitScore struct {
	Instrument string             `json:"instrument"`
	Dimensions []string           `json:"dimensions"`
	Scores     map[string]float64 `json:"scores"`
}

type AptitudeDomainScore struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type AptitudeScore struct {
	Domains map[string]AptitudeDomainScore `json:"scores"`
	Overall int                            `json:"overallScore"`
}

type KnowledgeScore struct {
	Score          int            `json:"score"`
	CorrectCount   int            `json:"correctCount"`
	TotalQuestions int            `json:"totalQuestions"`
	TopicAccuracy  map[string]int `json:"topicAccuracy,omitempty"`
	StrongTopics   []string       `json:"strongTopics"`
	WeakTopics     []string       `json:"weakTopics"`
}

type EmployabilityScore struct {
	SkillScores      map[string]float64 `json:"skillScores"`
	SelfRatingMean   float64            `json:"selfRatingMean"`
	SJTScore         int                `json:"sjtScore"`
	Readiness        string             `json:"overallReadiness"`
	StrengthAreas    []string           `json:"strengthAreas"`
	ImprovementAreas []string           `json:"improvementAreas"`
}

type SubtagScore struct {
	Name     string  `json:"name"`
	Accuracy float64 `json:"accuracy"`
}

type AdaptiveAnalysis struct {
	Level              int           `json:"level"`
	Tier               string        `json:"tier"`
	OverallAccuracy    float64       `json:"overallAccuracy"`
	ConfidenceTag      string        `json:"confidenceTag,omitempty"`
	PathClassification string        `json:"pathClassification,omitempty"`
	Ranked             []SubtagScore `json:"ranked"`
	Strengths          []SubtagScore `json:"strengths"`
	WeakAreas          []SubtagScore `json:"weakAreas"`
	HighAptitude       bool          `json:"highAptitude"`
}

// ScoreSet is every instrument result for one submission. Nil members were
// not part of the attempt.
type ScoreSet struct {
	Interest      *InterestScore      `json:"riasec"`
	Personality   *TraitScore         `json:"bigFive,omitempty"`
	Values        *TraitScore         `json:"workValues,omitempty"`
	Aptitude      *AptitudeScore      `json:"aptitude,omitempty"`
	Knowledge     *KnowledgeScore     `json:"knowledge,omitempty"`
	Employability *EmployabilityScore `json:"employability,omitempty"`
	Adaptive      *AdaptiveAnalysis   `json:"adaptive,omitempty"`
}
