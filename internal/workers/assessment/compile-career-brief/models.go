// internal/workers/assessment/compile-career-brief/models.go
package compilecareerbrief

import (
	"encoding/json"

	"career-brief-workers/internal/models"
)

// Input keeps the submission raw so it can be schema-checked before decoding.
type Input struct {
	Submission json.RawMessage `json:"submission"`
}

type Output struct {
	Token          string                 `json:"token"`
	Strategy       string                 `json:"strategy"`
	Brief          string                 `json:"brief"`
	Clusters       []models.CareerCluster `json:"clusters"`
	StreamCategory models.StreamCategory  `json:"streamCategory"`
	InterestCode   string                 `json:"interestCode"`
	Scores         *models.ScoreSet       `json:"scores"`
	Cached         bool                   `json:"cached"`
}
