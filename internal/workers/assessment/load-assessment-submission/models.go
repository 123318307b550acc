// internal/workers/assessment/load-assessment-submission/models.go
package loadassessmentsubmission

import "career-brief-workers/internal/models"

type Input struct {
	AttemptID string `json:"attemptId"`
}

type Output struct {
	Submission *models.Submission `json:"submission"`
	StudentID  string             `json:"studentId"`
	GradeLevel string             `json:"gradeLevel"`
	Cached     bool               `json:"cached"`
}
