// internal/workers/guidance/store-career-report/models.go
package storecareerreport

type Input struct {
	Token     string                 `json:"token"`
	AttemptID string                 `json:"attemptId"`
	StudentID string                 `json:"studentId"`
	Strategy  string                 `json:"strategy"`
	Report    map[string]interface{} `json:"report"`
}

type Output struct {
	ReportID string `json:"reportId"`
	Created  bool   `json:"created"`
	StoredAt string `json:"storedAt"`
}
