// internal/workers/guidance/index-career-report/models.go
package indexcareerreport

import "career-brief-workers/internal/models"

type Input struct {
	ReportID       string                 `json:"reportId"`
	Token          string                 `json:"token"`
	StudentID      string                 `json:"studentId"`
	Strategy       string                 `json:"strategy"`
	InterestCode   string                 `json:"interestCode"`
	StreamCategory models.StreamCategory  `json:"streamCategory"`
	Clusters       []models.CareerCluster `json:"clusters"`
	Report         map[string]interface{} `json:"report"`
}

type Output struct {
	Indexed bool   `json:"indexed"`
	Result  string `json:"result"`
}

// reportDocument is the counsellor search view of one report.
type reportDocument struct {
	ReportID       string   `json:"reportId"`
	Token          string   `json:"token"`
	StudentID      string   `json:"studentId"`
	Strategy       string   `json:"strategy"`
	InterestCode   string   `json:"interestCode,omitempty"`
	StreamCategory string   `json:"streamCategory,omitempty"`
	Clusters       []string `json:"clusters"`
	TopMatchScore  int      `json:"topMatchScore"`
	Summary        string   `json:"summary,omitempty"`
	IndexedAt      string   `json:"indexedAt"`
}
