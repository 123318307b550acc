// internal/models/brief.go
package models

// StreamCategory is the coarse academic stream. The empty value means the
// stream could not be classified and no stream gating applies.
type StreamCategory string

const (
	StreamScience  StreamCategory = "science"
	StreamCommerce StreamCategory = "commerce"
	StreamArts     StreamCategory = "arts"
	StreamNone     StreamCategory = ""
)

type FitTier string

const (
	FitHigh    FitTier = "High"
	FitMedium  FitTier = "Medium"
	FitExplore FitTier = "Explore"
)

// Evidence keys, one per instrument family.
const (
	EvidenceInterest      = "interest"
	EvidenceAptitude      = "aptitude"
	EvidencePersonality   = "personality"
	EvidenceValues        = "values"
	EvidenceEmployability = "employability"
	EvidenceKnowledge     = "knowledge"
)

type SalaryRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

type CareerCluster struct {
	TrackID       string            `json:"trackId"`
	Title         string            `json:"title"`
	Family        string            `json:"family"`
	Fit           FitTier           `json:"fit"`
	MatchScore    int               `json:"matchScore"`
	Strength      float64           `json:"strength"`
	Evidence      map[string]string `json:"evidence"`
	EntryRoles    []string          `json:"entryRoles"`
	MidRoles      []string          `json:"midRoles"`
	Domains       []string          `json:"domains"`
	Exams         []string          `json:"exams,omitempty"`
	EducationPath string            `json:"educationPath,omitempty"`
	FocusSubjects []string          `json:"focusSubjects,omitempty"`
	EntrySalary   SalaryRange       `json:"entrySalary"`
	MidSalary     SalaryRange       `json:"midSalary"`
}

// CompiledBrief is the instruction document handed to the reasoning service.
type CompiledBrief struct {
	Token          string          `json:"token"`
	Strategy       string          `json:"strategy"`
	Text           string          `json:"text"`
	StreamCategory StreamCategory  `json:"streamCategory"`
	InterestCode   string          `json:"interestCode"`
	Clusters       []CareerCluster `json:"clusters"`
	Scores         *ScoreSet       `json:"scores"`
}
