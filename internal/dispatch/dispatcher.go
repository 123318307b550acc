// Package dispatch selects the compilation strategy for a declared grade or
// level. The lookup is total: every input resolves to exactly one strategy.
package dispatch

import (
	"strings"

	"career-brief-workers/internal/adaptive"
	"career-brief-workers/internal/models"
	"career-brief-workers/internal/scoring"
)

type Strategy string

const (
	StrategyMiddle          Strategy = "middle"
	StrategyHighSchool      Strategy = "high_school"
	StrategyHigherSecondary Strategy = "higher_secondary"
	StrategyAfter10         Strategy = "after10"
	StrategyAfter12         Strategy = "after12"

	DefaultStrategy = StrategyAfter12
)

// Strategies lists every strategy in grade order.
var Strategies = []Strategy{
	StrategyMiddle,
	StrategyHighSchool,
	StrategyHigherSecondary,
	StrategyAfter10,
	StrategyAfter12,
}

var aliases = map[string]Strategy{
	"middle":        StrategyMiddle,
	"middle_school": StrategyMiddle,
	"middleschool":  StrategyMiddle,
	"6":             StrategyMiddle,
	"7":             StrategyMiddle,
	"8":             StrategyMiddle,
	"grade_6":       StrategyMiddle,
	"grade_7":       StrategyMiddle,
	"grade_8":       StrategyMiddle,
	"class_6":       StrategyMiddle,
	"class_7":       StrategyMiddle,
	"class_8":       StrategyMiddle,

	"highschool":  StrategyHighSchool,
	"high_school": StrategyHighSchool,
	"9":           StrategyHighSchool,
	"10":          StrategyHighSchool,
	"grade_9":     StrategyHighSchool,
	"grade_10":    StrategyHighSchool,
	"class_9":     StrategyHighSchool,
	"class_10":    StrategyHighSchool,

	"higher_secondary": StrategyHigherSecondary,
	"highersecondary":  StrategyHigherSecondary,
	"11":               StrategyHigherSecondary,
	"12":               StrategyHigherSecondary,
	"grade_11":         StrategyHigherSecondary,
	"grade_12":         StrategyHigherSecondary,
	"class_11":         StrategyHigherSecondary,
	"class_12":         StrategyHigherSecondary,

	"after10":    StrategyAfter10,
	"after_10":   StrategyAfter10,
	"after10th":  StrategyAfter10,
	"after_10th": StrategyAfter10,

	"after12":       StrategyAfter12,
	"after_12":      StrategyAfter12,
	"after12th":     StrategyAfter12,
	"after_12th":    StrategyAfter12,
	"college":       StrategyAfter12,
	"undergraduate": StrategyAfter12,
	"postgraduate":  StrategyAfter12,
}

// Normalize folds case, trims, and maps '-' and spaces to '_'.
func Normalize(level string) string {
	s := strings.ToLower(strings.TrimSpace(level))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// Resolve returns the strategy for a declared level and whether the level
// was recognised. Unrecognised levels fall back to DefaultStrategy.
func Resolve(level string) (Strategy, bool) {
	if s, ok := aliases[Normalize(level)]; ok {
		return s, true
	}
	return DefaultStrategy, false
}

// Dispatch resolves the student's grade level to a strategy profile.
func Dispatch(ctx models.StudentContext) *Profile {
	s, _ := Resolve(ctx.GradeLevel)
	return ProfileFor(s, ctx.DegreeLevel)
}

// ParseStrategy accepts only canonical strategy names.
func ParseStrategy(name string) (Strategy, bool) {
	for _, s := range Strategies {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// GateMode is how the stream category for gating is obtained.
type GateMode string

const (
	GateNone              GateMode = "none"
	GateDeclaredStream    GateMode = "declared_stream"
	GateRecommendedStream GateMode = "recommended_stream"
	GateProgramField      GateMode = "program_field"
)

type SalaryBand struct {
	Stage string
	Range models.SalaryRange
}

// Profile is the thin per-strategy configuration over the shared matcher.
type Profile struct {
	Strategy         Strategy
	Audience         string
	Template         string
	RequiredEvidence []string
	Gating           GateMode
	InterestBaseline int
	ElitePathways    []string
	SalaryBands      []SalaryBand
	DegreeLevel      string
}

// Requires reports whether the strategy needs an evidence key.
func (p *Profile) Requires(key string) bool {
	for _, k := range p.RequiredEvidence {
		if k == key {
			return true
		}
	}
	return false
}

var coreEvidence = []string{
	models.EvidenceInterest,
	models.EvidenceAptitude,
	models.EvidencePersonality,
}

var fullEvidence = []string{
	models.EvidenceInterest,
	models.EvidenceAptitude,
	models.EvidencePersonality,
	models.EvidenceValues,
	models.EvidenceEmployability,
	models.EvidenceKnowledge,
}

var schoolSalaryBands = []SalaryBand{
	{Stage: "entry", Range: models.SalaryRange{Min: 3, Max: 8}},
	{Stage: "mid", Range: models.SalaryRange{Min: 8, Max: 20}},
}

var degreeSalaryBands = map[string][]SalaryBand{
	"postgraduate": {
		{Stage: "entry", Range: models.SalaryRange{Min: 6, Max: 15}},
		{Stage: "mid", Range: models.SalaryRange{Min: 15, Max: 30}},
		{Stage: "senior", Range: models.SalaryRange{Min: 30, Max: 60}},
	},
	"undergraduate": {
		{Stage: "entry", Range: models.SalaryRange{Min: 3, Max: 8}},
		{Stage: "mid", Range: models.SalaryRange{Min: 8, Max: 15}},
		{Stage: "senior", Range: models.SalaryRange{Min: 15, Max: 30}},
	},
	"diploma": {
		{Stage: "entry", Range: models.SalaryRange{Min: 2, Max: 6}},
		{Stage: "mid", Range: models.SalaryRange{Min: 6, Max: 12}},
	},
}

// NormalizeDegreeLevel maps free-text degree levels onto postgraduate,
// undergraduate or diploma. Anything unrecognised is undergraduate.
func NormalizeDegreeLevel(level string) string {
	l := Normalize(level)
	switch {
	case l == "pg" || strings.Contains(l, "post") || strings.HasPrefix(l, "master") ||
		strings.HasPrefix(l, "m_") || strings.HasPrefix(l, "m.") || l == "mba" || l == "mca" || strings.Contains(l, "phd"):
		return "postgraduate"
	case strings.Contains(l, "diploma") || strings.Contains(l, "polytechnic"):
		return "diploma"
	default:
		return "undergraduate"
	}
}

// ProfileFor builds the profile of a strategy. degreeLevel only matters for
// after12.
func ProfileFor(s Strategy, degreeLevel string) *Profile {
	p := &Profile{
		Strategy:         s,
		Template:         string(s) + ".tmpl",
		InterestBaseline: scoring.DefaultInterestBaseline,
		ElitePathways:    adaptive.ElitePathways,
		SalaryBands:      schoolSalaryBands,
	}

	switch s {
	case StrategyMiddle:
		p.Audience = "middle school student (grades 6-8)"
		p.RequiredEvidence = evidence(coreEvidence)
		p.Gating = GateNone
		p.ElitePathways = adaptive.MiddleSchoolElitePathways
	case StrategyHighSchool:
		p.Audience = "high school student (grades 9-10)"
		p.RequiredEvidence = evidence(coreEvidence, models.EvidenceValues)
		p.Gating = GateNone
	case StrategyHigherSecondary:
		p.Audience = "higher secondary student (grades 11-12)"
		p.RequiredEvidence = evidence(fullEvidence)
		p.Gating = GateDeclaredStream
	case StrategyAfter10:
		p.Audience = "student who has completed 10th grade and is choosing an 11th-12th stream"
		p.RequiredEvidence = evidence(fullEvidence)
		p.Gating = GateRecommendedStream
	default:
		p.Strategy = StrategyAfter12
		p.Template = string(StrategyAfter12) + ".tmpl"
		p.Audience = "college student or graduate after 12th grade"
		p.RequiredEvidence = evidence(coreEvidence)
		p.Gating = GateProgramField
		p.InterestBaseline = scoring.CollegeInterestBaseline
		p.DegreeLevel = NormalizeDegreeLevel(degreeLevel)
		p.SalaryBands = degreeSalaryBands[p.DegreeLevel]
	}
	return p
}

func evidence(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
