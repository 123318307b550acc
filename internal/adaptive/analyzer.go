// Package adaptive turns an adaptive aptitude result into ranked strengths,
// growth areas and a tier label.
package adaptive

import (
	"fmt"
	"sort"
	"strings"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"
)

const (
	Instrument = "adaptive_aptitude"

	StrengthThreshold = 70.0
	WeakThreshold     = 50.0
	MaxStrengths      = 3
	MaxWeakAreas      = 2

	HighAptitudeLevel    = 4
	HighAptitudeAccuracy = 75.0
)

var TierLabels = map[int]string{
	1: "Emerging",
	2: "Developing",
	3: "Capable",
	4: "Strong",
	5: "Exceptional",
}

// ElitePathways are the competitive routes offered to high-aptitude students
// from grade 9 upward.
var ElitePathways = []string{
	"UPSC: IAS, IPS, IFS, IRS (preparation can start in 11th-12th)",
	"Defence: NDA, CDS, AFCAT",
	"Medical: AIIMS and top medical colleges through NEET",
	"Engineering: IIT through JEE Advanced, ISRO, DRDO",
	"Legal: NLSIU and top NLUs through CLAT",
	"Finance: CA, CFA, investment banking",
	"Research: PhD at IISc, IITs or international universities",
}

// MiddleSchoolElitePathways keeps the same ambition but stays at the
// exploration stage.
var MiddleSchoolElitePathways = []string{
	"Science and mathematics Olympiads",
	"National talent search and scholarship exams",
	"Early exposure to JEE, NEET, CLAT or UPSC routes only where the cognitive profile supports them",
}

var trendDescriptions = map[string]string{
	"ascending": "improving throughout the test",
	"stable":    "consistent performance",
}

// Analyze ranks subtags and flags high aptitude. The input is not modified.
func Analyze(result models.AdaptiveResult) (*models.AdaptiveAnalysis, error) {
	if result.Level < 1 || result.Level > 5 {
		return nil, apperrors.NewMalformedInputError(Instrument,
			fmt.Sprintf("level %d outside 1..5", result.Level), result.Level)
	}
	if result.OverallAccuracy < 0 || result.OverallAccuracy > 100 {
		return nil, apperrors.NewMalformedInputError(Instrument,
			fmt.Sprintf("overall accuracy %.2f outside 0..100", result.OverallAccuracy), result.OverallAccuracy)
	}

	ranked := make([]models.SubtagScore, 0, len(result.AccuracyBySubtag))
	for name, acc := range result.AccuracyBySubtag {
		if acc < 0 || acc > 100 {
			return nil, apperrors.NewMalformedInputError(Instrument,
				fmt.Sprintf("subtag %s accuracy %.2f outside 0..100", name, acc), acc)
		}
		ranked = append(ranked, models.SubtagScore{Name: NormalizeSubtag(name), Accuracy: acc})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Accuracy != ranked[j].Accuracy {
			return ranked[i].Accuracy > ranked[j].Accuracy
		}
		return ranked[i].Name < ranked[j].Name
	})

	strengths := []models.SubtagScore{}
	weak := []models.SubtagScore{}
	for _, s := range ranked {
		if s.Accuracy >= StrengthThreshold && len(strengths) < MaxStrengths {
			strengths = append(strengths, s)
		}
		if s.Accuracy < WeakThreshold && len(weak) < MaxWeakAreas {
			weak = append(weak, s)
		}
	}

	return &models.AdaptiveAnalysis{
		Level:              result.Level,
		Tier:               TierLabels[result.Level],
		OverallAccuracy:    result.OverallAccuracy,
		ConfidenceTag:      result.ConfidenceTag,
		PathClassification: result.PathClassification,
		Ranked:             ranked,
		Strengths:          strengths,
		WeakAreas:          weak,
		HighAptitude:       IsHighAptitude(result.Level, result.OverallAccuracy),
	}, nil
}

func IsHighAptitude(level int, accuracy float64) bool {
	return level >= HighAptitudeLevel || accuracy >= HighAptitudeAccuracy
}

// NormalizeSubtag replaces underscores and hyphens with spaces.
func NormalizeSubtag(name string) string {
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(name))
}

// DescribeTrend turns a path classification into a short phrase.
func DescribeTrend(path string) string {
	if d, ok := trendDescriptions[path]; ok {
		return d
	}
	return "variable performance"
}
