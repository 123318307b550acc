// Package scoring converts raw instrument answers into normalized scores.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"
)

const (
	InstrumentInterest = "interest"

	// PointsPerOption is credited for every selected single or multi option.
	PointsPerOption = 2

	DefaultInterestBaseline = 20
	CollegeInterestBaseline = 24
)

// InterestTypes is the canonical RIASEC order. Earlier types win ties.
var InterestTypes = []string{"R", "I", "A", "S", "E", "C"}

var InterestTypeNames = map[string]string{
	"R": "Realistic",
	"I": "Investigative",
	"A": "Artistic",
	"S": "Social",
	"E": "Enterprising",
	"C": "Conventional",
}

// InterestScorer totals categorical-interest answers per RIASEC type.
type InterestScorer struct {
	Baseline int
}

func NewInterestScorer(baseline int) *InterestScorer {
	if baseline <= 0 {
		baseline = DefaultInterestBaseline
	}
	return &InterestScorer{Baseline: baseline}
}

func (s *InterestScorer) Score(answers []models.InterestAnswer) (*models.InterestScore, error) {
	totals := make(map[string]int, len(InterestTypes))
	for _, t := range InterestTypes {
		totals[t] = 0
	}

	for i, answer := range answers {
		if err := s.apply(totals, i, answer); err != nil {
			return nil, err
		}
	}

	maxScore := s.Baseline
	for _, v := range totals {
		if v > maxScore {
			maxScore = v
		}
	}

	top := TopThree(totals)
	return &models.InterestScore{
		Scores:   totals,
		MaxScore: maxScore,
		TopThree: top,
		Code:     strings.Join(top, ""),
	}, nil
}

func (s *InterestScorer) apply(totals map[string]int, idx int, answer models.InterestAnswer) error {
	switch answer.Kind {
	case models.AnswerSingle, models.AnswerMulti:
		if answer.Kind == models.AnswerSingle && len(answer.Selected) > 1 {
			return malformedInterest(idx, answer, "single-choice answer has more than one selection")
		}
		for _, option := range answer.Selected {
			t, ok := answer.Mapping[option]
			if !ok {
				return malformedInterest(idx, answer, fmt.Sprintf("option %q has no category mapping", option))
			}
			if !IsInterestType(t) {
				return malformedInterest(idx, answer, fmt.Sprintf("option %q maps to unknown type %q", option, t))
			}
			totals[t] += PointsPerOption
		}
	case models.AnswerRating:
		if answer.Value == 0 {
			return nil // unanswered
		}
		if answer.Value < 1 || answer.Value > 5 {
			return malformedInterest(idx, answer, fmt.Sprintf("rating %d outside 1..5", answer.Value))
		}
		if !IsInterestType(answer.StrengthType) {
			return malformedInterest(idx, answer, fmt.Sprintf("rating has no valid strength type (%q)", answer.StrengthType))
		}
		totals[answer.StrengthType] += RatingPoints(answer.Value)
	default:
		return malformedInterest(idx, answer, fmt.Sprintf("unknown answer kind %q", answer.Kind))
	}
	return nil
}

// RatingPoints maps a 1..5 rating to interest points: 1-2 give 0, then 1, 2, 3.
func RatingPoints(value int) int {
	if value <= 2 {
		return 0
	}
	return value - 2
}

// TopThree ranks types with a positive score, highest first, ties by
// canonical order. Fewer than three are returned when fewer scored.
func TopThree(scores map[string]int) []string {
	ranked := make([]string, 0, len(InterestTypes))
	for _, t := range InterestTypes {
		if scores[t] > 0 {
			ranked = append(ranked, t)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

func IsInterestType(t string) bool {
	_, ok := InterestTypeNames[t]
	return ok
}

func malformedInterest(idx int, answer models.InterestAnswer, details string) error {
	ref := answer.QuestionID
	if ref == "" {
		ref = fmt.Sprintf("#%d", idx)
	}
	return apperrors.NewMalformedInputError(InstrumentInterest, fmt.Sprintf("answer %s: %s", ref, details), answer)
}
