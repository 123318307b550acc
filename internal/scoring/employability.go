package scoring

import (
	"fmt"
	"sort"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"
)

const (
	ReadinessHigh   = "High"
	ReadinessMedium = "Medium"
	ReadinessLow    = "Low"
)

// ScoreEmployability combines the skill self-rating with the situational
// judgement test into a readiness level.
func ScoreEmployability(answers *models.EmployabilityAnswers) (*models.EmployabilityScore, error) {
	if answers == nil || len(answers.SelfRating) == 0 {
		return nil, apperrors.NewMalformedInputError(InstrumentEmployability, "no self-rating answers", 0)
	}

	self, err := NewSelfRatingScorer().Score(answers.SelfRating)
	if err != nil {
		return nil, err
	}

	sum := 0.0
	for _, skill := range self.Dimensions {
		sum += self.Scores[skill]
	}
	mean := Round2(sum / float64(len(self.Dimensions)))

	matches := 0
	for _, item := range answers.SJT {
		if item.Best == "" {
			return nil, apperrors.NewMalformedInputError(InstrumentEmployability,
				fmt.Sprintf("SJT item %s has no keyed answer", item.QuestionID), item)
		}
		if item.Chosen == item.Best {
			matches++
		}
	}
	sjt := Percent(matches, len(answers.SJT))

	ranked := make([]string, len(self.Dimensions))
	copy(ranked, self.Dimensions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return self.Scores[ranked[i]] > self.Scores[ranked[j]]
	})
	strengths := []string{}
	for _, skill := range ranked {
		if self.Scores[skill] >= 4.0 && len(strengths) < 3 {
			strengths = append(strengths, skill)
		}
	}
	gaps := []string{}
	for i := len(ranked) - 1; i >= 0 && len(gaps) < 2; i-- {
		if self.Scores[ranked[i]] < 3.0 {
			gaps = append(gaps, ranked[i])
		}
	}

	return &models.EmployabilityScore{
		SkillScores:      self.Scores,
		SelfRatingMean:   mean,
		SJTScore:         sjt,
		Readiness:        Readiness(mean, sjt),
		StrengthAreas:    strengths,
		ImprovementAreas: gaps,
	}, nil
}

func Readiness(selfMean float64, sjt int) string {
	switch {
	case selfMean >= 4.0 && sjt >= 70:
		return ReadinessHigh
	case selfMean >= 3.0 || sjt >= 50:
		return ReadinessMedium
	default:
		return ReadinessLow
	}
}
