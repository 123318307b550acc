package scoring

import (
	"fmt"
	"math"
	"sort"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"
)

const (
	InstrumentPersonality   = "personality"
	InstrumentValues        = "values"
	InstrumentEmployability = "employability"

	LikertMin = 1
	LikertMax = 5
)

var PersonalityDimensions = []string{"O", "C", "E", "A", "N"}

var PersonalityDimensionNames = map[string]string{
	"O": "Openness",
	"C": "Conscientiousness",
	"E": "Extraversion",
	"A": "Agreeableness",
	"N": "Neuroticism",
}

var ValueDimensions = []string{
	"Impact", "Status", "Autonomy", "Security",
	"Financial", "Lifestyle", "Creativity", "Leadership",
}

var EmployabilitySkills = []string{
	"Communication", "Teamwork", "ProblemSolving", "Adaptability",
	"Leadership", "DigitalFluency", "Professionalism", "CareerReadiness",
}

// TraitScorer averages Likert items per dimension. ItemsPerDimension of zero
// accepts any non-zero item count.
type TraitScorer struct {
	Instrument        string
	Dimensions        []string
	ItemsPerDimension int
}

func NewPersonalityScorer() *TraitScorer {
	return &TraitScorer{Instrument: InstrumentPersonality, Dimensions: PersonalityDimensions, ItemsPerDimension: 6}
}

func NewValuesScorer() *TraitScorer {
	return &TraitScorer{Instrument: InstrumentValues, Dimensions: ValueDimensions, ItemsPerDimension: 3}
}

func NewSelfRatingScorer() *TraitScorer {
	return &TraitScorer{Instrument: InstrumentEmployability, Dimensions: EmployabilitySkills}
}

func (s *TraitScorer) Score(items []models.LikertItem) (*models.TraitScore, error) {
	known := make(map[string]bool, len(s.Dimensions))
	for _, d := range s.Dimensions {
		known[d] = true
	}

	sums := make(map[string]int, len(s.Dimensions))
	counts := make(map[string]int, len(s.Dimensions))
	for _, item := range items {
		if !known[item.Dimension] {
			return nil, apperrors.NewMalformedInputError(s.Instrument,
				fmt.Sprintf("item %s has unknown dimension %q", item.QuestionID, item.Dimension), item)
		}
		if item.Value < LikertMin || item.Value > LikertMax {
			return nil, apperrors.NewMalformedInputError(s.Instrument,
				fmt.Sprintf("item %s value %d outside %d..%d", item.QuestionID, item.Value, LikertMin, LikertMax), item.Value)
		}
		sums[item.Dimension] += item.Value
		counts[item.Dimension]++
	}

	scores := make(map[string]float64, len(s.Dimensions))
	for _, d := range s.Dimensions {
		n := counts[d]
		if n == 0 || (s.ItemsPerDimension > 0 && n != s.ItemsPerDimension) {
			return nil, apperrors.NewMalformedInputError(s.Instrument,
				fmt.Sprintf("dimension %s has %d items, expected %s", d, n, s.expectedCount()), n)
		}
		scores[d] = Round2(float64(sums[d]) / float64(n))
	}

	if err := VerifyTraitRange(s.Instrument, scores); err != nil {
		return nil, err
	}

	dims := make([]string, len(s.Dimensions))
	copy(dims, s.Dimensions)
	return &models.TraitScore{Instrument: s.Instrument, Dimensions: dims, Scores: scores}, nil
}

func (s *TraitScorer) expectedCount() string {
	if s.ItemsPerDimension == 0 {
		return "at least 1"
	}
	return fmt.Sprintf("%d", s.ItemsPerDimension)
}

// VerifyTraitRange rejects any dimension mean outside [1.0, 5.0]. A summed
// instead of averaged score lands here.
func VerifyTraitRange(instrument string, scores map[string]float64) error {
	dims := make([]string, 0, len(scores))
	for dim := range scores {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		v := scores[dim]
		if math.IsNaN(v) || v < LikertMin || v > LikertMax {
			return apperrors.NewScoreRangeViolationError(instrument, dim, v, LikertMin, LikertMax)
		}
	}
	return nil
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
