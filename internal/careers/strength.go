package careers

import (
	"math"

	"career-brief-workers/internal/models"
	"career-brief-workers/internal/scoring"
)

// Factor weights. Missing factors are dropped and the rest renormalised.
const (
	WeightInterest  = 0.40
	WeightAptitude  = 0.30
	WeightTraits    = 0.15
	WeightAlignment = 0.15

	// Alignment when the track fits the category but not the exact
	// sub-stream or program field.
	categoryOnlyAlignment = 0.8
)

// Strength is the weighted fit of a track to the scores, in [0, 1].
func Strength(t *Track, mc MatchContext, scores *models.ScoreSet) float64 {
	var sum, weights float64
	add := func(value float64, ok bool, weight float64) {
		if !ok {
			return
		}
		sum += clamp01(value) * weight
		weights += weight
	}

	add(interestFactor(t, scores.Interest), scores.Interest != nil, WeightInterest)
	v, ok := aptitudeFactor(t, scores)
	add(v, ok, WeightAptitude)
	v, ok = traitFactor(t, scores)
	add(v, ok, WeightTraits)
	v, ok = alignmentFactor(t, mc)
	add(v, ok, WeightAlignment)

	if weights == 0 {
		return 0
	}
	return sum / weights
}

func interestFactor(t *Track, s *models.InterestScore) float64 {
	if s == nil || s.MaxScore == 0 || len(t.Interest) == 0 {
		return 0
	}
	var total float64
	for _, l := range t.Interest {
		total += float64(s.Scores[l]) / float64(s.MaxScore)
	}
	return total / float64(len(t.Interest))
}

func aptitudeFactor(t *Track, scores *models.ScoreSet) (float64, bool) {
	if scores.Aptitude != nil && len(t.Aptitude) > 0 {
		var total float64
		n := 0
		for _, d := range t.Aptitude {
			if ds, ok := scores.Aptitude.Domains[d]; ok {
				total += float64(ds.Percentage) / 100
				n++
			}
		}
		if n > 0 {
			return total / float64(n), true
		}
	}
	if scores.Adaptive != nil {
		return scores.Adaptive.OverallAccuracy / 100, true
	}
	return 0, false
}

func traitFactor(t *Track, scores *models.ScoreSet) (float64, bool) {
	var total float64
	n := 0
	if scores.Personality != nil {
		for _, d := range t.Traits {
			if v, ok := scores.Personality.Scores[d]; ok {
				total += likertUnit(v)
				n++
			}
		}
	}
	if scores.Values != nil {
		for _, d := range t.Values {
			if v, ok := scores.Values.Scores[d]; ok {
				total += likertUnit(v)
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

func alignmentFactor(t *Track, mc MatchContext) (float64, bool) {
	if mc.Category == models.StreamNone {
		return 0, false
	}
	if (mc.SubStream != "" && contains(t.SubStreams, mc.SubStream)) ||
		(mc.Field != "" && contains(t.Fields, mc.Field)) {
		return 1, true
	}
	return categoryOnlyAlignment, true
}

func likertUnit(v float64) float64 {
	return (v - scoring.LikertMin) / (scoring.LikertMax - scoring.LikertMin)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
