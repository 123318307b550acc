package scoring

import (
	"fmt"
	"math"
	"sort"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"
)

const InstrumentAptitude = "aptitude"

var AptitudeDomains = []string{"verbal", "numerical", "abstract", "spatial", "clerical"}

// DefaultAptitudeTotals are the battery sizes used when a domain was not
// reported.
var DefaultAptitudeTotals = map[string]int{
	"verbal":    8,
	"numerical": 8,
	"abstract":  8,
	"spatial":   6,
	"clerical":  20,
}

// ScoreAptitude validates pre-scored correct/total pairs and adds
// percentages. It never recomputes correctness.
func ScoreAptitude(pairs map[string]models.AptitudePair) (*models.AptitudeScore, error) {
	reported := make([]string, 0, len(pairs))
	for domain := range pairs {
		reported = append(reported, domain)
	}
	sort.Strings(reported)
	for _, domain := range reported {
		if _, ok := DefaultAptitudeTotals[domain]; !ok {
			return nil, apperrors.NewMalformedInputError(InstrumentAptitude,
				fmt.Sprintf("unknown aptitude domain %q", domain), domain)
		}
	}

	domains := make(map[string]models.AptitudeDomainScore, len(AptitudeDomains))
	sumCorrect, sumTotal := 0, 0
	for _, domain := range AptitudeDomains {
		pair, ok := pairs[domain]
		if !ok {
			pair = models.AptitudePair{Correct: 0, Total: DefaultAptitudeTotals[domain]}
		}

		if pair.Correct < 0 || pair.Total <= 0 || pair.Correct > pair.Total {
			return nil, apperrors.NewMalformedInputError(InstrumentAptitude,
				fmt.Sprintf("%s: invalid pair %d/%d", domain, pair.Correct, pair.Total), pair)
		}

		pct := Percent(pair.Correct, pair.Total)
		if pct < 0 || pct > 100 {
			return nil, apperrors.NewScoreRangeViolationError(InstrumentAptitude, domain, float64(pct), 0, 100)
		}

		domains[domain] = models.AptitudeDomainScore{Correct: pair.Correct, Total: pair.Total, Percentage: pct}
		sumCorrect += pair.Correct
		sumTotal += pair.Total
	}

	return &models.AptitudeScore{
		Domains: domains,
		Overall: Percent(sumCorrect, sumTotal),
	}, nil
}

// Percent is round(100*part/whole) with halves rounded up.
func Percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
