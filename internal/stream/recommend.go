package stream

import (
	"career-brief-workers/internal/models"
)

// Recommendation is the suggested 11th-12th stream for an after-10th student.
type Recommendation struct {
	Stream    string                `json:"stream"`
	Category  models.StreamCategory `json:"category"`
	SubStream string                `json:"subStream,omitempty"`
	Pattern   string                `json:"matchingPattern"`
}

type streamRule struct {
	interest     []string
	minNumerical int
	rec          Recommendation
}

var (
	recPCM      = Recommendation{Stream: "Science (PCM)", Category: models.StreamScience, SubStream: SubStreamPCM}
	recPCB      = Recommendation{Stream: "Science (PCB)", Category: models.StreamScience, SubStream: SubStreamPCB}
	recPCMB     = Recommendation{Stream: "Science (PCMB)", Category: models.StreamScience, SubStream: SubStreamPCMB}
	recCommerce = Recommendation{Stream: "Commerce", Category: models.StreamCommerce}
	recArts     = Recommendation{Stream: "Arts/Humanities", Category: models.StreamArts}
)

// First match wins. Science rules need numerical aptitude of at least 40%
// when aptitude was measured.
var streamRules = []streamRule{
	{interest: []string{"I", "R", "S"}, minNumerical: 40, rec: recPCMB},
	{interest: []string{"I", "R"}, minNumerical: 40, rec: recPCM},
	{interest: []string{"I", "S"}, minNumerical: 40, rec: recPCB},
	{interest: []string{"E", "C"}, rec: recCommerce},
	{interest: []string{"A", "S"}, rec: recArts},
	{interest: []string{"A", "E"}, rec: recArts},
	{interest: []string{"S", "E"}, rec: recCommerce},
}

// Fallback keyed by the single top interest type.
var leadingTypeStreams = map[string]Recommendation{
	"R": recPCM,
	"I": recPCM,
	"A": recArts,
	"S": recArts,
	"E": recCommerce,
	"C": recCommerce,
}

// RecommendStream picks the after-10th stream from the ranked interest types
// and, when present, the aptitude battery.
func RecommendStream(topThree []string, aptitude *models.AptitudeScore) Recommendation {
	numerical := -1
	if aptitude != nil {
		if d, ok := aptitude.Domains["numerical"]; ok {
			numerical = d.Percentage
		}
	}

	for _, rule := range streamRules {
		if !containsAll(topThree, rule.interest) {
			continue
		}
		if rule.minNumerical > 0 && numerical >= 0 && numerical < rule.minNumerical {
			continue
		}
		rec := rule.rec
		rec.Pattern = "High " + joinPlus(rule.interest)
		return rec
	}

	if len(topThree) > 0 {
		rec := leadingTypeStreams[topThree[0]]
		if rec.Category == models.StreamScience && numerical >= 0 && numerical < 40 {
			rec = recArts
		}
		rec.Pattern = "Leading type " + topThree[0]
		return rec
	}

	rec := recArts
	rec.Pattern = "No interest signal"
	return rec
}

func containsAll(haystack, needles []string) bool {
	for _, n := range needles {
		found := false
		for _, h := range haystack {
			if h == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func joinPlus(types []string) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += " + "
		}
		out += t
	}
	return out
}
