// Package stream infers the academic stream category from declared stream
// and program text.
package stream

import (
	"strings"

	"career-brief-workers/internal/models"
)

// Sub-streams of science used to pick tracks.
const (
	SubStreamPCM  = "PCM"
	SubStreamPCB  = "PCB"
	SubStreamPCMB = "PCMB"
)

type keywordSet struct {
	category models.StreamCategory
	keywords []string
}

// Checked in order; the first set with a hit wins.
var categoryKeywords = []keywordSet{
	{models.StreamArts, []string{"arts", "humanities"}},
	{models.StreamScience, []string{"science", "pcm", "pcb"}},
	{models.StreamCommerce, []string{"commerce"}},
}

// Classify maps free text to a stream category, or StreamNone when no
// keyword matches.
func Classify(text string) models.StreamCategory {
	lower := strings.ToLower(text)
	for _, set := range categoryKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.category
			}
		}
	}
	return models.StreamNone
}

// SubStream extracts PCMB, PCM or PCB from a science stream label.
func SubStream(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "pcmb"):
		return SubStreamPCMB
	case strings.Contains(lower, "pcm"):
		return SubStreamPCM
	case strings.Contains(lower, "pcb"):
		return SubStreamPCB
	default:
		return ""
	}
}
