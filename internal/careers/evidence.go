package careers

import (
	"fmt"
	"strings"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"
	"career-brief-workers/internal/scoring"
)

type evidenceBuilder func(t *Track, s *models.ScoreSet) (string, bool)

var evidenceBuilders = map[string]evidenceBuilder{
	models.EvidenceInterest:      interestEvidence,
	models.EvidenceAptitude:      aptitudeEvidence,
	models.EvidencePersonality:   personalityEvidence,
	models.EvidenceValues:        valuesEvidence,
	models.EvidenceEmployability: employabilityEvidence,
	models.EvidenceKnowledge:     knowledgeEvidence,
}

// EvidenceKeys is the fixed key order of an evidence bundle.
var EvidenceKeys = []string{
	models.EvidenceInterest,
	models.EvidenceAptitude,
	models.EvidencePersonality,
	models.EvidenceValues,
	models.EvidenceEmployability,
	models.EvidenceKnowledge,
}

// BuildEvidence collects every evidence line the scores support. A required
// key that cannot be populated is an EvidenceIncomplete error.
func BuildEvidence(t *Track, scores *models.ScoreSet, required []string) (map[string]string, error) {
	out := make(map[string]string, len(EvidenceKeys))
	for _, key := range EvidenceKeys {
		if line, ok := evidenceBuilders[key](t, scores); ok {
			out[key] = line
		}
	}
	for _, key := range required {
		if _, ok := out[key]; !ok {
			return nil, apperrors.NewEvidenceIncompleteError(key,
				fmt.Sprintf("no %s evidence for track %s", key, t.ID))
		}
	}
	return out, nil
}

func interestEvidence(t *Track, s *models.ScoreSet) (string, bool) {
	in := s.Interest
	if in == nil || len(in.TopThree) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(t.Interest))
	for _, l := range t.Interest {
		parts = append(parts, fmt.Sprintf("%s %d/%d (%d%%)",
			scoring.InterestTypeNames[l], in.Scores[l], in.MaxScore, in.Percentage(l)))
	}
	return fmt.Sprintf("RIASEC code %s; %s", in.Code, strings.Join(parts, ", ")), true
}

func aptitudeEvidence(t *Track, s *models.ScoreSet) (string, bool) {
	var parts []string
	if s.Aptitude != nil {
		for _, d := range t.Aptitude {
			if ds, ok := s.Aptitude.Domains[d]; ok {
				parts = append(parts, fmt.Sprintf("%s %d/%d (%d%%)", d, ds.Correct, ds.Total, ds.Percentage))
			}
		}
		parts = append(parts, fmt.Sprintf("overall %d%%", s.Aptitude.Overall))
	}
	if a := s.Adaptive; a != nil {
		parts = append(parts, fmt.Sprintf("adaptive level %d (%s), %.0f%% accuracy", a.Level, a.Tier, a.OverallAccuracy))
		if len(a.Strengths) > 0 {
			parts = append(parts, "strongest in "+subtagNames(a.Strengths))
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "; "), true
}

func personalityEvidence(t *Track, s *models.ScoreSet) (string, bool) {
	if s.Personality == nil {
		return "", false
	}
	dims := t.Traits
	if len(dims) == 0 {
		dims = scoring.PersonalityDimensions
	}
	parts := make([]string, 0, len(dims))
	for _, d := range dims {
		if v, ok := s.Personality.Scores[d]; ok {
			parts = append(parts, fmt.Sprintf("%s %.2f", scoring.PersonalityDimensionNames[d], v))
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", ") + " (1-5)", true
}

func valuesEvidence(t *Track, s *models.ScoreSet) (string, bool) {
	if s.Values == nil {
		return "", false
	}
	dims := t.Values
	if len(dims) == 0 {
		dims = scoring.ValueDimensions
	}
	parts := make([]string, 0, len(dims))
	for _, d := range dims {
		if v, ok := s.Values.Scores[d]; ok {
			parts = append(parts, fmt.Sprintf("%s %.2f", d, v))
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", ") + " (1-5)", true
}

func employabilityEvidence(_ *Track, s *models.ScoreSet) (string, bool) {
	e := s.Employability
	if e == nil {
		return "", false
	}
	line := fmt.Sprintf("readiness %s, self-rating %.2f, SJT %d%%", e.Readiness, e.SelfRatingMean, e.SJTScore)
	if len(e.StrengthAreas) > 0 {
		line += "; strengths " + strings.Join(e.StrengthAreas, ", ")
	}
	return line, true
}

func knowledgeEvidence(_ *Track, s *models.ScoreSet) (string, bool) {
	k := s.Knowledge
	if k == nil {
		return "", false
	}
	line := fmt.Sprintf("knowledge %d%% (%d/%d)", k.Score, k.CorrectCount, k.TotalQuestions)
	if len(k.StrongTopics) > 0 {
		line += "; strong in " + strings.Join(k.StrongTopics, ", ")
	}
	if len(k.WeakTopics) > 0 {
		line += "; weak in " + strings.Join(k.WeakTopics, ", ")
	}
	return line, true
}

func subtagNames(list []models.SubtagScore) string {
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
