package careers

import (
	"fmt"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"
)

// MatchContext is the stream context and evidence policy of one brief.
type MatchContext struct {
	Category         models.StreamCategory
	SubStream        string
	Field            string
	RequiredEvidence []string
}

// Tier bands as (floor, span): score = floor + round(strength * span).
var tierBands = []struct {
	tier  models.FitTier
	floor int
	span  int
}{
	{models.FitHigh, 80, 20},
	{models.FitMedium, 70, 15},
	{models.FitExplore, 60, 15},
}

// Band is the match-score range of a fit tier.
type Band struct {
	Tier models.FitTier
	Min  int
	Max  int
}

// Bands lists the tier bands in rank order.
func Bands() []Band {
	out := make([]Band, len(tierBands))
	for i, b := range tierBands {
		out[i] = Band{Tier: b.tier, Min: b.floor, Max: b.floor + b.span}
	}
	return out
}

// SelectRule returns the first rule matching the context and top interest
// types, with its index.
func (c *Catalog) SelectRule(mc MatchContext, topThree []string) (Rule, int, bool) {
	want := CategoryAny
	if mc.Category != models.StreamNone {
		want = string(mc.Category)
	}
	for i, r := range c.rules {
		if r.Category != want {
			continue
		}
		if r.SubStream != "" && r.SubStream != mc.SubStream {
			continue
		}
		if r.Field != "" && r.Field != mc.Field {
			continue
		}
		if !containsAll(topThree, r.Interest) {
			continue
		}
		return r, i, true
	}
	return Rule{}, -1, false
}

// Match proposes exactly three clusters ordered High, Medium, Explore.
func (c *Catalog) Match(mc MatchContext, scores *models.ScoreSet) ([]models.CareerCluster, error) {
	if scores == nil || scores.Interest == nil {
		return nil, apperrors.NewEvidenceIncompleteError(models.EvidenceInterest, "no interest scores")
	}
	top := scores.Interest.TopThree

	rule, idx, ok := c.SelectRule(mc, top)
	if !ok {
		return nil, apperrors.NewRuleTableInvalidError(fmt.Sprintf("no rule for category %q", mc.Category))
	}

	chosen := make([]*Track, 0, ClustersPerBrief)
	for _, id := range rule.Tracks {
		t, ok := c.tracks[id]
		if !ok {
			return nil, apperrors.NewRuleTableInvalidError(fmt.Sprintf("rule %d: unknown track %q", idx, id))
		}
		if !c.Permitted(t, mc.Category) {
			return nil, apperrors.NewRuleTableInvalidError(
				fmt.Sprintf("rule %d: track %q is outside stream %q", idx, id, mc.Category))
		}
		chosen = append(chosen, t)
	}

	if len(top) > 0 && top[0] == "A" {
		chosen = c.ensureCreative(chosen, mc, scores)
	}

	clusters := make([]models.CareerCluster, 0, len(chosen))
	prev := 101
	for i, t := range chosen {
		strength := Strength(t, mc, scores)
		band := tierBands[i]
		score := band.floor + roundInt(strength*float64(band.span))
		if score > prev {
			score = prev
		}
		prev = score

		evidence, err := BuildEvidence(t, scores, mc.RequiredEvidence)
		if err != nil {
			return nil, err
		}

		clusters = append(clusters, models.CareerCluster{
			TrackID:       t.ID,
			Title:         t.Title,
			Family:        t.Family,
			Fit:           band.tier,
			MatchScore:    score,
			Strength:      round3(strength),
			Evidence:      evidence,
			EntryRoles:    t.Roles.Entry,
			MidRoles:      t.Roles.Mid,
			Domains:       t.Domains,
			Exams:         t.Exams,
			EducationPath: t.Education,
			FocusSubjects: t.Focus,
			EntrySalary:   t.Salary.Entry,
			MidSalary:     t.Salary.Mid,
		})
	}
	return clusters, nil
}

// ensureCreative swaps the Explore slot for the strongest permitted creative
// track when none of the chosen tracks is creative.
func (c *Catalog) ensureCreative(chosen []*Track, mc MatchContext, scores *models.ScoreSet) []*Track {
	for _, t := range chosen {
		if c.IsCreative(t) {
			return chosen
		}
	}

	var best *Track
	bestStrength := -1.0
	for _, id := range c.order {
		t := c.tracks[id]
		if !c.IsCreative(t) || !c.Permitted(t, mc.Category) || inTracks(chosen, t) {
			continue
		}
		if s := Strength(t, mc, scores); s > bestStrength {
			best, bestStrength = t, s
		}
	}
	if best == nil {
		return chosen
	}
	out := append([]*Track(nil), chosen...)
	out[len(out)-1] = best
	return out
}

func inTracks(list []*Track, t *Track) bool {
	for _, x := range list {
		if x.ID == t.ID {
			return true
		}
	}
	return false
}

func containsAll(haystack, needles []string) bool {
	for _, n := range needles {
		if !contains(haystack, n) {
			return false
		}
	}
	return true
}
