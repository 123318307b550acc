package careers

import (
	"fmt"

	"career-brief-workers/internal/models"
	"career-brief-workers/internal/scoring"
	"career-brief-workers/internal/stream"
)

var gatedCategories = []models.StreamCategory{
	models.StreamScience,
	models.StreamCommerce,
	models.StreamArts,
}

var knownSubStreams = map[string]bool{
	stream.SubStreamPCM:  true,
	stream.SubStreamPCB:  true,
	stream.SubStreamPCMB: true,
}

func (c *Catalog) validateTracks() []string {
	var problems []string
	for _, id := range c.order {
		t := c.tracks[id]
		if t.Title == "" || t.Family == "" {
			problems = append(problems, fmt.Sprintf("track %q: title and family are required", id))
		}
		if len(t.Categories) == 0 {
			problems = append(problems, fmt.Sprintf("track %q: no categories", id))
		}
		for _, cat := range t.Categories {
			if _, ok := ruleCategory(string(cat)); !ok || string(cat) == CategoryAny {
				problems = append(problems, fmt.Sprintf("track %q: unknown category %q", id, cat))
				continue
			}
			if c.exclusions[cat][t.Family] {
				problems = append(problems, fmt.Sprintf("track %q: family %q is excluded for %s", id, t.Family, cat))
			}
		}
		if len(t.Interest) == 0 {
			problems = append(problems, fmt.Sprintf("track %q: no interest affinity", id))
		}
		for _, l := range t.Interest {
			if !scoring.IsInterestType(l) {
				problems = append(problems, fmt.Sprintf("track %q: unknown interest type %q", id, l))
			}
		}
		for _, d := range t.Aptitude {
			if _, ok := scoring.DefaultAptitudeTotals[d]; !ok {
				problems = append(problems, fmt.Sprintf("track %q: unknown aptitude domain %q", id, d))
			}
		}
		for _, d := range t.Traits {
			if _, ok := scoring.PersonalityDimensionNames[d]; !ok {
				problems = append(problems, fmt.Sprintf("track %q: unknown trait %q", id, d))
			}
		}
		for _, v := range t.Values {
			if !contains(scoring.ValueDimensions, v) {
				problems = append(problems, fmt.Sprintf("track %q: unknown value %q", id, v))
			}
		}
		for _, f := range t.Fields {
			if _, ok := stream.Reference(stream.ProgramField(f)); !ok {
				problems = append(problems, fmt.Sprintf("track %q: unknown field %q", id, f))
			}
		}
		for _, s := range t.SubStreams {
			if !knownSubStreams[s] {
				problems = append(problems, fmt.Sprintf("track %q: unknown substream %q", id, s))
			}
		}
	}

	for _, cat := range gatedCategories {
		if !c.hasCreativeTrack(cat) {
			problems = append(problems, fmt.Sprintf("category %s has no creative track", cat))
		}
	}
	return problems
}

func (c *Catalog) validateRules() []string {
	var problems []string
	seen := make(map[string]int, len(c.rules))
	defaults := make(map[string]bool)

	for i, r := range c.rules {
		cat, ok := ruleCategory(r.Category)
		if !ok {
			problems = append(problems, fmt.Sprintf("rule %d: unknown category %q", i, r.Category))
			continue
		}
		if r.SubStream != "" && !knownSubStreams[r.SubStream] {
			problems = append(problems, fmt.Sprintf("rule %d: unknown substream %q", i, r.SubStream))
		}
		if r.Field != "" {
			if _, ok := stream.Reference(stream.ProgramField(r.Field)); !ok {
				problems = append(problems, fmt.Sprintf("rule %d: unknown field %q", i, r.Field))
			}
		}
		for _, l := range r.Interest {
			if !scoring.IsInterestType(l) {
				problems = append(problems, fmt.Sprintf("rule %d: unknown interest type %q", i, l))
			}
		}

		if len(r.Tracks) != ClustersPerBrief {
			problems = append(problems, fmt.Sprintf("rule %d: expected %d tracks, got %d", i, ClustersPerBrief, len(r.Tracks)))
		}
		picked := make(map[string]bool, len(r.Tracks))
		for _, id := range r.Tracks {
			if picked[id] {
				problems = append(problems, fmt.Sprintf("rule %d: track %q listed twice", i, id))
			}
			picked[id] = true

			t, ok := c.tracks[id]
			if !ok {
				problems = append(problems, fmt.Sprintf("rule %d: unknown track %q", i, id))
				continue
			}
			if !c.Permitted(t, cat) {
				problems = append(problems, fmt.Sprintf("rule %d: track %q is outside category %s", i, id, r.Category))
			}
		}

		key := r.Key()
		if first, dup := seen[key]; dup {
			c.conflicts = append(c.conflicts, Conflict{Key: key, Kept: first, Shadowed: i, Tracks: r.Tracks})
		} else {
			seen[key] = i
		}
		if r.isDefault() {
			defaults[r.Category] = true
		}
	}

	for _, cat := range []string{string(models.StreamScience), string(models.StreamCommerce), string(models.StreamArts), CategoryAny} {
		if !defaults[cat] {
			problems = append(problems, fmt.Sprintf("category %s has no default rule", cat))
		}
	}
	return problems
}

func (c *Catalog) hasCreativeTrack(cat models.StreamCategory) bool {
	for _, id := range c.order {
		t := c.tracks[id]
		if c.IsCreative(t) && c.Permitted(t, cat) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
