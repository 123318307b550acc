// Package careers holds the career track catalog and turns instrument scores
// into three ranked, evidence-backed career clusters.
package careers

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/models"

	"gopkg.in/yaml.v3"
)

// CategoryAny is the rule category consulted when the stream is unclassified.
const CategoryAny = "any"

// ClustersPerBrief is the fixed number of candidates per rule.
const ClustersPerBrief = 3

//go:embed tracks.yaml
var defaultTable []byte

type Roles struct {
	Entry []string `yaml:"entry"`
	Mid   []string `yaml:"mid"`
}

type SalaryBands struct {
	Entry models.SalaryRange `yaml:"entry"`
	Mid   models.SalaryRange `yaml:"mid"`
}

// Track is one career track of the catalog.
type Track struct {
	ID         string                  `yaml:"id"`
	Title      string                  `yaml:"title"`
	Family     string                  `yaml:"family"`
	Categories []models.StreamCategory `yaml:"categories"`
	Fields     []string                `yaml:"fields"`
	SubStreams []string                `yaml:"substreams"`
	Interest   []string                `yaml:"interest"`
	Aptitude   []string                `yaml:"aptitude"`
	Traits     []string                `yaml:"traits"`
	Values     []string                `yaml:"values"`
	Roles      Roles                   `yaml:"roles"`
	Domains    []string                `yaml:"domains"`
	Exams      []string                `yaml:"exams"`
	Education  string                  `yaml:"education"`
	Focus      []string                `yaml:"focus"`
	Salary     SalaryBands             `yaml:"salary"`
}

// AllowedFor reports whether the track lists the category. The null
// category allows every track.
func (t *Track) AllowedFor(category models.StreamCategory) bool {
	if category == models.StreamNone {
		return true
	}
	for _, c := range t.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Rule selects three tracks, High then Medium then Explore. Empty selectors
// match anything; every interest letter must be among the top three types.
type Rule struct {
	Category  string   `yaml:"category"`
	SubStream string   `yaml:"substream"`
	Field     string   `yaml:"field"`
	Interest  []string `yaml:"interest"`
	Tracks    []string `yaml:"tracks"`
}

// Key identifies the selector combination of a rule.
func (r Rule) Key() string {
	letters := append([]string(nil), r.Interest...)
	sort.Strings(letters)
	return fmt.Sprintf("%s|%s|%s|%s", r.Category, r.SubStream, r.Field, strings.Join(letters, ""))
}

func (r Rule) isDefault() bool {
	return r.SubStream == "" && r.Field == "" && len(r.Interest) == 0
}

// Conflict is a rule shadowed by an earlier rule with the same selectors.
// The earlier rule always wins.
type Conflict struct {
	Key      string
	Kept     int
	Shadowed int
	Tracks   []string
}

type table struct {
	CreativeFamilies []string            `yaml:"creative_families"`
	Exclusions       map[string][]string `yaml:"exclusions"`
	Tracks           []Track             `yaml:"tracks"`
	Rules            []Rule              `yaml:"rules"`
}

// Catalog is an immutable, validated rule table.
type Catalog struct {
	tracks     map[string]*Track
	order      []string
	rules      []Rule
	exclusions map[models.StreamCategory]map[string]bool
	creative   map[string]bool
	conflicts  []Conflict
	digest     string
}

// Load parses and validates a rule table. Any defect is a RuleTableInvalid
// error listing every problem found.
func Load(data []byte) (*Catalog, error) {
	var t table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, apperrors.NewRuleTableInvalidError(fmt.Sprintf("decode: %v", err))
	}

	c := &Catalog{
		tracks:     make(map[string]*Track, len(t.Tracks)),
		rules:      t.Rules,
		exclusions: make(map[models.StreamCategory]map[string]bool, len(t.Exclusions)),
		creative:   make(map[string]bool, len(t.CreativeFamilies)),
	}
	sum := sha256.Sum256(data)
	c.digest = hex.EncodeToString(sum[:])
	for _, f := range t.CreativeFamilies {
		c.creative[f] = true
	}
	for cat, families := range t.Exclusions {
		set := make(map[string]bool, len(families))
		for _, f := range families {
			set[f] = true
		}
		c.exclusions[models.StreamCategory(cat)] = set
	}

	var problems []string
	for i := range t.Tracks {
		track := &t.Tracks[i]
		if _, dup := c.tracks[track.ID]; dup {
			problems = append(problems, fmt.Sprintf("track %q declared twice", track.ID))
			continue
		}
		c.tracks[track.ID] = track
		c.order = append(c.order, track.ID)
	}

	problems = append(problems, c.validateTracks()...)
	problems = append(problems, c.validateRules()...)
	if len(problems) > 0 {
		return nil, apperrors.NewRuleTableInvalidError(strings.Join(problems, "; "))
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(defaultTable)
})

// Default returns the embedded catalog, parsed once per process.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Fingerprint is the sha256 of the table the catalog was loaded from.
func (c *Catalog) Fingerprint() string {
	return c.digest
}

// Track looks up a track by id.
func (c *Catalog) Track(id string) (*Track, bool) {
	t, ok := c.tracks[id]
	return t, ok
}

// Tracks returns track ids in catalog order.
func (c *Catalog) Tracks() []string {
	return append([]string(nil), c.order...)
}

// Rules returns the rules in priority order.
func (c *Catalog) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Conflicts lists rules shadowed by an earlier rule with identical selectors.
func (c *Catalog) Conflicts() []Conflict {
	return append([]Conflict(nil), c.conflicts...)
}

// IsCreative reports whether a track belongs to a creative family.
func (c *Catalog) IsCreative(t *Track) bool {
	return c.creative[t.Family]
}

// Permitted reports whether a track may be proposed under a category: it must
// be listed for the category and its family must not be excluded.
func (c *Catalog) Permitted(t *Track, category models.StreamCategory) bool {
	if !t.AllowedFor(category) {
		return false
	}
	return !c.exclusions[category][t.Family]
}

func ruleCategory(name string) (models.StreamCategory, bool) {
	switch name {
	case CategoryAny:
		return models.StreamNone, true
	case string(models.StreamScience), string(models.StreamCommerce), string(models.StreamArts):
		return models.StreamCategory(name), true
	default:
		return "", false
	}
}

// ExcludedFamilies lists the families a category rules out, sorted.
func (c *Catalog) ExcludedFamilies(category models.StreamCategory) []string {
	out := make([]string, 0, len(c.exclusions[category]))
	for f := range c.exclusions[category] {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// PermittedTitles lists, in catalog order, the titles of every track that may
// be proposed under a category.
func (c *Catalog) PermittedTitles(category models.StreamCategory) []string {
	var out []string
	for _, id := range c.order {
		if t := c.tracks[id]; c.Permitted(t, category) {
			out = append(out, t.Title)
		}
	}
	return out
}
