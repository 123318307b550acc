// Package brief compiles an assessment submission into the instruction brief
// handed to the career reasoning service.
package brief

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"career-brief-workers/internal/careers"
	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/dispatch"
	"career-brief-workers/internal/models"
	"career-brief-workers/internal/scoring"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options tune a Compiler. Zero values keep each strategy's defaults.
type Options struct {
	InterestBaseline int
}

// Compiler is safe for concurrent use: it holds only parsed templates and an
// immutable catalog.
type Compiler struct {
	catalog     *careers.Catalog
	tmpl        *template.Template
	opts        Options
	fingerprint string
}

var funcMap = template.FuncMap{
	"join":      strings.Join,
	"typeName":  func(t string) string { return scoring.InterestTypeNames[t] },
	"traitName": func(d string) string { return scoring.PersonalityDimensionNames[d] },
	"lpa":       lpa,
	"inc":       func(i int) int { return i + 1 },
	"evidenceKeys": func() []string {
		return careers.EvidenceKeys
	},
}

// NewCompiler parses the strategy templates. A nil catalog uses the embedded
// default table.
func NewCompiler(catalog *careers.Catalog, opts Options) (*Compiler, error) {
	if catalog == nil {
		var err error
		if catalog, err = careers.Default(); err != nil {
			return nil, err
		}
	}

	tmpl, err := template.New("brief").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse brief templates: %w", err)
	}
	for _, s := range dispatch.Strategies {
		if tmpl.Lookup(string(s)+".tmpl") == nil {
			return nil, fmt.Errorf("no template for strategy %s", s)
		}
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|baseline=%d", catalog.Fingerprint(), opts.InterestBaseline)))
	return &Compiler{
		catalog:     catalog,
		tmpl:        tmpl,
		opts:        opts,
		fingerprint: hex.EncodeToString(sum[:])[:16],
	}, nil
}

// Fingerprint identifies the catalog and options a compiler renders with.
// Compilers with equal fingerprints produce identical briefs.
func (c *Compiler) Fingerprint() string {
	return c.fingerprint
}

// Compile scores the submission, matches career clusters and renders the
// strategy brief. It has no side effects; identical submissions give
// identical briefs.
func (c *Compiler) Compile(sub *models.Submission) (*models.CompiledBrief, error) {
	if sub == nil {
		return nil, apperrors.NewMalformedInputError("submission", "submission is empty", nil)
	}

	profile := dispatch.Dispatch(sub.Context)
	baseline := profile.InterestBaseline
	if c.opts.InterestBaseline > 0 {
		baseline = c.opts.InterestBaseline
	}

	token, err := Token(sub)
	if err != nil {
		return nil, apperrors.NewMalformedInputError("submission", fmt.Sprintf("cannot encode submission: %v", err), nil)
	}

	scores, err := ScoreSubmission(sub, baseline)
	if err != nil {
		return nil, err
	}

	sc := ResolveStream(profile, sub.Context, scores)
	clusters, err := c.catalog.Match(sc.MatchContext(profile), scores)
	if err != nil {
		return nil, err
	}

	v := c.buildView(token, profile, sub, scores, sc, clusters)
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, profile.Template, v); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", profile.Template, err)
	}

	return &models.CompiledBrief{
		Token:          token,
		Strategy:       string(profile.Strategy),
		Text:           buf.String(),
		StreamCategory: sc.Category,
		InterestCode:   scores.Interest.Code,
		Clusters:       clusters,
		Scores:         scores,
	}, nil
}

type interestRow struct {
	Type    string
	Name    string
	Score   int
	Percent int
}

type traitRow struct {
	Name  string
	Score float64
}

type timingRow struct {
	Section string
	Minutes string
}

type view struct {
	Token         string
	Profile       *dispatch.Profile
	Student       models.StudentContext
	Scores        *models.ScoreSet
	Interest      []interestRow
	Personality   []traitRow
	Values        []traitRow
	Stream        StreamContext
	Clusters      []models.CareerCluster
	Permitted     []string
	Excluded      []string
	Elite         bool
	Timings       []timingRow
	Contract      []string
	ContractTiers []careers.Band
}

func (c *Compiler) buildView(token string, p *dispatch.Profile, sub *models.Submission,
	scores *models.ScoreSet, sc StreamContext, clusters []models.CareerCluster) view {
	v := view{
		Token:         token,
		Profile:       p,
		Student:       sub.Context,
		Scores:        scores,
		Stream:        sc,
		Clusters:      clusters,
		Elite:         scores.Adaptive != nil && scores.Adaptive.HighAptitude,
		Contract:      Describe(ContractSchema(p.Strategy, token)),
		ContractTiers: careers.Bands(),
	}

	for _, t := range scoring.InterestTypes {
		v.Interest = append(v.Interest, interestRow{
			Type:    t,
			Name:    scoring.InterestTypeNames[t],
			Score:   scores.Interest.Scores[t],
			Percent: scores.Interest.Percentage(t),
		})
	}
	if s := scores.Personality; s != nil {
		for _, d := range s.Dimensions {
			v.Personality = append(v.Personality, traitRow{Name: scoring.PersonalityDimensionNames[d], Score: s.Scores[d]})
		}
	}
	if s := scores.Values; s != nil {
		for _, d := range s.Dimensions {
			v.Values = append(v.Values, traitRow{Name: d, Score: s.Scores[d]})
		}
	}

	if sc.Category != models.StreamNone {
		v.Permitted = c.catalog.PermittedTitles(sc.Category)
		v.Excluded = c.catalog.ExcludedFamilies(sc.Category)
	}

	sections := make([]string, 0, len(sub.SectionTimings))
	for s := range sub.SectionTimings {
		sections = append(sections, s)
	}
	sort.Strings(sections)
	for _, s := range sections {
		secs := sub.SectionTimings[s]
		v.Timings = append(v.Timings, timingRow{Section: s, Minutes: fmt.Sprintf("%dm %02ds", secs/60, secs%60)})
	}
	return v
}

func lpa(r models.SalaryRange) string {
	if r.Min == 0 && r.Max == 0 {
		return "not listed"
	}
	return fmt.Sprintf("%d-%d LPA", r.Min, r.Max)
}
