// internal/brief/brief_test.go
package brief

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"career-brief-workers/internal/careers"
	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/dispatch"
	"career-brief-workers/internal/models"
	"career-brief-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func interestAnswers(counts map[string]int) []models.InterestAnswer {
	var out []models.InterestAnswer
	for _, t := range scoring.InterestTypes {
		for i := 0; i < counts[t]; i++ {
			out = append(out, models.InterestAnswer{
				QuestionID: fmt.Sprintf("q-%s-%d", t, i),
				Kind:       models.AnswerSingle,
				Selected:   []string{"opt"},
				Mapping:    map[string]string{"opt": t},
			})
		}
	}
	return out
}

func likert(dims []string, perDim int, value int) []models.LikertItem {
	var out []models.LikertItem
	for _, d := range dims {
		for i := 0; i < perDim; i++ {
			out = append(out, models.LikertItem{QuestionID: fmt.Sprintf("%s-%d", d, i), Dimension: d, Value: value})
		}
	}
	return out
}

// createTestSubmission answers every instrument so any strategy can compile.
func createTestSubmission(level, stream string, counts map[string]int) *models.Submission {
	return &models.Submission{
		AttemptID:   "attempt-1",
		StudentID:   "student-1",
		Context:     models.StudentContext{GradeLevel: level, Stream: stream},
		Interest:    interestAnswers(counts),
		Personality: likert(scoring.PersonalityDimensions, 6, 4),
		Values:      likert(scoring.ValueDimensions, 3, 3),
		Aptitude: map[string]models.AptitudePair{
			"verbal":    {Correct: 5, Total: 8},
			"numerical": {Correct: 6, Total: 8},
			"abstract":  {Correct: 4, Total: 8},
			"spatial":   {Correct: 3, Total: 6},
			"clerical":  {Correct: 12, Total: 20},
		},
		Employability: &models.EmployabilityAnswers{
			SelfRating: likert(scoring.EmployabilitySkills, 1, 4),
			SJT: []models.SJTItem{
				{QuestionID: "sjt-1", Chosen: "b", Best: "b"},
				{QuestionID: "sjt-2", Chosen: "a", Best: "c"},
			},
		},
		Knowledge: []models.KnowledgeItem{
			{QuestionID: "k1", Topic: "history", Correct: true},
			{QuestionID: "k2", Topic: "history", Correct: true},
			{QuestionID: "k3", Topic: "economics", Correct: false},
			{QuestionID: "k4", Topic: "economics", Correct: true},
		},
		SectionTimings: map[string]int{"interest": 310, "aptitude": 905},
	}
}

func irs() map[string]int { return map[string]int{"I": 5, "R": 4, "S": 3} }

func createTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	c, err := NewCompiler(nil, Options{})
	require.NoError(t, err)
	return c
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok, "expected StandardError, got %T", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Token Tests
// ==========================

func TestToken_Format(t *testing.T) {
	token, err := Token(createTestSubmission("grade 9", "", irs()))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(TokenPattern), token)
}

func TestToken_MultiSelectOrderDoesNotMatter(t *testing.T) {
	mk := func(selected ...string) *models.Submission {
		sub := createTestSubmission("grade 9", "", irs())
		sub.Interest = append(sub.Interest, models.InterestAnswer{
			QuestionID: "multi",
			Kind:       models.AnswerMulti,
			Selected:   selected,
			Mapping:    map[string]string{"x": "A", "y": "E"},
		})
		return sub
	}

	a, err := Token(mk("x", "y"))
	require.NoError(t, err)
	b, err := Token(mk("y", "x"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestToken_AnswerOrderMatters(t *testing.T) {
	sub := createTestSubmission("grade 9", "", irs())
	swapped := createTestSubmission("grade 9", "", irs())
	swapped.Interest[0], swapped.Interest[1] = swapped.Interest[1], swapped.Interest[0]

	a, err := Token(sub)
	require.NoError(t, err)
	b, err := Token(swapped)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestToken_DoesNotMutateSubmission(t *testing.T) {
	sub := createTestSubmission("grade 9", "", irs())
	sub.Interest = append(sub.Interest, models.InterestAnswer{
		QuestionID: "multi", Kind: models.AnswerMulti,
		Selected: []string{"y", "x"}, Mapping: map[string]string{"x": "A", "y": "E"},
	})

	_, err := Token(sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x"}, sub.Interest[len(sub.Interest)-1].Selected)
}

// ==========================
// Compile Tests
// ==========================

func TestCompile_Strategies(t *testing.T) {
	c := createTestCompiler(t)

	tests := []struct {
		name           string
		submission     func() *models.Submission
		expectedStrat  dispatch.Strategy
		validateOutput func(t *testing.T, b *models.CompiledBrief)
	}{
		{
			name:          "middle school stays ungated",
			submission:    func() *models.Submission { return createTestSubmission("Grade 7", "", irs()) },
			expectedStrat: dispatch.StrategyMiddle,
			validateOutput: func(t *testing.T, b *models.CompiledBrief) {
				assert.Equal(t, models.StreamNone, b.StreamCategory)
				assert.Contains(t, b.Text, "middle school students")
				assert.NotContains(t, b.Text, "## Stream constraints")
			},
		},
		{
			name:          "high school includes values",
			submission:    func() *models.Submission { return createTestSubmission("high school", "", irs()) },
			expectedStrat: dispatch.StrategyHighSchool,
			validateOutput: func(t *testing.T, b *models.CompiledBrief) {
				assert.Contains(t, b.Text, "## Work values")
				for _, cl := range b.Clusters {
					assert.Contains(t, cl.Evidence, models.EvidenceValues)
				}
			},
		},
		{
			name:          "higher secondary gates on declared stream",
			submission:    func() *models.Submission { return createTestSubmission("higher secondary", "Arts/Humanities", irs()) },
			expectedStrat: dispatch.StrategyHigherSecondary,
			validateOutput: func(t *testing.T, b *models.CompiledBrief) {
				assert.Equal(t, models.StreamArts, b.StreamCategory)
				assert.Contains(t, b.Text, "are not allowed: ")
				for _, cl := range b.Clusters {
					for _, key := range careers.EvidenceKeys {
						assert.NotEmpty(t, cl.Evidence[key], "%s missing %s", cl.TrackID, key)
					}
				}
			},
		},
		{
			name:          "after 10th recommends a stream",
			submission:    func() *models.Submission { return createTestSubmission("after 10th", "", irs()) },
			expectedStrat: dispatch.StrategyAfter10,
			validateOutput: func(t *testing.T, b *models.CompiledBrief) {
				assert.Equal(t, models.StreamScience, b.StreamCategory)
				assert.Contains(t, b.Text, "Recommended stream: Science (PCMB)")
			},
		},
		{
			name: "after 12th maps the program field",
			submission: func() *models.Submission {
				sub := createTestSubmission("college", "", irs())
				sub.Context.ProgramName = "B.Tech Computer Science"
				sub.Context.DegreeLevel = "M.Tech"
				return sub
			},
			expectedStrat: dispatch.StrategyAfter12,
			validateOutput: func(t *testing.T, b *models.CompiledBrief) {
				assert.Equal(t, models.StreamScience, b.StreamCategory)
				assert.Contains(t, b.Text, "## Program field: Technology & IT")
				assert.Contains(t, b.Text, "Degree level: postgraduate.")
				assert.Contains(t, b.Text, "- senior: 30-60 LPA")
				assert.Equal(t, "technology_innovation", b.Clusters[0].TrackID)
			},
		},
		{
			name:          "unknown level falls back to after 12th",
			submission:    func() *models.Submission { return createTestSubmission("sophomore-ish", "", irs()) },
			expectedStrat: dispatch.StrategyAfter12,
			validateOutput: func(t *testing.T, b *models.CompiledBrief) {
				assert.Equal(t, models.StreamNone, b.StreamCategory)
				assert.Contains(t, b.Text, "The stream could not be classified")
				assert.Equal(t, scoring.CollegeInterestBaseline, b.Scores.Interest.MaxScore)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := c.Compile(tt.submission())
			require.NoError(t, err)
			assert.Equal(t, string(tt.expectedStrat), b.Strategy)
			assert.Equal(t, "IRS", b.InterestCode)
			assert.Contains(t, b.Text, b.Token)
			assert.Contains(t, b.Text, "## Output contract")
			if tt.validateOutput != nil {
				tt.validateOutput(t, b)
			}
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	c := createTestCompiler(t)

	first, err := c.Compile(createTestSubmission("grade 11", "Science PCM", irs()))
	require.NoError(t, err)
	second, err := c.Compile(createTestSubmission("grade 11", "Science PCM", irs()))
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first, second)
}

func TestCompile_DeterministicUnderConcurrency(t *testing.T) {
	c := createTestCompiler(t)
	inputs := []func() *models.Submission{
		func() *models.Submission { return createTestSubmission("grade 7", "", irs()) },
		func() *models.Submission { return createTestSubmission("grade 11", "Commerce", map[string]int{"E": 5, "C": 4, "S": 2}) },
		func() *models.Submission { return createTestSubmission("after 10", "", map[string]int{"A": 6, "S": 3, "E": 1}) },
	}

	want := make([]*models.CompiledBrief, len(inputs))
	for i, in := range inputs {
		b, err := c.Compile(in())
		require.NoError(t, err)
		want[i] = b
	}

	const rounds = 8
	got := make([]*models.CompiledBrief, rounds*len(inputs))
	errs := make([]error, len(got))
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = c.Compile(inputs[i%len(inputs)]())
		}(i)
	}
	wg.Wait()

	for i := range got {
		require.NoError(t, errs[i])
		assert.Equal(t, want[i%len(inputs)].Token, got[i].Token)
		assert.Equal(t, want[i%len(inputs)].Text, got[i].Text)
	}
}

func TestCompile_ArtsStreamExcludesScienceFamilies(t *testing.T) {
	c := createTestCompiler(t)
	catalog, err := careers.Default()
	require.NoError(t, err)
	excluded := catalog.ExcludedFamilies(models.StreamArts)
	require.NotEmpty(t, excluded)

	for _, counts := range []map[string]int{irs(), {"R": 6, "I": 5, "C": 1}, {"A": 4, "I": 3, "S": 2}} {
		b, err := c.Compile(createTestSubmission("grade 12", "Humanities", counts))
		require.NoError(t, err)
		for _, cl := range b.Clusters {
			assert.NotContains(t, excluded, cl.Family, "track %s proposed under arts", cl.TrackID)
		}
	}
}

func TestCompile_ClusterOrderingAndBands(t *testing.T) {
	c := createTestCompiler(t)
	b, err := c.Compile(createTestSubmission("grade 12", "Science PCB", map[string]int{"I": 6, "S": 5, "R": 2}))
	require.NoError(t, err)
	require.Len(t, b.Clusters, 3)

	for i, band := range careers.Bands() {
		cl := b.Clusters[i]
		assert.Equal(t, band.Tier, cl.Fit)
		assert.GreaterOrEqual(t, cl.MatchScore, band.Min)
		assert.LessOrEqual(t, cl.MatchScore, band.Max)
	}
	assert.GreaterOrEqual(t, b.Clusters[0].MatchScore, b.Clusters[1].MatchScore)
	assert.GreaterOrEqual(t, b.Clusters[1].MatchScore, b.Clusters[2].MatchScore)
}

func TestCompile_ScoresVaryAcrossProfiles(t *testing.T) {
	c := createTestCompiler(t)

	strong := createTestSubmission("grade 9", "", map[string]int{"I": 9, "R": 8, "S": 7})
	weak := createTestSubmission("grade 9", "", map[string]int{"I": 3, "R": 2, "S": 1})
	weak.Aptitude["numerical"] = models.AptitudePair{Correct: 1, Total: 8}
	weak.Aptitude["abstract"] = models.AptitudePair{Correct: 1, Total: 8}

	a, err := c.Compile(strong)
	require.NoError(t, err)
	b, err := c.Compile(weak)
	require.NoError(t, err)

	scores := func(br *models.CompiledBrief) []int {
		out := make([]int, len(br.Clusters))
		for i, cl := range br.Clusters {
			out[i] = cl.MatchScore
		}
		return out
	}
	assert.NotEqual(t, scores(a), scores(b))
}

func TestCompile_EliteAnnotation(t *testing.T) {
	c := createTestCompiler(t)

	sub := createTestSubmission("grade 9", "", irs())
	sub.Adaptive = &models.AdaptiveResult{
		Level:            5,
		OverallAccuracy:  82,
		AccuracyBySubtag: map[string]float64{"logical_reasoning": 90, "verbal_ability": 70, "data_interpretation": 45},
	}
	b, err := c.Compile(sub)
	require.NoError(t, err)
	assert.Contains(t, b.Text, "## High-aptitude student")
	assert.Contains(t, b.Text, "Strengths (70% and above): logical reasoning (90%), verbal ability (70%)")
	assert.Contains(t, b.Text, "Growth areas (below 50%): data interpretation (45%)")

	plain, err := c.Compile(createTestSubmission("grade 9", "", irs()))
	require.NoError(t, err)
	assert.NotContains(t, plain.Text, "High-aptitude")
}

func TestCompile_SectionTimingsSorted(t *testing.T) {
	c := createTestCompiler(t)
	b, err := c.Compile(createTestSubmission("grade 7", "", irs()))
	require.NoError(t, err)

	aptitude := strings.Index(b.Text, "- aptitude: 15m 05s")
	interest := strings.Index(b.Text, "- interest: 5m 10s")
	require.NotEqual(t, -1, aptitude)
	require.NotEqual(t, -1, interest)
	assert.Less(t, aptitude, interest)
}

func TestCompile_InterestBaselineOverride(t *testing.T) {
	c, err := NewCompiler(nil, Options{InterestBaseline: 30})
	require.NoError(t, err)

	b, err := c.Compile(createTestSubmission("grade 9", "", irs()))
	require.NoError(t, err)
	assert.Equal(t, 30, b.Scores.Interest.MaxScore)
}

func TestCompile_Errors(t *testing.T) {
	c := createTestCompiler(t)

	tests := []struct {
		name         string
		submission   func() *models.Submission
		expectedCode apperrors.ErrorCode
	}{
		{
			name:         "nil submission",
			submission:   func() *models.Submission { return nil },
			expectedCode: apperrors.ErrCodeMalformedInput,
		},
		{
			name: "likert value out of range",
			submission: func() *models.Submission {
				sub := createTestSubmission("grade 9", "", irs())
				sub.Personality[0].Value = 7
				return sub
			},
			expectedCode: apperrors.ErrCodeMalformedInput,
		},
		{
			name: "interest answer without mapping",
			submission: func() *models.Submission {
				sub := createTestSubmission("grade 9", "", irs())
				sub.Interest[0].Mapping = nil
				return sub
			},
			expectedCode: apperrors.ErrCodeMalformedInput,
		},
		{
			name: "higher secondary without knowledge quiz",
			submission: func() *models.Submission {
				sub := createTestSubmission("grade 11", "Commerce", irs())
				sub.Knowledge = nil
				return sub
			},
			expectedCode: apperrors.ErrCodeEvidenceIncomplete,
		},
		{
			name: "middle school without personality",
			submission: func() *models.Submission {
				sub := createTestSubmission("grade 7", "", irs())
				sub.Personality = nil
				return sub
			},
			expectedCode: apperrors.ErrCodeEvidenceIncomplete,
		},
		{
			name: "no interest answers",
			submission: func() *models.Submission {
				return createTestSubmission("grade 9", "", nil)
			},
			expectedCode: apperrors.ErrCodeEvidenceIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := c.Compile(tt.submission())
			assert.Nil(t, b)
			assertCode(t, err, tt.expectedCode)
		})
	}
}

// ==========================
// Contract Tests
// ==========================

func TestDescribe_RequiredFieldsFirst(t *testing.T) {
	lines := Describe(ContractSchema(dispatch.StrategyAfter10, ""))
	require.NotEmpty(t, lines)

	assert.True(t, strings.HasPrefix(lines[0], "- token (string, required): "))
	assert.Contains(t, lines[0], "pattern "+TokenPattern)

	text := strings.Join(lines, "\n")
	assert.Contains(t, text, "- careerClusters (array, required): exactly three clusters ranked High, Medium, Explore; exactly 3 items")
	assert.Contains(t, text, "  - item 1 (object, required): High fit cluster")
	assert.Contains(t, text, "    - matchScore (integer, required): between 80 and 100")
	assert.Contains(t, text, "- streamRecommendation (object, required)")
	assert.Contains(t, text, "- elitePathways (array, optional)")
	assert.NotContains(t, text, "programAlignment")
}

func TestContractSchema_EvidenceFollowsStrategy(t *testing.T) {
	evidenceOf := func(s dispatch.Strategy) []string {
		schema := ContractSchema(s, "")
		clusters := schema["properties"].(map[string]interface{})["careerClusters"].(map[string]interface{})
		first := clusters["items"].([]interface{})[0].(map[string]interface{})
		ev := first["properties"].(map[string]interface{})["evidence"].(map[string]interface{})
		return ev["required"].([]string)
	}

	assert.Equal(t, careers.EvidenceKeys, evidenceOf(dispatch.StrategyHigherSecondary))
	assert.NotContains(t, evidenceOf(dispatch.StrategyMiddle), models.EvidenceKnowledge)
}

func validReport(b *models.CompiledBrief) map[string]interface{} {
	clusters := make([]interface{}, 0, len(b.Clusters))
	for _, cl := range b.Clusters {
		clusters = append(clusters, map[string]interface{}{
			"title":         cl.Title,
			"fit":           string(cl.Fit),
			"matchScore":    cl.MatchScore,
			"evidence":      cl.Evidence,
			"roles":         cl.EntryRoles,
			"educationPath": cl.EducationPath,
		})
	}
	return map[string]interface{}{
		"token":          b.Token,
		"strategy":       b.Strategy,
		"careerClusters": clusters,
		"scores": map[string]interface{}{
			"riasec":   b.Scores.Interest,
			"aptitude": b.Scores.Aptitude,
			"bigFive":  b.Scores.Personality,
		},
		"summary":          "A curious, hands-on problem solver.",
		"nextSteps":        []string{"Build one small software project"},
		"programAlignment": map[string]interface{}{"field": "technology", "fitSummary": "Strong fit."},
	}
}

func TestValidateResult(t *testing.T) {
	c := createTestCompiler(t)
	sub := createTestSubmission("college", "", irs())
	sub.Context.ProgramName = "BCA"
	b, err := c.Compile(sub)
	require.NoError(t, err)

	tests := []struct {
		name          string
		mutate        func(r map[string]interface{})
		raw           []byte
		expectError   bool
		expectProblem string
	}{
		{
			name:   "valid report",
			mutate: func(r map[string]interface{}) {},
		},
		{
			name:          "wrong token",
			mutate:        func(r map[string]interface{}) { r["token"] = "cb_00000000000000000000000000000000" },
			expectError:   true,
			expectProblem: "token",
		},
		{
			name: "score outside band",
			mutate: func(r map[string]interface{}) {
				r["careerClusters"].([]interface{})[0].(map[string]interface{})["matchScore"] = 65
			},
			expectError:   true,
			expectProblem: "matchScore",
		},
		{
			name: "two clusters only",
			mutate: func(r map[string]interface{}) {
				r["careerClusters"] = r["careerClusters"].([]interface{})[:2]
			},
			expectError:   true,
			expectProblem: "careerClusters",
		},
		{
			name: "missing evidence key",
			mutate: func(r map[string]interface{}) {
				first := r["careerClusters"].([]interface{})[0].(map[string]interface{})
				first["evidence"] = map[string]string{"interest": "RIASEC code IRS"}
			},
			expectError:   true,
			expectProblem: "aptitude",
		},
		{
			name:          "missing program alignment",
			mutate:        func(r map[string]interface{}) { delete(r, "programAlignment") },
			expectError:   true,
			expectProblem: "programAlignment",
		},
		{
			name:          "not json",
			raw:           []byte("Here are your careers:"),
			expectError:   true,
			expectProblem: "not valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.raw
			if raw == nil {
				report := validReport(b)
				tt.mutate(report)
				raw, err = json.Marshal(report)
				require.NoError(t, err)
			}

			err := ValidateResult(dispatch.StrategyAfter12, b.Token, raw)
			if !tt.expectError {
				assert.NoError(t, err)
				return
			}
			assertCode(t, err, apperrors.ErrCodeReportContractViolation)
			assert.Contains(t, err.Error(), tt.expectProblem)
		})
	}
}
