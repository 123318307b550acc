// internal/stream/stream_test.go
package stream

import (
	"testing"

	"career-brief-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input    string
		expected models.StreamCategory
	}{
		{"Arts", models.StreamArts},
		{"HUMANITIES", models.StreamArts},
		{"Science PCM", models.StreamScience},
		{"pcb", models.StreamScience},
		{"Commerce with Maths", models.StreamCommerce},
		{"arts and science", models.StreamArts},
		{"Vocational", models.StreamNone},
		{"", models.StreamNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.input))
		})
	}
}

func TestSubStream(t *testing.T) {
	assert.Equal(t, SubStreamPCMB, SubStream("Science PCMB"))
	assert.Equal(t, SubStreamPCM, SubStream("science_pcm"))
	assert.Equal(t, SubStreamPCB, SubStream("PCB"))
	assert.Equal(t, "", SubStream("Commerce"))
}

func TestClassifyProgram(t *testing.T) {
	tests := []struct {
		input    string
		field    ProgramField
		category models.StreamCategory
	}{
		{"MCA", FieldTechnology, models.StreamScience},
		{"B.Tech Computer Science", FieldTechnology, models.StreamScience},
		{"B.Tech Mechanical", FieldEngineering, models.StreamScience},
		{"B.Tech Biotechnology", FieldLifeSciences, models.StreamScience},
		{"MBBS", FieldHealthcare, models.StreamScience},
		{"B.Pharm", FieldPharmacy, models.StreamScience},
		{"M.Sc Physics", FieldPureSciences, models.StreamScience},
		{"B.Sc Agriculture", FieldAgriculture, models.StreamScience},
		{"B.Arch", FieldArchitecture, models.StreamScience},
		{"MBA Finance", FieldBusiness, models.StreamCommerce},
		{"B.Com (Hons)", FieldCommerce, models.StreamCommerce},
		{"BA LLB", FieldLaw, models.StreamArts},
		{"BA Political Science", FieldArtsHumanities, models.StreamArts},
		{"B.Des Fashion", FieldDesign, models.StreamArts},
		{"Hotel and Catering", FieldUnknown, models.StreamNone},
		{"", FieldUnknown, models.StreamNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field := ClassifyProgram(tt.input)
			assert.Equal(t, tt.field, field)
			assert.Equal(t, tt.category, field.Category())
		})
	}
}

func TestReference(t *testing.T) {
	ref, ok := Reference(FieldPharmacy)
	assert.True(t, ok)
	assert.Contains(t, ref.Roles, "Clinical Pharmacist")

	_, ok = Reference(FieldUnknown)
	assert.False(t, ok)
}

func TestRecommendStream(t *testing.T) {
	strongNumerical := &models.AptitudeScore{Domains: map[string]models.AptitudeDomainScore{
		"numerical": {Correct: 7, Total: 8, Percentage: 88},
	}}
	weakNumerical := &models.AptitudeScore{Domains: map[string]models.AptitudeDomainScore{
		"numerical": {Correct: 2, Total: 8, Percentage: 25},
	}}

	tests := []struct {
		name     string
		top      []string
		aptitude *models.AptitudeScore
		stream   string
		category models.StreamCategory
	}{
		{"I R S goes PCMB", []string{"S", "I", "R"}, strongNumerical, "Science (PCMB)", models.StreamScience},
		{"I R goes PCM", []string{"I", "R", "C"}, strongNumerical, "Science (PCM)", models.StreamScience},
		{"I S goes PCB", []string{"I", "S", "A"}, nil, "Science (PCB)", models.StreamScience},
		{"E C goes commerce", []string{"E", "C", "R"}, nil, "Commerce", models.StreamCommerce},
		{"A S goes arts", []string{"A", "S", "C"}, nil, "Arts/Humanities", models.StreamArts},
		{"weak numerical skips PCM", []string{"I", "R", "C"}, weakNumerical, "Science (PCM)", ""},
		{"no signal", nil, nil, "Arts/Humanities", models.StreamArts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecommendStream(tt.top, tt.aptitude)
			if tt.category == "" {
				assert.NotEqual(t, tt.stream, rec.Stream)
				assert.NotEqual(t, models.StreamScience, rec.Category)
				return
			}
			assert.Equal(t, tt.stream, rec.Stream)
			assert.Equal(t, tt.category, rec.Category)
			assert.NotEmpty(t, rec.Pattern)
		})
	}
}
