package brief

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"career-brief-workers/internal/careers"
	apperrors "career-brief-workers/internal/common/errors"
	"career-brief-workers/internal/dispatch"
	"career-brief-workers/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// TokenPattern matches a reproducibility token.
const TokenPattern = `^cb_[0-9a-f]{32}$`

// scoreKeys maps evidence keys to the score object echoed back in a report.
var scoreKeys = map[string]string{
	models.EvidenceInterest:      "riasec",
	models.EvidenceAptitude:      "aptitude",
	models.EvidencePersonality:   "bigFive",
	models.EvidenceValues:        "workValues",
	models.EvidenceEmployability: "employability",
	models.EvidenceKnowledge:     "knowledge",
}

// ContractSchema is the JSON Schema a generated report must satisfy for a
// strategy. A non-empty token pins the report to one brief.
func ContractSchema(s dispatch.Strategy, token string) map[string]interface{} {
	required := dispatch.ProfileFor(s, "").RequiredEvidence

	tokenProp := map[string]interface{}{
		"type":        "string",
		"pattern":     TokenPattern,
		"description": "the reproducibility token of this brief, copied verbatim",
	}
	if token != "" {
		tokenProp["const"] = token
	}

	bands := careers.Bands()
	items := make([]interface{}, 0, len(bands))
	for _, b := range bands {
		items = append(items, clusterSchema(b, required))
	}

	scoreProps := make(map[string]interface{}, len(required))
	scoreRequired := make([]string, 0, len(required))
	for _, key := range required {
		scoreProps[scoreKeys[key]] = map[string]interface{}{
			"type":        "object",
			"description": "the " + key + " scores from this brief, unchanged",
		}
		scoreRequired = append(scoreRequired, scoreKeys[key])
	}

	props := map[string]interface{}{
		"token": tokenProp,
		"strategy": map[string]interface{}{
			"type": "string",
			"enum": []string{string(s)},
		},
		"careerClusters": map[string]interface{}{
			"type":            "array",
			"description":     "exactly three clusters ranked High, Medium, Explore",
			"minItems":        len(bands),
			"maxItems":        len(bands),
			"items":           items,
			"additionalItems": false,
		},
		"scores": map[string]interface{}{
			"type":       "object",
			"required":   scoreRequired,
			"properties": scoreProps,
		},
		"summary": map[string]interface{}{
			"type":        "string",
			"minLength":   1,
			"description": "narrative overview addressed to the student",
		},
		"nextSteps": map[string]interface{}{
			"type":        "array",
			"minItems":    1,
			"description": "concrete actions for the next six months",
			"items":       map[string]interface{}{"type": "string"},
		},
		"elitePathways": map[string]interface{}{
			"type":        "array",
			"description": "only when the brief marks the student as high aptitude",
			"items":       map[string]interface{}{"type": "string"},
		},
	}
	top := []string{"token", "strategy", "careerClusters", "scores", "summary", "nextSteps"}

	switch s {
	case dispatch.StrategyAfter10:
		props["streamRecommendation"] = map[string]interface{}{
			"type":     "object",
			"required": []string{"stream", "reasoning"},
			"properties": map[string]interface{}{
				"stream":    map[string]interface{}{"type": "string", "minLength": 1},
				"reasoning": map[string]interface{}{"type": "string", "minLength": 1},
			},
		}
		top = append(top, "streamRecommendation")
	case dispatch.StrategyAfter12:
		props["programAlignment"] = map[string]interface{}{
			"type":     "object",
			"required": []string{"field", "fitSummary"},
			"properties": map[string]interface{}{
				"field":      map[string]interface{}{"type": "string"},
				"fitSummary": map[string]interface{}{"type": "string", "minLength": 1},
			},
		}
		top = append(top, "programAlignment")
	}

	return map[string]interface{}{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"required":   top,
		"properties": props,
	}
}

func clusterSchema(b careers.Band, evidence []string) map[string]interface{} {
	evidenceProps := make(map[string]interface{}, len(evidence))
	for _, key := range evidence {
		evidenceProps[key] = map[string]interface{}{"type": "string", "minLength": 1}
	}
	return map[string]interface{}{
		"type":        "object",
		"description": fmt.Sprintf("%s fit cluster", b.Tier),
		"required":    []string{"title", "fit", "matchScore", "evidence", "roles", "educationPath"},
		"properties": map[string]interface{}{
			"title": map[string]interface{}{"type": "string", "minLength": 1},
			"fit":   map[string]interface{}{"type": "string", "enum": []string{string(b.Tier)}},
			"matchScore": map[string]interface{}{
				"type":    "integer",
				"minimum": b.Min,
				"maximum": b.Max,
			},
			"evidence": map[string]interface{}{
				"type":        "object",
				"description": "one sentence per instrument citing the scores",
				"required":    append([]string(nil), evidence...),
				"properties":  evidenceProps,
			},
			"roles": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]interface{}{"type": "string"},
			},
			"educationPath": map[string]interface{}{"type": "string"},
		},
	}
}

// Describe renders a schema as one line per field, required fields first in
// declaration order and optional fields sorted by name.
func Describe(schema map[string]interface{}) []string {
	var lines []string
	describeObject(schema, 0, &lines)
	return lines
}

func describeObject(schema map[string]interface{}, depth int, lines *[]string) {
	props, _ := schema["properties"].(map[string]interface{})
	required, _ := schema["required"].([]string)

	isRequired := make(map[string]bool, len(required))
	names := make([]string, 0, len(props))
	for _, name := range required {
		isRequired[name] = true
		names = append(names, name)
	}
	var optional []string
	for name := range props {
		if !isRequired[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	names = append(names, optional...)

	for _, name := range names {
		child, _ := props[name].(map[string]interface{})
		if child == nil {
			child = map[string]interface{}{}
		}
		flag := "optional"
		if isRequired[name] {
			flag = "required"
		}
		describeField(name, flag, child, depth, lines)
	}
}

func describeField(name, flag string, field map[string]interface{}, depth int, lines *[]string) {
	typ, _ := field["type"].(string)
	head := fmt.Sprintf("%s- %s (%s, %s)", strings.Repeat("  ", depth), name, typ, flag)
	if c := constraints(field); c != "" {
		head += ": " + c
	}
	*lines = append(*lines, head)

	switch typ {
	case "object":
		describeObject(field, depth+1, lines)
	case "array":
		switch items := field["items"].(type) {
		case []interface{}:
			for i, it := range items {
				if m, ok := it.(map[string]interface{}); ok {
					describeField(fmt.Sprintf("item %d", i+1), "required", m, depth+1, lines)
				}
			}
		case map[string]interface{}:
			if t, _ := items["type"].(string); t == "object" {
				describeField("each item", "required", items, depth+1, lines)
			}
		}
	}
}

func constraints(field map[string]interface{}) string {
	var parts []string
	if d, ok := field["description"].(string); ok {
		parts = append(parts, d)
	}
	if v, ok := field["const"]; ok {
		parts = append(parts, fmt.Sprintf("must equal %v", v))
	}
	if e, ok := field["enum"].([]string); ok {
		parts = append(parts, "one of "+strings.Join(e, ", "))
	}
	if p, ok := field["pattern"].(string); ok {
		parts = append(parts, "pattern "+p)
	}
	lo, hasMin := field["minimum"]
	hi, hasMax := field["maximum"]
	if hasMin && hasMax {
		parts = append(parts, fmt.Sprintf("between %v and %v", lo, hi))
	}
	if n, ok := field["minItems"]; ok {
		if x, ok := field["maxItems"]; ok && x == n {
			parts = append(parts, fmt.Sprintf("exactly %v items", n))
		} else {
			parts = append(parts, fmt.Sprintf("at least %v items", n))
		}
	}
	if t, ok := field["items"].(map[string]interface{}); ok {
		if it, _ := t["type"].(string); it != "" && it != "object" {
			parts = append(parts, "items of type "+it)
		}
	}
	if n, ok := field["minLength"]; ok && n != 0 {
		parts = append(parts, "non-empty")
	}
	return strings.Join(parts, "; ")
}

// ValidateResult checks a generated report against the strategy contract.
// Every schema problem is listed on the returned ReportContractViolation.
func ValidateResult(s dispatch.Strategy, token string, result []byte) error {
	if !json.Valid(result) {
		return apperrors.NewReportContractViolationError(string(s), []string{"result is not valid JSON"})
	}

	schemaLoader := gojsonschema.NewGoLoader(ContractSchema(s, token))
	documentLoader := gojsonschema.NewBytesLoader(result)

	res, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return apperrors.NewReportContractViolationError(string(s), []string{err.Error()})
	}
	if res.Valid() {
		return nil
	}

	problems := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		problems = append(problems, desc.String())
	}
	sort.Strings(problems)
	return apperrors.NewReportContractViolationError(string(s), problems)
}
