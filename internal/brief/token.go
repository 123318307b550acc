package brief

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"career-brief-workers/internal/models"
)

const (
	TokenPrefix  = "cb_"
	tokenHexSize = 32
)

// Token derives the reproducibility token of a submission. Maps encode with
// sorted keys and answer sequences keep their order; multi-select choices are
// a set and are sorted first.
func Token(sub *models.Submission) (string, error) {
	data, err := json.Marshal(canonical(sub))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return TokenPrefix + hex.EncodeToString(sum[:])[:tokenHexSize], nil
}

func canonical(sub *models.Submission) *models.Submission {
	c := *sub
	c.Interest = make([]models.InterestAnswer, len(sub.Interest))
	for i, a := range sub.Interest {
		if a.Kind == models.AnswerMulti && len(a.Selected) > 1 {
			sel := append([]string(nil), a.Selected...)
			sort.Strings(sel)
			a.Selected = sel
		}
		c.Interest[i] = a
	}
	return &c
}
