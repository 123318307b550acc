package brief

import (
	"career-brief-workers/internal/adaptive"
	"career-brief-workers/internal/models"
	"career-brief-workers/internal/scoring"
)

// ScoreSubmission runs every instrument scorer the submission carries.
// Interest is always scored; the other instruments only when answered.
func ScoreSubmission(sub *models.Submission, baseline int) (*models.ScoreSet, error) {
	set := &models.ScoreSet{}
	var err error

	if set.Interest, err = scoring.NewInterestScorer(baseline).Score(sub.Interest); err != nil {
		return nil, err
	}
	if len(sub.Personality) > 0 {
		if set.Personality, err = scoring.NewPersonalityScorer().Score(sub.Personality); err != nil {
			return nil, err
		}
	}
	if len(sub.Values) > 0 {
		if set.Values, err = scoring.NewValuesScorer().Score(sub.Values); err != nil {
			return nil, err
		}
	}
	if len(sub.Aptitude) > 0 {
		if set.Aptitude, err = scoring.ScoreAptitude(sub.Aptitude); err != nil {
			return nil, err
		}
	}
	if len(sub.Knowledge) > 0 {
		if set.Knowledge, err = scoring.ScoreKnowledge(sub.Knowledge); err != nil {
			return nil, err
		}
	}
	if sub.Employability != nil {
		if set.Employability, err = scoring.ScoreEmployability(sub.Employability); err != nil {
			return nil, err
		}
	}
	if sub.Adaptive != nil {
		if set.Adaptive, err = adaptive.Analyze(*sub.Adaptive); err != nil {
			return nil, err
		}
	}
	return set, nil
}
