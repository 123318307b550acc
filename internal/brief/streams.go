package brief

import (
	"career-brief-workers/internal/careers"
	"career-brief-workers/internal/dispatch"
	"career-brief-workers/internal/models"
	"career-brief-workers/internal/stream"
)

// StreamContext is the gating context resolved for one brief.
type StreamContext struct {
	Category       models.StreamCategory
	SubStream      string
	Declared       string
	Field          stream.ProgramField
	FieldReference *stream.FieldReference
	Recommendation *stream.Recommendation
}

// ResolveStream derives the stream context the profile's gating mode asks
// for. An unclassifiable stream leaves the category empty.
func ResolveStream(p *dispatch.Profile, ctx models.StudentContext, scores *models.ScoreSet) StreamContext {
	sc := StreamContext{Declared: ctx.Stream}

	switch p.Gating {
	case dispatch.GateDeclaredStream:
		sc.Category = stream.Classify(ctx.Stream)
		if sc.Category == models.StreamScience {
			sc.SubStream = stream.SubStream(ctx.Stream)
		}
	case dispatch.GateRecommendedStream:
		rec := stream.RecommendStream(scores.Interest.TopThree, scores.Aptitude)
		sc.Recommendation = &rec
		sc.Category = rec.Category
		sc.SubStream = rec.SubStream
	case dispatch.GateProgramField:
		for _, text := range []string{ctx.ProgramName, ctx.ProgramCode, ctx.Stream} {
			if sc.Field = stream.ClassifyProgram(text); sc.Field != stream.FieldUnknown {
				break
			}
		}
		sc.Category = sc.Field.Category()
		if sc.Category == models.StreamNone {
			sc.Category = stream.Classify(ctx.Stream)
		}
		if ref, ok := stream.Reference(sc.Field); ok {
			sc.FieldReference = &ref
		}
	}
	return sc
}

// MatchContext converts the stream context into the matcher's input.
func (sc StreamContext) MatchContext(p *dispatch.Profile) careers.MatchContext {
	return careers.MatchContext{
		Category:         sc.Category,
		SubStream:        sc.SubStream,
		Field:            string(sc.Field),
		RequiredEvidence: p.RequiredEvidence,
	}
}
