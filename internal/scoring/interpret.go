package scoring

import "neuroscreen/internal/models"

// Interpretation labels. These exact strings are embedded verbatim in the
// report prompt's clinical framing, so changing one here must be mirrored in
// the prompt builder.
const (
	AccuracyStrong     = "strong"
	AccuracyModerate   = "moderate"
	AccuracyDifficulty = "difficulty, further assessment recommended"

	ReactionQuick    = "quick/typical"
	ReactionModerate = "moderate delay"
	ReactionDelayed  = "delayed, possible processing differences"

	// ReactionNotAssessed marks the reporting gap taken when no valid
	// reaction trials were submitted.
	ReactionNotAssessed = "not assessed, no valid trials"
)

// Threshold boundaries are inclusive at the value named. Evaluated top-down,
// first match wins.
const (
	accuracyStrongMin   = 80
	accuracyModerateMin = 60

	reactionQuickMax    = 300 // ms, lower is better
	reactionModerateMax = 500 // ms
)

// InterpretAccuracy maps a 0-100 accuracy score (emotion or pattern) to its
// narrative tier.
func InterpretAccuracy(score int) string {
	switch {
	case score >= accuracyStrongMin:
		return AccuracyStrong
	case score >= accuracyModerateMin:
		return AccuracyModerate
	default:
		return AccuracyDifficulty
	}
}

// InterpretReaction maps a mean reaction time in milliseconds to its
// narrative tier. Lower is better.
func InterpretReaction(ms int) string {
	switch {
	case ms <= reactionQuickMax:
		return ReactionQuick
	case ms <= reactionModerateMax:
		return ReactionModerate
	default:
		return ReactionDelayed
	}
}

// Interpret derives the full interpretation set from a score set.
// reactionMeasured is false when ReactionScore reported ErrNoValidTrials,
// in which case the reaction interpretation records the gap instead of
// interpreting the zero placeholder.
func Interpret(scores models.ScoreSet, reactionMeasured bool) models.InterpretationSet {
	set := models.InterpretationSet{
		Emotion: InterpretAccuracy(scores.EmotionScore),
		Pattern: InterpretAccuracy(scores.PatternScore),
	}
	if reactionMeasured {
		set.Reaction = InterpretReaction(scores.ReactionScore)
	} else {
		set.Reaction = ReactionNotAssessed
	}
	return set
}
