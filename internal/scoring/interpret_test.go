package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"neuroscreen/internal/models"
)

func TestInterpretAccuracyBoundaries(t *testing.T) {
	assert.Equal(t, AccuracyStrong, InterpretAccuracy(100))
	assert.Equal(t, AccuracyStrong, InterpretAccuracy(80))
	assert.Equal(t, AccuracyModerate, InterpretAccuracy(79))
	assert.Equal(t, AccuracyModerate, InterpretAccuracy(60))
	assert.Equal(t, AccuracyDifficulty, InterpretAccuracy(59))
	assert.Equal(t, AccuracyDifficulty, InterpretAccuracy(0))
}

func TestInterpretReactionBoundaries(t *testing.T) {
	assert.Equal(t, ReactionQuick, InterpretReaction(150))
	assert.Equal(t, ReactionQuick, InterpretReaction(300))
	assert.Equal(t, ReactionModerate, InterpretReaction(301))
	assert.Equal(t, ReactionModerate, InterpretReaction(500))
	assert.Equal(t, ReactionDelayed, InterpretReaction(501))
}

func TestInterpretFullSet(t *testing.T) {
	scores := models.ScoreSet{EmotionScore: 75, ReactionScore: 383, PatternScore: 80}
	set := Interpret(scores, true)
	assert.Equal(t, AccuracyModerate, set.Emotion)
	assert.Equal(t, ReactionModerate, set.Reaction)
	assert.Equal(t, AccuracyStrong, set.Pattern)
}

func TestInterpretReactionNotMeasured(t *testing.T) {
	scores := models.ScoreSet{EmotionScore: 90, ReactionScore: 0, PatternScore: 90}
	set := Interpret(scores, false)
	assert.Equal(t, ReactionNotAssessed, set.Reaction)
	// A zero placeholder score must not leak a "quick" interpretation.
	assert.NotEqual(t, ReactionQuick, set.Reaction)
}
