package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroscreen/internal/models"
)

func emotionTrials(correct, incorrect int) []models.EmotionTrial {
	trials := make([]models.EmotionTrial, 0, correct+incorrect)
	for i := 0; i < correct; i++ {
		trials = append(trials, models.EmotionTrial{IsCorrect: true})
	}
	for i := 0; i < incorrect; i++ {
		trials = append(trials, models.EmotionTrial{IsCorrect: false})
	}
	return trials
}

func TestEmotionScoreEmpty(t *testing.T) {
	assert.Equal(t, 0, EmotionScore(nil))
	assert.Equal(t, 0, EmotionScore([]models.EmotionTrial{}))
}

func TestEmotionScoreBounds(t *testing.T) {
	assert.Equal(t, 100, EmotionScore(emotionTrials(5, 0)))
	assert.Equal(t, 0, EmotionScore(emotionTrials(0, 5)))
}

func TestEmotionScoreRounds(t *testing.T) {
	// 2/3 correct = 66.67, rounds to 67
	assert.Equal(t, 67, EmotionScore(emotionTrials(2, 1)))
	// 1/3 correct = 33.33, rounds to 33
	assert.Equal(t, 33, EmotionScore(emotionTrials(1, 2)))
}

func TestEmotionScoreAlwaysInRange(t *testing.T) {
	for correct := 0; correct <= 10; correct++ {
		for incorrect := 0; incorrect <= 10; incorrect++ {
			score := EmotionScore(emotionTrials(correct, incorrect))
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestPatternScore(t *testing.T) {
	trials := []models.PatternTrial{
		{IsCorrect: true}, {IsCorrect: true}, {IsCorrect: true}, {IsCorrect: true}, {IsCorrect: false},
	}
	assert.Equal(t, 80, PatternScore(trials))
	assert.Equal(t, 0, PatternScore(nil))
}

func TestReactionScoreIgnoresInvalidTrials(t *testing.T) {
	trials := []models.ReactionTrial{
		{Valid: true, ReactionTime: 200},
		{Valid: true, ReactionTime: 400},
		{Valid: false, ReactionTime: 9999},
	}
	score, err := ReactionScore(trials)
	require.NoError(t, err)
	assert.Equal(t, 300, score)
}

func TestReactionScoreNoValidTrials(t *testing.T) {
	_, err := ReactionScore(nil)
	assert.ErrorIs(t, err, ErrNoValidTrials)

	_, err = ReactionScore([]models.ReactionTrial{{Valid: false, ReactionTime: 100}})
	assert.ErrorIs(t, err, ErrNoValidTrials)
}

func TestReactionScoreRoundsMean(t *testing.T) {
	trials := []models.ReactionTrial{
		{Valid: true, ReactionTime: 250},
		{Valid: true, ReactionTime: 300},
		{Valid: true, ReactionTime: 600},
	}
	score, err := ReactionScore(trials)
	require.NoError(t, err)
	// mean of 250, 300, 600 = 383.33 -> 383
	assert.Equal(t, 383, score)
}
