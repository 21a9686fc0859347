package scoring

import (
	"errors"
	"math"

	"neuroscreen/internal/models"
)

// ErrNoValidTrials is returned by ReactionScore when every submitted trial
// was invalid. The caller decides whether to treat this as a zero score or
// as a reporting gap.
var ErrNoValidTrials = errors.New("no valid reaction trials")

// EmotionScore returns the percentage of correct emotion trials, rounded to
// the nearest integer. An empty trial set scores 0.
func EmotionScore(trials []models.EmotionTrial) int {
	if len(trials) == 0 {
		return 0
	}
	correct := 0
	for _, t := range trials {
		if t.IsCorrect {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(len(trials))))
}

// ReactionScore returns the rounded mean reaction time in milliseconds over
// the trials marked valid. Invalid trials are excluded from both the sum and
// the count.
func ReactionScore(trials []models.ReactionTrial) (int, error) {
	var sum float64
	count := 0
	for _, t := range trials {
		if t.Valid {
			sum += t.ReactionTime
			count++
		}
	}
	if count == 0 {
		return 0, ErrNoValidTrials
	}
	return int(math.Round(sum / float64(count))), nil
}

// PatternScore returns the percentage of correct pattern trials, rounded to
// the nearest integer. An empty trial set scores 0.
func PatternScore(trials []models.PatternTrial) int {
	if len(trials) == 0 {
		return 0
	}
	correct := 0
	for _, t := range trials {
		if t.IsCorrect {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(len(trials))))
}
