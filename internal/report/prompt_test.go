package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroscreen/internal/models"
	"neuroscreen/internal/scoring"
)

func promptInput() PromptInput {
	scores := models.ScoreSet{EmotionScore: 75, ReactionScore: 383, PatternScore: 80}
	return PromptInput{
		Patient:          models.PatientInfo{ID: "p1", Name: "Alex", Age: 8, Gender: "male"},
		Scores:           scores,
		Interpretations:  scoring.Interpret(scores, true),
		ReactionMeasured: true,
		Date:             time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildPromptContents(t *testing.T) {
	prompt := BuildPrompt(promptInput())

	assert.Contains(t, prompt, "Alex, age 8, male")
	assert.Contains(t, prompt, "2025-06-01")
	assert.Contains(t, prompt, "Emotion Recognition Score: 75/100")
	assert.Contains(t, prompt, "Reaction Time: 383ms average")
	assert.Contains(t, prompt, "Pattern Recognition Score: 80/100")

	// The literal threshold bands travel with the scores.
	assert.Contains(t, prompt, ">=80 strong; 60-79 moderate; <60 difficulty, further assessment recommended")
	assert.Contains(t, prompt, "<=300ms quick/typical; 301-500ms moderate delay; >500ms delayed, possible processing differences")

	// All six numbered headings are requested verbatim.
	for i, heading := range sectionHeadings {
		assert.Contains(t, prompt, fmt.Sprintf("%d. %s", i+1, heading))
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	in := promptInput()
	assert.Equal(t, BuildPrompt(in), BuildPrompt(in))
}

func TestBuildPromptReactionGap(t *testing.T) {
	in := promptInput()
	in.ReactionMeasured = false
	in.Scores.ReactionScore = 0
	in.Interpretations.Reaction = scoring.ReactionNotAssessed

	prompt := BuildPrompt(in)
	assert.Contains(t, prompt, "Reaction Time: not assessed")
	assert.NotContains(t, prompt, "0ms average")
}

func TestBuildFallbackParsesIntoReport(t *testing.T) {
	out := Parse(BuildFallback(promptInput()))

	require.NotEmpty(t, out.Observations)
	require.NotEmpty(t, out.Recommendations)
	// 383ms is only a moderate delay; the red flags section carries the
	// explicit "none noted" line instead of being blank.
	require.Len(t, out.RedFlags, 1)
	assert.Contains(t, out.RedFlags[0], "None noted")
}

func TestBuildFallbackLowScoresKeepObservations(t *testing.T) {
	// The low-accuracy interpretation label contains "recommended"; the
	// observation lines must not carry it, or the whole section would be
	// routed into the recommendations list.
	scores := models.ScoreSet{EmotionScore: 40, ReactionScore: 383, PatternScore: 40}
	in := PromptInput{
		Patient:          models.PatientInfo{ID: "p3", Name: "Riley", Age: 7, Gender: "female"},
		Scores:           scores,
		Interpretations:  scoring.Interpret(scores, true),
		ReactionMeasured: true,
		Date:             time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	out := Parse(BuildFallback(in))

	require.NotEmpty(t, out.Observations)
	assert.Contains(t, out.Observations[0].Details, "40/100")
	for _, rec := range out.Recommendations {
		assert.NotContains(t, rec, "40/100")
	}
}

func TestBuildFallbackFlagsConcerningScores(t *testing.T) {
	scores := models.ScoreSet{EmotionScore: 40, ReactionScore: 700, PatternScore: 50}
	in := PromptInput{
		Patient:          models.PatientInfo{ID: "p2", Name: "Sam", Age: 6, Gender: "female"},
		Scores:           scores,
		Interpretations:  scoring.Interpret(scores, true),
		ReactionMeasured: true,
		Date:             time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	out := Parse(BuildFallback(in))
	assert.Len(t, out.RedFlags, 3)
}

func TestBuildFallbackReactionGapIsFlagged(t *testing.T) {
	in := promptInput()
	in.ReactionMeasured = false
	in.Interpretations.Reaction = scoring.ReactionNotAssessed

	out := Parse(BuildFallback(in))
	require.NotEmpty(t, out.RedFlags)
	assert.Contains(t, out.RedFlags[0], "no valid trials")
}

func TestAnalysisFallbackMentionsQuestion(t *testing.T) {
	text := AnalysisFallback("Is the reaction trend concerning?")
	assert.Contains(t, text, "Is the reaction trend concerning?")
}
