package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"neuroscreen/internal/models"
	"neuroscreen/internal/scoring"
)

// The literal threshold bands embedded in the prompt as clinical framing.
// They restate the interpretation boundaries in internal/scoring.
const (
	accuracyBands = ">=80 strong; 60-79 moderate; <60 difficulty, further assessment recommended"
	reactionBands = "<=300ms quick/typical; 301-500ms moderate delay; >500ms delayed, possible processing differences"
)

// PromptInput is everything the prompt builder needs. Deterministic given
// its fields; the embedded date is the only request-time variation and is
// supplied by the caller.
type PromptInput struct {
	Patient          models.PatientInfo
	Scores           models.ScoreSet
	Interpretations  models.InterpretationSet
	ReactionMeasured bool
	Date             time.Time
}

// BuildPrompt assembles the report-generation prompt: patient metadata, the
// three scores with their threshold bands, and the request for the six
// numbered sections.
func BuildPrompt(in PromptInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are reviewing cognitive screening results for a child.\n\n")
	fmt.Fprintf(&sb, "Patient: %s, age %d, %s\n", in.Patient.Name, in.Patient.Age, in.Patient.Gender)
	fmt.Fprintf(&sb, "Date of screening: %s\n\n", in.Date.Format("2006-01-02"))

	fmt.Fprintf(&sb, "Emotion Recognition Score: %d/100 (%s)\n", in.Scores.EmotionScore, accuracyBands)
	if in.ReactionMeasured {
		fmt.Fprintf(&sb, "Reaction Time: %dms average (%s)\n", in.Scores.ReactionScore, reactionBands)
	} else {
		fmt.Fprintf(&sb, "Reaction Time: not assessed, no valid trials were recorded (%s)\n", reactionBands)
	}
	fmt.Fprintf(&sb, "Pattern Recognition Score: %d/100 (%s)\n\n", in.Scores.PatternScore, accuracyBands)

	sb.WriteString("Write a screening report for the child's caregivers. Structure your response using exactly these numbered sections:\n")
	for i, heading := range sectionHeadings {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, heading)
	}
	sb.WriteString("\nUse short bullet lines inside each section. Do not diagnose; this is a screening aid only.")

	return sb.String()
}

// BuildFallback renders the deterministic substitute body used when the live
// model is unavailable. It carries the same six headings so the response
// parser treats it identically to live output.
func BuildFallback(in PromptInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "1. %s\n", headingSummary)
	fmt.Fprintf(&sb, "Screening results for %s, age %d. This summary was generated locally because the report service was unavailable.\n\n", in.Patient.Name, in.Patient.Age)

	fmt.Fprintf(&sb, "2. %s\n", headingObservations)
	fmt.Fprintf(&sb, "- Emotion recognition accuracy was %d/100, %s.\n", in.Scores.EmotionScore, accuracyPhrase(in.Interpretations.Emotion))
	if in.ReactionMeasured {
		fmt.Fprintf(&sb, "- Average reaction time was %dms, %s.\n", in.Scores.ReactionScore, reactionPhrase(in.Interpretations.Reaction))
	} else {
		sb.WriteString("- Reaction time could not be assessed: no valid trials were recorded.\n")
	}
	fmt.Fprintf(&sb, "- Pattern recognition accuracy was %d/100, %s.\n\n", in.Scores.PatternScore, accuracyPhrase(in.Interpretations.Pattern))

	fmt.Fprintf(&sb, "3. %s\n", headingAssessment)
	sb.WriteString("Automated narrative assessment is unavailable in offline mode. The scores above were interpreted against fixed screening thresholds only.\n\n")

	fmt.Fprintf(&sb, "4. %s\n", headingRedFlags)
	flags := fallbackRedFlags(in)
	if len(flags) == 0 {
		// Keep the section non-blank so positional parsing stays aligned.
		flags = []string{"None noted from the available scores."}
	}
	for _, flag := range flags {
		fmt.Fprintf(&sb, "- %s\n", flag)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "5. %s\n", headingRecommendations)
	for _, rec := range fallbackRecommendations(in) {
		fmt.Fprintf(&sb, "- %s\n", rec)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "6. %s\n", headingDisclaimer)
	sb.WriteString("This is an automated screening aid, not a diagnosis. Results should be reviewed with a qualified clinician.\n")

	return sb.String()
}

// The raw interpretation labels never appear inside a fallback section body.
// Section routing keys on the heading vocabulary, and the low-accuracy label
// contains "recommended", which would pull the whole fragment into the
// recommendations list.
func accuracyPhrase(label string) string {
	switch label {
	case scoring.AccuracyStrong:
		return "above the screening threshold"
	case scoring.AccuracyModerate:
		return "in the moderate band"
	default:
		return "below the screening threshold"
	}
}

func reactionPhrase(label string) string {
	switch label {
	case scoring.ReactionQuick:
		return "within the typical range for this age"
	case scoring.ReactionModerate:
		return "moderately delayed"
	default:
		return "markedly delayed"
	}
}

func fallbackRedFlags(in PromptInput) []string {
	var flags []string
	if in.Interpretations.Emotion == scoring.AccuracyDifficulty {
		flags = append(flags, "Emotion recognition score fell below the screening threshold.")
	}
	if in.ReactionMeasured && in.Interpretations.Reaction == scoring.ReactionDelayed {
		flags = append(flags, "Reaction times were markedly delayed for this age group.")
	}
	if in.Interpretations.Pattern == scoring.AccuracyDifficulty {
		flags = append(flags, "Pattern recognition score fell below the screening threshold.")
	}
	if !in.ReactionMeasured {
		flags = append(flags, "Reaction test produced no valid trials; results are incomplete.")
	}
	return flags
}

func fallbackRecommendations(in PromptInput) []string {
	recs := []string{"Review these results with the child's pediatrician or a developmental specialist."}
	if in.Interpretations.Emotion != scoring.AccuracyStrong {
		recs = append(recs, "Practice naming emotions together using picture books or photos of familiar people.")
	}
	if in.Interpretations.Pattern != scoring.AccuracyStrong {
		recs = append(recs, "Introduce age-appropriate pattern and sequencing games into daily play.")
	}
	if !in.ReactionMeasured || in.Interpretations.Reaction != scoring.ReactionQuick {
		recs = append(recs, "Repeat the reaction test at a calmer time of day to confirm the result.")
	}
	return recs
}

// BuildAnalysisPrompt embeds a structured JSON payload into an open-ended
// analysis request. The payload is forwarded verbatim; the model is asked
// for free-text commentary rather than the sectioned report format.
func BuildAnalysisPrompt(question string, payload json.RawMessage) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following screening session data and answer the practitioner's question.\n\n")
	fmt.Fprintf(&sb, "Question: %s\n\nSession data (JSON):\n%s\n", question, string(payload))
	sb.WriteString("\nRespond in plain prose. Note any limitations of the data. Do not diagnose.")
	return sb.String()
}

// AnalysisFallback is the deterministic substitute for the open-ended
// analysis endpoints.
func AnalysisFallback(question string) string {
	return fmt.Sprintf("Automated analysis is currently unavailable, so no model-generated commentary can be provided for: %q. The submitted session data was received intact and can be re-analyzed once the service is restored. Screening scores and threshold interpretations remain available through the report endpoint.", question)
}
