package models

import "fmt"

// PatientInfo identifies the child being screened. It is required for report
// generation and treated as immutable once submitted.
type PatientInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Validate checks the fields required before a report can be generated.
func (p PatientInfo) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("patient info missing required field: id")
	}
	if p.Name == "" {
		return fmt.Errorf("patient info missing required field: name")
	}
	if p.Age <= 0 {
		return fmt.Errorf("patient info missing required field: age")
	}
	if p.Gender == "" {
		return fmt.Errorf("patient info missing required field: gender")
	}
	return nil
}

// EmotionTrial is one emotion-recognition item.
type EmotionTrial struct {
	IsCorrect bool `json:"isCorrect"`
}

// ReactionTrial is one reaction-time item. ReactionTime is in milliseconds.
type ReactionTrial struct {
	Valid        bool    `json:"valid"`
	ReactionTime float64 `json:"reactionTime"`
}

// PatternTrial is one pattern-matching item.
type PatternTrial struct {
	IsCorrect bool `json:"isCorrect"`
}

// TestResultSet carries the raw per-trial results submitted by the client.
type TestResultSet struct {
	EmotionTest  []EmotionTrial  `json:"emotionTest"`
	ReactionTest []ReactionTrial `json:"reactionTest"`
	PatternTest  []PatternTrial  `json:"patternTest"`
}

// ScoreSet holds the normalized scores. It is derived, recomputed on every
// request, and never persisted.
type ScoreSet struct {
	EmotionScore  int `json:"emotionScore"`
	ReactionScore int `json:"reactionScore"`
	PatternScore  int `json:"patternScore"`
}

// InterpretationSet holds the categorical narrative label for each test.
type InterpretationSet struct {
	Emotion  string `json:"emotion"`
	Reaction string `json:"reaction"`
	Pattern  string `json:"pattern"`
}

// Observation is one parsed clinical observation from the generated text.
type Observation struct {
	Category string `json:"category"`
	Details  string `json:"details"`
}

// GeneratedReport holds the sections parsed out of the model's free text.
// Fields may be empty but are always arrays, never nil.
type GeneratedReport struct {
	Observations    []Observation `json:"observations"`
	Recommendations []string      `json:"recommendations"`
	RedFlags        []string      `json:"redFlags"`
}

// Report is the final assembled output. It is created once per request and
// never stored server-side; the client is the system of record.
type Report struct {
	PatientInfo     PatientInfo       `json:"patientInfo"`
	Scores          ScoreSet          `json:"scores"`
	Interpretations InterpretationSet `json:"interpretations"`
	Generated       GeneratedReport   `json:"generated"`
	GeneratedAt     string            `json:"generatedAt"`
}
