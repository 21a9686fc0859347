package report

import (
	"time"

	"neuroscreen/internal/models"
)

// Assemble merges patient info, scores, interpretations and the parsed
// generated content into the final report with a fresh timestamp. Pure merge;
// validation happened at the request boundary.
func Assemble(patient models.PatientInfo, scores models.ScoreSet, interpretations models.InterpretationSet, generated models.GeneratedReport) models.Report {
	return models.Report{
		PatientInfo:     patient,
		Scores:          scores,
		Interpretations: interpretations,
		Generated:       generated,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
