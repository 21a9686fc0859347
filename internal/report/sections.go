package report

// The six numbered section headings requested from the model. The response
// parser splits on exactly this vocabulary, so prompt and parser share it.
const (
	headingSummary         = "Summary"
	headingObservations    = "Observations"
	headingAssessment      = "Cognitive and Emotional Assessment"
	headingRedFlags        = "Red Flags"
	headingRecommendations = "Recommendations"
	headingDisclaimer      = "Disclaimer"
)

var sectionHeadings = []string{
	headingSummary,
	headingObservations,
	headingAssessment,
	headingRedFlags,
	headingRecommendations,
	headingDisclaimer,
}
