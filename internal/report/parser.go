package report

import (
	"regexp"
	"strings"

	"neuroscreen/internal/models"
)

// observationCategory is the fixed label attached to every parsed
// observation line.
const observationCategory = "Clinical Observation"

// headingPattern matches "<digit>. <heading>" for the six requested section
// headings, case-insensitively. Splitting on it yields the section bodies.
var headingPattern = regexp.MustCompile(
	`(?i)\d\.\s*(?:` + strings.Join(quoteAll(sectionHeadings), "|") + `)`,
)

func quoteAll(headings []string) []string {
	quoted := make([]string, len(headings))
	for i, h := range headings {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return quoted
}

// sectionKind is the classification of one split fragment.
type sectionKind int

const (
	sectionUnclassified sectionKind = iota
	sectionObservations
	sectionRecommendations
	sectionRedFlags
)

// Fragment positions used when no keyword matches. Counted among the
// non-blank fragments after the split: 0 is the summary body, 1 the
// observations body, 3 red flags, 4 recommendations.
const (
	observationsIndex    = 1
	redFlagsIndex        = 3
	recommendationsIndex = 4
)

// classifyFragment decides where a fragment's lines belong. Precedence is
// explicit: keyword match first, positional fallback second, unclassified
// third.
func classifyFragment(fragment string, index int) sectionKind {
	lower := strings.ToLower(fragment)
	switch {
	case strings.Contains(lower, "observation"):
		return sectionObservations
	case strings.Contains(lower, "recommend"):
		return sectionRecommendations
	case strings.Contains(lower, "red flag"):
		return sectionRedFlags
	}

	switch index {
	case observationsIndex:
		return sectionObservations
	case redFlagsIndex:
		return sectionRedFlags
	case recommendationsIndex:
		return sectionRecommendations
	}

	return sectionUnclassified
}

// Parse splits free text on the section heading vocabulary and routes each
// fragment's lines into observations, recommendations or red flags. It never
// fails: malformed input yields empty or partial results. All three output
// fields are always non-nil.
func Parse(text string) models.GeneratedReport {
	out := models.GeneratedReport{
		Observations:    []models.Observation{},
		Recommendations: []string{},
		RedFlags:        []string{},
	}

	fragments := make([]string, 0, len(sectionHeadings)+1)
	for _, f := range headingPattern.Split(text, -1) {
		if strings.TrimSpace(f) == "" {
			continue
		}
		fragments = append(fragments, f)
	}

	for i, fragment := range fragments {
		switch classifyFragment(fragment, i) {
		case sectionObservations:
			for _, line := range nonBlankLines(fragment) {
				out.Observations = append(out.Observations, models.Observation{
					Category: observationCategory,
					Details:  line,
				})
			}
		case sectionRecommendations:
			out.Recommendations = append(out.Recommendations, nonBlankLines(fragment)...)
		case sectionRedFlags:
			out.RedFlags = append(out.RedFlags, nonBlankLines(fragment)...)
		}
	}

	return out
}

// nonBlankLines returns the trimmed non-blank lines of a fragment with any
// leading bullet marker removed.
func nonBlankLines(fragment string) []string {
	var lines []string
	for _, line := range strings.Split(fragment, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
