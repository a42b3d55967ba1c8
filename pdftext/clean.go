package pdftext

import (
	"regexp"
	"strings"
)

var (
	// submissionTokenPattern matches submission-number tokens (K213760)
	// that recur as page headers throughout a summary.
	submissionTokenPattern = regexp.MustCompile(`[Kk]\d+`)

	// punctuationPattern matches runs of punctuation that carry no meaning
	// once the text is fed to a QA model.
	punctuationPattern = regexp.MustCompile(`[,;:.\n\t\r)(*%]+`)

	// boilerplatePrefixes start lines that are pagination or regulatory
	// headers rather than summary content.
	boilerplatePrefixes = []string{"Page", "page", "Premarket"}
)

// isBoilerplateLine reports whether the line is pagination or a section
// header rather than content.
func isBoilerplateLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// scrubText removes non-ASCII runes and submission-number tokens, collapses
// punctuation runs to spaces, and normalizes whitespace.
func scrubText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, s)

	s = submissionTokenPattern.ReplaceAllString(s, " ")
	s = punctuationPattern.ReplaceAllString(s, " ")

	return strings.Join(strings.Fields(s), " ")
}
