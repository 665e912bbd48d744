package refparse

import (
	"regexp"
	"strings"
)

// normalizeDOIText repairs DOIs fragmented by PDF line breaks before any
// extraction regex runs. It must be idempotent:
// normalizeDOIText(normalizeDOIText(x)) == normalizeDOIText(x).
func normalizeDOIText(s string) string {
	// (a) strip soft hyphens (U+00AD).
	s = strings.ReplaceAll(s, "­", "")

	// (b) join "<hyphen><newline><whitespace>" into "<hyphen>".
	s = hyphenNewlineRe.ReplaceAllString(s, "-")

	// (c) collapse "<partial-DOI><newline><whitespace><continuation>" into
	// one token, scoped to the line immediately following a DOI-looking
	// prefix so we don't eat unrelated line breaks elsewhere in the text.
	s = doiContinuationRe.ReplaceAllString(s, "$1$2")

	// (d) remove an intra-DOI space that follows "...-" and precedes a digit.
	s = dashSpaceDigitRe.ReplaceAllString(s, "-$1")

	return s
}

var (
	hyphenNewlineRe   = regexp.MustCompile(`-\n[ \t]*`)
	doiContinuationRe = regexp.MustCompile(`(10\.\d{4,9}/[-._;()/:A-Za-z0-9]*)\n[ \t]*([-._;()/:A-Za-z0-9]+)`)
	dashSpaceDigitRe  = regexp.MustCompile(`-[ \t]+(\d)`)
)

// DOI shapes tried in order, most specific first.
var doiShapeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:https?://)?(?:dx\.)?doi\.org/(10\.\d{4,9}/[^\s"'<>]+)`),
	regexp.MustCompile(`(?i)doi:\s*(10\.\d{4,9}/[^\s"'<>]+)`),
	regexp.MustCompile(`(?i)doi\s*[=:]\s*(10\.\d{4,9}/[^\s"'<>]+)`),
}

var doiTrailingPunct = regexp.MustCompile(`[.,;:)\]}]+$`)

// extractDOI finds the first DOI in normalized text and trims trailing
// punctuation a sentence boundary would have attached to it.
func extractDOI(normalized string) string {
	for _, re := range doiShapeRes {
		if m := re.FindStringSubmatch(normalized); m != nil {
			return doiTrailingPunct.ReplaceAllString(m[1], "")
		}
	}
	return ""
}

// Truncated-DOI patterns: a DOI cut short by extraction that still looks
// superficially DOI-shaped but can never resolve. These must never reach
// network verification — the caller emits a fake indicator instead.
var truncatedDOIPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^10\.\d{4,9}/[A-Za-z]{1,2}$`),  // suffix cut to ≤2 letters
	regexp.MustCompile(`^10\.\d{4,9}$`),                 // registrant only, no suffix
	regexp.MustCompile(`^10\.\d{4,9}/978-$`),            // ISBN-prefixed suffix cut mid-token
}

// IsTruncatedDOI reports whether doi matches one of the known
// PDF-extraction-truncation shapes and must not be sent to any resolver.
func IsTruncatedDOI(doi string) bool {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return false
	}
	for _, re := range truncatedDOIPatterns {
		if re.MatchString(doi) {
			return true
		}
	}
	return false
}
