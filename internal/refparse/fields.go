package refparse

import (
	"regexp"
	"strings"
)

var (
	pmidRe = regexp.MustCompile(`(?i)(?:PMID:?\s*|PubMed\s+ID:?\s*|pubmed\.ncbi\.nlm\.nih\.gov/)(\d{4,9})`)

	parenYearRe = regexp.MustCompile(`\((\d{4})\)`)
	bareYearRe  = regexp.MustCompile(`\b(\d{4})\b`)

	authorListRe = regexp.MustCompile(`[A-Z][A-Za-zÀ-ÖØ-öø-ÿ'-]+,\s*(?:[A-Z]\.(?:\s?[A-Z]\.)?|[A-Z][a-zà-öø-ÿ]+)`)

	quotedTitleRe = regexp.MustCompile(`"([^"]{8,300})"`)

	volIssuePagesRe = regexp.MustCompile(`(\d+)\s*\((\d+[a-zA-Z]?)\)\s*,\s*([\d,\s-]+\d)`)
	volNoRe         = regexp.MustCompile(`(?i)Vol\.?\s*(\d+).*?No\.?\s*(\d+).*?pp\.?\s*([\d,\s-]+\d)`)

	urlRe = regexp.MustCompile(`https?://[^\s"'<>)]+`)
)

// extractYear returns the first (YYYY) parenthesised year in [1900,2099],
// falling back to any bare 4-digit year in range.
func extractYear(s string) int {
	if m := parenYearRe.FindStringSubmatch(s); m != nil {
		if y := atoiSafe(m[1]); y >= 1900 && y <= 2099 {
			return y
		}
	}
	for _, m := range bareYearRe.FindAllStringSubmatch(s, -1) {
		if y := atoiSafe(m[1]); y >= 1900 && y <= 2099 {
			return y
		}
	}
	return 0
}

// extractPMID finds a PMID in any of the three recognized shapes.
func extractPMID(s string) string {
	if m := pmidRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// extractAuthors pulls the author list from the text preceding the
// parenthesised year, capping at 20 names.
func extractAuthors(s string) []string {
	prefix := s
	if loc := parenYearRe.FindStringIndex(s); loc != nil {
		prefix = s[:loc[0]]
	}
	matches := authorListRe.FindAllString(prefix, -1)
	if len(matches) > 20 {
		matches = matches[:20]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(strings.TrimRight(m, ",")))
	}
	return out
}

// extractTitle takes the text between "(YYYY)." and the next sentence
// that begins a journal block, falling back to the first quoted span.
func extractTitle(s string) string {
	yearLoc := parenYearRe.FindStringIndex(s)
	if yearLoc != nil {
		rest := s[yearLoc[1]:]
		rest = strings.TrimLeft(rest, ". ")
		// The title runs up to the first period that precedes a
		// capitalized journal-looking clause, or to a volume marker.
		if idx := volIssuePagesRe.FindStringIndex(rest); idx != nil {
			candidate := strings.TrimSpace(rest[:idx[0]])
			if title := trimToLastSentence(candidate); title != "" {
				return title
			}
		}
		if idx := strings.Index(rest, ". "); idx > 0 {
			return strings.TrimSpace(rest[:idx])
		}
		if rest != "" {
			return trimToLastSentence(strings.TrimSpace(rest))
		}
	}
	if m := quotedTitleRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// trimToLastSentence cuts a multi-sentence run down to its first
// sentence, used when no unambiguous journal boundary was found.
func trimToLastSentence(s string) string {
	if idx := strings.Index(s, ". "); idx > 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimRight(s, ". ")
}

// journalFields holds the Journal/Volume/Issue/Pages recovered together,
// since a single regex match yields all four at once.
type journalFields struct {
	Journal string
	Volume  string
	Issue   string
	Pages   string
}

var titleCaseSentenceRe = regexp.MustCompile(`([A-Z][A-Za-z&:',.\s-]{2,80})$`)

func extractJournalFields(s string) journalFields {
	if m := volIssuePagesRe.FindStringSubmatchIndex(s); m != nil {
		volume := s[m[2]:m[3]]
		issue := s[m[4]:m[5]]
		pages := s[m[6]:m[7]]
		journal := journalNamePreceding(s[:m[0]])
		return journalFields{Journal: journal, Volume: volume, Issue: issue, Pages: pages}
	}
	if m := volNoRe.FindStringSubmatch(s); m != nil {
		loc := volNoRe.FindStringIndex(s)
		journal := journalNamePreceding(s[:loc[0]])
		return journalFields{Journal: journal, Volume: m[1], Issue: m[2], Pages: m[3]}
	}
	return journalFields{}
}

// journalNamePreceding extracts the Title-Case sentence immediately
// preceding a volume marker, treated as the journal name. It scopes the
// search to the text after the last sentence boundary so a preceding
// title (itself period-terminated) is never absorbed into the journal
// name.
func journalNamePreceding(prefix string) string {
	prefix = strings.TrimRight(prefix, ", ")
	if idx := strings.LastIndex(prefix, ". "); idx >= 0 {
		prefix = prefix[idx+2:]
	}
	if m := titleCaseSentenceRe.FindStringSubmatch(prefix); m != nil {
		return strings.Trim(strings.TrimSpace(m[1]), ".,")
	}
	return ""
}

// extractURL returns the first non-DOI http(s) URL in the text.
func extractURL(s string) string {
	for _, u := range urlRe.FindAllString(s, -1) {
		if strings.Contains(strings.ToLower(u), "doi.org") {
			continue
		}
		return u
	}
	return ""
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
