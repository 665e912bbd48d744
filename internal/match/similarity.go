// Package match compares a parsed reference against candidate source
// records and scores how well they agree.
package match

import "strings"

// TitleSimilarity returns a score in [0,1] for how well two titles agree,
// case-insensitive and order-independent: it tokenizes both strings and
// falls back to a Jaccard index over the token sets when neither is a
// substring of the other.
func TitleSimilarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		// A containment relationship (e.g. a subtitle was dropped by one
		// source) still scores highly but not perfectly, proportional
		// to how much of the longer string's tokens the shorter covers.
		ratio := jaccard(ta, tb)
		if ratio < 0.8 {
			ratio = 0.8
		}
		return ratio
	}

	return jaccard(ta, tb)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevSpace = false
		default:
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) <= 2 {
			continue // drop articles/short stopwords
		}
		set[f] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// surnameSet extracts the bare surname token from a list of "Surname, F."
// or "Surname F" style author strings for use in Jaccard comparisons.
func surnameSet(authors []string) map[string]struct{} {
	set := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		surname := a
		if idx := strings.IndexByte(a, ','); idx >= 0 {
			surname = a[:idx]
		} else if idx := strings.IndexByte(a, ' '); idx >= 0 {
			surname = a[:idx]
		}
		surname = strings.ToLower(strings.TrimSpace(surname))
		if surname != "" {
			set[surname] = struct{}{}
		}
	}
	return set
}
