package match

// TitleMatchFloor is the minimum title similarity below which a would-be
// match is rejected outright and confidence is forced to 0.0. This
// prevents "author matches but paper is wrong" false positives.
const TitleMatchFloor = 0.60

// AuthorSimilarity compares sets of surnames, weighting exact agreement
// on the first author more heavily than overall overlap.
func AuthorSimilarity(citedAuthors, matchedAuthors []string) float64 {
	firstMatch := 0.5
	if len(citedAuthors) > 0 && len(matchedAuthors) > 0 {
		a := surnameOf(citedAuthors[0])
		b := surnameOf(matchedAuthors[0])
		if a != "" && a == b {
			firstMatch = 1.0
		}
	}
	overlap := jaccard(surnameSet(citedAuthors), surnameSet(matchedAuthors))
	return 0.6*firstMatch + 0.4*overlap
}

func surnameOf(author string) string {
	set := surnameSet([]string{author})
	for s := range set {
		return s
	}
	return ""
}

// YearSimilarity scores two publication years on a coarse ladder that
// allows for "Online First" ahead-of-print discrepancies.
func YearSimilarity(cited, matched int) float64 {
	if cited == 0 || matched == 0 {
		return 0.0
	}
	delta := cited - matched
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta == 0:
		return 1.0
	case delta == 1:
		return 0.9
	case delta == 2:
		return 0.5
	default:
		return 0.0
	}
}

// SearchConfidence scores a search-based match (PubMed/CrossRef search)
// from its three component similarities, short-circuiting to 0.0 below
// the title floor.
func SearchConfidence(titleSim, authorSim, yearSim float64) float64 {
	if titleSim < TitleMatchFloor {
		return 0.0
	}
	return 0.6*titleSim + 0.25*authorSim + 0.15*yearSim
}

// TextSearchConfidence scores an Europe PMC / OpenAlex free-text search
// hit, which carries less identity signal than an author+year query.
func TextSearchConfidence(titleSim float64) float64 {
	if titleSim < TitleMatchFloor {
		return 0.0
	}
	return 0.8 * titleSim
}

// DOIResolverConfidence and DOIFallbackConfidence are the baselines for a
// hit obtained by resolving a DOI directly (resolver HEAD 200, CrossRef-by-DOI, OpenAlex-by-DOI):
// such a hit represents identity, not similarity, so it ignores the
// other fields entirely.
const (
	DOIResolverConfidence = 0.9
	DOIFallbackConfidence = 0.85
)
