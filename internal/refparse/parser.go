// Package refparse splits a raw references section into individual
// citation entries and extracts structured fields from each. Everything
// here is a pure function over owned strings: no network calls, no
// mutation of caller-supplied text.
package refparse

import (
	"strings"

	"github.com/refverify/engine/internal/domain"
)

// fieldWeights assigns a per-field confidence contribution: the overall
// score is the mean of the weights of fields actually recovered.
var fieldWeights = map[string]float64{
	"doi":     1.0,
	"pmid":    1.0,
	"year":    0.9,
	"authors": 0.8,
	"title":   0.7,
	"journal": 0.6,
}

// Parse splits text (the already-located references section of a
// document) into an ordered list of ParsedReference values.
func Parse(text string) *domain.ParseResult {
	result := segment(text)

	refs := make([]*domain.ParsedReference, 0, len(result.Valid))
	for i, raw := range result.Valid {
		refs = append(refs, parseOne(raw, i+1))
	}

	res := &domain.ParseResult{
		References:      refs,
		FilteredCount:   result.FilteredCount,
		SegmentStrategy: result.StrategyName,
	}
	if result.FilteredCount > 0 {
		res.BatchWarnings = append(res.BatchWarnings,
			sprintfFiltered(result.FilteredCount))
	}
	return res
}

func sprintfFiltered(n int) string {
	if n == 1 {
		return "Filtered 1 non-reference entry"
	}
	return "Filtered " + itoa(n) + " non-reference entries"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// parseOne extracts structured fields from one already-validated raw
// citation string, preserving RawText verbatim.
func parseOne(raw string, number int) *domain.ParsedReference {
	ref := &domain.ParsedReference{
		RawText:         raw,
		ReferenceNumber: number,
	}

	normalized := normalizeDOIText(raw)

	ref.DOI = extractDOI(normalized)
	ref.PMID = extractPMID(raw)
	ref.Year = extractYear(raw)
	ref.Authors = extractAuthors(raw)
	ref.Title = extractTitle(raw)

	jf := extractJournalFields(raw)
	ref.Journal = jf.Journal
	ref.Volume = jf.Volume
	ref.Issue = jf.Issue
	ref.Pages = jf.Pages

	ref.URL = extractURL(raw)

	ref.ParseConfidence, ref.ParseWarnings = computeConfidence(ref)
	return ref
}

func computeConfidence(ref *domain.ParsedReference) (float64, []string) {
	var sum float64
	var count int

	if ref.DOI != "" {
		sum += fieldWeights["doi"]
		count++
	}
	if ref.PMID != "" {
		sum += fieldWeights["pmid"]
		count++
	}
	if ref.Year != 0 {
		sum += fieldWeights["year"]
		count++
	}
	if len(ref.Authors) > 0 {
		sum += fieldWeights["authors"]
		count++
	}
	if strings.TrimSpace(ref.Title) != "" {
		sum += fieldWeights["title"]
		count++
	}
	if strings.TrimSpace(ref.Journal) != "" {
		sum += fieldWeights["journal"]
		count++
	}

	if count == 0 {
		return 0.1, []string{"no structured fields could be recovered from this entry"}
	}
	return sum / float64(count), nil
}
