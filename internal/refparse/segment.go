package refparse

import "regexp"

// segmentStrategy is one candidate splitting pattern, tried in priority
// order. The first strategy whose valid-entry count exceeds Threshold
// wins.
type segmentStrategy struct {
	Name      string
	Threshold int
	Split     func(text string) []string
}

var segmentStrategies = []segmentStrategy{
	{
		Name:      "bracketed_numeral",
		Threshold: 5,
		Split:     splitAtMarkerRegexp(regexp.MustCompile(`(?m)^\s*\[\d+\]\s*`)),
	},
	{
		Name:      "dotted_numeral",
		Threshold: 5,
		Split:     splitAtMarkerRegexp(regexp.MustCompile(`(?m)^\s*\d{1,3}\.\s+`)),
	},
	{
		Name:      "parenthesised_numeral",
		Threshold: 10,
		Split:     splitAtMarkerRegexp(regexp.MustCompile(`(?m)^\s*\(\d+\)\s*`)),
	},
	{
		Name:      "line_start_author",
		Threshold: 3,
		Split:     splitAtMarkerRegexp(regexp.MustCompile(`(?m)^\s*[A-Z][A-Za-zÀ-ÖØ-öø-ÿ'-]+,\s*[A-Z]\.`)),
	},
	{
		Name:      "blank_line_blocks",
		Threshold: 3,
		Split:     splitAtBlankLines,
	},
	{
		Name:      "apa_author_lookahead",
		Threshold: -1, // any count wins — last resort
		Split:     splitAtMarkerRegexp(regexp.MustCompile(`[A-Z][A-Za-zÀ-ÖØ-öø-ÿ'-]+,\s*[A-Z]\.`)),
	},
}

var blankLineRe = regexp.MustCompile(`\n[ \t]*\n+`)

func splitAtBlankLines(text string) []string {
	return blankLineRe.Split(text, -1)
}

// splitAtMarkerRegexp builds a Split function that cuts text at every
// match-start of markerRe, each candidate running to the start of the
// next match (or EOF for the last one). Markers matching fewer than two
// times produce no split (nil), signalling this strategy isn't viable.
func splitAtMarkerRegexp(markerRe *regexp.Regexp) func(string) []string {
	return func(text string) []string {
		idx := markerRe.FindAllStringIndex(text, -1)
		if len(idx) < 2 {
			return nil
		}
		entries := make([]string, 0, len(idx))
		for i, loc := range idx {
			start := loc[0]
			end := len(text)
			if i+1 < len(idx) {
				end = idx[i+1][0]
			}
			entries = append(entries, text[start:end])
		}
		return entries
	}
}

// segmentResult is the winning strategy's output, split into references
// that passed the validity predicate and fragments that were filtered out
// as table noise or otherwise non-reference content.
type segmentResult struct {
	StrategyName  string
	Valid         []string
	FilteredCount int
}

// segment applies priority-ordered segmentation: the first strategy whose
// count of valid candidates exceeds its threshold wins.
func segment(text string) segmentResult {
	for _, strat := range segmentStrategies {
		candidates := strat.Split(text)
		if candidates == nil {
			continue
		}
		valid, filtered := partitionValid(candidates)
		if strat.Threshold < 0 || len(valid) > strat.Threshold {
			return segmentResult{StrategyName: strat.Name, Valid: valid, FilteredCount: filtered}
		}
	}
	// No strategy produced a split at all (degenerate input): treat the
	// whole text as a single candidate.
	valid, filtered := partitionValid([]string{text})
	return segmentResult{StrategyName: "whole_text", Valid: valid, FilteredCount: filtered}
}

func partitionValid(candidates []string) (valid []string, filteredCount int) {
	for _, c := range candidates {
		if isValidCandidate(c) {
			valid = append(valid, c)
		} else {
			filteredCount++
		}
	}
	return valid, filteredCount
}
