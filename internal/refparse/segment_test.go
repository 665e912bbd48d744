package refparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCitation(n int) string {
	return "Smith, A. B. (20" + paddedTwo(n%20) + "). A study of topic number " + itoa(n) + " in great detail. Journal of Things, 1(2), 3-4."
}

func paddedTwo(n int) string {
	s := itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func TestSegmentBracketedNumeral(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 6; i++ {
		sb.WriteString("[")
		sb.WriteString(itoa(i))
		sb.WriteString("] ")
		sb.WriteString(validCitation(i))
		sb.WriteString("\n")
	}
	result := segment(sb.String())
	require.Equal(t, "bracketed_numeral", result.StrategyName)
	assert.Len(t, result.Valid, 6)
}

func TestSegmentDottedNumeral(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 6; i++ {
		sb.WriteString(itoa(i))
		sb.WriteString(". ")
		sb.WriteString(validCitation(i))
		sb.WriteString("\n")
	}
	result := segment(sb.String())
	require.Equal(t, "dotted_numeral", result.StrategyName)
	assert.Len(t, result.Valid, 6)
}

func TestSegmentFiltersTableNoise(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 6; i++ {
		sb.WriteString("[")
		sb.WriteString(itoa(i))
		sb.WriteString("] ")
		sb.WriteString(validCitation(i))
		sb.WriteString("\n")
	}
	sb.WriteString("[7] 12.5 34.2 56.7\n")

	result := segment(sb.String())
	assert.Len(t, result.Valid, 6)
	assert.Equal(t, 1, result.FilteredCount)
}

func TestSegmentDegenerateInputFallsBackToWholeText(t *testing.T) {
	result := segment("just a short fragment with no citations")
	assert.Equal(t, "whole_text", result.StrategyName)
	assert.Empty(t, result.Valid)
}

func TestPartitionValid(t *testing.T) {
	candidates := []string{
		validCitation(1),
		"12.5 34.2 56.7",
		validCitation(2),
	}
	valid, filtered := partitionValid(candidates)
	assert.Len(t, valid, 2)
	assert.Equal(t, 1, filtered)
}
