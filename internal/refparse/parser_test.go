package refparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refverify/engine/internal/domain"
)

func TestParseRecoversStructuredFields(t *testing.T) {
	text := `[1] Smith, J. A., & Doe, R. B. (2020). A study of important things. Journal of Things, 12(3), 45-67. https://doi.org/10.1038/s41586-020-1234-5
[2] Lee, C. (2019). Another study of interesting topics. Science of Stuff, 4(1), 1-9. PMID: 31234567
[3] Garcia, M., & Kim, S. (2021). A third unrelated study on various matters. Research Quarterly, 8(2), 100-120.
[4] Park, H. (2018). Yet another study entirely on different matters. Methods Review, 3(1), 5-15.
[5] Novak, T. (2017). A fifth study covering distinct subject matter. Applied Letters, 6(4), 20-30.
[6] Diallo, F. (2016). A sixth study touching on separate concerns. Clinical Notes, 9(1), 40-50.
`
	result := Parse(text)
	require.Len(t, result.References, 6)
	assert.Equal(t, "bracketed_numeral", result.SegmentStrategy)

	first := result.References[0]
	assert.Equal(t, "10.1038/s41586-020-1234-5", first.DOI)
	assert.Equal(t, 2020, first.Year)
	assert.Contains(t, first.Authors, "Smith, J. A.")
	assert.Equal(t, "A study of important things", first.Title)
	assert.Equal(t, "Journal of Things", first.Journal)
	assert.Equal(t, "12", first.Volume)
	assert.Greater(t, first.ParseConfidence, 0.5)

	second := result.References[1]
	assert.Equal(t, "31234567", second.PMID)
	assert.Equal(t, 2019, second.Year)
}

func TestParseReportsFilteredCount(t *testing.T) {
	text := `[1] Smith, J. A. (2020). A study of important things. Journal of Things, 12(3), 45-67.
[2] Lee, C. (2019). Another study of interesting topics. Science of Stuff, 4(1), 1-9.
[3] Garcia, M. (2021). A third study on various matters. Research Quarterly, 8(2), 100-120.
[4] Park, H. (2018). Yet another study entirely on different matters. Methods Review, 3(1), 5-15.
[5] Novak, T. (2017). A fifth study covering distinct subject matter. Applied Letters, 6(4), 20-30.
[6] Diallo, F. (2016). A sixth study touching on separate concerns. Clinical Notes, 9(1), 40-50.
[7] 12.5 34.2 56.7
`
	result := Parse(text)
	assert.Equal(t, 1, result.FilteredCount)
	assert.NotEmpty(t, result.BatchWarnings)
}

func TestParseUnrecoverableEntryGetsLowConfidence(t *testing.T) {
	ref := parseOne("this is just some short unstructured text without fields", 1)
	assert.Equal(t, 0.1, ref.ParseConfidence)
	assert.NotEmpty(t, ref.ParseWarnings)
}

func TestComputeConfidenceWeightsPresentFields(t *testing.T) {
	ref := &domain.ParsedReference{
		DOI:     "10.1038/s41586-020-1234-5",
		Year:    2020,
		Authors: []string{"Smith, J."},
		Title:   "A study of things",
		Journal: "Journal of Things",
	}
	conf, warnings := computeConfidence(ref)
	assert.Empty(t, warnings)
	assert.InDelta(t, 0.8, conf, 0.01)
}

func TestComputeConfidenceNoFieldsRecovered(t *testing.T) {
	ref := &domain.ParsedReference{}
	conf, warnings := computeConfidence(ref)
	assert.Equal(t, 0.1, conf)
	assert.NotEmpty(t, warnings)
}
