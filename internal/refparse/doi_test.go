package refparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDOIText(t *testing.T) {
	t.Run("strips soft hyphens", func(t *testing.T) {
		in := "10.1038/s41586­-020-1234-5"
		assert.Equal(t, "10.1038/s41586-020-1234-5", normalizeDOIText(in))
	})

	t.Run("joins hyphen-newline breaks", func(t *testing.T) {
		in := "10.1038/s41586-\n   020-1234-5"
		assert.Equal(t, "10.1038/s41586-020-1234-5", normalizeDOIText(in))
	})

	t.Run("collapses continuation across a line break", func(t *testing.T) {
		in := "doi: 10.1016/j.cell.2020.01\n.001"
		assert.Equal(t, "doi: 10.1016/j.cell.2020.01.001", normalizeDOIText(in))
	})

	t.Run("removes intra-DOI space after hyphen before digit", func(t *testing.T) {
		in := "10.1038/s41586- 020-1234-5"
		assert.Equal(t, "10.1038/s41586-020-1234-5", normalizeDOIText(in))
	})

	t.Run("is idempotent", func(t *testing.T) {
		in := "10.1038/s41586­-\n  020-1234-5"
		once := normalizeDOIText(in)
		twice := normalizeDOIText(once)
		assert.Equal(t, once, twice)
	})

	t.Run("leaves unrelated text untouched", func(t *testing.T) {
		in := "Smith, J. (2020). A study of things. Nature, 580, 1-10."
		assert.Equal(t, in, normalizeDOIText(in))
	})
}

func TestExtractDOI(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"doi.org URL", "See https://doi.org/10.1038/s41586-020-1234-5 for details.", "10.1038/s41586-020-1234-5"},
		{"dx.doi.org URL", "http://dx.doi.org/10.1016/j.cell.2020.01.001.", "10.1016/j.cell.2020.01.001"},
		{"doi: prefix", "doi: 10.1097/MD.0000000000012345", "10.1097/MD.0000000000012345"},
		{"doi= prefix", "doi=10.1001/jama.2020.1234,", "10.1001/jama.2020.1234"},
		{"trailing punctuation trimmed", "doi: 10.1038/s41586-020-1234-5).", "10.1038/s41586-020-1234-5"},
		{"no DOI present", "Smith J. A study of things. Nature. 2020;580:1-10.", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractDOI(tc.in))
		})
	}
}

func TestIsTruncatedDOI(t *testing.T) {
	t.Run("suffix cut to single letter", func(t *testing.T) {
		assert.True(t, IsTruncatedDOI("10.1038/s"))
	})

	t.Run("registrant only, no suffix", func(t *testing.T) {
		assert.True(t, IsTruncatedDOI("10.1038"))
	})

	t.Run("ISBN-prefixed suffix cut", func(t *testing.T) {
		assert.True(t, IsTruncatedDOI("10.1007/978-"))
	})

	t.Run("well-formed DOI is not truncated", func(t *testing.T) {
		assert.False(t, IsTruncatedDOI("10.1038/s41586-020-1234-5"))
	})

	t.Run("empty string is not truncated", func(t *testing.T) {
		assert.False(t, IsTruncatedDOI(""))
	})
}
