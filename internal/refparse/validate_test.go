package refparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTableNoise(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"bare numerics", "12.5 34.2 56.7", true},
		{"p-value row", "p < 0.001", true},
		{"sample size row", "n = 245", true},
		{"effect size row", "OR: 1.45", true},
		{"CI row", "95% CI: 1.2-3.4", true},
		{"bare yes", "yes", true},
		{"dash-only row", "---", true},
		{"column header", "Study", true},
		{"real citation is not noise", "Smith, J. (2020). A study of things. Nature, 580, 1-10.", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isTableNoise(tc.in))
		})
	}
}

func TestIsValidCandidate(t *testing.T) {
	t.Run("well-formed citation passes", func(t *testing.T) {
		ref := "Smith, J. A., & Doe, R. B. (2020). A comprehensive study of important things. Journal of Studies, 12(3), 45-67."
		assert.True(t, isValidCandidate(ref))
	})

	t.Run("too short fails", func(t *testing.T) {
		assert.False(t, isValidCandidate("Smith (2020)."))
	})

	t.Run("missing year fails", func(t *testing.T) {
		ref := "Smith, J. A comprehensive study of important and very interesting things worth citing."
		assert.False(t, isValidCandidate(ref))
	})

	t.Run("missing author pattern fails", func(t *testing.T) {
		ref := "A comprehensive overview of important things published sometime around 2020 without named authors at all really."
		assert.False(t, isValidCandidate(ref))
	})

	t.Run("table noise fails even with year-like digits", func(t *testing.T) {
		ref := "12.5 34.2 56.7 89.1 2020 11.3 22.4 33.5"
		assert.False(t, isValidCandidate(ref))
	})
}
