package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorSimilarity(t *testing.T) {
	t.Run("exact first author match scores highest", func(t *testing.T) {
		sim := AuthorSimilarity([]string{"Smith, J."}, []string{"Smith, J."})
		assert.Equal(t, 1.0, sim)
	})

	t.Run("no authors on either side falls back to the default weight and a vacuous overlap", func(t *testing.T) {
		sim := AuthorSimilarity(nil, nil)
		assert.InDelta(t, 0.7, sim, 0.01)
	})

	t.Run("different first author but overlapping co-authors scores partially", func(t *testing.T) {
		sim := AuthorSimilarity([]string{"Smith, J.", "Doe, R."}, []string{"Lee, C.", "Doe, R."})
		assert.Greater(t, sim, 0.0)
		assert.Less(t, sim, 1.0)
	})
}

func TestYearSimilarity(t *testing.T) {
	cases := []struct {
		name          string
		cited, match int
		want          float64
	}{
		{"exact match", 2020, 2020, 1.0},
		{"off by one (online-first)", 2020, 2019, 0.9},
		{"off by two", 2020, 2018, 0.5},
		{"off by more than two", 2020, 2010, 0.0},
		{"missing cited year", 0, 2020, 0.0},
		{"missing matched year", 2020, 0, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, YearSimilarity(tc.cited, tc.match))
		})
	}
}

func TestSearchConfidence(t *testing.T) {
	t.Run("below title floor forces zero", func(t *testing.T) {
		assert.Equal(t, 0.0, SearchConfidence(0.4, 1.0, 1.0))
	})

	t.Run("weighted combination above the floor", func(t *testing.T) {
		conf := SearchConfidence(1.0, 1.0, 1.0)
		assert.Equal(t, 1.0, conf)
	})

	t.Run("partial agreement scores between 0 and 1", func(t *testing.T) {
		conf := SearchConfidence(0.8, 0.5, 0.0)
		assert.InDelta(t, 0.6*0.8+0.25*0.5, conf, 0.001)
	})
}

func TestTextSearchConfidence(t *testing.T) {
	t.Run("below title floor forces zero", func(t *testing.T) {
		assert.Equal(t, 0.0, TextSearchConfidence(0.5))
	})

	t.Run("scales title similarity by 0.8", func(t *testing.T) {
		assert.InDelta(t, 0.72, TextSearchConfidence(0.9), 0.001)
	})
}
