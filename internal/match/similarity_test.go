package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleSimilarity(t *testing.T) {
	t.Run("identical titles score 1.0", func(t *testing.T) {
		assert.Equal(t, 1.0, TitleSimilarity("A Study Of Things", "a study of things"))
	})

	t.Run("empty title scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, TitleSimilarity("", "A study of things"))
	})

	t.Run("containment relationship scores at least 0.8", func(t *testing.T) {
		sim := TitleSimilarity("A study of important things", "A study of important things: a subtitle")
		assert.GreaterOrEqual(t, sim, 0.8)
	})

	t.Run("completely different titles score low", func(t *testing.T) {
		sim := TitleSimilarity("A study of important biological things", "Financial markets and economic policy")
		assert.Less(t, sim, 0.3)
	})

	t.Run("punctuation and case differences are ignored", func(t *testing.T) {
		sim := TitleSimilarity("COVID-19: A Global Pandemic", "covid 19 a global pandemic")
		assert.Equal(t, 1.0, sim)
	})
}

func TestSurnameSet(t *testing.T) {
	t.Run("comma-style authors", func(t *testing.T) {
		set := surnameSet([]string{"Smith, J. A.", "Doe, R."})
		_, hasSmith := set["smith"]
		_, hasDoe := set["doe"]
		assert.True(t, hasSmith)
		assert.True(t, hasDoe)
	})

	t.Run("space-style authors", func(t *testing.T) {
		set := surnameSet([]string{"Smith J"})
		_, hasSmith := set["smith"]
		assert.True(t, hasSmith)
	})

	t.Run("empty entries are skipped", func(t *testing.T) {
		set := surnameSet([]string{"", "  ", "Smith, J."})
		assert.Len(t, set, 1)
	})
}
