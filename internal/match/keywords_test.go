package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMedicalJournal(t *testing.T) {
	assert.True(t, IsMedicalJournal("The Lancet Oncology"))
	assert.True(t, IsMedicalJournal("New England Journal of Medicine"))
	assert.False(t, IsMedicalJournal("Journal of Applied Physics"))
}

func TestIsNonMedicalJournal(t *testing.T) {
	assert.True(t, IsNonMedicalJournal("IEEE Transactions on Computer Engineering"))
	assert.True(t, IsNonMedicalJournal("Journal of Machine Learning Research"))
	assert.False(t, IsNonMedicalJournal("The Lancet"))
}

func TestIsGreyLiterature(t *testing.T) {
	assert.True(t, IsGreyLiterature("World Health Organization Technical Report Series"))
	assert.True(t, IsGreyLiterature("Cochrane Database of Systematic Reviews"))
	assert.False(t, IsGreyLiterature("Journal of Things"))
}

func TestIsBookOrSoftware(t *testing.T) {
	assert.True(t, IsBookOrSoftware("Handbook of Clinical Psychology, 3rd Edition"))
	assert.True(t, IsBookOrSoftware("IBM SPSS Statistics, Version 27"))
	assert.False(t, IsBookOrSoftware("A peer-reviewed journal article"))
}

func TestIsLowQualitySource(t *testing.T) {
	assert.True(t, IsLowQualitySource("Preprint available at bioRxiv"))
	assert.True(t, IsLowQualitySource("Retrieved from Wikipedia"))
	assert.False(t, IsLowQualitySource("Nature"))
}

func TestHasWebResourceMarkers(t *testing.T) {
	assert.True(t, HasWebResourceMarkers("Retrieved from https://example.gov/report on Jan 1, 2020"))
	assert.True(t, HasWebResourceMarkers("Accessed January 2020"))
	assert.False(t, HasWebResourceMarkers("Smith, J. (2020). A study of things. Nature, 1, 1-10."))
}
