package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/refverify/engine/internal/domain"
)

func baseInputs() Inputs {
	return Inputs{
		VerifiedThreshold:   0.80,
		SuspiciousThreshold: 0.50,
	}
}

func TestClassifyDefiniteFake(t *testing.T) {
	t.Run("future date with low confidence", func(t *testing.T) {
		in := baseInputs()
		in.FakeIndicators = []string{"cited year 2099 is in the future"}
		in.FutureDate = true
		in.Confidence = 0.2
		assert.Equal(t, domain.StatusDefiniteFake, Classify(in))
	})

	t.Run("field-difference DOI mismatch wins regardless of confidence", func(t *testing.T) {
		in := baseInputs()
		in.FakeIndicators = []string{"DOI mismatch with field difference"}
		in.FieldDifferenceDOIMismatch = true
		in.Confidence = 0.9
		assert.Equal(t, domain.StatusDefiniteFake, Classify(in))
	})

	t.Run("frankenstein citation wins regardless of confidence", func(t *testing.T) {
		in := baseInputs()
		in.FakeIndicators = []string{"FRANKENSTEIN CITATION"}
		in.Frankenstein = true
		in.Confidence = 0.95
		assert.Equal(t, domain.StatusDefiniteFake, Classify(in))
	})

	t.Run("a false-positive warning suppresses the fake verdict", func(t *testing.T) {
		in := baseInputs()
		in.FakeIndicators = []string{"cited year 2099 is in the future"}
		in.FalsePositiveWarnings = []string{"likely grey literature rather than fabrication"}
		in.FutureDate = true
		in.Confidence = 0.2
		assert.NotEqual(t, domain.StatusDefiniteFake, Classify(in))
	})
}

func TestClassifyVerifiedLegacyDOI(t *testing.T) {
	in := baseInputs()
	in.Confidence = 0.85
	in.CitedDOIPresent = true
	invalid := false
	in.DOIValid = &invalid
	in.PubMedMatchFound = true
	assert.Equal(t, domain.StatusVerifiedLegacyDOI, Classify(in))
}

func TestClassifyVerified(t *testing.T) {
	in := baseInputs()
	in.Confidence = 0.85
	assert.Equal(t, domain.StatusVerified, Classify(in))
}

func TestClassifyLowQualitySource(t *testing.T) {
	in := baseInputs()
	in.Confidence = 0.4
	in.LowQualitySourceProbe = true
	assert.Equal(t, domain.StatusLowQualitySource, Classify(in))
}

func TestClassifyGreyLiterature(t *testing.T) {
	in := baseInputs()
	in.Confidence = 0.4
	in.GreyLitOrBookSoftwareProbe = true
	assert.Equal(t, domain.StatusGreyLiterature, Classify(in))
}

func TestClassifySuspicious(t *testing.T) {
	in := baseInputs()
	in.Confidence = 0.6
	assert.Equal(t, domain.StatusSuspicious, Classify(in))
}

func TestClassifyLikelyValid(t *testing.T) {
	t.Run("false-positive warning with moderate confidence", func(t *testing.T) {
		in := baseInputs()
		in.Confidence = 0.35
		in.FalsePositiveWarnings = []string{"journal looks non-medical"}
		assert.Equal(t, domain.StatusLikelyValid, Classify(in))
	})

	t.Run("recent paper heuristic with low confidence", func(t *testing.T) {
		in := baseInputs()
		in.Confidence = 0.1
		in.RecentPaperHeuristic = true
		assert.Equal(t, domain.StatusLikelyValid, Classify(in))
	})
}

func TestClassifyNotFoundIsTheCatchAll(t *testing.T) {
	in := baseInputs()
	in.Confidence = 0.0
	assert.Equal(t, domain.StatusNotFound, Classify(in))
}

func TestClassifyPriorityOrdering(t *testing.T) {
	t.Run("verified beats low quality source probe", func(t *testing.T) {
		in := baseInputs()
		in.Confidence = 0.9
		in.LowQualitySourceProbe = true
		assert.Equal(t, domain.StatusVerified, Classify(in))
	})

	t.Run("grey literature is only reached below the verified threshold", func(t *testing.T) {
		in := baseInputs()
		in.Confidence = 0.85
		in.GreyLitOrBookSoftwareProbe = true
		assert.Equal(t, domain.StatusVerified, Classify(in))
	})
}
