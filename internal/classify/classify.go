// Package classify assigns one of eight terminal verification statuses
// to a reference from the evidence the verification engine accumulated,
// by the first rule that matches in priority order.
package classify

import "github.com/refverify/engine/internal/domain"

// Inputs bundles the evidence the engine accumulated for one reference,
// everything the classifier needs to pick a status. It never inspects
// raw text or calls out to anything — purely a function of this struct.
type Inputs struct {
	Confidence float64

	FakeIndicators        []string
	FalsePositiveWarnings []string

	CitedDOIPresent bool
	DOIValid        *bool
	PubMedMatchFound bool

	FutureDate               bool
	FieldDifferenceDOIMismatch bool
	Frankenstein             bool

	LowQualitySourceProbe bool
	GreyLitOrBookSoftwareProbe bool
	RecentPaperHeuristic  bool

	VerifiedThreshold   float64
	SuspiciousThreshold float64
}

// Classify runs the eight priority rules in order and returns the first
// matching status. This is a pure, total function: some rule always
// matches (NOT_FOUND is the catch-all).
func Classify(in Inputs) domain.Status {
	hasFakeIndicator := len(in.FakeIndicators) > 0
	hasFalsePositiveWarning := len(in.FalsePositiveWarnings) > 0

	// Priority 1 — DEFINITE_FAKE.
	if hasFakeIndicator && !hasFalsePositiveWarning {
		if (in.FutureDate && in.Confidence < 0.50) || in.FieldDifferenceDOIMismatch || in.Frankenstein {
			return domain.StatusDefiniteFake
		}
	}

	// Priority 2 — VERIFIED_LEGACY_DOI.
	doiConfirmedInvalid := in.DOIValid != nil && !*in.DOIValid
	if in.Confidence >= in.VerifiedThreshold && in.CitedDOIPresent && doiConfirmedInvalid && in.PubMedMatchFound {
		return domain.StatusVerifiedLegacyDOI
	}

	// Priority 3 — VERIFIED.
	if in.Confidence >= in.VerifiedThreshold {
		return domain.StatusVerified
	}

	// Priority 4 — LOW_QUALITY_SOURCE.
	if in.LowQualitySourceProbe && in.Confidence >= 0.30 {
		return domain.StatusLowQualitySource
	}

	// Priority 5 — GREY_LITERATURE.
	if in.GreyLitOrBookSoftwareProbe && in.Confidence < in.VerifiedThreshold {
		return domain.StatusGreyLiterature
	}

	// Priority 6 — SUSPICIOUS.
	if in.Confidence >= in.SuspiciousThreshold {
		return domain.StatusSuspicious
	}

	// Priority 7 — LIKELY_VALID.
	if hasFalsePositiveWarning && in.Confidence >= 0.30 {
		return domain.StatusLikelyValid
	}
	if in.RecentPaperHeuristic && in.Confidence < in.SuspiciousThreshold {
		return domain.StatusLikelyValid
	}

	// Priority 8 — NOT_FOUND, the catch-all.
	return domain.StatusNotFound
}
