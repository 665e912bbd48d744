package domain

// VerificationResult is the per-reference output of the verification
// cascade. DOIValid is tri-state: nil means indeterminate (network error
// or no DOI to check), true/false are definite answers from the DOI
// resolver or its fallbacks.
//
// Discrepancies, FakeIndicators, and FalsePositiveWarnings are additive —
// every stage of the cascade may append to them but nothing ever removes
// an entry once pushed.
type VerificationResult struct {
	ReferenceNumber        int                    `json:"reference_number"`
	Status                 Status                 `json:"status"`
	Confidence             float64                `json:"confidence"`
	Matches                map[SourceName]*SourceMatch `json:"matches,omitempty"`
	DOIValid               *bool                  `json:"doi_valid"`
	Discrepancies          []string               `json:"discrepancies,omitempty"`
	FakeIndicators         []string               `json:"fake_indicators,omitempty"`
	FalsePositiveWarnings  []string               `json:"false_positive_warnings,omitempty"`
	ManualVerifyLinks      map[string]string      `json:"manual_verify_links,omitempty"`
	VerificationSources    []SourceName           `json:"verification_sources,omitempty"`
	ErrorMessage           string                 `json:"error_message,omitempty"`
}

// Clone returns a deep-enough copy safe to hand to a cache reader without
// letting the caller mutate the cached value's slices/maps in place.
func (v *VerificationResult) Clone() *VerificationResult {
	if v == nil {
		return nil
	}
	out := *v
	out.Matches = cloneMatchMap(v.Matches)
	out.Discrepancies = append([]string(nil), v.Discrepancies...)
	out.FakeIndicators = append([]string(nil), v.FakeIndicators...)
	out.FalsePositiveWarnings = append([]string(nil), v.FalsePositiveWarnings...)
	out.VerificationSources = append([]SourceName(nil), v.VerificationSources...)
	if v.ManualVerifyLinks != nil {
		out.ManualVerifyLinks = make(map[string]string, len(v.ManualVerifyLinks))
		for k, val := range v.ManualVerifyLinks {
			out.ManualVerifyLinks[k] = val
		}
	}
	if v.DOIValid != nil {
		doiValid := *v.DOIValid
		out.DOIValid = &doiValid
	}
	return &out
}

func cloneMatchMap(in map[SourceName]*SourceMatch) map[SourceName]*SourceMatch {
	if in == nil {
		return nil
	}
	out := make(map[SourceName]*SourceMatch, len(in))
	for k, v := range in {
		copyV := *v
		out[k] = &copyV
	}
	return out
}
