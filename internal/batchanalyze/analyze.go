// Package batchanalyze diagnoses systemic extraction failure across a
// whole document's worth of verification results.
package batchanalyze

import (
	"fmt"

	"github.com/refverify/engine/internal/domain"
)

// Analyze computes a BatchDiagnosis from one document's results. The
// first matching rule, in priority order, supplies the recommendation.
func Analyze(results []*domain.VerificationResult) *domain.BatchDiagnosis {
	total := len(results)
	histogram := make(map[domain.Status]int, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		histogram[s] = 0
	}
	for _, r := range results {
		histogram[r.Status]++
	}

	diag := &domain.BatchDiagnosis{
		Total:           total,
		StatusHistogram: histogram,
	}
	if total == 0 {
		diag.Recommendation = "No references to analyze."
		return diag
	}

	failureRate := float64(histogram[domain.StatusNotFound]+histogram[domain.StatusSuspicious]) / float64(total)
	diag.FailureRate = failureRate

	switch {
	case failureRate >= 0.70 && histogram[domain.StatusDefiniteFake] == 0:
		diag.LikelyLayoutIssue = true
		diag.Recommendation = fmt.Sprintf(
			"%.0f%% of references could not be verified with no confirmed fabrications — "+
				"this pattern usually indicates PDF extraction artifacts (column-merge text, "+
				"hyphenation across line breaks) rather than genuine citation problems. "+
				"Consider re-extracting the document with a different PDF parser.",
			failureRate*100)

	case failureRate >= 0.50 && float64(histogram[domain.StatusGreyLiterature]) >= 0.30*float64(total):
		diag.Recommendation = fmt.Sprintf(
			"%.0f%% of references were unverifiable, and a substantial share (%.0f%%) look like "+
				"grey literature (institutional reports, guidelines) that bibliographic databases "+
				"don't index. Low verification coverage is expected for this document, not a red flag.",
			failureRate*100, float64(histogram[domain.StatusGreyLiterature])/float64(total)*100)

	case float64(histogram[domain.StatusDefiniteFake]) >= 0.30*float64(total):
		diag.Recommendation = fmt.Sprintf(
			"%.0f%% of references show definite fabrication indicators — this document warrants "+
				"close manual review for AI-hallucinated or invented citations.",
			float64(histogram[domain.StatusDefiniteFake])/float64(total)*100)

	case float64(histogram[domain.StatusVerified]) >= 0.80*float64(total):
		diag.Recommendation = fmt.Sprintf(
			"%.0f%% of references verified cleanly against at least one bibliographic source.",
			float64(histogram[domain.StatusVerified])/float64(total)*100)

	default:
		diag.Recommendation = "Mixed verification results; no single systemic pattern dominates."
	}

	return diag
}
