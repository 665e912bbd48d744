package batchanalyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/refverify/engine/internal/domain"
)

func resultsWithStatuses(statuses ...domain.Status) []*domain.VerificationResult {
	out := make([]*domain.VerificationResult, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, &domain.VerificationResult{ReferenceNumber: i + 1, Status: s})
	}
	return out
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	diag := Analyze(nil)
	assert.Equal(t, 0, diag.Total)
	assert.Equal(t, "No references to analyze.", diag.Recommendation)
}

func TestAnalyzeLayoutIssue(t *testing.T) {
	statuses := make([]domain.Status, 0, 10)
	for i := 0; i < 8; i++ {
		statuses = append(statuses, domain.StatusNotFound)
	}
	for i := 0; i < 2; i++ {
		statuses = append(statuses, domain.StatusVerified)
	}
	diag := Analyze(resultsWithStatuses(statuses...))
	assert.True(t, diag.LikelyLayoutIssue)
	assert.InDelta(t, 0.8, diag.FailureRate, 0.01)
}

func TestAnalyzeGreyLiteratureHeavy(t *testing.T) {
	statuses := make([]domain.Status, 0, 10)
	for i := 0; i < 5; i++ {
		statuses = append(statuses, domain.StatusNotFound)
	}
	for i := 0; i < 4; i++ {
		statuses = append(statuses, domain.StatusGreyLiterature)
	}
	statuses = append(statuses, domain.StatusVerified)
	diag := Analyze(resultsWithStatuses(statuses...))
	assert.False(t, diag.LikelyLayoutIssue)
	assert.Contains(t, diag.Recommendation, "grey literature")
}

func TestAnalyzeFakeHeavy(t *testing.T) {
	statuses := make([]domain.Status, 0, 10)
	for i := 0; i < 4; i++ {
		statuses = append(statuses, domain.StatusDefiniteFake)
	}
	for i := 0; i < 6; i++ {
		statuses = append(statuses, domain.StatusVerified)
	}
	diag := Analyze(resultsWithStatuses(statuses...))
	assert.Contains(t, diag.Recommendation, "fabrication")
}

func TestAnalyzeVerifiedHeavy(t *testing.T) {
	statuses := make([]domain.Status, 0, 10)
	for i := 0; i < 9; i++ {
		statuses = append(statuses, domain.StatusVerified)
	}
	statuses = append(statuses, domain.StatusNotFound)
	diag := Analyze(resultsWithStatuses(statuses...))
	assert.Contains(t, diag.Recommendation, "verified cleanly")
}

func TestAnalyzeMixedResultsNoDominantPattern(t *testing.T) {
	statuses := []domain.Status{
		domain.StatusVerified,
		domain.StatusSuspicious,
		domain.StatusLikelyValid,
		domain.StatusGreyLiterature,
		domain.StatusNotFound,
	}
	diag := Analyze(resultsWithStatuses(statuses...))
	assert.Equal(t, "Mixed verification results; no single systemic pattern dominates.", diag.Recommendation)
}
