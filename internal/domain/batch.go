package domain

// BatchDiagnosis summarizes one document's worth of VerificationResults:
// a failure-rate computation plus a heuristic about whether the failures
// look like a systemic extraction problem rather than fabricated
// citations.
type BatchDiagnosis struct {
	Total              int            `json:"total"`
	StatusHistogram    map[Status]int `json:"status_histogram"`
	FailureRate        float64        `json:"failure_rate"`
	LikelyLayoutIssue  bool           `json:"likely_layout_issue"`
	Recommendation     string         `json:"recommendation"`
}
