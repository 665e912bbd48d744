package usecase

import (
	"context"
	"strings"

	"github.com/refverify/engine/internal/batchanalyze"
	"github.com/refverify/engine/internal/domain"
	"github.com/refverify/engine/internal/refparse"
	"github.com/refverify/engine/internal/verify"
)

// VerifyUsecase wires the parser, the verification engine, and the batch
// analyzer into the two operations the HTTP layer exposes.
type VerifyUsecase struct {
	engine *verify.Engine
}

// NewVerifyUsecase builds a VerifyUsecase over an already-configured
// engine.
func NewVerifyUsecase(engine *verify.Engine) *VerifyUsecase {
	return &VerifyUsecase{engine: engine}
}

// VerifyOne parses and verifies a single reference's raw text. If the
// parser recovers no structured fields at all, the entry is rejected
// outright as UNPARSEABLE rather than run through the network cascade.
func (u *VerifyUsecase) VerifyOne(ctx context.Context, rawText string) *domain.VerificationResult {
	parsed := &domain.ParsedReference{RawText: rawText, ReferenceNumber: 1}
	fillParsedFields(parsed)
	if noFieldsRecovered(parsed) {
		return unparseableResult(parsed)
	}
	return u.engine.Verify(ctx, parsed)
}

// VerifyDocument parses a references-section blob, verifies every
// recovered entry with at most maxConcurrent in flight, and diagnoses
// the batch as a whole. Entries the parser rejected outright (zero
// structured fields recovered) are short-circuited to UNPARSEABLE and
// never reach the engine.
func (u *VerifyUsecase) VerifyDocument(ctx context.Context, referencesSectionText string, maxConcurrent int) (*domain.ParseResult, []*domain.VerificationResult, *domain.BatchDiagnosis) {
	parseResult := refparse.Parse(referencesSectionText)
	results, toVerify := splitUnparseable(parseResult.References)
	verified := u.engine.VerifyBatch(ctx, toVerify, maxConcurrent)
	fillVerified(results, verified)

	diagnosis := batchanalyze.Analyze(results)
	return parseResult, results, diagnosis
}

// VerifyPreParsed verifies an already-segmented list of reference texts,
// parsing each independently (used when the caller has its own
// segmentation, e.g. numbered entries it split itself). Entries that
// fail to parse at all (no segments recovered, or a recovered segment
// with zero structured fields) are short-circuited to UNPARSEABLE.
func (u *VerifyUsecase) VerifyPreParsed(ctx context.Context, rawTexts []string, maxConcurrent int) ([]*domain.VerificationResult, *domain.BatchDiagnosis) {
	refs := make([]*domain.ParsedReference, len(rawTexts))
	for i, text := range rawTexts {
		single := refparse.Parse(text)
		if len(single.References) == 0 {
			refs[i] = &domain.ParsedReference{
				RawText:         text,
				ReferenceNumber: i + 1,
				ParseConfidence: 0.1,
				ParseWarnings:   []string{"no structured fields could be recovered from this entry"},
			}
			continue
		}
		ref := single.References[0]
		ref.ReferenceNumber = i + 1
		refs[i] = ref
	}

	results, toVerify := splitUnparseable(refs)
	verified := u.engine.VerifyBatch(ctx, toVerify, maxConcurrent)
	fillVerified(results, verified)

	diagnosis := batchanalyze.Analyze(results)
	return results, diagnosis
}

// splitUnparseable partitions refs into a results slice (pre-filled with
// an UNPARSEABLE verdict for every entry with no recovered fields, nil
// elsewhere) and the subset of refs that still need the engine to run.
func splitUnparseable(refs []*domain.ParsedReference) ([]*domain.VerificationResult, []*domain.ParsedReference) {
	results := make([]*domain.VerificationResult, len(refs))
	toVerify := make([]*domain.ParsedReference, 0, len(refs))
	for i, ref := range refs {
		if noFieldsRecovered(ref) {
			results[i] = unparseableResult(ref)
			continue
		}
		toVerify = append(toVerify, ref)
	}
	return results, toVerify
}

// fillVerified fills the nil slots left by splitUnparseable with the
// engine's results, in order.
func fillVerified(results []*domain.VerificationResult, verified []*domain.VerificationResult) {
	vi := 0
	for i, r := range results {
		if r == nil {
			results[i] = verified[vi]
			vi++
		}
	}
}

// noFieldsRecovered reports whether the parser could recover not a
// single structured field from a reference — the UNPARSEABLE condition.
func noFieldsRecovered(ref *domain.ParsedReference) bool {
	return ref.DOI == "" && ref.PMID == "" && ref.Year == 0 &&
		len(ref.Authors) == 0 &&
		strings.TrimSpace(ref.Title) == "" &&
		strings.TrimSpace(ref.Journal) == ""
}

// unparseableResult builds the terminal UNPARSEABLE verdict for an entry
// that never reaches the verification cascade.
func unparseableResult(ref *domain.ParsedReference) *domain.VerificationResult {
	return &domain.VerificationResult{
		ReferenceNumber: ref.ReferenceNumber,
		Status:          domain.StatusUnparseable,
	}
}

// fillParsedFields runs full field extraction over a single raw-text
// reference the caller submitted directly, bypassing segmentation.
func fillParsedFields(ref *domain.ParsedReference) {
	single := refparse.Parse(ref.RawText)
	if len(single.References) == 0 {
		ref.ParseConfidence = 0.1
		ref.ParseWarnings = []string{"no structured fields could be recovered from this entry"}
		return
	}
	parsed := single.References[0]
	parsed.ReferenceNumber = ref.ReferenceNumber
	*ref = *parsed
}
