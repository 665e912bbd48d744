// Package verify implements the multi-source verification cascade: for
// each parsed reference it consults the DOI resolver, CrossRef, OpenAlex,
// Europe PMC, and PubMed, accumulating match evidence, discrepancies, and
// heuristic indicators into a VerificationResult, then classifies it.
package verify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sirupsen/logrus"

	"github.com/refverify/engine/internal/classify"
	"github.com/refverify/engine/internal/domain"
	"github.com/refverify/engine/internal/match"
	"github.com/refverify/engine/internal/refparse"
	"github.com/refverify/engine/pkg/sources/doiresolver"
)

// doiResolverClient is satisfied by *doiresolver.Client; narrowed to an
// interface so tests can substitute a fake.
type doiResolverClient interface {
	Resolve(ctx context.Context, doi string) doiresolver.Outcome
}

// doiLookupClient is satisfied by *crossref.Client and *openalex.Client.
type doiLookupClient interface {
	LookupByDOI(ctx context.Context, doi string) (*domain.SourceMatch, error)
}

// searchClient is satisfied by *crossref.Client, *openalex.Client, and
// *pubmed.Client.
type searchClient interface {
	Search(ctx context.Context, query string, limit int) ([]*domain.SourceMatch, error)
}

// europePMCClient is satisfied by *europepmc.Client, whose Search takes a
// title phrase and first-author surname rather than a single query string.
type europePMCClient interface {
	Search(ctx context.Context, titlePhrase, firstAuthorSurname string, pageSize int) ([]*domain.SourceMatch, error)
}

// Config holds the tunables the cascade and classifier consult.
type Config struct {
	TitleMatchFloor     float64
	VerifiedThreshold   float64
	SuspiciousThreshold float64
	RecentWindowMonths  int
	MaxConcurrent       int
}

// Engine runs the verification cascade over parsed references. All
// adapter fields are interfaces so the cascade can be exercised with
// fakes in tests without any network access.
type Engine struct {
	Config Config
	Cache  Cache

	DOIResolver doiResolverClient
	CrossRef    interface {
		doiLookupClient
		searchClient
	}
	OpenAlex interface {
		doiLookupClient
		searchClient
	}
	EuropePMC europePMCClient
	PubMed    searchClient

	// ArXiv is optional: when unset, step5b is skipped. It provides
	// preprint coverage for citations that never reach a journal.
	ArXiv searchClient

	Log *logrus.Logger

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) logger() *logrus.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logrus.StandardLogger()
}

// Verify runs the full cascade for one reference, consulting the cache
// first and inserting the fully-assembled result afterward so no
// partially-built entry is ever visible.
func (e *Engine) Verify(ctx context.Context, ref *domain.ParsedReference) *domain.VerificationResult {
	start := e.now()
	key := CacheKey(ref)

	if e.Cache != nil {
		if cached, ok := e.Cache.Get(key); ok {
			return cached
		}
	}

	result := &domain.VerificationResult{
		ReferenceNumber:   ref.ReferenceNumber,
		Matches:           make(map[domain.SourceName]*domain.SourceMatch),
		ManualVerifyLinks: make(map[string]string),
	}

	flags := e.runCascade(ctx, ref, result)
	e.buildManualVerifyLinks(ref, result)

	result.Status = classify.Classify(classify.Inputs{
		Confidence:                 result.Confidence,
		FakeIndicators:             result.FakeIndicators,
		FalsePositiveWarnings:      result.FalsePositiveWarnings,
		CitedDOIPresent:            ref.DOI != "",
		DOIValid:                   result.DOIValid,
		PubMedMatchFound:           flags.pubMedMatchFound,
		FutureDate:                 flags.futureDate,
		FieldDifferenceDOIMismatch: flags.fieldDifferenceDOIMismatch,
		Frankenstein:               flags.frankenstein,
		LowQualitySourceProbe:      flags.lowQualitySourceProbe,
		GreyLitOrBookSoftwareProbe: flags.greyLitOrBookSoftwareProbe,
		RecentPaperHeuristic:       flags.recentPaperHeuristic,
		VerifiedThreshold:          e.Config.VerifiedThreshold,
		SuspiciousThreshold:        e.Config.SuspiciousThreshold,
	})

	e.logger().WithFields(logrus.Fields{
		"reference_number": ref.ReferenceNumber,
		"status":           result.Status,
		"confidence":       result.Confidence,
		"duration_ms":      e.now().Sub(start).Milliseconds(),
	}).Info("reference verified")

	if e.Cache != nil {
		e.Cache.Put(key, result)
	}
	return result
}

// VerifyBatch verifies every reference with at most maxConcurrent
// in-flight at once, returning results in input order regardless of
// completion order.
func (e *Engine) VerifyBatch(ctx context.Context, refs []*domain.ParsedReference, maxConcurrent int) []*domain.VerificationResult {
	if maxConcurrent <= 0 {
		maxConcurrent = e.Config.MaxConcurrent
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}

	results := make([]*domain.VerificationResult, len(refs))
	sem := semaphore.NewWeighted(int64(maxConcurrent))
	done := make(chan struct{}, len(refs))

	for i, ref := range refs {
		i, ref := i, ref
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = &domain.VerificationResult{
				ReferenceNumber: ref.ReferenceNumber,
				Status:          domain.StatusError,
				ErrorMessage:    err.Error(),
			}
			done <- struct{}{}
			continue
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			results[i] = e.Verify(ctx, ref)
		}()
	}

	for range refs {
		<-done
	}
	return results
}

// cascadeFlags carries the boolean signals the classifier needs that
// aren't themselves part of the VerificationResult's public shape.
type cascadeFlags struct {
	futureDate                 bool
	fieldDifferenceDOIMismatch bool
	frankenstein                bool
	pubMedMatchFound            bool
	lowQualitySourceProbe       bool
	greyLitOrBookSoftwareProbe  bool
	recentPaperHeuristic        bool
}

func (e *Engine) runCascade(ctx context.Context, ref *domain.ParsedReference, result *domain.VerificationResult) cascadeFlags {
	var flags cascadeFlags

	doiUsable := e.step0PreNetworkChecks(ref, result, &flags)
	e.step1DOIResolution(ctx, ref, result, doiUsable, &flags)
	e.step2PubMedSearch(ctx, ref, result, &flags)
	e.step3CrossRefSearch(ctx, ref, result)
	e.step4EuropePMCFallback(ctx, ref, result)
	e.step5OpenAlexTextSearch(ctx, ref, result)
	e.step5bArXivPreprintSearch(ctx, ref, result)
	e.step6FalsePositiveHeuristics(ref, result)
	e.step7SourceTypeProbes(ref, &flags)

	return flags
}

// step0PreNetworkChecks applies the fake checks that never touch the
// network, returning whether the DOI (if any) is safe to resolve.
func (e *Engine) step0PreNetworkChecks(ref *domain.ParsedReference, result *domain.VerificationResult, flags *cascadeFlags) bool {
	doiUsable := ref.DOI != ""

	if ref.DOI != "" && refparse.IsTruncatedDOI(ref.DOI) {
		result.FakeIndicators = append(result.FakeIndicators,
			fmt.Sprintf("DOI %q is truncated and cannot resolve", ref.DOI))
		doiUsable = false
	}

	if ref.Year > e.now().Year() {
		result.FakeIndicators = append(result.FakeIndicators,
			fmt.Sprintf("cited year %d is in the future", ref.Year))
		flags.futureDate = true
	}

	return doiUsable
}

func boolPtr(b bool) *bool { return &b }

// step1DOIResolution resolves a usable DOI via the resolver, falling back
// to CrossRef/OpenAlex direct lookups, and checks for a Frankenstein
// citation once any DOI metadata is in hand.
func (e *Engine) step1DOIResolution(ctx context.Context, ref *domain.ParsedReference, result *domain.VerificationResult, doiUsable bool, flags *cascadeFlags) {
	if !doiUsable || e.DOIResolver == nil {
		return
	}

	outcome := e.DOIResolver.Resolve(ctx, ref.DOI)

	var metadata *domain.SourceMatch

	switch outcome {
	case doiresolver.OutcomeResolved:
		result.DOIValid = boolPtr(true)
		result.Confidence = maxFloat(result.Confidence, 0.9)
		metadata = e.fetchDOIMetadata(ctx, ref.DOI, result)

	case doiresolver.OutcomeNotFound:
		result.DOIValid = boolPtr(false)
		metadata = e.fetchDOIMetadata(ctx, ref.DOI, result)
		if metadata != nil {
			result.DOIValid = boolPtr(true)
			result.Confidence = maxFloat(result.Confidence, 0.85)
		} else {
			result.Discrepancies = append(result.Discrepancies,
				fmt.Sprintf("DOI %q does not resolve via the DOI resolver or its fallbacks", ref.DOI))
		}

	case doiresolver.OutcomeIndeterminate:
		metadata = e.fetchDOIMetadata(ctx, ref.DOI, result)
		if metadata != nil {
			result.DOIValid = boolPtr(true)
			result.Confidence = maxFloat(result.Confidence, 0.85)
		}
	}

	if metadata != nil && ref.Title != "" && metadata.Title != "" {
		titleSim := match.TitleSimilarity(ref.Title, metadata.Title)
		if titleSim < 0.30 {
			result.FakeIndicators = append(result.FakeIndicators,
				fmt.Sprintf("FRANKENSTEIN CITATION: cited DOI resolves to a different paper (%q)", snippet(metadata.Title, 120)))
			flags.frankenstein = true
		}
	}
}

// fetchDOIMetadata tries CrossRef-by-DOI then OpenAlex-by-DOI, recording
// whichever succeeds into result.Matches and returning it.
func (e *Engine) fetchDOIMetadata(ctx context.Context, doi string, result *domain.VerificationResult) *domain.SourceMatch {
	if e.CrossRef != nil {
		if m, err := e.CrossRef.LookupByDOI(ctx, doi); err == nil && m != nil {
			result.Matches[domain.SourceCrossRef] = m
			result.VerificationSources = append(result.VerificationSources, domain.SourceCrossRef)
			return m
		}
	}
	if e.OpenAlex != nil {
		if m, err := e.OpenAlex.LookupByDOI(ctx, doi); err == nil && m != nil {
			result.Matches[domain.SourceOpenAlex] = m
			result.VerificationSources = append(result.VerificationSources, domain.SourceOpenAlex)
			return m
		}
	}
	return nil
}

// step2PubMedSearch always runs. It appends field-comparison
// discrepancies on a hit and detects DOI mismatches that cross the
// medical/non-medical field boundary. A hit whose title similarity is
// below the title floor is discarded.
func (e *Engine) step2PubMedSearch(ctx context.Context, ref *domain.ParsedReference, result *domain.VerificationResult, flags *cascadeFlags) {
	if e.PubMed == nil {
		return
	}
	matches, err := e.PubMed.Search(ctx, pubMedQuery(ref), 5)
	if (err != nil || len(matches) == 0) && ref.Title != "" {
		// Fall back to the first five title words alone.
		words := strings.Fields(ref.Title)
		if len(words) > 5 {
			words = words[:5]
		}
		matches, err = e.PubMed.Search(ctx, strings.Join(words, " "), 5)
	}
	if err != nil || len(matches) == 0 {
		return
	}

	best := bestMatch(ref, matches)
	if best == nil {
		return
	}

	titleSim := match.TitleSimilarity(ref.Title, best.Title)
	if titleSim < match.TitleMatchFloor {
		return
	}
	authorSim := match.AuthorSimilarity(ref.Authors, best.Authors)
	yearSim := match.YearSimilarity(ref.Year, best.Year)
	conf := match.SearchConfidence(titleSim, authorSim, yearSim)
	flags.pubMedMatchFound = true
	result.Matches[domain.SourcePubMed] = best
	result.VerificationSources = append(result.VerificationSources, domain.SourcePubMed)
	result.Confidence = maxFloat(result.Confidence, conf)

	appendFieldDiscrepancies(ref, best, titleSim, result)

	if ref.DOI != "" && best.DOI != "" && !strings.EqualFold(ref.DOI, best.DOI) {
		citedMedical := match.IsMedicalJournal(ref.Journal)
		matchedMedical := match.IsMedicalJournal(best.Journal)
		if citedMedical != matchedMedical {
			result.FakeIndicators = append(result.FakeIndicators,
				"DOI mismatch with field difference: cited and matched records come from different fields")
			flags.fieldDifferenceDOIMismatch = true
		}
	}
}

// step3CrossRefSearch runs only while confidence remains below the
// verified threshold.
func (e *Engine) step3CrossRefSearch(ctx context.Context, ref *domain.ParsedReference, result *domain.VerificationResult) {
	if e.CrossRef == nil || result.Confidence >= e.Config.VerifiedThreshold {
		return
	}
	matches, err := e.CrossRef.Search(ctx, crossRefQuery(ref), 5)
	if err != nil || len(matches) == 0 {
		return
	}
	best := bestMatch(ref, matches)
	if best == nil {
		return
	}

	titleSim := match.TitleSimilarity(ref.Title, best.Title)
	authorSim := match.AuthorSimilarity(ref.Authors, best.Authors)
	yearSim := match.YearSimilarity(ref.Year, best.Year)
	conf := match.SearchConfidence(titleSim, authorSim, yearSim)
	if conf <= result.Confidence {
		return
	}
	result.Confidence = conf
	result.Matches[domain.SourceCrossRef] = best
	result.VerificationSources = append(result.VerificationSources, domain.SourceCrossRef)

	if conf >= e.Config.VerifiedThreshold {
		if _, ok := result.Matches[domain.SourcePubMed]; !ok && match.IsNonMedicalJournal(ref.Journal) {
			result.FalsePositiveWarnings = append(result.FalsePositiveWarnings,
				"journal looks non-medical; absence from PubMed is expected, not suspicious")
		}
	}
}

// step4EuropePMCFallback mirrors step 3 for European/preprint coverage.
func (e *Engine) step4EuropePMCFallback(ctx context.Context, ref *domain.ParsedReference, result *domain.VerificationResult) {
	if e.EuropePMC == nil || result.Confidence >= e.Config.VerifiedThreshold {
		return
	}
	titlePhrase := snippet(ref.Title, 100)
	firstAuthor := ""
	if len(ref.Authors) > 0 {
		firstAuthor = surnameOnly(ref.Authors[0])
	}
	matches, err := e.EuropePMC.Search(ctx, titlePhrase, firstAuthor, 5)
	if err != nil || len(matches) == 0 {
		return
	}
	best := bestMatch(ref, matches)
	if best == nil {
		return
	}

	titleSim := match.TitleSimilarity(ref.Title, best.Title)
	conf := match.TextSearchConfidence(titleSim)
	if conf <= result.Confidence {
		return
	}
	result.Confidence = conf
	result.Matches[domain.SourceEuropePMC] = best
	result.VerificationSources = append(result.VerificationSources, domain.SourceEuropePMC)

	if conf >= e.Config.VerifiedThreshold {
		if _, ok := result.Matches[domain.SourcePubMed]; !ok && match.IsNonMedicalJournal(ref.Journal) {
			result.FalsePositiveWarnings = append(result.FalsePositiveWarnings,
				"journal looks non-medical; absence from PubMed is expected, not suspicious")
		}
	}
}

// step5OpenAlexTextSearch is the last resort for non-biomedical
// literature: it requires a title match above the floor and, when the
// reference names any authors, the first author's surname to appear
// among the result's authors.
func (e *Engine) step5OpenAlexTextSearch(ctx context.Context, ref *domain.ParsedReference, result *domain.VerificationResult) {
	if e.OpenAlex == nil || result.Confidence >= e.Config.VerifiedThreshold {
		return
	}
	matches, err := e.OpenAlex.Search(ctx, ref.Title, 5)
	if err != nil || len(matches) == 0 {
		return
	}

	firstAuthorSurname := ""
	if len(ref.Authors) > 0 {
		firstAuthorSurname = surnameOnly(ref.Authors[0])
	}

	for _, m := range matches {
		titleSim := match.TitleSimilarity(ref.Title, m.Title)
		if titleSim < e.Config.TitleMatchFloor {
			continue
		}
		if firstAuthorSurname != "" && !authorListContains(m.Authors, firstAuthorSurname) {
			continue
		}
		conf := match.TextSearchConfidence(titleSim)
		if conf <= result.Confidence {
			continue
		}
		result.Confidence = conf
		result.Matches[domain.SourceOpenAlex] = m
		result.VerificationSources = append(result.VerificationSources, domain.SourceOpenAlex)
		return
	}
}

// step5bArXivPreprintSearch runs last among the search steps: a hit here
// means the cited work exists as a preprint even though nothing indexed
// by CrossRef/OpenAlex/PubMed/Europe PMC matched it. A match above the
// title floor always adds a false-positive warning, and also raises
// confidence to the text-search score (0.8 × title similarity) when that
// is higher, so an exact-title hit reaches the verified threshold.
func (e *Engine) step5bArXivPreprintSearch(ctx context.Context, ref *domain.ParsedReference, result *domain.VerificationResult) {
	if e.ArXiv == nil || result.Confidence >= e.Config.VerifiedThreshold || ref.Title == "" {
		return
	}
	matches, err := e.ArXiv.Search(ctx, ref.Title, 5)
	if err != nil || len(matches) == 0 {
		return
	}

	best := bestMatch(ref, matches)
	if best == nil {
		return
	}
	titleSim := match.TitleSimilarity(ref.Title, best.Title)
	if titleSim < e.Config.TitleMatchFloor {
		return
	}
	conf := match.TextSearchConfidence(titleSim)
	if conf > result.Confidence {
		result.Confidence = conf
	}
	result.Matches[domain.SourceArXiv] = best
	result.VerificationSources = append(result.VerificationSources, domain.SourceArXiv)
	result.FalsePositiveWarnings = append(result.FalsePositiveWarnings,
		"matched an arXiv preprint; absence from indexed journals is expected for preprint-only work")
}

// step6FalsePositiveHeuristics pushes warnings that lower the odds a
// not-found result is a genuine fabrication.
func (e *Engine) step6FalsePositiveHeuristics(ref *domain.ParsedReference, result *domain.VerificationResult) {
	if m, ok := result.Matches[domain.SourcePubMed]; ok {
		if ref.Year != 0 && ref.Year < 1980 && m.Year > 2000 {
			result.FalsePositiveWarnings = append(result.FalsePositiveWarnings,
				"pre-1980 citation matched against a modern reprint; likely a modern edition, not a fabrication")
		}
	}

	if match.HasWebResourceMarkers(ref.RawText) && result.Confidence < e.Config.SuspiciousThreshold {
		result.FalsePositiveWarnings = append(result.FalsePositiveWarnings,
			"citation text contains web-resource markers; likely grey literature rather than fabrication")
	}

	if _, pubMedMatched := result.Matches[domain.SourcePubMed]; !pubMedMatched && match.IsNonMedicalJournal(ref.Journal) {
		result.FalsePositiveWarnings = append(result.FalsePositiveWarnings,
			"journal is non-medical by keyword classification; PubMed coverage gap expected")
	}
}

// step7SourceTypeProbes classifies the cited item's type, setting flags
// the classifier uses rather than appending any indicator or warning.
func (e *Engine) step7SourceTypeProbes(ref *domain.ParsedReference, flags *cascadeFlags) {
	flags.greyLitOrBookSoftwareProbe = match.IsGreyLiterature(ref.RawText) || match.IsBookOrSoftware(ref.RawText)
	flags.lowQualitySourceProbe = match.IsLowQualitySource(ref.RawText)

	if ref.Year != 0 {
		months := e.Config.RecentWindowMonths
		if months <= 0 {
			months = 18
		}
		cutoff := e.now().AddDate(0, -months, 0).Year()
		flags.recentPaperHeuristic = ref.Year >= cutoff
	}
}

// buildManualVerifyLinks always populates links when the fields they're
// keyed on are present.
func (e *Engine) buildManualVerifyLinks(ref *domain.ParsedReference, result *domain.VerificationResult) {
	if ref.Title != "" {
		q := url.QueryEscape(snippet(ref.Title, 100))
		result.ManualVerifyLinks["google_scholar"] = "https://scholar.google.com/scholar?q=" + q
		result.ManualVerifyLinks["crossref"] = "https://search.crossref.org/?q=" + q
	}
	if ref.DOI != "" {
		result.ManualVerifyLinks["doi_resolver"] = "https://doi.org/" + ref.DOI
	}
}

func appendFieldDiscrepancies(ref *domain.ParsedReference, m *domain.SourceMatch, titleSim float64, result *domain.VerificationResult) {
	if ref.Year != 0 && m.Year != 0 {
		delta := ref.Year - m.Year
		if delta < 0 {
			delta = -delta
		}
		if delta > 1 {
			result.Discrepancies = append(result.Discrepancies,
				fmt.Sprintf("year mismatch: cited %d, matched %d", ref.Year, m.Year))
		}
		if titleSim < 0.30 || (titleSim < 0.5 && delta > 5) {
			result.Discrepancies = append(result.Discrepancies,
				fmt.Sprintf("metadata mismatch: title similarity %.2f, year delta %d", titleSim, delta))
		}
	}
	if titleSim < 0.5 {
		result.Discrepancies = append(result.Discrepancies,
			fmt.Sprintf("title mismatch: similarity %.2f", titleSim))
	}
	if ref.DOI != "" && m.DOI != "" && !strings.EqualFold(ref.DOI, m.DOI) {
		result.Discrepancies = append(result.Discrepancies,
			fmt.Sprintf("DOI mismatch: cited %q, matched %q", ref.DOI, m.DOI))
	}
}

func bestMatch(ref *domain.ParsedReference, candidates []*domain.SourceMatch) *domain.SourceMatch {
	var best *domain.SourceMatch
	bestSim := -1.0
	for _, c := range candidates {
		sim := match.TitleSimilarity(ref.Title, c.Title)
		if sim > bestSim {
			bestSim = sim
			best = c
		}
	}
	return best
}

func pubMedQuery(ref *domain.ParsedReference) string {
	if ref.Title == "" {
		return ref.RawText
	}
	query := fmt.Sprintf(`"%s"`, snippet(ref.Title, 100))
	if len(ref.Authors) > 0 {
		query += "[Title] AND " + surnameOnly(ref.Authors[0]) + "[Author]"
	}
	if ref.Year != 0 {
		query += fmt.Sprintf(" AND %d[Date - Publication]", ref.Year)
	}
	return query
}

func crossRefQuery(ref *domain.ParsedReference) string {
	if ref.Title != "" {
		return ref.Title
	}
	return ref.RawText
}

func surnameOnly(author string) string {
	author = strings.TrimSpace(author)
	if idx := strings.IndexByte(author, ','); idx >= 0 {
		return strings.TrimSpace(author[:idx])
	}
	if idx := strings.IndexByte(author, ' '); idx >= 0 {
		return strings.TrimSpace(author[:idx])
	}
	return author
}

func authorListContains(authors []string, surname string) bool {
	surname = strings.ToLower(surname)
	for _, a := range authors {
		if strings.Contains(strings.ToLower(a), surname) {
			return true
		}
	}
	return false
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
