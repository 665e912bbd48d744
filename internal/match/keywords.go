package match

import "strings"

// medicalJournalKeywords identifies journal names that are unambiguously
// biomedical, used to classify the "field" a citation belongs to for
// DOI-mismatch and PubMed-absence heuristics.
var medicalJournalKeywords = []string{
	"medicine", "medical", "clinical", "lancet", "jama", "nejm",
	"new england journal", "bmj", "cancer", "oncology", "cardiology",
	"pediatric", "paediatric", "surgery", "psychiatry", "epidemiology",
	"infectious disease", "pharmacology", "immunology", "nursing",
	"radiology", "anesthesia", "public health", "virology",
}

// nonMedicalJournalKeywords identifies journal names from fields where
// PubMed coverage is expected to be sparse or absent.
var nonMedicalJournalKeywords = []string{
	"computer", "engineering", "physics", "chemistry", "mathematics",
	"economics", "sociology", "psychology review", "linguistics",
	"computing", "software", "artificial intelligence", "machine learning",
	"materials science", "geology", "astronomy", "philosophy",
}

// greyLiteratureKeywords flags citations of institutional reports and
// guidelines rather than peer-reviewed articles.
var greyLiteratureKeywords = []string{
	"who", "world health organization", "cdc", "centers for disease control",
	"nhs", "nice", "national institute for health and care excellence",
	"cochrane", "prisma", "icd-10", "icd-11", "guideline", "technical report",
	"working paper", "white paper",
}

// bookSoftwareKeywords flags citations of books, handbooks, or software
// packages rather than journal articles.
var bookSoftwareKeywords = []string{
	"handbook", "textbook", "edition", "chapter", "publisher",
	"spss", "stata", "r core team", "sas institute", "matlab", "graphpad",
}

// lowQualitySourceKeywords flags preprints and informal web sources.
var lowQualitySourceKeywords = []string{
	"arxiv", "biorxiv", "medrxiv", "ssrn", "researchgate", "academia.edu",
	"wikipedia", "blog", "blogspot", "medium.com", "news",
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// IsMedicalJournal reports whether text (typically the journal name)
// looks biomedical by keyword classification.
func IsMedicalJournal(text string) bool {
	return containsAny(text, medicalJournalKeywords)
}

// IsNonMedicalJournal reports whether text looks like a non-biomedical
// field where PubMed coverage is sparse, by keyword classification.
func IsNonMedicalJournal(text string) bool {
	return containsAny(text, nonMedicalJournalKeywords)
}

// IsGreyLiterature reports whether the citation text names an
// institutional-report publisher or guideline series.
func IsGreyLiterature(text string) bool {
	return containsAny(text, greyLiteratureKeywords)
}

// IsBookOrSoftware reports whether the citation text names a book,
// handbook, or statistical-software package.
func IsBookOrSoftware(text string) bool {
	return containsAny(text, bookSoftwareKeywords)
}

// IsLowQualitySource reports whether the citation text names a preprint
// server or informal web source.
func IsLowQualitySource(text string) bool {
	return containsAny(text, lowQualitySourceKeywords)
}

// HasWebResourceMarkers reports whether the citation text contains the
// retrieval-style phrasing typical of grey literature ("retrieved from",
// "accessed", a .gov/.org report URL, or a raw URL).
func HasWebResourceMarkers(text string) bool {
	lower := strings.ToLower(text)
	markers := []string{"retrieved from", "accessed", ".gov", ".org/report", "http://", "https://"}
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
