// Package domain holds the data model shared across the parser, the
// verification engine, the classifier, and the batch analyzer. Types here
// are plain data: no behavior beyond small accessors, no network calls.
package domain

// ParsedReference is the structured form of one citation recovered from a
// references section. RawText and ReferenceNumber are always populated;
// every other field is optional and reflects what the parser could recover.
//
// A ParsedReference is created once by the parser and is never mutated
// afterward — normalization happens on derived copies, never on RawText.
type ParsedReference struct {
	RawText          string   `json:"raw_text"`
	ReferenceNumber  int      `json:"reference_number"`
	Authors          []string `json:"authors,omitempty"`
	Year             int      `json:"year,omitempty"`
	Title            string   `json:"title,omitempty"`
	Journal          string   `json:"journal,omitempty"`
	Volume           string   `json:"volume,omitempty"`
	Issue            string   `json:"issue,omitempty"`
	Pages            string   `json:"pages,omitempty"`
	DOI              string   `json:"doi,omitempty"`
	PMID             string   `json:"pmid,omitempty"`
	URL              string   `json:"url,omitempty"`
	ParseConfidence  float64  `json:"parse_confidence"`
	ParseWarnings    []string `json:"parse_warnings,omitempty"`
}

// ParseResult is the parser's full output for one references section: the
// ordered, valid references plus bookkeeping about what was filtered out.
type ParseResult struct {
	References       []*ParsedReference `json:"references"`
	FilteredCount    int                `json:"filtered_count"`
	SegmentStrategy  string             `json:"segment_strategy"`
	BatchWarnings    []string           `json:"batch_warnings,omitempty"`
}
