// Package europepmc queries the Europe PMC REST search API, used as a
// fallback for European and preprint biomedical coverage PubMed misses.
package europepmc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/refverify/engine/internal/domain"
)

const baseURL = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

// Client is a Europe PMC API client.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a Europe PMC client.
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

type searchResponse struct {
	ResultList struct {
		Result []result `json:"result"`
	} `json:"resultList"`
}

type result struct {
	Title       string `json:"title"`
	AuthorString string `json:"authorString"`
	PubYear     string `json:"pubYear"`
	JournalTitle string `json:"journalTitle"`
	DOI         string `json:"doi"`
	PMID        string `json:"pmid"`
}

func (r result) toMatch() *domain.SourceMatch {
	m := &domain.SourceMatch{
		Source:  domain.SourceEuropePMC,
		Title:   r.Title,
		Journal: r.JournalTitle,
		DOI:     r.DOI,
		PMID:    r.PMID,
	}
	if y, err := strconv.Atoi(r.PubYear); err == nil {
		m.Year = y
	}
	if r.AuthorString != "" {
		m.Authors = splitAuthorString(r.AuthorString)
	}
	return m
}

func splitAuthorString(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, trim(s[start:i]))
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, trim(s[start:]))
	}
	return out
}

func trim(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

// Search queries Europe PMC by title phrase and first-author surname,
// per the query shape TITLE:"..." AND AUTH:"...".
func (c *Client) Search(ctx context.Context, titlePhrase, firstAuthorSurname string, pageSize int) ([]*domain.SourceMatch, error) {
	query := fmt.Sprintf(`TITLE:"%s"`, titlePhrase)
	if firstAuthorSurname != "" {
		query += fmt.Sprintf(` AND AUTH:"%s"`, firstAuthorSurname)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))

	reqURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("europe pmc search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse europe pmc response: %w", err)
	}

	matches := make([]*domain.SourceMatch, 0, len(parsed.ResultList.Result))
	for _, r := range parsed.ResultList.Result {
		matches = append(matches, r.toMatch())
	}
	return matches, nil
}
