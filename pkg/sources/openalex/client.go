// Package openalex queries the OpenAlex Works API, both by DOI and by
// free-text title search. Wire types and the PMID-extraction helper are
// carried over from the paper-search client this package replaces.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/refverify/engine/internal/domain"
)

const baseURL = "https://api.openalex.org"

// Client is an OpenAlex API client.
type Client struct {
	httpClient *http.Client
	email      string
}

// NewClient builds an OpenAlex client. email, if set, puts requests in
// OpenAlex's "polite pool" for faster, more reliable responses.
func NewClient(email string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		email:      email,
	}
}

type searchResponse struct {
	Results []workResult `json:"results"`
}

type workResult struct {
	ID              string                 `json:"id"`
	DOI             string                 `json:"doi"`
	Title           string                 `json:"title"`
	DisplayName     string                 `json:"display_name"`
	PublicationYear int                    `json:"publication_year"`
	Authorships     []authorship           `json:"authorships"`
	PrimaryLocation *primaryLocation       `json:"primary_location"`
	IDs             map[string]interface{} `json:"ids"`
}

type authorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}

type primaryLocation struct {
	Source *source `json:"source"`
}

type source struct {
	DisplayName string `json:"display_name"`
}

func (c *Client) userAgent() string {
	if c.email != "" {
		return fmt.Sprintf("RefVerify/1.0 (mailto:%s)", c.email)
	}
	return "RefVerify/1.0"
}

func (w workResult) toMatch() *domain.SourceMatch {
	title := w.Title
	if title == "" {
		title = w.DisplayName
	}
	m := &domain.SourceMatch{
		Source: domain.SourceOpenAlex,
		Title:  title,
		Year:   w.PublicationYear,
		DOI:    strings.TrimPrefix(w.DOI, "https://doi.org/"),
		PMID:   extractPMID(w),
	}
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		m.Journal = w.PrimaryLocation.Source.DisplayName
	}
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			m.Authors = append(m.Authors, a.Author.DisplayName)
		}
	}
	return m
}

// extractPMID pulls a PubMed ID out of OpenAlex's loosely-typed ids map,
// the same lookup the original paper-search client performed.
func extractPMID(w workResult) string {
	if pmid, ok := w.IDs["pmid"]; ok {
		if pmidStr, ok := pmid.(string); ok {
			id := strings.TrimPrefix(pmidStr, "https://pubmed.ncbi.nlm.nih.gov/")
			return strings.Trim(id, "/")
		}
	}
	return ""
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// LookupByDOI fetches a work directly by DOI. A 404 is reported as
// (nil, nil).
func (c *Client) LookupByDOI(ctx context.Context, doi string) (*domain.SourceMatch, error) {
	reqURL := fmt.Sprintf("%s/works/doi:%s", baseURL, url.PathEscape(doi))
	if c.email != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.email)
	}

	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("openalex lookup returned status %d", status)
	}

	var w workResult
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("failed to parse openalex response: %w", err)
	}
	return w.toMatch(), nil
}

// Search performs a free-text title search, returning up to limit
// candidates.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*domain.SourceMatch, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("per_page", fmt.Sprintf("%d", limit))
	if c.email != "" {
		params.Set("mailto", c.email)
	}

	reqURL := fmt.Sprintf("%s/works?%s", baseURL, params.Encode())
	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("openalex search returned status %d", status)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse openalex response: %w", err)
	}

	matches := make([]*domain.SourceMatch, 0, len(parsed.Results))
	for _, w := range parsed.Results {
		matches = append(matches, w.toMatch())
	}
	return matches, nil
}
