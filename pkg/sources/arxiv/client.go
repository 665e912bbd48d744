// Package arxiv queries the arXiv Atom-feed search API, used as a
// preprint-coverage fallback for citations that never reach a journal
// (or whose journal-of-record lags behind the preprint).
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/refverify/engine/internal/domain"
)

const baseURL = "http://export.arxiv.org/api/query"

// Client is an arXiv Atom-feed API client.
type Client struct {
	httpClient *http.Client
}

// NewClient builds an arXiv client.
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID        string     `xml:"id"`
	Title     string     `xml:"title"`
	Published string     `xml:"published"`
	Authors   []author   `xml:"author"`
	DOI       string     `xml:"doi"`
	Journal   string     `xml:"journal_ref"`
}

type author struct {
	Name string `xml:"name"`
}

func (e entry) toMatch() *domain.SourceMatch {
	m := &domain.SourceMatch{
		Source:  domain.SourceArXiv,
		Title:   strings.TrimSpace(collapseWhitespace(e.Title)),
		Journal: strings.TrimSpace(e.Journal),
		DOI:     strings.TrimSpace(e.DOI),
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			m.Authors = append(m.Authors, name)
		}
	}
	if e.Published != "" {
		if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
			m.Year = t.Year()
		} else if y, err := strconv.Atoi(e.Published[:4]); err == nil {
			m.Year = y
		}
	}
	return m
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Search queries arXiv's full-text index for the given terms, satisfying
// the same searchClient shape as the CrossRef/OpenAlex/PubMed adapters so
// it slots into the verification cascade as an additional preprint probe.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*domain.SourceMatch, error) {
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("search_query", fmt.Sprintf("all:%s", query))
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", limit))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	reqURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read arxiv response: %w", err)
	}

	var parsed feed
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse arxiv response: %w", err)
	}

	matches := make([]*domain.SourceMatch, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		matches = append(matches, e.toMatch())
	}
	return matches, nil
}
