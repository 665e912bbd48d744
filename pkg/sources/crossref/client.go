// Package crossref queries the CrossRef REST API, both by DOI and by
// free-text bibliographic search.
package crossref

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

const baseURL = "https://api.crossref.org/works"

// Client is a CrossRef API client.
type Client struct {
	httpClient *http.Client
	email      string
}

// NewClient builds a CrossRef client. email, if set, is sent as the
// polite-pool contact per CrossRef's etiquette guidance.
func NewClient(email string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		email:      email,
	}
}

type worksResponse struct {
	Message struct {
		Items []item `json:"items"`
	} `json:"message"`
}

type singleWorkResponse struct {
	Message item `json:"message"`
}

type item struct {
	DOI       string              `json:"DOI"`
	Title     []string            `json:"title"`
	Author    []authorName        `json:"author"`
	Published struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"published"`
	ContainerTitle []string `json:"container-title"`
	Volume         string   `json:"volume"`
	Issue          string   `json:"issue"`
	Page           string   `json:"page"`
}

type authorName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

func (w item) toMatch() *domain.SourceMatch {
	m := &domain.SourceMatch{Source: domain.SourceCrossRef, DOI: w.DOI}
	if len(w.Title) > 0 {
		m.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		m.Journal = w.ContainerTitle[0]
	}
	if len(w.Published.DateParts) > 0 && len(w.Published.DateParts[0]) > 0 {
		m.Year = w.Published.DateParts[0][0]
	}
	for _, a := range w.Author {
		name := strings.TrimSpace(a.Family)
		if a.Given != "" {
			name = name + ", " + a.Given
		}
		if name != "" {
			m.Authors = append(m.Authors, name)
		}
	}
	return m
}

func (c *Client) userAgent() string {
	if c.email != "" {
		return fmt.Sprintf("RefVerify/1.0 (mailto:%s)", c.email)
	}
	return "RefVerify/1.0"
}

// LookupByDOI fetches CrossRef metadata for a specific DOI. A 404 from
// CrossRef is reported as (nil, nil): a definite "no such record" rather
// than an error.
func (c *Client) LookupByDOI(ctx context.Context, doi string) (*domain.SourceMatch, error) {
	reqURL := fmt.Sprintf("%s/%s", baseURL, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossref lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var single singleWorkResponse
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("failed to parse crossref response: %w", err)
	}
	return single.Message.toMatch(), nil
}

// Search performs a free-text bibliographic query, returning up to limit
// candidate matches ranked by CrossRef's own relevance score.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*domain.SourceMatch, error) {
	params := url.Values{}
	params.Set("query.bibliographic", query)
	params.Set("rows", fmt.Sprintf("%d", limit))
	if c.email != "" {
		params.Set("mailto", c.email)
	}

	reqURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossref search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed worksResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse crossref response: %w", err)
	}

	matches := make([]*domain.SourceMatch, 0, len(parsed.Message.Items))
	for _, it := range parsed.Message.Items {
		matches = append(matches, it.toMatch())
	}
	return matches, nil
}
