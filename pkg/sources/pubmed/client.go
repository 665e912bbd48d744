// Package pubmed queries the NCBI E-utilities (esearch + efetch) for
// biomedical literature, the primary source consulted for every
// reference regardless of field.
package pubmed

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
	"github.com/refverify/engine/internal/ratelimit"
)

const (
	esearchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// Client is an NCBI E-utilities client, rate-limited to the polite-pool
// ceiling and retrying on 429 per a fixed backoff schedule.
type Client struct {
	rl    *ratelimit.Client
	retry ratelimit.Policy
	email string
}

// NewClient builds a PubMed client. email, if set, is sent as the
// E-utilities contact per NCBI's usage guidelines.
func NewClient(email string, timeout time.Duration) *Client {
	return &Client{
		rl:    ratelimit.NewClient(&http.Client{Timeout: timeout}, ratelimit.PubMedRateInterval),
		retry: ratelimit.PubMedRetry,
		email: email,
	}
}

type eSearchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	Count   int      `xml:"Count"`
	IDList  struct {
		IDs []string `xml:"Id"`
	} `xml:"IdList"`
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Journal struct {
				Title   string `xml:"Title"`
				PubDate struct {
					Year string `xml:"Year"`
				} `xml:"JournalIssue>PubDate"`
			} `xml:"Journal"`
			ArticleTitle string `xml:"ArticleTitle"`
			AuthorList   struct {
				Authors []struct {
					LastName string `xml:"LastName"`
					ForeName string `xml:"ForeName"`
				} `xml:"Author"`
			} `xml:"AuthorList"`
			ELocationIDList []struct {
				EIdType string `xml:"EIdType,attr"`
				Value   string `xml:",chardata"`
			} `xml:"ELocationID"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

func (a pubmedArticle) toMatch() *domain.SourceMatch {
	art := a.MedlineCitation.Article
	m := &domain.SourceMatch{
		Source:  domain.SourcePubMed,
		Title:   art.ArticleTitle,
		Journal: art.Journal.Title,
		PMID:    a.MedlineCitation.PMID,
	}
	if y, err := strconv.Atoi(art.Journal.PubDate.Year); err == nil {
		m.Year = y
	}
	for _, au := range art.AuthorList.Authors {
		name := au.LastName
		if au.ForeName != "" {
			name = name + ", " + au.ForeName
		}
		if name != "" {
			m.Authors = append(m.Authors, name)
		}
	}
	for _, e := range art.ELocationIDList {
		if strings.EqualFold(e.EIdType, "doi") {
			m.DOI = e.Value
		}
	}
	return m
}

func (c *Client) doWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts(); attempt++ {
		if attempt > 0 {
			if err := c.retry.Wait(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.rl.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("pubmed rate limited (429)")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("pubmed request returned status %d: %s", resp.StatusCode, string(body))
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		return body, nil
	}
	return nil, fmt.Errorf("pubmed request failed after retries: %w", lastErr)
}

// Search runs esearch followed by efetch, returning matches for the
// given query built by the caller from title phrase, first author, and
// year (the engine falls back to the first five title words when that
// query finds nothing).
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*domain.SourceMatch, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmax", fmt.Sprintf("%d", limit))
	params.Set("retmode", "xml")
	if c.email != "" {
		params.Set("email", c.email)
		params.Set("tool", "refverify")
	}

	searchURL := fmt.Sprintf("%s?%s", esearchURL, params.Encode())
	body, err := c.doWithRetry(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var searchResult eSearchResult
	if err := xml.Unmarshal(body, &searchResult); err != nil {
		return nil, fmt.Errorf("failed to parse esearch response: %w", err)
	}
	if len(searchResult.IDList.IDs) == 0 {
		return nil, nil
	}

	return c.fetchArticles(ctx, searchResult.IDList.IDs)
}

func (c *Client) fetchArticles(ctx context.Context, pmids []string) ([]*domain.SourceMatch, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")

	fetchURL := fmt.Sprintf("%s?%s", efetchURL, params.Encode())
	body, err := c.doWithRetry(ctx, fetchURL)
	if err != nil {
		return nil, err
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("failed to parse efetch response: %w", err)
	}

	matches := make([]*domain.SourceMatch, 0, len(set.Articles))
	for _, a := range set.Articles {
		matches = append(matches, a.toMatch())
	}
	return matches, nil
}
