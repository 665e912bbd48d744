// Package doiresolver checks whether a DOI resolves via doi.org, the
// first and fastest signal in the verification cascade.
package doiresolver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/refverify/engine/internal/ratelimit"
)

const baseURL = "https://doi.org"

// Client issues HEAD requests against the DOI resolver with a fixed
// retry schedule on network errors and on statuses other than 200/404.
type Client struct {
	httpClient *http.Client
	retry      ratelimit.Policy
}

// NewClient builds a resolver client with the given timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retry:      ratelimit.DOIResolverRetry,
	}
}

// Outcome is the tri-state result of a resolution attempt.
type Outcome int

const (
	// OutcomeResolved means the resolver returned 200: the DOI is live.
	OutcomeResolved Outcome = iota
	// OutcomeNotFound means the resolver returned 404: the DOI is dead.
	OutcomeNotFound
	// OutcomeIndeterminate means every attempt failed at the network
	// layer or returned a status other than 200/404 (or ctx ended);
	// callers should fall through to other sources rather than treat
	// this as a definite answer.
	OutcomeIndeterminate
)

// Resolve HEADs the DOI resolver, retrying on network errors and on
// statuses other than 200/404 per the adapter's fixed backoff schedule.
// A 404 is a definite answer, not a retryable failure.
func (c *Client) Resolve(ctx context.Context, doi string) Outcome {
	url := fmt.Sprintf("%s/%s", baseURL, doi)

	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts(); attempt++ {
		if attempt > 0 {
			if err := c.retry.Wait(ctx, attempt-1); err != nil {
				return OutcomeIndeterminate
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return OutcomeIndeterminate
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			return OutcomeResolved
		case http.StatusNotFound:
			return OutcomeNotFound
		default:
			lastErr = fmt.Errorf("doi resolver returned status %d", resp.StatusCode)
		}
	}
	_ = lastErr
	return OutcomeIndeterminate
}
