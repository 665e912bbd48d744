// Package ratelimit provides the rate-limiting and retry primitives
// shared by every external-source adapter. It has no dependency on the
// verification engine so that both the engine and the adapters it calls
// can import it without creating a cycle.
package ratelimit

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps an http.Client with a token-bucket rate limiter enforcing
// a minimum interval between requests to one external service.
type Client struct {
	underlying *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client that allows at most one request per
// interval, with a burst of 1 (no queued bursts past the floor).
func NewClient(underlying *http.Client, interval time.Duration) *Client {
	return &Client{
		underlying: underlying,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Do waits for the rate limiter before delegating to the underlying
// client, honoring the request's context for cancellation while waiting.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.underlying.Do(req)
}

// Policy is a fixed backoff schedule for one adapter, applied on
// retryable failures (network errors, 429/5xx responses). Retry/backoff
// lives here, in the adapter layer — the engine only ever sees a
// succeed/fail-after-retries outcome.
type Policy struct {
	Backoffs []time.Duration
}

// MaxAttempts is the number of times a request is attempted, including
// the first try.
func (p Policy) MaxAttempts() int {
	return len(p.Backoffs) + 1
}

// Wait blocks for the backoff associated with the given retry attempt
// (0-indexed: the delay before the *second* try), or returns ctx.Err()
// if the context is canceled first.
func (p Policy) Wait(ctx context.Context, attempt int) error {
	if attempt < 0 || attempt >= len(p.Backoffs) {
		return nil
	}
	t := time.NewTimer(p.Backoffs[attempt])
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DOIResolverRetry is the DOI resolver's retry schedule: up to 3 retries
// after the first try (4 attempts in all), waiting 1s, 2s, 3s before them.
var DOIResolverRetry = Policy{Backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}}

// PubMedRetry is PubMed's 429 retry schedule: up to 3 retries after the
// first try (4 attempts in all), waiting 2s, 4s, 6s before them.
var PubMedRetry = Policy{Backoffs: []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second}}

// PubMedRateInterval enforces NCBI's polite-pool policy of at least
// 400ms between requests.
const PubMedRateInterval = 400 * time.Millisecond
