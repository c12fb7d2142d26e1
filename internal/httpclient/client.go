// Package httpclient provides the outbound HTTP client shared by the
// hamops adapters: bounded timeouts, capped redirects, a scheme
// allow-list and polite per-client rate limiting toward third-party APIs.
package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/kf7lze/hamops/errors"
)

// maxResponseBytes caps response bodies; the upstream APIs hamops talks
// to return at most a few hundred kilobytes.
const maxResponseBytes = 4 << 20

// Client wraps http.Client with redirect capping and rate limiting.
type Client struct {
	*http.Client
	allowedSchemes []string
	maxRedirects   int
	limiter        *rate.Limiter
}

// New creates a Client with the given timeout and a requests-per-minute
// budget shared across all calls through this client.
func New(timeout time.Duration, requestsPerMinute int) *Client {
	c := &Client{
		Client: &http.Client{
			Timeout: timeout,
		},
		allowedSchemes: []string{"http", "https"},
		maxRedirects:   10,
		limiter:        rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute),
	}

	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= c.maxRedirects {
			return errors.Newf("stopped after %d redirects", c.maxRedirects)
		}
		if err := c.validateURL(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	return c
}

// validateURL rejects URLs outside the scheme allow-list.
func (c *Client) validateURL(u *url.URL) error {
	for _, scheme := range c.allowedSchemes {
		if u.Scheme == scheme {
			return nil
		}
	}
	return errors.Newf("scheme %q not allowed", u.Scheme)
}

// Get performs a rate-limited GET and returns the response body.
// Non-2xx statuses are returned as errors wrapping the status code.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid URL %q", rawURL)
	}
	if err := c.validateURL(u); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("unexpected status %d from %s", resp.StatusCode, u.Host)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	return body, nil
}

// GetJSON performs a rate-limited GET and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(err, "decoding JSON from %s", rawURL)
	}
	return nil
}
