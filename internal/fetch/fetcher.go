package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"gocloud.dev/blob"
)

// UserAgentFallback is sent when no user agent is configured.
const UserAgentFallback = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// StatusError reports a non-success HTTP status. Non-success responses
// are treated as transient and retried.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: unexpected status %s", e.Status)
}

// Options configures the fetch client.
type Options struct {
	// Timeout applies to each attempt independently.
	// Default: 30s
	Timeout time.Duration

	// Attempts is the total number of attempts per fetch.
	// Default: 3
	Attempts int

	// Backoff is the delay before the second attempt. Subsequent delays
	// double, capped at MaxBackoff.
	// Default: 2s
	Backoff time.Duration

	// MaxBackoff bounds the delay between attempts.
	// Default: 30s
	MaxBackoff time.Duration

	// UserAgent is sent with every request.
	// Default: UserAgentFallback
	UserAgent string

	// Insecure disables TLS certificate verification.
	Insecure bool

	// Sleep waits between attempts. Used by tests to avoid real waits.
	// Default: sleep honoring context cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:    30 * time.Second,
		Attempts:   3,
		Backoff:    2 * time.Second,
		MaxBackoff: 30 * time.Second,
		UserAgent:  UserAgentFallback,
	}
}

// Client fetches archives with retries.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a fetch client with the given options. Zero option
// fields fall back to their defaults.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = def.Attempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = def.Backoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = def.MaxBackoff
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}

	transport := &http.Transport{}
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// Fetch downloads url into the bucket under key, retrying transient
// failures. It returns the number of bytes written. On failure no file
// is left under key: the bucket commits writes only on a successful
// close.
func (c *Client) Fetch(ctx context.Context, url string, bucket *blob.Bucket, key string) (int64, error) {
	var lastErr error

	for attempt := 1; attempt <= c.opts.Attempts; attempt++ {
		if attempt > 1 {
			if err := c.opts.Sleep(ctx, c.Backoff(attempt-1)); err != nil {
				return 0, err
			}
		}

		n, err := c.attempt(ctx, url, bucket, key)
		if err == nil {
			return n, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		lastErr = err
	}

	return 0, fmt.Errorf("fetch %s failed after %d attempts: %w", url, c.opts.Attempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, url string, bucket *blob.Bucket, key string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	// Cancelling the writer context before Close aborts the write, so a
	// failed copy never commits under the final key.
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := bucket.NewWriter(wctx, key, nil)
	if err != nil {
		return 0, fmt.Errorf("open writer for %s: %w", key, err)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		cancel()
		w.Close()
		return 0, fmt.Errorf("write %s: %w", key, err)
	}

	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", key, err)
	}

	return n, nil
}

// Backoff returns the delay before the attempt following the given
// number of failed attempts. The curve doubles from Options.Backoff and
// is capped at Options.MaxBackoff, so it is monotonically non-decreasing
// and bounded.
func (c *Client) Backoff(failures int) time.Duration {
	if failures < 1 {
		return 0
	}
	d := c.opts.Backoff
	for i := 1; i < failures; i++ {
		d *= 2
		if d >= c.opts.MaxBackoff {
			return c.opts.MaxBackoff
		}
	}
	if d > c.opts.MaxBackoff {
		d = c.opts.MaxBackoff
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
