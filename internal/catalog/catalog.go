package catalog

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Common errors.
var (
	// ErrUnavailable means the catalog location could not be read or fetched.
	ErrUnavailable = errors.New("catalog: source unavailable")

	// ErrMalformed means the payload is not a FeatureCollection with the
	// expected per-feature property shape.
	ErrMalformed = errors.New("catalog: malformed feature collection")

	// ErrInvalidRange means the requested index bounds are not well-formed.
	ErrInvalidRange = errors.New("catalog: invalid range")
)

// OpenEnd selects through the end of the catalog.
const OpenEnd = -1

// Item is one entry from the archive catalog. All fields are optional in
// the source document; an Item with no SourceURL is never fetched.
type Item struct {
	// SourceURL is the archive download URL (link_data in the source).
	SourceURL string `json:"link_data"`

	// Quartal is an optional period label used to namespace output
	// directories, e.g. "2024_2".
	Quartal string `json:"quartal"`

	// Flur, Gemarkung and Schlgmd are naming fallbacks for the
	// destination file name, tried in that order.
	Flur      string `json:"flur"`
	Gemarkung string `json:"gemarkung"`
	Schlgmd   string `json:"schlgmd"`
}

// LoadOptions configures catalog loading.
type LoadOptions struct {
	// Timeout for the HTTP request when loading from a URL.
	// Default: 30s
	Timeout time.Duration

	// UserAgent is sent with HTTP requests when non-empty.
	UserAgent string

	// Insecure disables TLS certificate verification.
	Insecure bool
}

type feature struct {
	Properties Item `json:"properties"`
}

type featureCollection struct {
	Type     string     `json:"type"`
	Features *[]feature `json:"features"`
}

// Load reads the catalog from a local path or an http(s) URL and returns
// its items in source order.
func Load(ctx context.Context, source string, opts LoadOptions) ([]Item, error) {
	data, err := read(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func read(ctx context.Context, source string, opts LoadOptions) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return readURL(ctx, source, opts)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

func readURL(ctx context.Context, url string, opts LoadOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{}
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d fetching %s", ErrUnavailable, resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

func parse(data []byte) ([]Item, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type is %q, want FeatureCollection", ErrMalformed, fc.Type)
	}
	if fc.Features == nil {
		return nil, fmt.Errorf("%w: missing features array", ErrMalformed)
	}

	items := make([]Item, len(*fc.Features))
	for i, f := range *fc.Features {
		items[i] = f.Properties
	}
	return items, nil
}

// Select returns the sub-sequence [start, end) of items in source order.
// start is inclusive and must be non-negative. end is exclusive; pass
// OpenEnd to select through the end of the catalog. A start at or beyond
// the catalog length yields an empty selection, not an error.
func Select(items []Item, start, end int) ([]Item, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: start index %d is negative", ErrInvalidRange, start)
	}
	if end != OpenEnd && end < start {
		return nil, fmt.Errorf("%w: end index %d is less than start index %d", ErrInvalidRange, end, start)
	}

	if end == OpenEnd || end > len(items) {
		end = len(items)
	}
	if start >= len(items) {
		return nil, nil
	}
	return items[start:end], nil
}
