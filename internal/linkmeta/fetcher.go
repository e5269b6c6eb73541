// Package linkmeta fetches a remote page under fixed resource bounds and extracts
// its display metadata.
package linkmeta

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds the whole exchange, body included.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodySize caps the response body.
	DefaultMaxBodySize = 20 << 20
	// UserAgent is sent with every fetch.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

	acceptHeader = "text/html,application/xhtml+xml,application/xml"
	maxRedirects = 10
)

// Detail is the display metadata of a page. Missing fields are empty.
type Detail struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Image       string `json:"image"`
}

// Fetcher performs bounded page fetches.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithMaxBodySize overrides DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) { f.maxBodySize = n }
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) { f.client.Transport = rt }
}

// NewFetcher creates a Fetcher with the default bounds.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client.Timeout = f.timeout
	return f
}

// ParseTarget validates that raw is an absolute http(s) URL.
func ParseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	return u, nil
}

// Fetch retrieves rawURL and extracts its Detail.
//
// Errors are ErrInvalidURL for bad input, the caller's context error when the
// caller gave up, and *FetchError for anything the remote side caused.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Detail, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return nil, err
	}
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Referer", target.String())
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.failure(parent, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: target.String(), Err: fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)}
	}

	body, err := readLimited(resp.Body, f.maxBodySize)
	if err != nil {
		return nil, f.failure(parent, target, err)
	}

	detail := Parse(bytes.NewReader(body), resp.Header.Get("Content-Type"), resp.Request.URL)
	return &detail, nil
}

// failure classifies a transport or read error.
func (f *Fetcher) failure(parent context.Context, target *url.URL, err error) error {
	if parentErr := parent.Err(); parentErr != nil {
		return parentErr
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return &FetchError{URL: target.String(), Err: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{URL: target.String(), Err: fmt.Errorf("%w after %s", ErrTimeout, f.timeout)}
	}
	return &FetchError{URL: target.String(), Err: err}
}

// readLimited reads at most limit bytes and fails if the body is longer.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}
