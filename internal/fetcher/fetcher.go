package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/recipe-parser/internal/domain"
)

const (
	defaultTimeout      = 8 * time.Second
	defaultMaxRedirects = 5
	maxBodyBytes        = 5 << 20
)

// Identity is the browser-like header set sent with every outbound request.
type Identity struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
}

func (id Identity) apply(h http.Header) {
	if id.UserAgent != "" {
		h.Set("User-Agent", id.UserAgent)
	}
	if id.Accept != "" {
		h.Set("Accept", id.Accept)
	}
	if id.AcceptLanguage != "" {
		h.Set("Accept-Language", id.AcceptLanguage)
	}
}

// HTTPFetcher issues a single GET per call. No retries, no caching.
type HTTPFetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	logger   *zap.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout bounds each fetch. Expiry is reported as a FetchError.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) { f.timeout = d }
}

// WithMaxBodyBytes caps how much of a response body is read. Longer pages are truncated.
func WithMaxBodyBytes(n int64) Option {
	return func(f *HTTPFetcher) { f.maxBytes = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *HTTPFetcher) { f.logger = l }
}

// WithProxy routes requests through the given proxy selector.
func WithProxy(proxy func(*http.Request) (*url.URL, error)) Option {
	return func(f *HTTPFetcher) {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = proxy
		f.client.Transport = t
	}
}

// WithHTTPClient replaces the underlying client. Its redirect policy is overridden.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		clone := *c
		f.client = &clone
	}
}

func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:   &http.Client{},
		timeout:  defaultTimeout,
		maxBytes: maxBodyBytes,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client.CheckRedirect = checkRedirect
	return f
}

// Fetch returns the response body of a GET to rawURL.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, id Identity) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, &domain.ValidationError{URL: rawURL, Reason: err.Error()}
	}
	id.apply(req.Header)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		f.logger.Warn("response body truncated",
			zap.String("url", rawURL),
			zap.Int64("limit_bytes", f.maxBytes),
		)
		body = body[:f.maxBytes]
	}
	return body, nil
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= defaultMaxRedirects {
		return errors.New("too many redirects")
	}
	if !IsHTTPScheme(req.URL) {
		return errors.New("redirect to unsupported scheme")
	}
	return nil
}

// IsHTTPScheme reports whether u is an http or https URL.
func IsHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
