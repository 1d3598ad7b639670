package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/humanscore/internal/cache"
)

// DefaultMaxBytes caps how much of a page is read.
const DefaultMaxBytes = 4 << 20

// ErrUnsupportedType is returned for responses that are not prose.
var ErrUnsupportedType = errors.New("unsupported content type")

// Cache stores page bodies and validators for conditional requests.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Page is a fetched document.
type Page struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Format      string `json:"format"` // html, markdown or text
	ETag        string `json:"etag,omitempty"`
	LastMod     string `json:"lastModified,omitempty"`
	Body        string `json:"body"`
}

// Client fetches web pages for scoring with bounded retry on transient errors.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request.
	PerRequestTimeout time.Duration
	// MaxBytes caps the body size; zero means DefaultMaxBytes.
	MaxBytes int64
	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	Cache           Cache
}

// IsURL reports whether s looks like an http(s) URL rather than a path.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && isHTTPScheme(u) && u.Host != ""
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

// Get fetches rawURL. A cached copy is revalidated with If-None-Match and
// If-Modified-Since and served on 304.
func (c *Client) Get(ctx context.Context, rawURL string) (Page, error) {
	key := cache.KeyFrom("fetch", rawURL)
	var cached *Page
	if c.Cache != nil {
		if raw, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
			var p Page
			if json.Unmarshal(raw, &p) == nil {
				cached = &p
			}
		}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		page, status, err := c.tryOnce(ctx, rawURL, cached)
		if err == nil {
			if status == http.StatusNotModified && cached != nil {
				log.Debug().Str("url", rawURL).Msg("page not modified; using cache")
				return *cached, nil
			}
			if c.Cache != nil {
				if b, err := json.Marshal(page); err == nil {
					_ = c.Cache.Save(ctx, key, b)
				}
			}
			return page, nil
		}
		if !isTransient(err) || i == attempts-1 {
			return Page{}, err
		}
		lastErr = err
		log.Debug().Err(err).Int("attempt", i+1).Str("url", rawURL).Msg("retrying fetch")
		select {
		case <-ctx.Done():
			return Page{}, ctx.Err()
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return Page{}, lastErr
}

type statusError struct{ code int }

func (e statusError) Error() string { return fmt.Sprintf("unexpected status: %d", e.code) }

func (c *Client) tryOnce(ctx context.Context, rawURL string, cached *Page) (Page, int, error) {
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, 0, fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return Page{}, 0, fmt.Errorf("unsupported URL scheme: %q", req.URL.Scheme)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "text/html, text/markdown;q=0.9, text/plain;q=0.8")
	if cached != nil {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastMod != "" {
			req.Header.Set("If-Modified-Since", cached.LastMod)
		}
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return Page{}, 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return Page{}, resp.StatusCode, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Page{}, resp.StatusCode, statusError{resp.StatusCode}
	}

	ct := resp.Header.Get("Content-Type")
	format, ok := formatForContentType(ct)
	if !ok {
		return Page{}, resp.StatusCode, fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return Page{}, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return Page{
		URL:         resp.Request.URL.String(),
		ContentType: ct,
		Format:      format,
		ETag:        resp.Header.Get("ETag"),
		LastMod:     resp.Header.Get("Last-Modified"),
		Body:        string(b),
	}, resp.StatusCode, nil
}

// isTransient treats 5xx, 429 and deadline errors as retryable.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return false
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// formatForContentType maps a response type onto an extractor format.
func formatForContentType(ct string) (string, bool) {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(ct))
	}
	switch mt {
	case "text/html", "application/xhtml+xml", "":
		return "html", true
	case "text/markdown", "text/x-markdown":
		return "markdown", true
	case "text/plain":
		return "text", true
	}
	return "", false
}
