package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/ka2n/recview/log"
)

// Transport retrieves the raw bytes behind a URL.
type Transport interface {
	FetchBytes(ctx context.Context, u *url.URL) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, u *url.URL) ([]byte, error)

func (f TransportFunc) FetchBytes(ctx context.Context, u *url.URL) ([]byte, error) {
	return f(ctx, u)
}

// HTTPConfig configures an HTTPTransport.
type HTTPConfig struct {
	Timeout   time.Duration // Default: 30s.
	MaxBytes  int64         // Max response body size. Default: 10MB.
	UserAgent string
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

func (c *HTTPConfig) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "recview"
	}
}

// HTTPTransport fetches http, https and file URLs.
type HTTPTransport struct {
	client *http.Client
	config HTTPConfig
}

// NewHTTPTransport creates a transport whose requests are logged at debug level.
func NewHTTPTransport(cfg HTTPConfig) *HTTPTransport {
	cfg.defaults()
	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: log.Transport(),
		}
	}
	return &HTTPTransport{client: client, config: cfg}
}

func (t *HTTPTransport) FetchBytes(ctx context.Context, u *url.URL) ([]byte, error) {
	switch u.Scheme {
	case "http", "https":
		return t.fetchHTTP(ctx, u)
	case "file":
		return t.readFile(u)
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func (t *HTTPTransport) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", t.config.UserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}

	if resp.ContentLength > t.config.MaxBytes {
		return nil, fmt.Errorf("body of %d bytes exceeds limit of %d", resp.ContentLength, t.config.MaxBytes)
	}
	return t.readAll(resp.Body)
}

func (t *HTTPTransport) readFile(u *url.URL) ([]byte, error) {
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return t.readAll(f)
}

// readAll reads r to the end and fails when it holds more than MaxBytes.
func (t *HTTPTransport) readAll(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, t.config.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > t.config.MaxBytes {
		return nil, fmt.Errorf("body exceeds limit of %d bytes", t.config.MaxBytes)
	}
	return body, nil
}
