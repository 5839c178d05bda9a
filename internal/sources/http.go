package sources

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// maxDefinitionSize bounds the size of a fetched definition document.
	maxDefinitionSize = 10 * 1024 * 1024

	httpFetchMaxElapsed = 30 * time.Second
)

func newFetchBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = httpFetchMaxElapsed
	return bo
}

// httpHandler fetches hub definitions over HTTP(S) with retry on transient
// failures.
type httpHandler struct {
	url    string
	client *http.Client
}

// NewHTTPHandler creates a handler for a definition served over HTTP(S).
func NewHTTPHandler(rawURL string) Handler {
	return &httpHandler{
		url:    rawURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (*httpHandler) Type() string {
	return TypeHTTP
}

func (h *httpHandler) Validate() error {
	if h.url == "" {
		return fmt.Errorf("url cannot be empty")
	}
	u, err := url.Parse(h.url)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", h.url, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q, want http or https", u.Scheme)
	}
	return nil
}

func (h *httpHandler) Fetch(ctx context.Context) (*FetchResult, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	var data []byte
	op := func() error {
		var err error
		data, err = h.fetchOnce(ctx)
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(newFetchBackoff(), ctx)); err != nil {
		return nil, fmt.Errorf("failed to fetch definition from %s: %w", h.url, err)
	}

	def, err := parseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("invalid definition from %s: %w", h.url, err)
	}

	return &FetchResult{
		Definition: def,
		Hash:       fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}

func (h *httpHandler) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/yaml, application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to read
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("server returned %s", resp.Status)
	default:
		// Client errors will not improve with retries.
		return nil, backoff.Permanent(fmt.Errorf("server returned %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDefinitionSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxDefinitionSize {
		return nil, backoff.Permanent(fmt.Errorf("definition exceeds %d bytes", maxDefinitionSize))
	}
	return data, nil
}
