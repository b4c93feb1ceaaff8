package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"JaundiceScanner/internal/ports"
)

// maxBodySize caps article downloads; news pages beyond this are truncated.
const maxBodySize = 10 << 20

// HTTPFetcher downloads article pages over one shared HTTP client.
type HTTPFetcher struct {
	client *http.Client
}

var _ ports.Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher wires an HTTP client; nil selects a pooled default whose
// timeout only backstops contexts without a deadline.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

// Fetch downloads the page body; any non-2xx response is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "JaundiceScanner/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}
