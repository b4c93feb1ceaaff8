package morph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"JaundiceScanner/internal/ports"
)

// RemoteSplitter delegates normalization to a morphology HTTP service, for
// deployments that need dictionary-grade lemmas instead of local stemming.
type RemoteSplitter struct {
	endpoint string
	apiKey   string
	language string
	http     *http.Client
}

var _ ports.WordSplitter = (*RemoteSplitter)(nil)

// NewRemoteSplitter creates a reusable client for the service endpoint.
func NewRemoteSplitter(endpoint, apiKey, language string) *RemoteSplitter {
	return &RemoteSplitter{
		endpoint: endpoint,
		apiKey:   apiKey,
		language: language,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// SplitWords posts the text and returns the service's normalized tokens.
// The request context carries the tokenization deadline.
func (r *RemoteSplitter) SplitWords(ctx context.Context, text string) ([]string, error) {
	if r.endpoint == "" {
		return nil, fmt.Errorf("morph service misconfigured")
	}

	payload := map[string]any{
		"text":     text,
		"language": r.language,
	}

	var resp struct {
		Words []string `json:"words"`
	}

	if err := r.post(ctx, payload, &resp); err != nil {
		return nil, err
	}

	return resp.Words, nil
}

func (r *RemoteSplitter) post(ctx context.Context, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
