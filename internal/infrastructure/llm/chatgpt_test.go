package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"JaundiceScanner/internal/config"
)

func TestSendDigest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("unexpected Authorization header %q", got)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "example.com") {
			t.Errorf("expected digest payload forwarded, got %q", req.Messages[1].Content)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "  Тон статей тревожный.  "}},
			},
		})
	}))
	defer server.Close()

	client := NewChatGPTClient(config.ChatGPTConfig{
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
		APIKey:   "key",
	})

	reply, err := client.SendDigest(context.Background(), []byte(`[{"url":"http://example.com/a"}]`))
	if err != nil {
		t.Fatalf("SendDigest returned error: %v", err)
	}
	if reply != "Тон статей тревожный." {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestSendDigestAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewChatGPTClient(config.ChatGPTConfig{
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
		APIKey:   "key",
	})

	_, err := client.SendDigest(context.Background(), []byte(`[]`))
	if err == nil {
		t.Fatal("expected error for API failure")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestSendDigestMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewChatGPTClient(config.ChatGPTConfig{})

	if _, err := client.SendDigest(context.Background(), []byte(`[]`)); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
