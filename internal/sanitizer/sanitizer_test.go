package sanitizer

import (
	"errors"
	"strings"
	"testing"
)

type stubSanitizer struct {
	name string
}

func (s *stubSanitizer) Name() string { return s.name }

func (s *stubSanitizer) Sanitize(html string) (string, string, error) {
	return html, "stub", nil
}

func TestResolveUnknownHost(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	_, err := registry.Resolve("http://example.com/article/1")
	if err == nil {
		t.Fatal("expected error for unregistered host")
	}

	var notFound *ArticleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *ArticleNotFoundError, got %T", err)
	}
	if notFound.Site != "example.com" {
		t.Fatalf("expected host example.com in error, got %q", notFound.Site)
	}
	if !strings.Contains(err.Error(), "example.com") {
		t.Fatalf("expected error message to name the host, got %q", err.Error())
	}
}

func TestResolveRegisteredHost(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	stub := &stubSanitizer{name: "inosmi_ru"}
	registry.Register(stub)

	s, err := registry.Resolve("https://inosmi.ru/politic/20190629/245384784.html")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if s != stub {
		t.Fatalf("expected registered sanitizer, got %v", s)
	}
}

func TestResolveIgnoresPort(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(&stubSanitizer{name: "example_com"})

	if _, err := registry.Resolve("http://example.com:8080/article"); err != nil {
		t.Fatalf("Resolve should drop the port before lookup: %v", err)
	}
}

func TestResolveUnparsableURL(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	_, err := registry.Resolve(":::not-a-url")
	var notFound *ArticleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *ArticleNotFoundError, got %v", err)
	}
	if notFound.Site != ":::not-a-url" {
		t.Fatalf("expected raw input as site, got %q", notFound.Site)
	}
}

func TestSiteKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		host string
		want string
	}{
		{"inosmi.ru", "inosmi_ru"},
		{"dvmn.org", "dvmn_org"},
		{"sub.news.example.com", "sub_news_example_com"},
		{"localhost", "localhost"},
	}

	for _, tc := range cases {
		if got := SiteKey(tc.host); got != tc.want {
			t.Fatalf("SiteKey(%q) = %q, want %q", tc.host, got, tc.want)
		}
	}
}
