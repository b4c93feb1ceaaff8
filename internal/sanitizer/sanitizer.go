package sanitizer

import (
	"fmt"
	"net/url"
	"strings"
)

// ArticleNotFoundError reports that no registered sanitizer handles a site,
// or that a page lacks the article structure a sanitizer expects.
type ArticleNotFoundError struct {
	Site string
}

func (e *ArticleNotFoundError) Error() string {
	return fmt.Sprintf("article on %s is not supported", e.Site)
}

// Sanitizer extracts plain article text and a title from site-specific HTML.
type Sanitizer interface {
	Name() string
	Sanitize(html string) (text string, title string, err error)
}

// Registry keeps a mapping from site keys to sanitizer implementations.
// Only registered site layouts are parsed; unknown hosts are rejected.
type Registry struct {
	sanitizers map[string]Sanitizer
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sanitizers: map[string]Sanitizer{}}
}

// Register adds or replaces a sanitizer implementation under its site key.
func (r *Registry) Register(s Sanitizer) {
	if r.sanitizers == nil {
		r.sanitizers = map[string]Sanitizer{}
	}
	r.sanitizers[s.Name()] = s
}

// Resolve returns the sanitizer registered for the URL's site or an
// *ArticleNotFoundError carrying the host.
func (r *Registry) Resolve(rawURL string) (Sanitizer, error) {
	host := hostOf(rawURL)
	if s, ok := r.sanitizers[SiteKey(host)]; ok {
		return s, nil
	}
	return nil, &ArticleNotFoundError{Site: host}
}

// SiteKey converts a host into a registry key: dots become underscores,
// so inosmi.ru maps to inosmi_ru.
func SiteKey(host string) string {
	return strings.ReplaceAll(host, ".", "_")
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return rawURL
	}
	return parsed.Hostname()
}
