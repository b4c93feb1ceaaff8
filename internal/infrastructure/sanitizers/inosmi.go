package sanitizers

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"JaundiceScanner/internal/sanitizer"
)

// InosmiSanitizer extracts article text and title from inosmi.ru pages.
type InosmiSanitizer struct{}

var _ sanitizer.Sanitizer = (*InosmiSanitizer)(nil)

// NewInosmiSanitizer builds the inosmi.ru sanitizer.
func NewInosmiSanitizer() *InosmiSanitizer {
	return &InosmiSanitizer{}
}

// Name identifies the site inside the registry.
func (s *InosmiSanitizer) Name() string {
	return "inosmi_ru"
}

// Sanitize selects the article heading and body; pages without either are
// reported as not found.
func (s *InosmiSanitizer) Sanitize(html string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("parse document: %w", err)
	}

	title := firstText(doc, "h1.article-header__title", "h1")
	if title == "" {
		return "", "", &sanitizer.ArticleNotFoundError{Site: "inosmi.ru"}
	}

	body := firstSelection(doc, "article.article", "div.article__text")
	if body == nil {
		return "", "", &sanitizer.ArticleNotFoundError{Site: "inosmi.ru"}
	}

	return plainText(body), title, nil
}

// firstText returns the trimmed text of the first selector that matches.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstSelection returns the first non-empty selection among the selectors.
func firstSelection(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// plainText strips embedded scripts and styles and collapses whitespace.
func plainText(body *goquery.Selection) string {
	body.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}
