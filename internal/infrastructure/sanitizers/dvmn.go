package sanitizers

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"JaundiceScanner/internal/sanitizer"
)

// DvmnSanitizer extracts article text and title from dvmn.org pages.
type DvmnSanitizer struct{}

var _ sanitizer.Sanitizer = (*DvmnSanitizer)(nil)

// NewDvmnSanitizer builds the dvmn.org sanitizer.
func NewDvmnSanitizer() *DvmnSanitizer {
	return &DvmnSanitizer{}
}

// Name identifies the site inside the registry.
func (s *DvmnSanitizer) Name() string {
	return "dvmn_org"
}

// Sanitize selects the lesson heading and content column.
func (s *DvmnSanitizer) Sanitize(html string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("parse document: %w", err)
	}

	title := firstText(doc, "h1")
	if title == "" {
		return "", "", &sanitizer.ArticleNotFoundError{Site: "dvmn.org"}
	}

	body := firstSelection(doc, "div.text-col", "article", "main")
	if body == nil {
		return "", "", &sanitizer.ArticleNotFoundError{Site: "dvmn.org"}
	}

	return plainText(body), title, nil
}
