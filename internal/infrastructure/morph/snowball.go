package morph

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball"

	"JaundiceScanner/internal/ports"
)

// checkEvery bounds how many tokens are processed between context checks,
// so an expired deadline cancels mid-text.
const checkEvery = 64

// SnowballSplitter normalizes text locally with a Snowball stemmer.
type SnowballSplitter struct {
	language string
}

var _ ports.WordSplitter = (*SnowballSplitter)(nil)

// NewSnowballSplitter validates the language against the stemmer.
func NewSnowballSplitter(language string) (*SnowballSplitter, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if _, err := snowball.Stem("word", language, true); err != nil {
		return nil, fmt.Errorf("unsupported language %s: %w", language, err)
	}
	return &SnowballSplitter{language: language}, nil
}

// SplitWords tokenizes on whitespace, trims edge punctuation, lowercases and
// stems each token, and drops one- and two-rune tokens except the negation
// particle "не".
func (s *SnowballSplitter) SplitWords(ctx context.Context, text string) ([]string, error) {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))

	for i, field := range fields {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		token := normalizeToken(field)
		if token == "" {
			continue
		}

		stemmed, err := snowball.Stem(token, s.language, true)
		if err != nil {
			return nil, fmt.Errorf("stem %q: %w", token, err)
		}
		if !keepToken(stemmed) {
			continue
		}
		words = append(words, stemmed)
	}

	return words, nil
}

// normalizeToken lowercases a token and trims punctuation and symbol runes
// from its edges; interior hyphens survive.
func normalizeToken(token string) string {
	trimmed := strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return strings.ToLower(trimmed)
}

// keepToken drops closed-class leftovers: anything of one or two runes is
// noise except the negation particle.
func keepToken(token string) bool {
	if token == "не" {
		return true
	}
	return utf8.RuneCountInString(token) > 2
}
