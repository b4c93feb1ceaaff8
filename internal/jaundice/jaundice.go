package jaundice

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ChargedWords is an immutable set of normalized emotionally loaded words,
// built once at startup and shared read-only across concurrent pipelines.
type ChargedWords map[string]struct{}

// NewChargedWords builds a set from a word list, dropping blanks.
func NewChargedWords(words []string) ChargedWords {
	set := make(ChargedWords, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// Contains reports whether the word belongs to the charged set.
func (c ChargedWords) Contains(word string) bool {
	_, ok := c[word]
	return ok
}

// Rate returns the percentage of article words found in the charged set,
// rounded to two decimals. An empty word list rates exactly 0.0.
func Rate(articleWords []string, charged ChargedWords) float64 {
	if len(articleWords) == 0 {
		return 0.0
	}

	found := 0
	for _, word := range articleWords {
		if charged.Contains(word) {
			found++
		}
	}

	rate := 100 * float64(found) / float64(len(articleWords))
	return math.Round(rate*100) / 100
}

// LoadChargedWords reads every regular file in dir and returns the
// concatenated newline-separated word list.
func LoadChargedWords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read charged dict %s: %w", dir, err)
	}

	var words []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read charged words %s: %w", entry.Name(), err)
		}
		for _, line := range strings.Split(string(raw), "\n") {
			word := strings.TrimSpace(line)
			if word == "" {
				continue
			}
			words = append(words, word)
		}
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("charged dict %s contains no words", dir)
	}

	return words, nil
}
