package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/gofeed"

	"JaundiceScanner/internal/config"
	"JaundiceScanner/internal/ports"
)

// defaultMaxItems caps how many newest links one feed contributes per scan.
const defaultMaxItems = 20

// Source pulls article URLs from configured RSS/Atom feeds.
type Source struct {
	parser *gofeed.Parser
	feeds  []config.FeedConfig
	logger *slog.Logger
}

var _ ports.ArticleSource = (*Source)(nil)

// NewSource wires the feed list; a nil parser selects the default.
func NewSource(parser *gofeed.Parser, feeds []config.FeedConfig, logger *slog.Logger) *Source {
	if parser == nil {
		parser = gofeed.NewParser()
	}
	return &Source{parser: parser, feeds: feeds, logger: logger}
}

// FetchURLs parses every feed and returns the deduplicated article links.
// A failing feed is skipped; only all feeds failing is an error.
func (s *Source) FetchURLs(ctx context.Context) ([]string, error) {
	if len(s.feeds) == 0 {
		return nil, nil
	}

	var (
		urls    []string
		seen    = map[string]struct{}{}
		failed  int
		lastErr error
	)

	for _, fc := range s.feeds {
		parsed, err := s.parser.ParseURLWithContext(fc.URL, ctx)
		if err != nil {
			failed++
			lastErr = err
			s.debug("feed fetch failed", "feed", fc.Name, "error", err)
			continue
		}

		limit := fc.MaxItems
		if limit <= 0 {
			limit = defaultMaxItems
		}

		for i, item := range parsed.Items {
			if i >= limit {
				break
			}
			link := item.Link
			if link == "" {
				continue
			}
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			urls = append(urls, link)
		}
		s.debug("feed fetched", "feed", fc.Name, "items", len(parsed.Items))
	}

	if failed == len(s.feeds) && lastErr != nil {
		return nil, fmt.Errorf("all %d feeds failed: %w", failed, lastErr)
	}

	return urls, nil
}

func (s *Source) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
