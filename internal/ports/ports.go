package ports

import (
	"context"
	"time"

	"JaundiceScanner/internal/domain"
)

// Fetcher downloads a raw article body; the context carries the fetch deadline.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// WordSplitter normalizes text into word tokens and must honor context
// cancellation mid-call.
type WordSplitter interface {
	SplitWords(ctx context.Context, text string) ([]string, error)
}

// ArticleSource supplies article URLs for scheduled scans (e.g., RSS feeds).
type ArticleSource interface {
	FetchURLs(ctx context.Context) ([]string, error)
}

// ReportRepository persists analysis reports for history and deduplication.
type ReportRepository interface {
	SaveReports(ctx context.Context, scannedAt time.Time, results []domain.ArticleResult) error
	RecentReports(ctx context.Context, limit int) ([]domain.Report, error)
	FilterNew(ctx context.Context, urls []string) ([]string, error)
}

// Notifier streams digests of flagged articles to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// ChatClient pushes structured digests to LLM APIs and returns the commentary.
type ChatClient interface {
	SendDigest(ctx context.Context, payload []byte) (string, error)
}

// Scheduler controls when scans execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
