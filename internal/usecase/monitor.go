package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"JaundiceScanner/internal/domain"
	"JaundiceScanner/internal/ports"
)

// MonitorDeps wires the feed-scan collaborators. Repository, Notifier and
// ChatClient are optional; absent ones simply skip their step.
type MonitorDeps struct {
	Source     ports.ArticleSource
	Batch      *Batch
	Repository ports.ReportRepository
	Notifier   ports.Notifier
	ChatClient ports.ChatClient
	BatchSize  int
	MinScore   float64
	Logger     *slog.Logger
}

// Monitor analyzes fresh feed articles on a schedule and publishes digests
// of the most charged ones.
type Monitor struct {
	source     ports.ArticleSource
	batch      *Batch
	repository ports.ReportRepository
	notifier   ports.Notifier
	chatClient ports.ChatClient
	batchSize  int
	minScore   float64
	logger     *slog.Logger
}

// NewMonitor constructs the scheduled-scan use case.
func NewMonitor(deps MonitorDeps) *Monitor {
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	return &Monitor{
		source:     deps.Source,
		batch:      deps.Batch,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		chatClient: deps.ChatClient,
		batchSize:  batchSize,
		minScore:   deps.MinScore,
		logger:     deps.Logger,
	}
}

// Scan pulls article URLs from the feeds, analyzes the ones not seen before,
// persists the reports, and pushes a digest of flagged articles.
func (m *Monitor) Scan(ctx context.Context, now time.Time) error {
	if m.source == nil || m.batch == nil {
		return nil
	}

	urls, err := m.source.FetchURLs(ctx)
	if err != nil {
		return fmt.Errorf("fetch feed urls: %w", err)
	}

	if m.repository != nil && len(urls) > 0 {
		urls, err = m.repository.FilterNew(ctx, urls)
		if err != nil {
			return fmt.Errorf("filter seen urls: %w", err)
		}
	}

	if len(urls) == 0 {
		m.debug("nothing new to scan")
		return nil
	}

	var results []domain.ArticleResult
	for start := 0; start < len(urls); start += m.batchSize {
		end := min(start+m.batchSize, len(urls))
		part, err := m.batch.Run(ctx, urls[start:end])
		if err != nil {
			return fmt.Errorf("analyze feed batch: %w", err)
		}
		results = append(results, part...)
	}

	if m.repository != nil {
		if err := m.repository.SaveReports(ctx, now, results); err != nil {
			return fmt.Errorf("persist reports: %w", err)
		}
	}

	flagged := m.flag(results)
	m.logSummary(results, flagged)

	if len(flagged) == 0 {
		return nil
	}

	commentary := ""
	if m.chatClient != nil {
		payload, err := buildDigestJSON(flagged)
		if err != nil {
			return fmt.Errorf("build digest payload: %w", err)
		}
		commentary, err = m.chatClient.SendDigest(ctx, payload)
		if err != nil {
			return fmt.Errorf("send digest to chat: %w", err)
		}
		m.debug("chat commentary received", "chars", len(commentary))
	}

	if m.notifier == nil {
		return nil
	}

	message := buildDigestMessage(flagged, commentary)
	if err := m.notifier.PublishDigest(ctx, message); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}

	return nil
}

// flag keeps successful results whose score reaches the digest threshold.
func (m *Monitor) flag(results []domain.ArticleResult) []domain.ArticleResult {
	var flagged []domain.ArticleResult
	for _, result := range results {
		if result.Status != domain.StatusOK || result.Score == nil {
			continue
		}
		if *result.Score >= m.minScore {
			flagged = append(flagged, result)
		}
	}
	return flagged
}

func (m *Monitor) logSummary(results, flagged []domain.ArticleResult) {
	if m.logger == nil {
		return
	}

	counts := map[domain.ProcessingStatus]int{}
	for _, result := range results {
		counts[result.Status]++
	}

	m.logger.Info("feed scan finished",
		"articles", len(results),
		"ok", counts[domain.StatusOK],
		"fetch_errors", counts[domain.StatusFetchError],
		"parsing_errors", counts[domain.StatusParsingError],
		"timeouts", counts[domain.StatusTimeout],
		"flagged", len(flagged))
}

func (m *Monitor) debug(msg string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func buildDigestMessage(flagged []domain.ArticleResult, commentary string) string {
	if len(flagged) == 0 {
		return ""
	}

	var formatted string
	for _, result := range flagged {
		words := 0
		if result.WordsCount != nil {
			words = *result.WordsCount
		}
		score := 0.0
		if result.Score != nil {
			score = *result.Score
		}
		formatted += fmt.Sprintf("- %s\nJaundice: %.2f%% of %d words\n%s\n\n",
			result.Title,
			score,
			words,
			result.URL)
	}

	if commentary != "" {
		formatted += commentary + "\n"
	}

	return formatted
}

func buildDigestJSON(flagged []domain.ArticleResult) ([]byte, error) {
	type item struct {
		URL        string   `json:"url"`
		Title      string   `json:"title"`
		Score      *float64 `json:"score"`
		WordsCount *int     `json:"words_count"`
	}

	payload := make([]item, 0, len(flagged))
	for _, result := range flagged {
		payload = append(payload, item{
			URL:        result.URL,
			Title:      result.Title,
			Score:      result.Score,
			WordsCount: result.WordsCount,
		})
	}

	return json.Marshal(payload)
}
