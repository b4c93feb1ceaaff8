package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"JaundiceScanner/internal/domain"
	"JaundiceScanner/internal/jaundice"
	"JaundiceScanner/internal/ports"
	"JaundiceScanner/internal/sanitizer"
)

const (
	fetchErrorTitle = "URL does not exist"
	timeoutTitle    = "Timeout Error"

	defaultFetchTimeout = 10 * time.Second
	defaultSplitTimeout = 3 * time.Second
)

// PipelineDeps wires all collaborators of one article analysis.
type PipelineDeps struct {
	Fetcher      ports.Fetcher
	Sanitizers   *sanitizer.Registry
	Splitter     ports.WordSplitter
	Charged      jaundice.ChargedWords
	FetchTimeout time.Duration
	SplitTimeout time.Duration
	Logger       *slog.Logger
}

// Pipeline analyzes one article: fetch, sanitize, tokenize, score. Modeled
// failures become statuses on the returned result; anything unexpected comes
// back as an error instead.
type Pipeline struct {
	fetcher      ports.Fetcher
	sanitizers   *sanitizer.Registry
	splitter     *TimedSplitter
	charged      jaundice.ChargedWords
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewPipeline constructs the per-URL analysis component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	fetchTimeout := deps.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	splitTimeout := deps.SplitTimeout
	if splitTimeout <= 0 {
		splitTimeout = defaultSplitTimeout
	}

	return &Pipeline{
		fetcher:      deps.Fetcher,
		sanitizers:   deps.Sanitizers,
		splitter:     NewTimedSplitter(deps.Splitter, splitTimeout),
		charged:      deps.Charged,
		fetchTimeout: fetchTimeout,
		logger:       deps.Logger,
	}
}

// Process runs the analysis for one URL. The fetch deadline covers fetching
// and sanitizing; tokenization runs under its own independent deadline.
func (p *Pipeline) Process(ctx context.Context, url string) (domain.ArticleResult, error) {
	result := domain.ArticleResult{URL: url}

	fctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	html, err := p.fetcher.Fetch(fctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return domain.ArticleResult{}, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			p.debug("fetch deadline exceeded", "url", url)
			result.Status = domain.StatusTimeout
			result.Title = timeoutTitle
			return result, nil
		}
		p.debug("fetch failed", "url", url, "error", err)
		result.Status = domain.StatusFetchError
		result.Title = fetchErrorTitle
		return result, nil
	}

	text, title, err := p.sanitize(url, html)
	if err != nil {
		var notFound *sanitizer.ArticleNotFoundError
		if errors.As(err, &notFound) {
			p.debug("article not found", "url", url, "site", notFound.Site)
			result.Status = domain.StatusParsingError
			result.Title = notFound.Error()
			return result, nil
		}
		return domain.ArticleResult{}, fmt.Errorf("sanitize %s: %w", url, err)
	}
	result.Title = title

	words, elapsed, timedOut, err := p.splitter.Split(ctx, text)
	if err != nil {
		return domain.ArticleResult{}, fmt.Errorf("split words %s: %w", url, err)
	}

	execTime := elapsed.Seconds()
	result.ExecTime = &execTime

	if timedOut {
		p.debug("tokenize deadline exceeded", "url", url, "elapsed", elapsed)
		result.Status = domain.StatusTimeout
		return result, nil
	}

	score := jaundice.Rate(words, p.charged)
	count := len(words)

	result.Status = domain.StatusOK
	result.Score = &score
	result.WordsCount = &count
	return result, nil
}

func (p *Pipeline) sanitize(url, html string) (string, string, error) {
	san, err := p.sanitizers.Resolve(url)
	if err != nil {
		return "", "", err
	}
	return san.Sanitize(html)
}

func (p *Pipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
