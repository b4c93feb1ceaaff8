package domain

import "time"

// ProcessingStatus enumerates the terminal states of one article analysis.
type ProcessingStatus string

const (
	StatusOK           ProcessingStatus = "OK"
	StatusFetchError   ProcessingStatus = "FETCH_ERROR"
	StatusParsingError ProcessingStatus = "PARSING_ERROR"
	StatusTimeout      ProcessingStatus = "TIMEOUT"
)

// ArticleResult is the per-URL unit of batch output. Score and WordsCount are
// set only for StatusOK; ExecTime is set whenever tokenization was attempted,
// including the inner-deadline timeout case.
type ArticleResult struct {
	URL        string           `json:"url"`
	Title      string           `json:"title"`
	Status     ProcessingStatus `json:"status"`
	Score      *float64         `json:"score"`
	WordsCount *int             `json:"words_count"`
	ExecTime   *float64         `json:"exec_time"`
}

// Report is an ArticleResult persisted for history and feed deduplication.
type Report struct {
	ArticleResult
	ScannedAt time.Time `json:"scanned_at"`
}
