package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"JaundiceScanner/internal/domain"
	"JaundiceScanner/internal/ports"
)

// PostgresRepository persists analysis reports into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ReportRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the reports table and its url index when absent.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	table := `CREATE TABLE IF NOT EXISTS article_reports (
	              id BIGSERIAL PRIMARY KEY,
	              url TEXT NOT NULL,
	              title TEXT NOT NULL DEFAULT '',
	              status TEXT NOT NULL,
	              score DOUBLE PRECISION,
	              words_count INTEGER,
	              exec_time DOUBLE PRECISION,
	              scanned_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	          )`

	if _, err := r.db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	index := `CREATE INDEX IF NOT EXISTS article_reports_url_idx ON article_reports (url)`
	if _, err := r.db.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("ensure url index: %w", err)
	}

	return nil
}

// SaveReports inserts one row per result tagged with the scan time.
func (r *PostgresRepository) SaveReports(ctx context.Context, scannedAt time.Time, results []domain.ArticleResult) error {
	if r.db == nil || len(results) == 0 {
		return nil
	}

	insert := r.builder.Insert("article_reports").
		Columns("url", "title", "status", "score", "words_count", "exec_time", "scanned_at")
	for _, result := range results {
		insert = insert.Values(
			result.URL,
			result.Title,
			string(result.Status),
			result.Score,
			result.WordsCount,
			result.ExecTime,
			scannedAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert reports: %w", err)
	}

	return nil
}

// RecentReports returns the newest persisted reports, newest first.
func (r *PostgresRepository) RecentReports(ctx context.Context, limit int) ([]domain.Report, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.builder.
		Select("url", "title", "status", "score", "words_count", "exec_time", "scanned_at").
		From("article_reports").
		OrderBy("scanned_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	var reports []domain.Report
	for rows.Next() {
		var (
			report     domain.Report
			status     string
			score      sql.NullFloat64
			wordsCount sql.NullInt64
			execTime   sql.NullFloat64
		)
		if err := rows.Scan(&report.URL, &report.Title, &status, &score, &wordsCount, &execTime, &report.ScannedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan report: %w", err)
		}
		report.Status = domain.ProcessingStatus(status)
		if score.Valid {
			report.Score = &score.Float64
		}
		if wordsCount.Valid {
			count := int(wordsCount.Int64)
			report.WordsCount = &count
		}
		if execTime.Valid {
			report.ExecTime = &execTime.Float64
		}
		reports = append(reports, report)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return reports, nil
}

// FilterNew returns the subset of urls never stored before, preserving order.
func (r *PostgresRepository) FilterNew(ctx context.Context, urls []string) ([]string, error) {
	if r.db == nil || len(urls) == 0 {
		return urls, nil
	}

	query := `SELECT DISTINCT url FROM article_reports WHERE url = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.StringArray(urls))
	if err != nil {
		return nil, fmt.Errorf("query seen urls: %w", err)
	}

	seen := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan url: %w", err)
		}
		seen[url] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	fresh := make([]string, 0, len(urls))
	for _, url := range urls {
		if !seen[url] {
			fresh = append(fresh, url)
		}
	}

	return fresh, nil
}
