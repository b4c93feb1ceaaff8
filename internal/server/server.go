package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"JaundiceScanner/internal/domain"
	"JaundiceScanner/internal/ports"
	"JaundiceScanner/internal/usecase"
)

const (
	defaultMaxURLs     = 10
	defaultReportLimit = 20
	maxReportLimit     = 100
	shutdownTimeout    = 5 * time.Second
)

var ginModeOnce sync.Once

// Server exposes batch analysis and report history over HTTP.
type Server struct {
	addr       string
	maxURLs    int
	batch      *usecase.Batch
	repository ports.ReportRepository
	logger     *slog.Logger
	engine     *gin.Engine
}

// New assembles the gin engine and its routes; repository may be nil.
func New(addr string, maxURLs int, batch *usecase.Batch, repository ports.ReportRepository, logger *slog.Logger) *Server {
	if maxURLs <= 0 {
		maxURLs = defaultMaxURLs
	}

	ginModeOnce.Do(func() { gin.SetMode(gin.ReleaseMode) })
	engine := gin.New()

	s := &Server{
		addr:       addr,
		maxURLs:    maxURLs,
		batch:      batch,
		repository: repository,
		logger:     logger,
		engine:     engine,
	}

	engine.Use(gin.Recovery(), s.requestLog)
	engine.GET("/", s.handleAnalyze)
	engine.GET("/reports", s.handleReports)
	engine.GET("/healthz", s.handleHealth)

	return s
}

// Handler exposes the assembled routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	if s.logger != nil {
		s.logger.Info("http server started", "addr", s.addr)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyze(c *gin.Context) {
	urls := splitURLs(c.Query("urls"))
	if len(urls) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no urls specified"})
		return
	}
	if len(urls) > s.maxURLs {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("too many urls in request, should be %d or less", s.maxURLs),
		})
		return
	}

	results, err := s.batch.Run(c.Request.Context(), urls)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("batch failed", "urls", len(urls), "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal processing error"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (s *Server) handleReports(c *gin.Context) {
	if s.repository == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reports storage is not configured"})
		return
	}

	limit := defaultReportLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(parsed, maxReportLimit)
	}

	reports, err := s.repository.RecentReports(c.Request.Context(), limit)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("load reports failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load reports"})
		return
	}
	if reports == nil {
		reports = []domain.Report{}
	}

	c.JSON(http.StatusOK, reports)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	if s.logger != nil {
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// splitURLs parses the comma-separated urls parameter, dropping blanks.
func splitURLs(raw string) []string {
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}
