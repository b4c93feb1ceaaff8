package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/lib/pq"

	"JaundiceScanner/internal/config"
	"JaundiceScanner/internal/infrastructure/feed"
	"JaundiceScanner/internal/infrastructure/fetch"
	"JaundiceScanner/internal/infrastructure/llm"
	"JaundiceScanner/internal/infrastructure/morph"
	"JaundiceScanner/internal/infrastructure/sanitizers"
	"JaundiceScanner/internal/infrastructure/scheduler"
	"JaundiceScanner/internal/infrastructure/storage"
	"JaundiceScanner/internal/infrastructure/telegram"
	"JaundiceScanner/internal/jaundice"
	"JaundiceScanner/internal/logging"
	"JaundiceScanner/internal/ports"
	"JaundiceScanner/internal/sanitizer"
	"JaundiceScanner/internal/server"
	"JaundiceScanner/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	batch     *usecase.Batch
	server    *server.Server
	scheduler *usecase.Scheduler
	db        *sql.DB
}

// New builds a runnable application instance. The analyzer (charged words,
// sanitizer registry, morphology backend) is constructed once here and shared
// read-only by every request and scan.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	splitter, err := buildSplitter(cfg)
	if err != nil {
		return nil, err
	}

	charged, err := loadChargedWords(ctx, cfg.Analysis.ChargedDict, splitter)
	if err != nil {
		return nil, err
	}

	registry := sanitizer.NewRegistry()
	registry.Register(sanitizers.NewInosmiSanitizer())
	registry.Register(sanitizers.NewDvmnSanitizer())

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:      fetch.NewHTTPFetcher(nil),
		Sanitizers:   registry,
		Splitter:     splitter,
		Charged:      charged,
		FetchTimeout: cfg.Analysis.FetchDeadline(),
		SplitTimeout: cfg.Analysis.SplitDeadline(),
		Logger:       baseLogger.With("component", "pipeline"),
	})

	batch := usecase.NewBatch(pipeline, cfg.Analysis.MaxConcurrent, baseLogger.With("component", "batch"))

	application := &Application{cfg: cfg, logger: baseLogger, batch: batch}

	var repository ports.ReportRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare database: %w", err)
		}
		application.db = db
		repository = repo
	}

	application.server = server.New(
		cfg.Server.Addr,
		cfg.Server.MaxURLs,
		batch,
		repository,
		baseLogger.With("component", "server"),
	)

	if len(cfg.Feeds) > 0 {
		var notifier ports.Notifier
		if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
			notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
		}

		var chatClient ports.ChatClient
		if cfg.ChatGPT.APIKey != "" {
			chatClient = llm.NewChatGPTClient(cfg.ChatGPT)
		}

		monitor := usecase.NewMonitor(usecase.MonitorDeps{
			Source:     feed.NewSource(nil, cfg.Feeds, baseLogger.With("component", "feed")),
			Batch:      batch,
			Repository: repository,
			Notifier:   notifier,
			ChatClient: chatClient,
			BatchSize:  cfg.Server.MaxURLs,
			MinScore:   cfg.Notifications.MinScore,
			Logger:     baseLogger.With("component", "monitor"),
		})

		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.TickInterval())
		application.scheduler = usecase.NewScheduler(driver, monitor, baseLogger.With("component", "scheduler"))
	}

	return application, nil
}

// Run starts the optional feed scheduler and serves HTTP until ctx ends.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			_ = a.scheduler.Stop(context.Background())
		}()
	}

	return a.server.Run(ctx)
}

// RunOnce analyzes the given URLs and prints the JSON reports to stdout.
func (a *Application) RunOnce(ctx context.Context, urls []string) error {
	defer a.close()

	results, err := a.batch.Run(ctx, urls)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func (a *Application) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func buildSplitter(cfg config.Config) (ports.WordSplitter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Morph.Mode)) {
	case "", "local":
		splitter, err := morph.NewSnowballSplitter(cfg.Analysis.Language)
		if err != nil {
			return nil, fmt.Errorf("build local splitter: %w", err)
		}
		return splitter, nil
	case "remote":
		if cfg.Morph.InferenceURL == "" {
			return nil, fmt.Errorf("morph mode remote requires inferenceUrl")
		}
		return morph.NewRemoteSplitter(cfg.Morph.InferenceURL, cfg.Morph.APIKey, cfg.Analysis.Language), nil
	default:
		return nil, fmt.Errorf("unknown morph mode %q", cfg.Morph.Mode)
	}
}

// loadChargedWords reads the dictionary and pushes it through the same
// splitter used for article text, so membership tests compare like with like.
func loadChargedWords(ctx context.Context, dir string, splitter ports.WordSplitter) (jaundice.ChargedWords, error) {
	words, err := jaundice.LoadChargedWords(dir)
	if err != nil {
		return nil, err
	}

	normalized, err := splitter.SplitWords(ctx, strings.Join(words, "\n"))
	if err != nil {
		return nil, fmt.Errorf("normalize charged words: %w", err)
	}

	return jaundice.NewChargedWords(normalized), nil
}
