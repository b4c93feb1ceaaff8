package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, serverAddrEnv, databaseDSNEnv, chargedDictEnv,
		morphURLEnv, morphAPIKeyEnv, chatGPTAPIKeyEnv, chatGPTModelEnv,
		telegramTokenEnv, telegramChatIDEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.Server.Addr)
	}
	if cfg.Server.MaxURLs != 10 {
		t.Fatalf("unexpected default maxUrls %d", cfg.Server.MaxURLs)
	}
	if got := cfg.Analysis.FetchDeadline(); got != 10*time.Second {
		t.Fatalf("unexpected fetch deadline %v", got)
	}
	if got := cfg.Analysis.SplitDeadline(); got != 3*time.Second {
		t.Fatalf("unexpected split deadline %v", got)
	}
	if cfg.Analysis.Language != "russian" {
		t.Fatalf("unexpected language %q", cfg.Analysis.Language)
	}
	if cfg.Morph.Mode != "local" {
		t.Fatalf("unexpected morph mode %q", cfg.Morph.Mode)
	}
	if got := cfg.Scheduler.TickInterval(); got != time.Hour {
		t.Fatalf("unexpected scan interval %v", got)
	}
	if cfg.Notifications.MinScore != 2.0 {
		t.Fatalf("unexpected min score %v", cfg.Notifications.MinScore)
	}
}

func TestLoadMergesFile(t *testing.T) {
	clearEnv(t)

	raw := `
server:
  addr: ":9090"
  maxUrls: 5
analysis:
  fetchTimeout: 4s
  splitTimeout: 1s
feeds:
  - name: inosmi
    url: https://inosmi.ru/rss/index.xml
    maxItems: 5
scheduler:
  interval: 30m
notifications:
  minScore: 10.5
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected addr from file, got %q", cfg.Server.Addr)
	}
	if cfg.Server.MaxURLs != 5 {
		t.Fatalf("expected maxUrls from file, got %d", cfg.Server.MaxURLs)
	}
	if got := cfg.Analysis.FetchDeadline(); got != 4*time.Second {
		t.Fatalf("expected fetch deadline 4s, got %v", got)
	}
	if got := cfg.Analysis.SplitDeadline(); got != time.Second {
		t.Fatalf("expected split deadline 1s, got %v", got)
	}
	if got := cfg.Scheduler.TickInterval(); got != 30*time.Minute {
		t.Fatalf("expected interval 30m, got %v", got)
	}
	if cfg.Notifications.MinScore != 10.5 {
		t.Fatalf("expected min score 10.5, got %v", cfg.Notifications.MinScore)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Name != "inosmi" || cfg.Feeds[0].MaxItems != 5 {
		t.Fatalf("unexpected feeds %+v", cfg.Feeds)
	}

	// Values the file does not mention keep their defaults.
	if cfg.Analysis.Language != "russian" {
		t.Fatalf("expected default language kept, got %q", cfg.Analysis.Language)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level kept, got %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(serverAddrEnv, ":7070")
	t.Setenv(databaseDSNEnv, "postgres://scanner@localhost/jaundice")

	cfg := Load()

	if cfg.Server.Addr != ":7070" {
		t.Fatalf("expected env to win over file, got %q", cfg.Server.Addr)
	}
	if cfg.Database.DSN != "postgres://scanner@localhost/jaundice" {
		t.Fatalf("expected DSN from env, got %q", cfg.Database.DSN)
	}
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	cfg := Load()

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected defaults when file is missing, got %q", cfg.Server.Addr)
	}
}

func TestDurationFallbacks(t *testing.T) {
	t.Parallel()

	bad := AnalysisConfig{FetchTimeout: "banana", SplitTimeout: "-5s"}
	if got := bad.FetchDeadline(); got != 10*time.Second {
		t.Fatalf("expected fallback 10s, got %v", got)
	}
	if got := bad.SplitDeadline(); got != 3*time.Second {
		t.Fatalf("expected fallback 3s, got %v", got)
	}

	if got := (SchedulerConfig{}).TickInterval(); got != time.Hour {
		t.Fatalf("expected fallback 1h, got %v", got)
	}
}

func TestSchedulerLocationFallback(t *testing.T) {
	t.Parallel()

	if got := (SchedulerConfig{}).Location(); got.String() != "UTC" {
		t.Fatalf("expected UTC fallback, got %v", got)
	}
}
