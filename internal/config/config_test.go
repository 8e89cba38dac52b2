package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("GROQ_API_KEY", "groq")
	t.Setenv("YOUTUBE_API_KEY", "yt")
	t.Setenv("SOURCES_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoadFailsWithoutRequiredCredentials(t *testing.T) {
	for _, missing := range []string{"TELEGRAM_BOT_TOKEN", "GROQ_API_KEY", "YOUTUBE_API_KEY"} {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")
			if _, err := Load(); err == nil {
				t.Errorf("Load succeeded without %s", missing)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DailyHour != 8 || cfg.DailyMinute != 0 {
		t.Errorf("daily time = %d:%d, want 8:00", cfg.DailyHour, cfg.DailyMinute)
	}
	if cfg.Timezone != "Asia/Jerusalem" {
		t.Errorf("timezone = %q", cfg.Timezone)
	}
	if len(cfg.HistorySources) == 0 || len(cfg.WorldSources) == 0 {
		t.Error("built-in source lineup missing")
	}
	if _, err := cfg.Location(); err != nil {
		t.Errorf("Location: %v", err)
	}
}

func TestLoadSourcesFileOverridesLineup(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "sources.yaml")
	yaml := "history:\n  - https://a.example/rss\nworld:\n  - https://b.example/rss\n  - https://c.example/rss\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	t.Setenv("SOURCES_CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.HistorySources) != 1 || cfg.HistorySources[0] != "https://a.example/rss" {
		t.Errorf("history sources = %v", cfg.HistorySources)
	}
	if len(cfg.WorldSources) != 2 {
		t.Errorf("world sources = %v", cfg.WorldSources)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "Not/AZone")

	if _, err := Load(); err == nil {
		t.Error("Load accepted an invalid timezone")
	}
}
