// Package app wires configuration, the content pipeline and the
// Telegram loop together.
package app

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"historybot/internal/bot"
	"historybot/internal/config"
	"historybot/internal/content"
	"historybot/internal/facts"
	"historybot/internal/feed"
	"historybot/internal/gemini"
	"historybot/internal/groq"
	"historybot/internal/ledger"
	"historybot/internal/logger"
	"historybot/internal/schedule"
	"historybot/internal/session"
	"historybot/internal/telegram"
	"historybot/internal/translate"
	"historybot/internal/video"
	"historybot/internal/youtube"
)

func Run() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	lg := openLedger(cfg)
	defer func() {
		if err := lg.Close(); err != nil {
			slog.Warn("failed to close ledger", "error", err)
		}
	}()

	tr := buildTranslator(ctx, cfg)

	fetcher := content.NewFetcher(feed.Fetch, lg, tr, rand.New(rand.NewSource(time.Now().UnixNano())))

	yt, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		slog.Error("failed to init youtube client", "error", err)
		os.Exit(1)
	}
	videoSel := video.NewSelector(yt.Search, tr)

	factRng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selectors := session.Selectors{
		History: func(ctx context.Context) (*content.Item, error) {
			return fetcher.Fetch(ctx, content.HistorySpec(cfg.HistorySources))
		},
		World: func(ctx context.Context) (*content.Item, error) {
			return fetcher.Fetch(ctx, content.WorldSpec(cfg.WorldSources))
		},
		Fact: func(ctx context.Context) (facts.Fact, string) {
			return facts.Pick(time.Now().In(loc), factRng)
		},
		Video: videoSel.Find,
	}
	machine := session.NewMachine(selectors)

	tg := telegram.NewClient(cfg.TelegramToken)
	b := bot.New(tg, machine, selectors.History, dailyChatID(cfg))

	daily := schedule.Daily{Hour: cfg.DailyHour, Minute: cfg.DailyMinute, Location: loc}
	go daily.Run(ctx, b.RunDaily)

	slog.Info("bot started",
		"daily_send", daily.Next(time.Now()).Format(time.RFC3339),
		"history_sources", len(cfg.HistorySources),
		"world_sources", len(cfg.WorldSources))

	b.Run(ctx)
	slog.Info("shutting down")
}

// openLedger prefers Postgres and falls back to the JSON file store.
func openLedger(cfg *config.Config) ledger.Ledger {
	if cfg.DatabaseURL != "" {
		pg, err := ledger.NewPostgresLedger(cfg.DatabaseURL)
		if err == nil {
			slog.Info("using postgres ledger")
			return pg
		}
		slog.Warn("postgres ledger unavailable, falling back to file", "error", err)
	}

	fl, err := ledger.NewFileLedger(cfg.LedgerFilePath)
	if err != nil {
		slog.Error("failed to open file ledger", "error", err)
		os.Exit(1)
	}
	slog.Info("using file ledger", "path", cfg.LedgerFilePath)
	return fl
}

// buildTranslator chains Groq with the optional Gemini fallback.
func buildTranslator(ctx context.Context, cfg *config.Config) *translate.Translator {
	backends := []translate.Func{groq.NewClient(cfg.GroqAPIKey).Complete}

	if cfg.GeminiAPIKey != "" {
		gc, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			slog.Warn("gemini fallback unavailable", "error", err)
		} else {
			backends = append(backends, gc.Complete)
		}
	}

	return translate.New(translate.Chain(backends...))
}

func dailyChatID(cfg *config.Config) int64 {
	if cfg.DailyChatID == "" {
		return 0
	}
	id, err := strconv.ParseInt(cfg.DailyChatID, 10, 64)
	if err != nil {
		slog.Warn("invalid DAILY_CHAT_ID, scheduled send disabled", "value", cfg.DailyChatID)
		return 0
	}
	return id
}
