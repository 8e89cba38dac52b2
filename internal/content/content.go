// Package content implements the per-category acquisition pipeline:
// walk an ordered source list, skip filtered and already-delivered
// entries, translate the winner and record it in the ledger.
package content

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"

	"historybot/internal/feed"
	"historybot/internal/filter"
	"historybot/internal/ledger"
	"historybot/internal/metrics"
	"historybot/internal/translate"
)

// Item is one vetted piece of content, ready to render. Immutable
// once returned.
type Item struct {
	Title         string
	Body          string
	Link          string
	OriginalTitle string
	SourceID      string
}

// ErrNoContent means every source was exhausted without a winner.
// Not a crash: callers render an apology and move on.
var ErrNoContent = errors.New("no content available")

// CategorySpec describes how one content category is fetched.
type CategorySpec struct {
	Name      string
	Sources   []string // ordered, primary first
	PoolSize  int      // entries considered per source
	Randomize bool     // shuffle the pool instead of feed order
	BodyCap   int      // body length cap in runes

	TitleHint   string // translation context for the title
	BodyHint    string // translation context for the body
	MissingBody string // pre-authored text when the feed has no summary
}

// HistorySpec is the deterministic long-form category: latest entries
// first, small pool.
func HistorySpec(sources []string) CategorySpec {
	return CategorySpec{
		Name:        "history",
		Sources:     sources,
		PoolSize:    5,
		Randomize:   false,
		BodyCap:     900,
		TitleHint:   "כותרת של אירוע היסטורי",
		BodyHint:    "תקציר של אירוע היסטורי",
		MissingBody: "לא זמין תיאור לכתבה זו",
	}
}

// WorldSpec is the randomized short-form category: wider pool,
// shuffled order.
func WorldSpec(sources []string) CategorySpec {
	return CategorySpec{
		Name:        "world",
		Sources:     sources,
		PoolSize:    15,
		Randomize:   true,
		BodyCap:     750,
		TitleHint:   "כותרת של תוכן מעניין על טבע או תרבות",
		BodyHint:    "תיאור של תוכן מעניין",
		MissingBody: "תוכן מעניין ללא תיאור זמין",
	}
}

// Fetcher runs the acquisition pipeline for any category.
type Fetcher struct {
	fetch  feed.FetchFunc
	ledger ledger.Ledger
	tr     *translate.Translator

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFetcher wires the pipeline. rng drives randomized categories and
// is seeded by the caller, which keeps tests deterministic.
func NewFetcher(fetch feed.FetchFunc, lg ledger.Ledger, tr *translate.Translator, rng *rand.Rand) *Fetcher {
	return &Fetcher{fetch: fetch, ledger: lg, tr: tr, rng: rng}
}

// Fetch tries each source in order and returns the first entry that
// passes the filter and the ledger. A dead source is logged and
// skipped; only full exhaustion yields ErrNoContent.
func (f *Fetcher) Fetch(ctx context.Context, spec CategorySpec) (*Item, error) {
	for _, source := range spec.Sources {
		entries, err := f.fetch(ctx, source)
		if err != nil {
			slog.Warn("source unavailable, trying next", "category", spec.Name, "source", source, "error", err)
			metrics.Global.IncrementSourcesFailed()
			continue
		}
		if len(entries) == 0 {
			slog.Warn("source returned no entries, trying next", "category", spec.Name, "source", source)
			metrics.Global.IncrementSourcesFailed()
			continue
		}

		if entry, ok := f.pickEntry(ctx, spec, source, entries); ok {
			return f.compose(ctx, spec, source, entry), nil
		}
		slog.Info("no acceptable entry in source", "category", spec.Name, "source", source)
	}

	slog.Error("all sources exhausted", "category", spec.Name)
	return nil, ErrNoContent
}

// pickEntry scans the candidate pool in category order and returns
// the first unfiltered, unseen entry.
func (f *Fetcher) pickEntry(ctx context.Context, spec CategorySpec, source string, entries []feed.Entry) (feed.Entry, bool) {
	pool := entries
	if spec.PoolSize > 0 && len(pool) > spec.PoolSize {
		pool = pool[:spec.PoolSize]
	}

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	if spec.Randomize {
		f.mu.Lock()
		order = f.rng.Perm(len(pool))
		f.mu.Unlock()
	}

	for _, idx := range order {
		entry := pool[idx]
		if filter.IsFiltered(entry.Title, entry.Summary) {
			slog.Debug("entry filtered out", "category", spec.Name, "title", entry.Title)
			metrics.Global.IncrementFilteredOut()
			continue
		}
		if f.ledger.HasSeen(ctx, entry.Title, source) {
			slog.Debug("entry already delivered", "category", spec.Name, "title", entry.Title)
			metrics.Global.IncrementDuplicatesSkipped()
			continue
		}
		return entry, true
	}
	return feed.Entry{}, false
}

// compose translates the winner, records it in the ledger and builds
// the final item.
func (f *Fetcher) compose(ctx context.Context, spec CategorySpec, source string, entry feed.Entry) *Item {
	body := entry.Summary
	if body == "" {
		body = spec.MissingBody
	}
	body = Truncate(body, spec.BodyCap)

	title := f.tr.Translate(ctx, entry.Title, spec.TitleHint)
	if translate.Failed(entry.Title, title) {
		slog.Warn("title translation degraded", "category", spec.Name, "title", entry.Title)
		metrics.Global.IncrementTranslationsFailed()
		title = translate.MarkOriginal(entry.Title)
	}

	translatedBody := f.tr.Translate(ctx, body, spec.BodyHint)
	if translate.Failed(body, translatedBody) && body != spec.MissingBody {
		slog.Warn("body translation degraded", "category", spec.Name, "title", entry.Title)
		metrics.Global.IncrementTranslationsFailed()
		translatedBody = translate.MarkOriginal(body)
	}

	// The ledger keys on the pre-translation title so dedup works no
	// matter how the translation came out.
	if err := f.ledger.MarkSeen(ctx, entry.Title, source); err != nil {
		slog.Error("failed to record delivery, item goes out anyway", "error", err, "title", entry.Title)
	}

	metrics.Global.IncrementItemsDelivered()
	slog.Info("content selected", "category", spec.Name, "source", source, "title", entry.Title)

	return &Item{
		Title:         title,
		Body:          translatedBody,
		Link:          entry.Link,
		OriginalTitle: entry.Title,
		SourceID:      source,
	}
}

// Truncate caps s at max runes, appending an ellipsis when it cuts.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
