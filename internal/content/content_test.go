package content

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"historybot/internal/feed"
	"historybot/internal/ledger"
	"historybot/internal/translate"
)

type fakeLedger struct {
	seen   map[string]bool
	marked []string
}

func newFakeLedger(seenTitles ...string) *fakeLedger {
	seen := make(map[string]bool)
	for _, t := range seenTitles {
		seen[t] = true
	}
	return &fakeLedger{seen: seen}
}

func (l *fakeLedger) HasSeen(_ context.Context, title, source string) bool {
	return l.seen[title]
}

func (l *fakeLedger) MarkSeen(_ context.Context, title, source string) error {
	l.marked = append(l.marked, title+"|"+source)
	l.seen[title] = true
	return nil
}

func (l *fakeLedger) Close() error { return nil }

var _ ledger.Ledger = (*fakeLedger)(nil)

// echoTranslator simulates a working backend by prefixing, so output
// never equals input.
func echoTranslator() *translate.Translator {
	return translate.New(func(ctx context.Context, prompt string) (string, error) {
		return "תרגום", nil
	})
}

// brokenTranslator simulates total translation failure.
func brokenTranslator() *translate.Translator {
	return translate.New(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("backend down")
	})
}

func staticFeeds(feeds map[string][]feed.Entry) feed.FetchFunc {
	return func(_ context.Context, url string) ([]feed.Entry, error) {
		entries, ok := feeds[url]
		if !ok {
			return nil, errors.New("unreachable source")
		}
		return entries, nil
	}
}

func testSpec(sources ...string) CategorySpec {
	spec := HistorySpec(sources)
	return spec
}

func TestFetchSkipsSeenAndFilteredEntries(t *testing.T) {
	entries := []feed.Entry{
		{Title: "A", Summary: "already delivered", Link: "https://x/a"},
		{Title: "B", Summary: "your daily horoscope", Link: "https://x/b"},
		{Title: "C", Summary: "a clean discovery", Link: "https://x/c"},
	}
	lg := newFakeLedger("A")
	f := NewFetcher(staticFeeds(map[string][]feed.Entry{"src": entries}), lg, echoTranslator(), rand.New(rand.NewSource(1)))

	item, err := f.Fetch(context.Background(), testSpec("src"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if item.OriginalTitle != "C" {
		t.Errorf("picked %q, want C (A seen, B filtered)", item.OriginalTitle)
	}
	if len(lg.marked) != 1 || lg.marked[0] != "C|src" {
		t.Errorf("ledger marks = %v, want exactly [C|src]", lg.marked)
	}
}

func TestFetchAdvancesPastDeadSources(t *testing.T) {
	feeds := map[string][]feed.Entry{
		"backup2": {{Title: "Winner", Summary: "from the deep backup", Link: "https://x/w"}},
	}
	// "primary" and "backup1" are absent from the map and error out.
	calls := make(map[string]int)
	fetch := func(ctx context.Context, url string) ([]feed.Entry, error) {
		calls[url]++
		return staticFeeds(feeds)(ctx, url)
	}

	f := NewFetcher(fetch, newFakeLedger(), echoTranslator(), rand.New(rand.NewSource(1)))
	item, err := f.Fetch(context.Background(), testSpec("primary", "backup1", "backup2"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if item.OriginalTitle != "Winner" {
		t.Errorf("got %q, want Winner", item.OriginalTitle)
	}
	if item.SourceID != "backup2" {
		t.Errorf("SourceID = %q, want backup2", item.SourceID)
	}
	for _, src := range []string{"primary", "backup1", "backup2"} {
		if calls[src] != 1 {
			t.Errorf("source %s fetched %d times, want exactly 1", src, calls[src])
		}
	}
}

func TestFetchEmptySourceIsSkipped(t *testing.T) {
	feeds := map[string][]feed.Entry{
		"empty": {},
		"full":  {{Title: "From second", Summary: "ok", Link: "https://x"}},
	}
	f := NewFetcher(staticFeeds(feeds), newFakeLedger(), echoTranslator(), rand.New(rand.NewSource(1)))

	item, err := f.Fetch(context.Background(), testSpec("empty", "full"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if item.OriginalTitle != "From second" {
		t.Errorf("got %q, want entry from the second source", item.OriginalTitle)
	}
}

func TestFetchAllSourcesExhausted(t *testing.T) {
	f := NewFetcher(staticFeeds(nil), newFakeLedger(), echoTranslator(), rand.New(rand.NewSource(1)))

	_, err := f.Fetch(context.Background(), testSpec("down1", "down2", "down3"))
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("err = %v, want ErrNoContent", err)
	}
}

func TestFetchAllEntriesSeenYieldsNoContent(t *testing.T) {
	feeds := map[string][]feed.Entry{
		"src": {{Title: "old news", Summary: "s", Link: "l"}},
	}
	f := NewFetcher(staticFeeds(feeds), newFakeLedger("old news"), echoTranslator(), rand.New(rand.NewSource(1)))

	if _, err := f.Fetch(context.Background(), testSpec("src")); !errors.Is(err, ErrNoContent) {
		t.Errorf("err = %v, want ErrNoContent", err)
	}
}

func TestFetchMarksTranslationFallback(t *testing.T) {
	feeds := map[string][]feed.Entry{
		"src": {{Title: "Hello", Summary: "Plain summary", Link: "https://x"}},
	}
	f := NewFetcher(staticFeeds(feeds), newFakeLedger(), brokenTranslator(), rand.New(rand.NewSource(1)))

	item, err := f.Fetch(context.Background(), testSpec("src"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if item.Title != "[EN] Hello" {
		t.Errorf("Title = %q, want marked original %q", item.Title, "[EN] Hello")
	}
	if item.Body != "[EN] Plain summary" {
		t.Errorf("Body = %q, want marked original", item.Body)
	}
	if item.OriginalTitle != "Hello" {
		t.Errorf("OriginalTitle = %q, must stay untagged", item.OriginalTitle)
	}
}

func TestFetchCapsBodyLength(t *testing.T) {
	long := strings.Repeat("x", 2000)
	feeds := map[string][]feed.Entry{
		"src": {{Title: "Long one", Summary: long, Link: "https://x"}},
	}
	f := NewFetcher(staticFeeds(feeds), newFakeLedger(), brokenTranslator(), rand.New(rand.NewSource(1)))

	spec := testSpec("src")
	item, err := f.Fetch(context.Background(), spec)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// Broken translator: body is the marked original of the capped text.
	want := "[EN] " + strings.Repeat("x", spec.BodyCap) + "..."
	if item.Body != want {
		t.Errorf("Body length = %d, want capped at %d runes plus markers", len(item.Body), spec.BodyCap)
	}
}

func TestFetchMissingSummaryUsesPlaceholder(t *testing.T) {
	feeds := map[string][]feed.Entry{
		"src": {{Title: "No body here", Summary: "", Link: "https://x"}},
	}
	f := NewFetcher(staticFeeds(feeds), newFakeLedger(), brokenTranslator(), rand.New(rand.NewSource(1)))

	spec := testSpec("src")
	item, err := f.Fetch(context.Background(), spec)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// The placeholder is already in the target language and must not
	// get the original-language tag.
	if item.Body != spec.MissingBody {
		t.Errorf("Body = %q, want placeholder %q", item.Body, spec.MissingBody)
	}
}

func TestFetchRandomizedCategoryStaysInPool(t *testing.T) {
	var entries []feed.Entry
	for _, title := range []string{"a", "b", "c", "d", "e", "f"} {
		entries = append(entries, feed.Entry{Title: title, Summary: "s", Link: "l"})
	}
	feeds := map[string][]feed.Entry{"src": entries}

	spec := WorldSpec([]string{"src"})
	spec.PoolSize = 3

	picks := make(map[string]bool)
	for seed := int64(0); seed < 10; seed++ {
		f := NewFetcher(staticFeeds(feeds), newFakeLedger(), echoTranslator(), rand.New(rand.NewSource(seed)))
		item, err := f.Fetch(context.Background(), spec)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		picks[item.OriginalTitle] = true
	}

	for title := range picks {
		if title != "a" && title != "b" && title != "c" {
			t.Errorf("randomized pick %q fell outside the pool of size 3", title)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 7, "this is..."},
		{"עברית ארוכה מאוד", 6, "עברית ..."},
		{"no cap", 0, "no cap"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
