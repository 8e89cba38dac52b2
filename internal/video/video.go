// Package video finds a closing video related to what the session
// already covered.
package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"historybot/internal/content"
	"historybot/internal/metrics"
	"historybot/internal/translate"
)

// Result is one raw search hit from the video black box.
type Result struct {
	Title       string
	Description string
	VideoID     string
}

// SearchFunc is the black-box video search: query in, ordered hits
// out. May error per call.
type SearchFunc func(ctx context.Context, query string, maxResults int64) ([]Result, error)

// Item is the vetted, translated video handed back to the caller.
type Item struct {
	Title         string
	Description   string
	URL           string
	OriginalTitle string
}

// ErrNoVideo means every query variant was exhausted.
var ErrNoVideo = errors.New("no suitable video found")

// Videos whose titles carry these words are not the educational
// content we want.
var skipKeywords = []string{"trailer", "reaction", "live", "review"}

// Generic queries used when the session carries no topic context.
var genericQueries = []string{
	"היסטוריה מעניינת",
	"יהלומים מפורסמים",
	"עובדות היסטוריות",
	"גילויים ארכיאולוגיים",
}

const (
	maxResults        = 5
	descriptionCap    = 150
	topicKeywordCount = 4
)

// Selector composes search, category filtering and translation.
type Selector struct {
	search SearchFunc
	tr     *translate.Translator
}

// NewSelector builds a Selector around the search black box.
func NewSelector(search SearchFunc, tr *translate.Translator) *Selector {
	return &Selector{search: search, tr: tr}
}

// Find walks the query variants in order and returns the first
// acceptable result. A failing search call skips to the next variant.
func (s *Selector) Find(ctx context.Context, topic string) (*Item, error) {
	for _, query := range QueryVariants(topic) {
		results, err := s.search(ctx, query, maxResults)
		if err != nil {
			slog.Warn("video search failed, trying next query", "query", query, "error", err)
			continue
		}

		for _, r := range results {
			if hasSkippedCategory(r.Title) {
				slog.Debug("video skipped by category keyword", "title", r.Title)
				continue
			}
			metrics.Global.IncrementVideosDelivered()
			return s.compose(ctx, r), nil
		}
	}

	slog.Error("all video query variants exhausted", "topic", topic)
	return nil, ErrNoVideo
}

func (s *Selector) compose(ctx context.Context, r Result) *Item {
	title := s.tr.Translate(ctx, r.Title, "כותרת של סרטון")
	if translate.Failed(r.Title, title) {
		metrics.Global.IncrementTranslationsFailed()
		title = translate.MarkOriginal(r.Title)
	}

	description := content.Truncate(r.Description, descriptionCap)
	if description != "" {
		translated := s.tr.Translate(ctx, description, "תיאור סרטון")
		if translate.Failed(description, translated) {
			metrics.Global.IncrementTranslationsFailed()
			translated = translate.MarkOriginal(description)
		}
		description = translated
	}

	return &Item{
		Title:         title,
		Description:   description,
		URL:           "https://www.youtube.com/watch?v=" + r.VideoID,
		OriginalTitle: r.Title,
	}
}

// QueryVariants builds the ordered search queries. With topic context
// the leading keywords get documentary/educational qualifiers; without
// it the fixed generic list is used.
func QueryVariants(topic string) []string {
	keywords := leadingKeywords(topic)
	if keywords == "" {
		return genericQueries
	}
	variants := []string{
		fmt.Sprintf("%s documentary", keywords),
		fmt.Sprintf("%s educational", keywords),
		keywords,
	}
	return append(variants, genericQueries...)
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"into": true, "that": true, "this": true,
}

// leadingKeywords keeps the first few significant words of the topic.
func leadingKeywords(topic string) string {
	words := strings.Fields(strings.TrimSpace(topic))
	kept := make([]string, 0, topicKeywordCount)
	for _, w := range words {
		if len([]rune(w)) <= 2 || stopWords[strings.ToLower(w)] {
			continue
		}
		kept = append(kept, w)
		if len(kept) == topicKeywordCount {
			break
		}
	}
	return strings.Join(kept, " ")
}

func hasSkippedCategory(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range skipKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
