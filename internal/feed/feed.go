// Package feed retrieves upstream feeds and flattens their entries
// into a fixed record. Optional fields (summary vs description vs
// content) are resolved once here; downstream code never probes the
// raw feed item again.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Entry is one feed item with its fields already resolved.
type Entry struct {
	Title   string
	Summary string
	Link    string
}

// FetchFunc retrieves the ordered entries of one feed URL. The
// production implementation is Fetch; tests substitute their own.
type FetchFunc func(ctx context.Context, url string) ([]Entry, error)

const clientTimeout = 15 * time.Second

// Fetch downloads and parses one feed. An unreachable or malformed
// source surfaces as an error; the caller advances to the next source.
func Fetch(ctx context.Context, url string) ([]Entry, error) {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: clientTimeout}

	parsed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("error parsing feed %s: %w", url, err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		entries = append(entries, Entry{
			Title:   strings.TrimSpace(item.Title),
			Summary: resolveSummary(item),
			Link:    strings.TrimSpace(item.Link),
		})
	}
	return entries, nil
}

// resolveSummary picks the best body text a feed item offers.
func resolveSummary(item *gofeed.Item) string {
	summary := item.Description
	if strings.TrimSpace(summary) == "" {
		summary = item.Content
	}
	return StripHTML(summary)
}

// StripHTML flattens markup that many feeds embed in descriptions
// down to plain text.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return normalizeSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return normalizeSpace(s)
	}
	return normalizeSpace(doc.Text())
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
