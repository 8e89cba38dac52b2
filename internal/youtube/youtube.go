// Package youtube implements the video-search black box against the
// YouTube Data API.
package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"historybot/internal/video"
)

// Client wraps the YouTube Data API search endpoint.
type Client struct {
	service *yt.Service
}

// NewClient builds a client from an API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &Client{service: service}, nil
}

// Search runs one relevance-ordered video search, preferring
// medium-length, Hebrew-relevant results.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]video.Result, error) {
	call := c.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		Type("video").
		MaxResults(maxResults).
		Order("relevance").
		VideoDuration("medium").
		RelevanceLanguage("iw")

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	results := make([]video.Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		results = append(results, video.Result{
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			VideoID:     item.Id.VideoId,
		})
	}
	return results, nil
}
