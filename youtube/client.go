package youtube

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// Metadata is the subset of video metadata the pipeline needs
type Metadata struct {
	VideoID      string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  string
	DurationSec  int
	HasCaptions  bool
	ThumbnailURL string
}

// Client looks up video metadata via the YouTube Data API
type Client struct {
	svc *yt.Service
}

// NewClient builds a metadata client using an API key
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Lookup fetches duration, caption presence and snippet fields for a video
func (c *Client) Lookup(ctx context.Context, videoID string) (*Metadata, error) {
	resp, err := c.svc.Videos.List([]string{"contentDetails", "snippet"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos.list failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	item := resp.Items[0]
	meta := &Metadata{
		VideoID:     videoID,
		DurationSec: parseISO8601Duration(item.ContentDetails.Duration),
		HasCaptions: item.ContentDetails.Caption == "true",
	}
	if item.Snippet != nil {
		meta.Title = item.Snippet.Title
		meta.Description = item.Snippet.Description
		meta.ChannelTitle = item.Snippet.ChannelTitle
		meta.PublishedAt = item.Snippet.PublishedAt
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			meta.ThumbnailURL = item.Snippet.Thumbnails.High.Url
		}
	}
	return meta, nil
}

// parseISO8601Duration converts a YouTube PT#H#M#S duration to seconds.
// Unparseable input yields 0.
func parseISO8601Duration(d string) int {
	d = strings.TrimPrefix(d, "PT")
	if d == "" {
		return 0
	}
	total := 0
	num := ""
	for _, r := range d {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'H' || r == 'M' || r == 'S':
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0
			}
			switch r {
			case 'H':
				total += n * 3600
			case 'M':
				total += n * 60
			case 'S':
				total += n
			}
			num = ""
		default:
			return 0
		}
	}
	return total
}
