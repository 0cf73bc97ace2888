package search

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/mmcdole/gofeed"

	"vidcheck/types"
)

// FeedProvider serves evidence from configured fact-check RSS feeds.
// Used as a fallback when web search yields nothing usable.
type FeedProvider struct {
	urls   []string
	parser *gofeed.Parser
}

// NewFeedProvider builds a provider over fact-check feed URLs.
// Returns nil when no feeds are configured.
func NewFeedProvider(urls []string) *FeedProvider {
	if len(urls) == 0 {
		return nil
	}
	return &FeedProvider{urls: urls, parser: gofeed.NewParser()}
}

// Search scans the configured feeds for items overlapping the query and
// scores them by word overlap with the query.
func (f *FeedProvider) Search(ctx context.Context, query string, maxResults int) ([]types.Evidence, error) {
	queryWords := wordSet(query)
	var out []types.Evidence

	for _, feedURL := range f.urls {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			log.Printf("⚠️ Fact-check feed fetch failed (%s): %v", feedURL, err)
			continue
		}
		for _, item := range feed.Items {
			score := overlapRatio(queryWords, wordSet(item.Title+" "+item.Description))
			if score == 0 {
				continue
			}
			published := ""
			if item.PublishedParsed != nil {
				published = item.PublishedParsed.Format("2006-01-02")
			}
			out = append(out, types.Evidence{
				SourceTitle:    item.Title,
				SourceURL:      item.Link,
				Domain:         DomainOf(item.Link),
				Snippet:        item.Description,
				PublishedDate:  published,
				RelevanceScore: score,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func wordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?\"'():;")
		if len(w) > 2 {
			set[w] = true
		}
	}
	return set
}

// overlapRatio is the fraction of query words present in the candidate set
func overlapRatio(query, candidate map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for w := range query {
		if candidate[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}
