package search

import (
	"context"
	"log"
	"time"

	readability "github.com/go-shiori/go-readability"

	"vidcheck/config"
	"vidcheck/types"
)

// Enricher replaces a short search snippet with readable page content
// for the top-ranked evidence item. Best effort only.
type Enricher struct {
	timeout time.Duration
}

// NewEnricher builds a page-content enricher
func NewEnricher() *Enricher {
	return &Enricher{timeout: 15 * time.Second}
}

// Enrich fetches the evidence page and swaps in its readable text when
// it is longer than the existing snippet. Any failure keeps the original.
func (e *Enricher) Enrich(ctx context.Context, ev types.Evidence) types.Evidence {
	if ev.SourceURL == "" {
		return ev
	}
	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return ev
	}

	article, err := readability.FromURL(ev.SourceURL, timeout)
	if err != nil {
		log.Printf("⚠️ Evidence enrichment failed (%s): %v", ev.SourceURL, err)
		return ev
	}
	text := article.TextContent
	if len(text) > config.SnippetMaxLen {
		text = text[:config.SnippetMaxLen]
	}
	if len(text) > len(ev.Snippet) {
		ev.Snippet = text
	}
	if ev.SourceTitle == "" && article.Title != "" {
		ev.SourceTitle = article.Title
	}
	return ev
}
