package search

import (
	"context"
	"log"
	"sort"

	"vidcheck/config"
	"vidcheck/types"
)

// Retriever turns one claim into a vetted, ranked evidence list.
// Provider failures and empty result sets are normal outcomes and come
// back as an empty slice, never an error.
type Retriever struct {
	provider     Provider
	fallback     Provider
	sources      *SourceLists
	enricher     *Enricher
	maxResults   int
	maxEvidence  int
	minRelevance float64
}

// NewRetriever builds a retriever. fallback and enricher may be nil.
func NewRetriever(provider Provider, fallback Provider, sources *SourceLists, enricher *Enricher, cfg config.Config) *Retriever {
	return &Retriever{
		provider:     provider,
		fallback:     fallback,
		sources:      sources,
		enricher:     enricher,
		maxResults:   cfg.MaxSearchResults,
		maxEvidence:  cfg.MaxEvidence,
		minRelevance: cfg.MinRelevance,
	}
}

// Retrieve searches for evidence on a claim, applies source vetting and
// relevance filtering, and returns at most maxEvidence items sorted by
// relevance descending.
func (r *Retriever) Retrieve(ctx context.Context, claim types.Claim) []types.Evidence {
	raw, err := r.provider.Search(ctx, claim.ClaimText, r.maxResults)
	if err != nil {
		log.Printf("⚠️ Evidence search failed for claim %s: %v", claim.ClaimID, err)
		raw = nil
	}

	usable := r.vet(raw)
	if len(usable) == 0 && r.fallback != nil {
		fb, err := r.fallback.Search(ctx, claim.ClaimText, r.maxResults)
		if err != nil {
			log.Printf("⚠️ Fallback evidence search failed for claim %s: %v", claim.ClaimID, err)
		} else {
			usable = r.vet(fb)
		}
	}

	// Relevance first; equally relevant items prefer newer coverage.
	sort.SliceStable(usable, func(i, j int) bool {
		if usable[i].RelevanceScore != usable[j].RelevanceScore {
			return usable[i].RelevanceScore > usable[j].RelevanceScore
		}
		return usable[i].PublishedDate > usable[j].PublishedDate
	})
	if len(usable) > r.maxEvidence {
		usable = usable[:r.maxEvidence]
	}

	if r.enricher != nil && len(usable) > 0 {
		usable[0] = r.enricher.Enrich(ctx, usable[0])
	}
	return usable
}

// vet applies the deny-list veto, credibility scoring, the relevance
// floor, and snippet truncation. Deny-listed sources never pass, at any
// relevance score.
func (r *Retriever) vet(items []types.Evidence) []types.Evidence {
	out := make([]types.Evidence, 0, len(items))
	for _, ev := range items {
		if ev.Domain == "" {
			ev.Domain = DomainOf(ev.SourceURL)
		}
		if r.sources.Denied(ev.Domain) {
			continue
		}
		if ev.RelevanceScore < r.minRelevance {
			continue
		}
		ev.DomainScore = r.sources.Credibility(ev.Domain)
		if len(ev.Snippet) > config.SnippetMaxLen {
			ev.Snippet = ev.Snippet[:config.SnippetMaxLen]
		}
		out = append(out, ev)
	}
	return out
}
