package textmod

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vidcheck/config"
	"vidcheck/llm"
	"vidcheck/types"
)

const extractorSystem = "You extract checkable factual claims from video transcripts. " +
	"Only extract assertions that can be verified against external sources. " +
	"Ignore opinions, speculation and rhetorical questions."

// Extractor turns a transcript into a bounded list of checkable claims
type Extractor struct {
	llm       llm.Client
	maxClaims int
}

// NewExtractor builds a claim extractor
func NewExtractor(client llm.Client, maxClaims int) *Extractor {
	if maxClaims <= 0 {
		maxClaims = config.DefaultMaxClaims
	}
	return &Extractor{llm: client, maxClaims: maxClaims}
}

// Extract returns up to maxClaims deduplicated claims from the request
// transcript. An empty transcript is a valid "nothing to check" state and
// yields an empty list, not an error.
func (e *Extractor) Extract(ctx context.Context, req types.AnalysisRequest) ([]types.Claim, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return []types.Claim{}, nil
	}

	prompt := fmt.Sprintf(`Video title: %s
Video description: %s

Transcript:
%s

Extract up to %d factual claims from the transcript. For each claim return:
- claim_text: the assertion, as a single declarative sentence
- category: one of politics, health, science, economy, society, entertainment, other
- importance: one of high, medium, low

JSON shape: {"claims": [{"claim_text": "...", "category": "...", "importance": "..."}]}`,
		req.Title, req.Description, req.Transcript, e.maxClaims)

	var parsed struct {
		Claims []struct {
			ClaimText  string `json:"claim_text"`
			Category   string `json:"category"`
			Importance string `json:"importance"`
		} `json:"claims"`
	}
	if err := e.llm.CompleteJSON(ctx, extractorSystem, prompt, &parsed); err != nil {
		return nil, fmt.Errorf("claim extraction failed: %w", err)
	}

	claims := make([]types.Claim, 0, len(parsed.Claims))
	for _, c := range parsed.Claims {
		text := strings.TrimSpace(c.ClaimText)
		if text == "" {
			continue
		}
		if importanceRank(c.Importance) < importanceRank(config.MinClaimImportance) {
			continue
		}
		category := c.Category
		if category == "" {
			category = "other"
		}
		claims = append(claims, types.Claim{
			ClaimID:    uuid.New().String(),
			ClaimText:  text,
			Category:   category,
			Importance: strings.ToLower(c.Importance),
		})
	}

	claims = DeduplicateClaims(claims)
	if len(claims) > e.maxClaims {
		claims = claims[:e.maxClaims]
	}
	return claims, nil
}

// DeduplicateClaims collapses near-identical claims, keeping the first
// occurrence. Two claims are the same when their word sets overlap by at
// least the configured ratio.
func DeduplicateClaims(claims []types.Claim) []types.Claim {
	out := make([]types.Claim, 0, len(claims))
	kept := make([]map[string]bool, 0, len(claims))
	for _, c := range claims {
		words := claimWordSet(c.ClaimText)
		dup := false
		for _, prev := range kept {
			if wordOverlap(words, prev) >= config.ClaimDedupeOverlap {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, c)
		kept = append(kept, words)
	}
	return out
}

func claimWordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?\"'():;")
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// wordOverlap is the shared-word fraction relative to the smaller set
func wordOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	hits := 0
	for w := range small {
		if large[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(small))
}

func importanceRank(level string) int {
	switch strings.ToLower(level) {
	case types.ImportanceHigh:
		return 2
	case types.ImportanceMedium:
		return 1
	default:
		return 0
	}
}
