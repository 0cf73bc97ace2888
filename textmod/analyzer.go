package textmod

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"vidcheck/types"
)

// EvidenceRetriever abstracts evidence search for one claim
type EvidenceRetriever interface {
	Retrieve(ctx context.Context, claim types.Claim) []types.Evidence
}

// Analyzer is the text module: claim extraction, per-claim evidence
// retrieval and judging, module-level assessment.
type Analyzer struct {
	extractor     *Extractor
	retriever     EvidenceRetriever
	judge         *Judge
	maxConcurrent int
	claimTimeout  time.Duration
}

// NewAnalyzer builds the text module analyzer
func NewAnalyzer(extractor *Extractor, retriever EvidenceRetriever, judge *Judge, maxConcurrent int, claimTimeout time.Duration) *Analyzer {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Analyzer{
		extractor:     extractor,
		retriever:     retriever,
		judge:         judge,
		maxConcurrent: maxConcurrent,
		claimTimeout:  claimTimeout,
	}
}

// Analyze runs the text pipeline for one request. A single claim's
// retrieval or judgment failure downgrades only that claim; the module
// fails only when claim extraction itself fails.
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.TextResult, error) {
	claims, err := a.extractor.Extract(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("text module: %w", err)
	}

	if len(claims) == 0 {
		return &types.TextResult{
			Summary:       "No checkable claims found in the transcript.",
			Assessment:    types.AssessmentInconclusive,
			Claims:        []types.Claim{},
			ClaimVerdicts: []types.ClaimVerdict{},
			TextSources:   []string{},
			Transcript:    req.Transcript,
			LowConfidence: true,
		}, nil
	}

	log.Printf("📋 Text module: judging %d claims (max %d concurrent)", len(claims), a.maxConcurrent)

	// Each goroutine writes only its own slot.
	verdicts := make([]types.ClaimVerdict, len(claims))
	sem := make(chan struct{}, a.maxConcurrent)
	var wg sync.WaitGroup

	for i, claim := range claims {
		wg.Add(1)
		go func(i int, claim types.Claim) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			verdicts[i] = a.judgeClaim(ctx, claim)
		}(i, claim)
	}
	wg.Wait()

	return a.assemble(req, claims, verdicts), nil
}

// judgeClaim runs retrieval then judgment for one claim under its own
// timeout. A timed-out retrieval leaves the claim with empty evidence,
// which the judge maps to insufficient_evidence.
func (a *Analyzer) judgeClaim(ctx context.Context, claim types.Claim) types.ClaimVerdict {
	claimCtx := ctx
	if a.claimTimeout > 0 {
		var cancel context.CancelFunc
		claimCtx, cancel = context.WithTimeout(ctx, a.claimTimeout)
		defer cancel()
	}

	evidence := a.retriever.Retrieve(claimCtx, claim)
	return a.judge.Judge(claimCtx, claim, evidence)
}

func (a *Analyzer) assemble(req types.AnalysisRequest, claims []types.Claim, verdicts []types.ClaimVerdict) *types.TextResult {
	fake := 0
	insufficient := 0
	seen := map[string]bool{}
	var sources []string
	for _, v := range verdicts {
		if v.IsFake() {
			fake++
		}
		if v.VerdictStatus == types.VerdictInsufficient {
			insufficient++
		}
		for _, ev := range v.Evidence {
			if ev.SourceURL != "" && !seen[ev.SourceURL] {
				seen[ev.SourceURL] = true
				sources = append(sources, ev.SourceURL)
			}
		}
	}

	assessment := types.AssessmentNormal
	fakeRatio := float64(fake) / float64(len(claims))
	if fakeRatio >= 0.5 {
		assessment = types.AssessmentSuspicious
	}

	summary := fmt.Sprintf("%d of %d claims verified false", fake, len(claims))
	if insufficient > 0 {
		summary += fmt.Sprintf(", %d with insufficient evidence", insufficient)
	}

	return &types.TextResult{
		Summary:       summary,
		Assessment:    assessment,
		Claims:        claims,
		ClaimVerdicts: verdicts,
		TextSources:   sources,
		Transcript:    req.Transcript,
		FakeClaims:    fake,
		TotalClaims:   len(claims),
		LowConfidence: insufficient == len(claims),
	}
}

// ClaimTexts returns the normalized claim text set, used to compare
// extraction runs.
func ClaimTexts(claims []types.Claim) map[string]bool {
	set := map[string]bool{}
	for _, c := range claims {
		set[strings.ToLower(strings.TrimSpace(c.ClaimText))] = true
	}
	return set
}
