package textmod

import (
	"context"
	"testing"
	"time"

	"vidcheck/types"
)

// fakeRetriever returns canned evidence per claim text
type fakeRetriever struct {
	evidence map[string][]types.Evidence
}

func (f *fakeRetriever) Retrieve(ctx context.Context, claim types.Claim) []types.Evidence {
	return f.evidence[claim.ClaimText]
}

func newTestAnalyzer(llm *fakeLLM, retriever *fakeRetriever) *Analyzer {
	return NewAnalyzer(NewExtractor(llm, 5), retriever, NewJudge(llm), 2, time.Second)
}

func TestAnalyzeEmptyTranscriptIsInconclusive(t *testing.T) {
	llm := &fakeLLM{response: `{"claims": []}`}
	analyzer := newTestAnalyzer(llm, &fakeRetriever{})

	result, err := analyzer.Analyze(context.Background(), types.AnalysisRequest{
		VideoID: "v1",
		Title:   "Breaking News",
	})
	if err != nil {
		t.Fatalf("empty transcript must not fail the module: %v", err)
	}
	if result.Assessment != types.AssessmentInconclusive {
		t.Errorf("expected inconclusive assessment, got %s", result.Assessment)
	}
	if result.TotalClaims != 0 {
		t.Errorf("expected zero claims, got %d", result.TotalClaims)
	}
	if !result.LowConfidence {
		t.Error("zero-claim result should carry the low confidence flag")
	}
}

func TestAnalyzeSingleClaimFailureIsContained(t *testing.T) {
	llm := &fakeLLM{
		response: `{"verdict_status": "verified_false", "reason": "contradicted by the record"}`,
		responses: map[string]string{
			"Extract up to": `{"claims": [
				{"claim_text": "The mayor resigned yesterday", "category": "politics", "importance": "high"},
				{"claim_text": "Inflation doubled over the summer", "category": "economy", "importance": "high"}
			]}`,
		},
	}
	retriever := &fakeRetriever{evidence: map[string][]types.Evidence{
		"The mayor resigned yesterday": {{
			SourceURL:      "https://reuters.com/a",
			Domain:         "reuters.com",
			Snippet:        "the mayor remains in office",
			RelevanceScore: 0.9,
		}},
		// Second claim gets no evidence: its judgment must downgrade to
		// insufficient_evidence, not fail the module.
	}}
	analyzer := newTestAnalyzer(llm, retriever)

	result, err := analyzer.Analyze(context.Background(), types.AnalysisRequest{
		VideoID:    "v1",
		Transcript: "some transcript",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.TotalClaims != 2 {
		t.Fatalf("expected 2 claims, got %d", result.TotalClaims)
	}

	byText := map[string]types.ClaimVerdict{}
	for _, v := range result.ClaimVerdicts {
		byText[v.ClaimText] = v
	}
	if got := byText["The mayor resigned yesterday"].VerdictStatus; got != types.VerdictFalse {
		t.Errorf("evidenced claim: expected verified_false, got %s", got)
	}
	if got := byText["Inflation doubled over the summer"].VerdictStatus; got != types.VerdictInsufficient {
		t.Errorf("evidence-less claim: expected insufficient_evidence, got %s", got)
	}

	if result.FakeClaims != 1 {
		t.Errorf("expected 1 fake claim, got %d", result.FakeClaims)
	}
	// 1 of 2 false meets the suspicious threshold.
	if result.Assessment != types.AssessmentSuspicious {
		t.Errorf("expected suspicious assessment, got %s", result.Assessment)
	}
}

func TestAnalyzeDedupesSources(t *testing.T) {
	llm := &fakeLLM{
		response: `{"verdict_status": "verified_true", "reason": "confirmed"}`,
		responses: map[string]string{
			"Extract up to": `{"claims": [
				{"claim_text": "The bridge reopened in March", "category": "society", "importance": "medium"},
				{"claim_text": "Repairs cost four million dollars", "category": "economy", "importance": "medium"}
			]}`,
		},
	}
	shared := types.Evidence{SourceURL: "https://apnews.com/x", Domain: "apnews.com", RelevanceScore: 0.8}
	retriever := &fakeRetriever{evidence: map[string][]types.Evidence{
		"The bridge reopened in March":      {shared},
		"Repairs cost four million dollars": {shared},
	}}
	analyzer := newTestAnalyzer(llm, retriever)

	result, err := analyzer.Analyze(context.Background(), types.AnalysisRequest{
		VideoID:    "v1",
		Transcript: "some transcript",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.TextSources) != 1 {
		t.Errorf("expected sources deduped by URL to 1, got %d: %v", len(result.TextSources), result.TextSources)
	}
	if result.Assessment != types.AssessmentNormal {
		t.Errorf("expected normal assessment, got %s", result.Assessment)
	}
}
