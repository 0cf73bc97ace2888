package aggregator

import (
	"errors"
	"strings"
	"testing"

	"vidcheck/types"
)

func textWithFalseClaim() *types.TextResult {
	return &types.TextResult{
		Summary:    "1 of 1 claims verified false",
		Assessment: types.AssessmentSuspicious,
		ClaimVerdicts: []types.ClaimVerdict{{
			ClaimID:       "c1",
			ClaimText:     "the dam failed last week",
			VerdictStatus: types.VerdictFalse,
			VerdictReason: "contradicted by the agency record",
		}},
		FakeClaims:  1,
		TotalClaims: 1,
	}
}

func textVerified() *types.TextResult {
	return &types.TextResult{
		Summary: "0 of 1 claims verified false",
		ClaimVerdicts: []types.ClaimVerdict{{
			ClaimID:       "c1",
			VerdictStatus: types.VerdictTrue,
		}},
		TotalClaims: 1,
	}
}

func textInsufficient() *types.TextResult {
	return &types.TextResult{
		Summary:    "No checkable claims found in the transcript.",
		Assessment: types.AssessmentInconclusive,
		ClaimVerdicts: []types.ClaimVerdict{{
			ClaimID:       "c1",
			VerdictStatus: types.VerdictInsufficient,
		}},
		TotalClaims:   1,
		LowConfidence: true,
	}
}

func calmImage() *types.ImageResult {
	return &types.ImageResult{Summary: "No strong visual manipulation signals"}
}

func calmAudio() *types.AudioResult {
	return &types.AudioResult{Summary: "No strong audio manipulation signals"}
}

func manipulativeAudio() *types.AudioResult {
	return &types.AudioResult{
		Summary:           "Manipulative tone detected in the audio track",
		ManipulationScore: 0.9,
	}
}

func TestAggregateNoResultsIsError(t *testing.T) {
	agg := New(0.6)
	_, err := agg.Aggregate(types.ModuleResults{
		Failures: []types.ModuleFailure{
			{Module: "text", Reason: "x"},
			{Module: "image", Reason: "y"},
			{Module: "audio", Reason: "z"},
		},
	})
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestAggregateMaliciousFakeNews(t *testing.T) {
	agg := New(0.6)
	verdict, err := agg.Aggregate(types.ModuleResults{
		Text:  textWithFalseClaim(),
		Image: calmImage(),
		Audio: manipulativeAudio(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.IsFakeNews {
		t.Error("false claim + high manipulation should be fake news")
	}
	if verdict.ConfidenceLevel != types.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", verdict.ConfidenceLevel)
	}
}

func TestAggregateSimpleMisinformation(t *testing.T) {
	agg := New(0.6)
	verdict, err := agg.Aggregate(types.ModuleResults{
		Text:  textWithFalseClaim(),
		Image: calmImage(),
		Audio: calmAudio(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.IsFakeNews {
		t.Error("false claim should be fake news even without manipulation")
	}
	if verdict.ConfidenceLevel != types.ConfidenceMedium {
		t.Errorf("expected medium confidence, got %s", verdict.ConfidenceLevel)
	}
}

func TestAggregateClickbait(t *testing.T) {
	agg := New(0.6)
	verdict, err := agg.Aggregate(types.ModuleResults{
		Text:  textVerified(),
		Image: calmImage(),
		Audio: manipulativeAudio(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.IsFakeNews {
		t.Error("verified claims with high manipulation should flag clickbait")
	}
	if verdict.ConfidenceLevel != types.ConfidenceMedium {
		t.Errorf("expected medium confidence, got %s", verdict.ConfidenceLevel)
	}
}

func TestAggregateInsufficientEvidence(t *testing.T) {
	agg := New(0.6)
	verdict, err := agg.Aggregate(types.ModuleResults{
		Text:  textInsufficient(),
		Image: calmImage(),
		Audio: calmAudio(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if verdict.IsFakeNews {
		t.Error("insufficient evidence must not be marked fake")
	}
	if verdict.ConfidenceLevel != types.ConfidenceLow {
		t.Errorf("expected low confidence, got %s", verdict.ConfidenceLevel)
	}
	if !strings.Contains(strings.ToLower(verdict.OverallReasoning), "insufficient") {
		t.Errorf("reasoning should note insufficient evidence: %q", verdict.OverallReasoning)
	}
}

func TestAggregateZeroClaimsNotFake(t *testing.T) {
	agg := New(0.6)
	verdict, err := agg.Aggregate(types.ModuleResults{
		Text: &types.TextResult{
			Summary:       "No checkable claims found in the transcript.",
			Assessment:    types.AssessmentInconclusive,
			LowConfidence: true,
		},
		Image: calmImage(),
		Audio: calmAudio(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if verdict.IsFakeNews {
		t.Error("zero claims must not be marked fake from text alone")
	}
	if verdict.ConfidenceLevel != types.ConfidenceLow {
		t.Errorf("expected low confidence, got %s", verdict.ConfidenceLevel)
	}
}

func TestAggregateFailedModuleCapsConfidence(t *testing.T) {
	// Text false, audio manipulative, image timed out: the base verdict
	// is high confidence but a failed module caps it at medium.
	agg := New(0.6)
	verdict, err := agg.Aggregate(types.ModuleResults{
		Text:  textWithFalseClaim(),
		Audio: manipulativeAudio(),
		Failures: []types.ModuleFailure{
			{Module: "image", Reason: "stage timed out after 90s"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.IsFakeNews {
		t.Error("expected fake news verdict")
	}
	if verdict.ConfidenceLevel != types.ConfidenceMedium {
		t.Errorf("confidence must be capped at medium with a failed module, got %s", verdict.ConfidenceLevel)
	}
	reasoning := strings.ToLower(verdict.OverallReasoning)
	if !strings.Contains(reasoning, "image") || !strings.Contains(reasoning, "unavailable") {
		t.Errorf("reasoning must name the unavailable module: %q", verdict.OverallReasoning)
	}
	if !strings.Contains(reasoning, "audio") {
		t.Errorf("reasoning should cite the audio manipulation signal: %q", verdict.OverallReasoning)
	}
	if verdict.ImageSummary != "unavailable" {
		t.Errorf("image summary should be unavailable, got %q", verdict.ImageSummary)
	}
}

func TestAggregateLowConfidenceFlagCapsConfidence(t *testing.T) {
	agg := New(0.6)
	text := textVerified()
	audio := calmAudio()
	audio.LowConfidence = true
	verdict, err := agg.Aggregate(types.ModuleResults{
		Text:  text,
		Image: calmImage(),
		Audio: audio,
	})
	if err != nil {
		t.Fatal(err)
	}
	if verdict.ConfidenceLevel == types.ConfidenceHigh {
		t.Error("confidence must never be high when a module flags low confidence")
	}
}

func TestAggregateVerifiedClean(t *testing.T) {
	agg := New(0.6)
	verdict, err := agg.Aggregate(types.ModuleResults{
		Text:  textVerified(),
		Image: calmImage(),
		Audio: calmAudio(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if verdict.IsFakeNews {
		t.Error("verified claims without manipulation should not be fake")
	}
	if verdict.ConfidenceLevel != types.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", verdict.ConfidenceLevel)
	}
}

func TestAggregateTextUnavailableWithManipulation(t *testing.T) {
	agg := New(0.6)
	verdict, err := agg.Aggregate(types.ModuleResults{
		Audio: manipulativeAudio(),
		Failures: []types.ModuleFailure{
			{Module: "text", Reason: "no transcript"},
			{Module: "image", Reason: "no frames"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !verdict.IsFakeNews {
		t.Error("strong manipulation alone should still raise the flag")
	}
	if verdict.ConfidenceLevel != types.ConfidenceLow {
		t.Errorf("expected low confidence without text, got %s", verdict.ConfidenceLevel)
	}
	if verdict.TextSummary != "unavailable" {
		t.Errorf("text summary should be unavailable, got %q", verdict.TextSummary)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	agg := New(0.6)
	input := types.ModuleResults{
		Text:  textWithFalseClaim(),
		Image: calmImage(),
		Audio: manipulativeAudio(),
	}
	first, err := agg.Aggregate(input)
	if err != nil {
		t.Fatal(err)
	}
	second, err := agg.Aggregate(input)
	if err != nil {
		t.Fatal(err)
	}
	if first.IsFakeNews != second.IsFakeNews ||
		first.ConfidenceLevel != second.ConfidenceLevel ||
		first.OverallReasoning != second.OverallReasoning {
		t.Error("identical inputs must produce identical verdicts")
	}
}
