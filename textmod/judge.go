package textmod

import (
	"context"
	"fmt"
	"strings"

	"vidcheck/llm"
	"vidcheck/types"
)

const judgeSystem = "You are a fact-check judge. You weigh the provided evidence for and " +
	"against a claim and return a categorical verdict. You never invent evidence."

// Judge produces exactly one verdict per claim from its evidence
type Judge struct {
	llm llm.Client
}

// NewJudge builds a claim verdict judge
func NewJudge(client llm.Client) *Judge {
	return &Judge{llm: client}
}

// Judge returns the verdict for one claim. Empty evidence short-circuits
// to insufficient_evidence without a provider call. An invalid status in
// the provider output is coerced to insufficient_evidence.
func (j *Judge) Judge(ctx context.Context, claim types.Claim, evidence []types.Evidence) types.ClaimVerdict {
	verdict := types.ClaimVerdict{
		ClaimID:   claim.ClaimID,
		ClaimText: claim.ClaimText,
		Evidence:  evidence,
	}

	if len(evidence) == 0 {
		verdict.VerdictStatus = types.VerdictInsufficient
		verdict.VerdictReason = "No usable evidence found for this claim."
		return verdict
	}

	prompt := fmt.Sprintf(`Claim: %s

Evidence:
%s

Judge the claim against the evidence. Return:
- verdict_status: one of verified_true, verified_false, insufficient_evidence
- reason: one or two sentences citing the evidence

JSON shape: {"verdict_status": "...", "reason": "..."}`,
		claim.ClaimText, formatEvidence(evidence))

	var parsed struct {
		VerdictStatus string `json:"verdict_status"`
		Reason        string `json:"reason"`
	}
	if err := j.llm.CompleteJSON(ctx, judgeSystem, prompt, &parsed); err != nil {
		verdict.VerdictStatus = types.VerdictInsufficient
		verdict.VerdictReason = fmt.Sprintf("Judgment unavailable: %v", err)
		return verdict
	}

	switch types.VerdictStatus(parsed.VerdictStatus) {
	case types.VerdictTrue, types.VerdictFalse, types.VerdictInsufficient:
		verdict.VerdictStatus = types.VerdictStatus(parsed.VerdictStatus)
	default:
		verdict.VerdictStatus = types.VerdictInsufficient
	}
	verdict.VerdictReason = parsed.Reason
	if verdict.VerdictReason == "" {
		verdict.VerdictReason = "No reason returned by the judge."
	}
	return verdict
}

func formatEvidence(evidence []types.Evidence) string {
	var b strings.Builder
	for i, ev := range evidence {
		fmt.Fprintf(&b, "%d. [%s] %s (credibility %.2f, relevance %.2f)\n   %s\n",
			i+1, ev.Domain, ev.SourceTitle, ev.DomainScore, ev.RelevanceScore, ev.Snippet)
	}
	return b.String()
}
