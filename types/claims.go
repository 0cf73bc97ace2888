package types

// Claim importance levels, ordered low < medium < high.
const (
	ImportanceLow    = "low"
	ImportanceMedium = "medium"
	ImportanceHigh   = "high"
)

// VerdictStatus is the terminal category of a single claim check
type VerdictStatus string

const (
	VerdictTrue         VerdictStatus = "verified_true"
	VerdictFalse        VerdictStatus = "verified_false"
	VerdictInsufficient VerdictStatus = "insufficient_evidence"
)

// Claim is one checkable factual assertion extracted from the transcript.
// Never mutated after extraction.
type Claim struct {
	ClaimID    string `json:"claim_id"`
	ClaimText  string `json:"claim_text"`
	Category   string `json:"category"`
	Importance string `json:"importance"`
}

// Evidence is one scored, sourced snippet retrieved for a claim
type Evidence struct {
	SourceTitle    string  `json:"source_title"`
	SourceURL      string  `json:"source_url"`
	Domain         string  `json:"domain"`
	Snippet        string  `json:"snippet"`
	PublishedDate  string  `json:"published_date,omitempty"`
	DomainScore    float64 `json:"domain_score"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ClaimVerdict is the judged outcome for one claim. Exactly one per claim,
// terminal once produced.
type ClaimVerdict struct {
	ClaimID       string        `json:"claim_id"`
	ClaimText     string        `json:"claim_text"`
	VerdictStatus VerdictStatus `json:"verdict_status"`
	VerdictReason string        `json:"verdict_reason"`
	Evidence      []Evidence    `json:"evidence,omitempty"`
}

// IsFake reports whether the verdict marks the claim as disproven
func (v ClaimVerdict) IsFake() bool {
	return v.VerdictStatus == VerdictFalse
}
