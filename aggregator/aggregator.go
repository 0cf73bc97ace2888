package aggregator

import (
	"errors"
	"fmt"
	"strings"

	"vidcheck/types"
)

// ErrNoResults is returned when no module produced a usable result.
// A verdict is never fabricated from nothing.
var ErrNoResults = errors.New("no module results to aggregate")

// Aggregator merges the available module results into one FinalVerdict.
// Pure and deterministic: identical inputs always yield the same verdict.
type Aggregator struct {
	severity float64
}

// New builds an aggregator with the given manipulation severity threshold
func New(severity float64) *Aggregator {
	return &Aggregator{severity: severity}
}

// Aggregate produces exactly one FinalVerdict from the succeeded subset
// of module results. Failed modules contribute no signal; their absence
// is named in the reasoning and caps confidence below high.
func (a *Aggregator) Aggregate(results types.ModuleResults) (*types.FinalVerdict, error) {
	if results.SucceededCount() == 0 {
		return nil, ErrNoResults
	}

	text := results.Text
	manipHigh, manipSource := a.manipulationSignal(results)

	var (
		isFake     bool
		confidence string
		reasons    []string
	)

	switch {
	case text != nil && text.FakeClaims > 0 && manipHigh:
		isFake = true
		confidence = types.ConfidenceHigh
		reasons = append(reasons, fmt.Sprintf(
			"%d claim(s) were verified false and %s shows strong manipulation signals, consistent with malicious fake news.",
			text.FakeClaims, manipSource))
	case text != nil && text.FakeClaims > 0:
		isFake = true
		confidence = types.ConfidenceMedium
		reasons = append(reasons, fmt.Sprintf(
			"%d claim(s) were verified false without strong manipulation signals, consistent with simple misinformation.",
			text.FakeClaims))
	case text != nil && a.textVerified(text) && manipHigh:
		isFake = true
		confidence = types.ConfidenceMedium
		reasons = append(reasons, fmt.Sprintf(
			"The claims check out but %s shows strong manipulation signals, consistent with clickbait or sensationalism.",
			manipSource))
	case text != nil && a.textVerified(text):
		isFake = false
		confidence = types.ConfidenceHigh
		reasons = append(reasons, "The checked claims were verified and no strong manipulation signals were found.")
	case manipHigh:
		// No verified-false claim but the presentation itself is
		// manipulative. Flag it, at low confidence.
		isFake = true
		confidence = types.ConfidenceLow
		reasons = append(reasons, fmt.Sprintf(
			"Claims could not be verified either way, but %s shows strong manipulation signals.", manipSource))
	default:
		isFake = false
		confidence = types.ConfidenceLow
		if text != nil && text.TotalClaims == 0 {
			reasons = append(reasons, "No checkable claims were found, leaving an insufficient basis for a judgment.")
		} else {
			reasons = append(reasons, "The available evidence was insufficient to verify the claims either way.")
		}
	}

	for _, name := range results.FailedModules() {
		reasons = append(reasons, fmt.Sprintf("The %s module was unavailable for this run.", name))
	}
	confidence = a.capConfidence(confidence, results)

	verdict := &types.FinalVerdict{
		IsFakeNews:       isFake,
		ConfidenceLevel:  confidence,
		OverallReasoning: strings.Join(reasons, " "),
		Recommendation:   recommendation(isFake, confidence),
		KeyEvidence:      keyEvidence(results),
	}
	if text != nil {
		verdict.TextSummary = text.Summary
		verdict.TextSources = text.TextSources
	} else {
		verdict.TextSummary = "unavailable"
	}
	if results.Image != nil {
		verdict.ImageSummary = results.Image.Summary
	} else {
		verdict.ImageSummary = "unavailable"
	}
	if results.Audio != nil {
		verdict.AudioSummary = results.Audio.Summary
	} else {
		verdict.AudioSummary = "unavailable"
	}
	return verdict, nil
}

// manipulationSignal reports whether any succeeded media module crossed
// the severity threshold, and which one.
func (a *Aggregator) manipulationSignal(results types.ModuleResults) (bool, string) {
	var sources []string
	if results.Image != nil && results.Image.ManipulationScore >= a.severity {
		sources = append(sources, "the image analysis")
	}
	if results.Audio != nil && (results.Audio.ManipulationScore >= a.severity || results.Audio.ClickbaitScore >= a.severity) {
		sources = append(sources, "the audio analysis")
	}
	if len(sources) == 0 {
		return false, ""
	}
	return true, strings.Join(sources, " and ")
}

// textVerified reports whether the text module positively verified at
// least one claim with nothing verified false.
func (a *Aggregator) textVerified(text *types.TextResult) bool {
	if text.FakeClaims > 0 {
		return false
	}
	for _, v := range text.ClaimVerdicts {
		if v.VerdictStatus == types.VerdictTrue {
			return true
		}
	}
	return false
}

// capConfidence enforces the downgrade rules: never high when a module
// failed or when any succeeded module flags low confidence.
func (a *Aggregator) capConfidence(confidence string, results types.ModuleResults) string {
	if confidence != types.ConfidenceHigh {
		return confidence
	}
	if len(results.Failures) > 0 {
		return types.ConfidenceMedium
	}
	if results.Text != nil && results.Text.LowConfidence {
		return types.ConfidenceMedium
	}
	if results.Image != nil && results.Image.LowConfidence {
		return types.ConfidenceMedium
	}
	if results.Audio != nil && results.Audio.LowConfidence {
		return types.ConfidenceMedium
	}
	return confidence
}

// keyEvidence collects the most decision-relevant findings across modules
func keyEvidence(results types.ModuleResults) []string {
	var out []string
	if results.Text != nil {
		for _, v := range results.Text.ClaimVerdicts {
			if v.IsFake() {
				out = append(out, fmt.Sprintf("False claim: %s (%s)", v.ClaimText, v.VerdictReason))
			}
		}
	}
	if results.Image != nil && results.Image.ManipulationScore > 0 {
		out = append(out, results.Image.Summary)
	}
	if results.Audio != nil && results.Audio.ManipulationScore > 0 {
		out = append(out, results.Audio.Summary)
	}
	return out
}

func recommendation(isFake bool, confidence string) string {
	switch {
	case isFake && confidence == types.ConfidenceHigh:
		return "Do not share this video. Its claims were disproven and its presentation is manipulative."
	case isFake:
		return "Treat this video with caution and verify its claims against the cited sources before sharing."
	case confidence == types.ConfidenceLow:
		return "Not enough evidence to judge this video. Seek coverage from established outlets."
	default:
		return "No fake-news signals were found, but cross-checking important claims is always advisable."
	}
}
