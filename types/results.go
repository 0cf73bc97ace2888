package types

// Module assessment categories shared by the text analyzer
const (
	AssessmentNormal       = "normal"
	AssessmentSuspicious   = "suspicious"
	AssessmentInconclusive = "inconclusive"
)

// Confidence levels of the final verdict
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// TextResult is the success payload of the text module
type TextResult struct {
	Summary       string         `json:"summary"`
	Assessment    string         `json:"assessment"`
	Claims        []Claim        `json:"claims"`
	ClaimVerdicts []ClaimVerdict `json:"claim_verdicts"`
	TextSources   []string       `json:"text_sources"`
	// Transcript is carried forward so the audio module never re-runs
	// speech-to-text for the same request.
	Transcript    string `json:"transcript,omitempty"`
	FakeClaims    int    `json:"fake_claims"`
	TotalClaims   int    `json:"total_claims"`
	LowConfidence bool   `json:"low_confidence"`
}

// ImageResult is the success payload of the image module
type ImageResult struct {
	Summary           string   `json:"summary"`
	Details           string   `json:"details"`
	FramesSampled     int      `json:"frames_sampled"`
	OCRText           string   `json:"ocr_text,omitempty"`
	Labels            []string `json:"labels,omitempty"`
	ManipulationScore float64  `json:"manipulation_score"`
	ReuseFlag         bool     `json:"reuse_flag"`
	Escalated         bool     `json:"escalated"`
	LowConfidence     bool     `json:"low_confidence"`
}

// AudioResult is the success payload of the audio module
type AudioResult struct {
	Summary           string  `json:"summary"`
	Details           string  `json:"details"`
	Transcript        string  `json:"transcript,omitempty"`
	TranscriptReused  bool    `json:"transcript_reused"`
	ClickbaitScore    float64 `json:"clickbait_score"`
	TopicDriftScore   float64 `json:"topic_drift_score"`
	ManipulationScore float64 `json:"manipulation_score"`
	LowConfidence     bool    `json:"low_confidence"`
}

// ModuleFailure records a module that produced no usable result
type ModuleFailure struct {
	Module string `json:"module"`
	Reason string `json:"reason"`
}

// ModuleResults holds the terminal outcome of every module for one run.
// Exactly one of the success pointer or a failure entry exists per module.
type ModuleResults struct {
	Text     *TextResult     `json:"text,omitempty"`
	Image    *ImageResult    `json:"image,omitempty"`
	Audio    *AudioResult    `json:"audio,omitempty"`
	Failures []ModuleFailure `json:"failures,omitempty"`
}

// FailedModules lists the names of modules that did not succeed
func (m ModuleResults) FailedModules() []string {
	names := make([]string, 0, len(m.Failures))
	for _, f := range m.Failures {
		names = append(names, f.Module)
	}
	return names
}

// SucceededCount reports how many modules produced a usable result
func (m ModuleResults) SucceededCount() int {
	n := 0
	if m.Text != nil {
		n++
	}
	if m.Image != nil {
		n++
	}
	if m.Audio != nil {
		n++
	}
	return n
}

// FinalVerdict is the single aggregated output of a successful run
type FinalVerdict struct {
	IsFakeNews       bool     `json:"is_fake_news"`
	ConfidenceLevel  string   `json:"confidence_level"`
	OverallReasoning string   `json:"overall_reasoning"`
	Recommendation   string   `json:"recommendation"`
	TextSummary      string   `json:"text_summary"`
	ImageSummary     string   `json:"image_summary"`
	AudioSummary     string   `json:"audio_summary"`
	KeyEvidence      []string `json:"key_evidence,omitempty"`
	TextSources      []string `json:"text_sources,omitempty"`
}
