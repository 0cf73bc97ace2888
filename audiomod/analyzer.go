package audiomod

import (
	"context"
	"fmt"
	"strings"

	"vidcheck/llm"
	"vidcheck/types"
)

const audioJudgeSystem = "You compare a video's title and description against what is actually " +
	"said in its transcript, and rate clickbait, topical drift, and manipulative tone."

// StreamResolver turns a video id into a direct stream URL
type StreamResolver interface {
	Resolve(ctx context.Context, videoID string) (string, error)
}

// Analyzer is the audio module: transcript acquisition (reuse before
// speech-to-text) and title/content judgment.
type Analyzer struct {
	clipper  *Clipper
	stt      STTProvider
	resolver StreamResolver
	llm      llm.Client
	severity float64
}

// NewAnalyzer builds the audio module analyzer. clipper, stt and
// resolver may be nil when transcripts always arrive with the request.
func NewAnalyzer(clipper *Clipper, stt STTProvider, resolver StreamResolver, client llm.Client, severity float64) *Analyzer {
	return &Analyzer{
		clipper:  clipper,
		stt:      stt,
		resolver: resolver,
		llm:      client,
		severity: severity,
	}
}

// Analyze judges the audio track. sharedTranscript is the text module's
// transcript for the same request; when present, speech-to-text is never
// re-run.
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalysisRequest, sharedTranscript string) (*types.AudioResult, error) {
	transcript := sharedTranscript
	reused := transcript != ""
	if transcript == "" {
		transcript = req.Transcript
		reused = transcript != ""
	}

	if transcript == "" {
		var err error
		transcript, err = a.transcribe(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("audio module: %w", err)
		}
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("audio module: no transcript available")
	}

	scores, err := a.judge(ctx, req, transcript)
	if err != nil {
		return nil, fmt.Errorf("audio module: %w", err)
	}

	result := &types.AudioResult{
		Transcript:        transcript,
		TranscriptReused:  reused,
		ClickbaitScore:    scores.Clickbait,
		TopicDriftScore:   scores.TopicDrift,
		ManipulationScore: scores.Manipulation,
		LowConfidence:     len(strings.Fields(transcript)) < 20,
	}

	switch {
	case scores.Manipulation >= a.severity && scores.Clickbait >= a.severity:
		result.Summary = "Title misrepresents content with manipulative delivery"
	case scores.Manipulation >= a.severity:
		result.Summary = "Manipulative tone detected in the audio track"
	case scores.Clickbait >= a.severity:
		result.Summary = "Title does not match the spoken content"
	case scores.TopicDrift >= a.severity:
		result.Summary = "Spoken content drifts from the stated topic"
	default:
		result.Summary = "No strong audio manipulation signals"
	}
	result.Details = scores.Reason
	return result, nil
}

// transcribe clips audio from the stream and runs speech-to-text
func (a *Analyzer) transcribe(ctx context.Context, req types.AnalysisRequest) (string, error) {
	if a.clipper == nil || a.stt == nil {
		return "", fmt.Errorf("no transcript and no speech-to-text configured")
	}

	streamURL := req.StreamURL
	if streamURL == "" {
		if a.resolver == nil {
			return "", fmt.Errorf("no stream url and no resolver configured")
		}
		var err error
		streamURL, err = a.resolver.Resolve(ctx, req.VideoID)
		if err != nil {
			return "", err
		}
	}

	path, cleanup, err := a.clipper.Clip(ctx, streamURL, req.DurationSec)
	defer cleanup()
	if err != nil {
		return "", err
	}
	return a.stt.Transcribe(ctx, path)
}

type audioScores struct {
	Clickbait    float64 `json:"clickbait_score"`
	TopicDrift   float64 `json:"topic_drift_score"`
	Manipulation float64 `json:"manipulation_score"`
	Reason       string  `json:"reason"`
}

func (a *Analyzer) judge(ctx context.Context, req types.AnalysisRequest, transcript string) (*audioScores, error) {
	prompt := fmt.Sprintf(`Video title: %s
Video description: %s

Transcript:
%s

Score each signal from 0.0 to 1.0:
- clickbait_score: the title promises content the transcript does not deliver
- topic_drift_score: the transcript drifts away from the stated topic
- manipulation_score: fear-mongering, urgency, or emotionally manipulative delivery

JSON shape: {"clickbait_score": 0.0, "topic_drift_score": 0.0, "manipulation_score": 0.0, "reason": "..."}`,
		req.Title, req.Description, transcript)

	var scores audioScores
	if err := a.llm.CompleteJSON(ctx, audioJudgeSystem, prompt, &scores); err != nil {
		return nil, err
	}
	return &scores, nil
}
