package imagemod

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vidcheck/llm"
	"vidcheck/types"
)

const escalationSystem = "You review on-frame text and visual labels from video frames and rate " +
	"how manipulative or provocative the imagery is. Rate conservatively."

// Analyzer is the image module: bounded frame sampling, OCR/label
// screening, and a second-pass visual judgment only for suspicious frames.
type Analyzer struct {
	sampler    FrameSampler
	resolver   StreamResolver
	vision     VisionProvider
	llm        llm.Client
	frameCount int
	textRatio  float64
}

// NewAnalyzer builds the image module analyzer. resolver and llm may be
// nil; without an llm the second-pass escalation is skipped.
func NewAnalyzer(sampler FrameSampler, resolver StreamResolver, vision VisionProvider, client llm.Client, frameCount int, textRatio float64) *Analyzer {
	return &Analyzer{
		sampler:    sampler,
		resolver:   resolver,
		vision:     vision,
		llm:        client,
		frameCount: frameCount,
		textRatio:  textRatio,
	}
}

// Analyze samples frames, screens them with OCR and labels, and escalates
// to the heavier visual judgment only when the first pass crosses the
// suspicion threshold. Frame files are removed before returning.
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.ImageResult, error) {
	streamURL := req.StreamURL
	if streamURL == "" {
		if a.resolver == nil {
			return nil, fmt.Errorf("image module: no stream url and no resolver configured")
		}
		var err error
		streamURL, err = a.resolver.Resolve(ctx, req.VideoID)
		if err != nil {
			return nil, fmt.Errorf("image module: %w", err)
		}
	}

	dir, frames, err := a.sampler.Sample(ctx, streamURL, req.DurationSec, a.frameCount)
	if dir != "" {
		defer os.RemoveAll(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("image module: %w", err)
	}

	if req.ThumbnailURL != "" {
		if path, err := downloadThumbnail(ctx, req.ThumbnailURL, dir); err == nil {
			frames = append(frames, path)
		} else {
			log.Printf("⚠️ Thumbnail fetch failed: %v", err)
		}
	}

	var (
		ocrParts  []string
		labels    []string
		seenLabel = map[string]bool{}
		maxRatio  float64
		annotated int
	)
	for _, frame := range frames {
		ann, err := a.vision.Annotate(ctx, frame)
		if err != nil {
			log.Printf("⚠️ Frame annotation failed (%s): %v", filepath.Base(frame), err)
			continue
		}
		annotated++
		if ann.Text != "" {
			ocrParts = append(ocrParts, ann.Text)
		}
		if ann.TextAreaRatio > maxRatio {
			maxRatio = ann.TextAreaRatio
		}
		for _, l := range ann.Labels {
			if !seenLabel[l] {
				seenLabel[l] = true
				labels = append(labels, l)
			}
		}
	}
	if annotated == 0 {
		return nil, fmt.Errorf("image module: no frames could be annotated")
	}

	ocrText := strings.Join(ocrParts, "\n")
	keywords := matchClickbait(ocrText + "\n" + req.Title)

	result := &types.ImageResult{
		FramesSampled: len(frames),
		OCRText:       ocrText,
		Labels:        labels,
		ReuseFlag:     labelsMismatchTitle(labels, req.Title+" "+req.Description),
		LowConfidence: annotated < len(frames)/2+1,
	}

	// Two-tier cost control: the heavy judgment runs only when on-frame
	// text is large AND provocative wording matched.
	if maxRatio >= a.textRatio && len(keywords) > 0 && a.llm != nil {
		result.Escalated = true
		result.ManipulationScore = a.escalate(ctx, req, ocrText, labels, keywords)
	}

	switch {
	case result.ManipulationScore >= 1.0:
		result.Summary = "Frames show heavily manipulative overlay text"
	case result.ManipulationScore >= 0.5:
		result.Summary = "Frames show provocative overlay text"
	case result.ReuseFlag:
		result.Summary = "Frame content does not match the video title"
	default:
		result.Summary = "No strong visual manipulation signals"
	}
	result.Details = fmt.Sprintf("sampled=%d annotated=%d text_ratio=%.2f keywords=%v labels=%d",
		len(frames), annotated, maxRatio, keywords, len(labels))

	return result, nil
}

// escalate asks the judgment provider to rate the suspicious frames.
// Danger maps to 1.0, Warning to 0.5, anything else to 0.
func (a *Analyzer) escalate(ctx context.Context, req types.AnalysisRequest, ocrText string, labels, keywords []string) float64 {
	prompt := fmt.Sprintf(`Video title: %s

On-frame text (OCR):
%s

Visual labels: %s
Matched provocative keywords: %s

Rate the imagery: Danger (deliberately manipulative or fabricated),
Warning (sensationalized but plausibly real), or Normal.

JSON shape: {"rating": "Danger|Warning|Normal", "reason": "..."}`,
		req.Title, ocrText, strings.Join(labels, ", "), strings.Join(keywords, ", "))

	var parsed struct {
		Rating string `json:"rating"`
		Reason string `json:"reason"`
	}
	if err := a.llm.CompleteJSON(ctx, escalationSystem, prompt, &parsed); err != nil {
		log.Printf("⚠️ Visual escalation judgment failed: %v", err)
		// First-pass signals already crossed the threshold.
		return 0.5
	}
	switch strings.ToLower(parsed.Rating) {
	case "danger":
		return 1.0
	case "warning":
		return 0.5
	default:
		return 0
	}
}

// labelsMismatchTitle flags frames whose visual content shares nothing
// with the video's own wording, a reused-footage tell.
func labelsMismatchTitle(labels []string, titleText string) bool {
	if len(labels) < 3 {
		return false
	}
	title := strings.ToLower(titleText)
	for _, l := range labels {
		for _, w := range strings.Fields(strings.ToLower(l)) {
			if len(w) > 3 && strings.Contains(title, w) {
				return false
			}
		}
	}
	return true
}

func downloadThumbnail(ctx context.Context, url, dir string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbnail fetch: status %d", resp.StatusCode)
	}

	path := filepath.Join(dir, "thumbnail.jpg")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", err
	}
	return path, nil
}
