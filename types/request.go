package types

// AnalysisRequest identifies one video to analyze. Immutable once created;
// one request drives exactly one run.
type AnalysisRequest struct {
	VideoID     string `json:"video_id" binding:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Transcript, when present, is used as-is and speech-to-text is skipped.
	Transcript  string `json:"transcript,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	// StreamURL is a direct media locator for frame/audio sampling. When
	// empty it is resolved from the video id.
	StreamURL string `json:"stream_url,omitempty"`
	// ThumbnailURL, when set, is screened alongside sampled frames.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}
