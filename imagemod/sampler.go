package imagemod

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"vidcheck/config"
)

// FrameSampler pulls a bounded number of frames from a stream locator.
// The caller owns the returned directory and must remove it.
type FrameSampler interface {
	Sample(ctx context.Context, streamURL string, durationSec, count int) (dir string, frames []string, err error)
}

// StreamResolver turns a video id into a direct stream URL
type StreamResolver interface {
	Resolve(ctx context.Context, videoID string) (string, error)
}

// FFmpegSampler extracts single frames at time offsets directly from the
// stream URL, so latency stays independent of video length.
type FFmpegSampler struct{}

// NewFFmpegSampler builds the default frame sampler
func NewFFmpegSampler() *FFmpegSampler {
	return &FFmpegSampler{}
}

// Sample grabs count frames evenly spaced between 0% and 90% of the
// duration. Individual frame failures are skipped; an error is returned
// only when no frame could be extracted.
func (s *FFmpegSampler) Sample(ctx context.Context, streamURL string, durationSec, count int) (string, []string, error) {
	if count <= 0 {
		count = config.DefaultFrameCount
	}
	if durationSec <= 0 {
		durationSec = 60
	}

	dir, err := os.MkdirTemp("", "vidcheck-frames-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create frame dir: %w", err)
	}

	offsets := FrameOffsets(durationSec, count)
	var frames []string
	for i, off := range offsets {
		if ctx.Err() != nil {
			return dir, frames, ctx.Err()
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%02d.jpg", i))
		err := ffmpeg.Input(streamURL, ffmpeg.KwArgs{"ss": off}).
			Output(path, ffmpeg.KwArgs{"frames:v": 1, "q:v": 2}).
			OverWriteOutput().
			Run()
		if err != nil {
			log.Printf("⚠️ Frame extraction failed at %ds: %v", off, err)
			continue
		}
		frames = append(frames, path)
	}

	if len(frames) == 0 {
		return dir, nil, fmt.Errorf("no frames extracted from stream")
	}
	return dir, frames, nil
}

// FrameOffsets returns count offsets in seconds, evenly spaced from 0 to
// the offset ceiling of the duration.
func FrameOffsets(durationSec, count int) []int {
	ceiling := float64(durationSec) * config.FrameOffsetCeiling
	offsets := make([]int, count)
	if count == 1 {
		return offsets
	}
	step := ceiling / float64(count-1)
	for i := range offsets {
		offsets[i] = int(step * float64(i))
	}
	return offsets
}

// YtdlpResolver resolves a direct stream URL with yt-dlp
type YtdlpResolver struct {
	binary string
}

// NewYtdlpResolver builds a resolver; binary defaults to "yt-dlp" on PATH
func NewYtdlpResolver(binary string) *YtdlpResolver {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtdlpResolver{binary: binary}
}

func (r *YtdlpResolver) Resolve(ctx context.Context, videoID string) (string, error) {
	watchURL := "https://www.youtube.com/watch?v=" + videoID
	cmd := exec.CommandContext(ctx, r.binary, "-g", "-f", "best[height<=480]", watchURL)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp stream resolution failed: %w", err)
	}
	url := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if url == "" {
		return "", fmt.Errorf("yt-dlp returned no stream url")
	}
	return url, nil
}
