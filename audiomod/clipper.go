package audiomod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// maxClipSeconds bounds how much audio is clipped for transcription
const maxClipSeconds = 180

// Clipper extracts a bounded audio segment from a stream locator
type Clipper struct{}

// NewClipper builds the default ffmpeg audio clipper
func NewClipper() *Clipper {
	return &Clipper{}
}

// Clip writes up to maxClipSeconds of audio from the stream to a temp
// file. The caller must invoke cleanup regardless of outcome.
func (c *Clipper) Clip(ctx context.Context, streamURL string, durationSec int) (string, func(), error) {
	dir, err := os.MkdirTemp("", "vidcheck-audio-")
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create audio dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	clipLen := durationSec
	if clipLen <= 0 || clipLen > maxClipSeconds {
		clipLen = maxClipSeconds
	}

	path := filepath.Join(dir, "audio.m4a")
	err = ffmpeg.Input(streamURL).
		Output(path, ffmpeg.KwArgs{"t": clipLen, "vn": "", "acodec": "aac"}).
		OverWriteOutput().
		Run()
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("audio clip failed: %w", err)
	}
	if ctx.Err() != nil {
		cleanup()
		return "", func() {}, ctx.Err()
	}
	return path, cleanup, nil
}

// STTProvider abstracts speech-to-text over an audio file
type STTProvider interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// ClovaSTT implements STTProvider against the Clova Speech sync endpoint
type ClovaSTT struct {
	invokeURL string
	secretKey string
	http      *http.Client
}

// NewClovaSTT builds a Clova Speech client
func NewClovaSTT(invokeURL, secretKey string) *ClovaSTT {
	return &ClovaSTT{
		invokeURL: invokeURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *ClovaSTT) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	params, _ := json.Marshal(map[string]interface{}{
		"language":      "ko-KR",
		"completion":    "sync",
		"wordAlignment": false,
	})
	if err := writer.WriteField("params", string(params)); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("media", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.invokeURL+"/recognizer/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-CLOVASPEECH-API-KEY", c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("clova speech request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("clova speech error: status %d", resp.StatusCode)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("clova speech decode: %w", err)
	}
	return parsed.Text, nil
}
