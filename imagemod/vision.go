package imagemod

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// FrameAnnotation is the OCR + label output for one frame
type FrameAnnotation struct {
	Text          string
	TextAreaRatio float64
	Labels        []string
}

// VisionProvider abstracts OCR and label detection for a frame file
type VisionProvider interface {
	Annotate(ctx context.Context, imagePath string) (*FrameAnnotation, error)
}

// GoogleVision implements VisionProvider with the Cloud Vision API
type GoogleVision struct {
	svc *vision.Service
}

// NewGoogleVision builds a Vision-backed annotator using an API key
func NewGoogleVision(ctx context.Context, apiKey string) (*GoogleVision, error) {
	svc, err := vision.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create vision service: %w", err)
	}
	return &GoogleVision{svc: svc}, nil
}

func (g *GoogleVision) Annotate(ctx context.Context, imagePath string) (*FrameAnnotation, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image: &vision.Image{Content: base64.StdEncoding.EncodeToString(data)},
			Features: []*vision.Feature{
				{Type: "TEXT_DETECTION"},
				{Type: "LABEL_DETECTION", MaxResults: 10},
			},
		}},
	}
	resp, err := g.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("vision annotate failed: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("vision annotate returned no responses")
	}

	r := resp.Responses[0]
	ann := &FrameAnnotation{}
	for _, l := range r.LabelAnnotations {
		ann.Labels = append(ann.Labels, l.Description)
	}
	if len(r.TextAnnotations) > 0 {
		// The first annotation is the full detected text; the rest are
		// per-word boxes used for the area estimate.
		ann.Text = r.TextAnnotations[0].Description
		ann.TextAreaRatio = textAreaRatio(data, r.TextAnnotations[1:])
	}
	return ann, nil
}

// textAreaRatio estimates how much of the frame is covered by text boxes
func textAreaRatio(imageData []byte, words []*vision.EntityAnnotation) float64 {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return 0
	}
	frameArea := float64(cfg.Width * cfg.Height)

	var textArea float64
	for _, w := range words {
		if w.BoundingPoly == nil || len(w.BoundingPoly.Vertices) < 3 {
			continue
		}
		minX, minY := w.BoundingPoly.Vertices[0].X, w.BoundingPoly.Vertices[0].Y
		maxX, maxY := minX, minY
		for _, v := range w.BoundingPoly.Vertices {
			if v.X < minX {
				minX = v.X
			}
			if v.X > maxX {
				maxX = v.X
			}
			if v.Y < minY {
				minY = v.Y
			}
			if v.Y > maxY {
				maxY = v.Y
			}
		}
		textArea += float64((maxX - minX) * (maxY - minY))
	}

	ratio := textArea / frameArea
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}
