package fashion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"style-finder/internal/analysis"
	"style-finder/internal/llm"
	"style-finder/internal/shared/metrics"
	"style-finder/internal/shared/telemetry"
)

// Image is an uploaded outfit photo.
type Image struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Service analyzes outfit photos with a vision model.
type Service struct {
	vision llm.Vision
	prompt string
}

// NewService wraps v. A nil provider behaves like llm.PlaceholderClient.
func NewService(v llm.Vision) *Service {
	if v == nil {
		v = llm.PlaceholderClient{}
	}
	return &Service{vision: v, prompt: llm.OutfitPrompt}
}

// ImageType returns the media type of img, preferring the declared part
// header over content sniffing.
func ImageType(img Image) string {
	declared := strings.ToLower(strings.TrimSpace(img.ContentType))
	if declared != "" && declared != "application/octet-stream" {
		if mediaType, _, ok := strings.Cut(declared, ";"); ok {
			return strings.TrimSpace(mediaType)
		}
		return declared
	}
	return mimetype.Detect(img.Data).String()
}

// IsImage reports whether img is declared or sniffed as image/*.
func IsImage(img Image) bool {
	return strings.HasPrefix(ImageType(img), "image/")
}

// Analyze describes the outfit in img.
func (s *Service) Analyze(ctx context.Context, img Image) (analysis.Result, error) {
	if !IsImage(img) {
		return analysis.Result{}, ErrNotImage
	}
	if len(img.Data) == 0 {
		return analysis.Result{}, ErrEmptyImage
	}

	start := time.Now()
	text, err := s.vision.DescribeOutfit(ctx, llm.ImageInput{
		Data:     img.Data,
		MIMEType: mimeForModel(ImageType(img)),
		Prompt:   s.prompt,
	})
	metrics.ObserveLLMDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncOutfitAnalysisFailed()
		telemetry.Error("outfit.analysis_failed", map[string]any{
			"file_name": img.FileName,
			"bytes":     len(img.Data),
			"err":       err.Error(),
		})
		return analysis.Result{}, fmt.Errorf("describe outfit: %w", err)
	}

	res := ParseReport(text)
	metrics.IncOutfitAnalysisCompleted()
	telemetry.Info("outfit.analyzed", map[string]any{
		"file_name":       img.FileName,
		"bytes":           len(img.Data),
		"suggested_items": len(res.SuggestedItems),
		"duration_ms":     metrics.SinceMillis(start),
	})
	return res, nil
}

// mimeForModel keeps the data URL on a type vision models accept.
func mimeForModel(mediaType string) string {
	switch mediaType {
	case "image/png", "image/gif", "image/webp", "image/jpeg":
		return mediaType
	default:
		return "image/jpeg"
	}
}
