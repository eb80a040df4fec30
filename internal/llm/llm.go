package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

// Vision abstracts multimodal providers that can describe an outfit photo.
type Vision interface {
	DescribeOutfit(ctx context.Context, input ImageInput) (string, error)
}

// ImageInput is a single image sent to a provider together with a prompt.
type ImageInput struct {
	Data     []byte
	MIMEType string
	Prompt   string
}

// DataURL encodes the image as a base64 data URL. An empty MIME type falls
// back to image/jpeg.
func (in ImageInput) DataURL() string {
	mime := strings.TrimSpace(in.MIMEType)
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(in.Data)
}

// Options are the generation knobs shared by providers.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// WithDefaults fills zero values.
func (o Options) WithDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("llm response empty content")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// DescribeOutfit returns ErrNotImplemented.
func (PlaceholderClient) DescribeOutfit(ctx context.Context, input ImageInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}
