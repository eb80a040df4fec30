package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type wireResult struct {
	Analysis       *Analysis       `json:"analysis"`
	FashionTips    json.RawMessage `json:"fashionTips"`
	SuggestedItems *[]Item         `json:"suggestedItems"`
}

// Decode validates body against the result schema. Every failure wraps
// ErrMalformedResponse.
func Decode(body []byte) (Result, error) {
	var wire wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.Analysis == nil {
		return Result{}, fmt.Errorf("%w: missing analysis", ErrMalformedResponse)
	}
	if wire.SuggestedItems == nil {
		return Result{}, fmt.Errorf("%w: missing suggestedItems", ErrMalformedResponse)
	}
	tips, err := decodeTips(wire.FashionTips)
	if err != nil {
		return Result{}, err
	}

	items := *wire.SuggestedItems
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return Result{}, fmt.Errorf("%w: suggestedItems[%d] has no name", ErrMalformedResponse, i)
		}
		if err := checkURL(item.ImageURL); err != nil {
			return Result{}, fmt.Errorf("%w: suggestedItems[%d].imageUrl: %v", ErrMalformedResponse, i, err)
		}
		if err := checkURL(item.ProductURL); err != nil {
			return Result{}, fmt.Errorf("%w: suggestedItems[%d].productUrl: %v", ErrMalformedResponse, i, err)
		}
	}

	return Result{
		Analysis:       *wire.Analysis,
		FashionTips:    tips,
		SuggestedItems: items,
	}, nil
}

// decodeTips accepts a string or a list of strings joined by newlines.
func decodeTips(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text, nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return "", fmt.Errorf("%w: fashionTips must be text or a list of text", ErrMalformedResponse)
	}
	return strings.Join(list, "\n"), nil
}

func checkURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("not an absolute http(s) url")
	}
	return nil
}
