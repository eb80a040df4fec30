package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type flakyVision struct {
	errs  []error
	calls int
}

func (f *flakyVision) DescribeOutfit(ctx context.Context, input ImageInput) (string, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return "### 1. Description\nok", nil
}

type statusErr int

func (s statusErr) Error() string   { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

func TestRetryOnceOnTransientError(t *testing.T) {
	base := &flakyVision{errs: []error{errors.New("read: connection reset by peer")}}
	v := retryingVision{base: base, delay: time.Millisecond}

	text, err := v.DescribeOutfit(context.Background(), ImageInput{Data: []byte("x")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text == "" || base.calls != 2 {
		t.Fatalf("expected second attempt to succeed, calls=%d", base.calls)
	}
}

func TestRetryGivesUpAfterOneAttempt(t *testing.T) {
	base := &flakyVision{errs: []error{statusErr(503), statusErr(503)}}
	v := retryingVision{base: base, delay: time.Millisecond}

	if _, err := v.DescribeOutfit(context.Background(), ImageInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", base.calls)
	}
}

func TestNoRetryOnPermanentError(t *testing.T) {
	base := &flakyVision{errs: []error{statusErr(400)}}
	v := retryingVision{base: base, delay: time.Millisecond}

	if _, err := v.DescribeOutfit(context.Background(), ImageInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if base.calls != 1 {
		t.Fatalf("expected 1 call, got %d", base.calls)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "rate limited", err: statusErr(429), want: true},
		{name: "server error", err: statusErr(502), want: true},
		{name: "bad request", err: statusErr(400), want: false},
		{name: "unexpected eof", err: errors.New("unexpected EOF"), want: true},
		{name: "placeholder", err: ErrNotImplemented, want: false},
		{name: "plain", err: errors.New("content filtered"), want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.err); got != tt.want {
				t.Fatalf("ShouldRetry(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDataURLDefaultsToJPEG(t *testing.T) {
	in := ImageInput{Data: []byte{0xff, 0xd8}}
	if got := in.DataURL(); got != "data:image/jpeg;base64,/9g=" {
		t.Fatalf("unexpected data url: %s", got)
	}
	in.MIMEType = "image/png"
	if got := in.DataURL(); got != "data:image/png;base64,/9g=" {
		t.Fatalf("unexpected data url: %s", got)
	}
}

func TestOutfitPromptListsSections(t *testing.T) {
	for _, want := range []string{"1. Description", "2. Color Tones", "3. Core Apparel", "4. Accessories", "5. Fashion Tips", "6. Similar Items"} {
		if !strings.Contains(OutfitPrompt, "\n"+want+":") {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if OutfitPrompt[0] == '\t' || OutfitPrompt[0] == ' ' {
		t.Fatalf("prompt should be dedented")
	}
	if len(PromptHash(OutfitPrompt)) != 12 {
		t.Fatalf("unexpected hash length")
	}
}
