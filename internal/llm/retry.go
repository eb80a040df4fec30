package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"style-finder/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// StatusCoder is implemented by provider errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

type retryingVision struct {
	base  Vision
	delay time.Duration
}

// WithRetry wraps base so that a transient failure is retried once.
func WithRetry(base Vision) Vision {
	if base == nil {
		return nil
	}
	return retryingVision{base: base, delay: retryBaseDelay}
}

func (r retryingVision) DescribeOutfit(ctx context.Context, input ImageInput) (string, error) {
	text, err := r.base.DescribeOutfit(ctx, input)
	if err == nil || !ShouldRetry(err) || ctx.Err() != nil {
		return text, err
	}

	telemetry.Warn("llm.retry", map[string]any{"attempt": 1, "err": err.Error()})
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return r.base.DescribeOutfit(ctx, input)
}

// ShouldRetry reports whether err looks transient: timeouts, dropped
// connections, rate limiting and 5xx answers.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotImplemented) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var coded StatusCoder
	if errors.As(err, &coded) {
		code := coded.StatusCode()
		return code == 429 || code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") ||
		strings.Contains(msg, "unavailable") || strings.Contains(msg, "resource_exhausted") {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
