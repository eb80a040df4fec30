package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	submissionsStartedTotal   atomic.Uint64
	submissionsSucceededTotal atomic.Uint64
	submissionsFailedTotal    atomic.Uint64
	submissionsRejectedTotal  atomic.Uint64

	outfitAnalysesCompletedTotal atomic.Uint64
	outfitAnalysesFailedTotal    atomic.Uint64

	submissionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
	llmDuration        = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncSubmissionStarted counts a submission that reached the analysis service.
func IncSubmissionStarted() {
	submissionsStartedTotal.Add(1)
}

// IncSubmissionSucceeded counts a submission whose result was rendered.
func IncSubmissionSucceeded() {
	submissionsSucceededTotal.Add(1)
}

// IncSubmissionFailed counts a submission that ended with the error view.
func IncSubmissionFailed() {
	submissionsFailedTotal.Add(1)
}

// IncSubmissionRejected counts a trigger refused because nothing was
// selected or a submission was already in flight.
func IncSubmissionRejected() {
	submissionsRejectedTotal.Add(1)
}

// IncOutfitAnalysisCompleted counts a successful backend analysis.
func IncOutfitAnalysisCompleted() {
	outfitAnalysesCompletedTotal.Add(1)
}

// IncOutfitAnalysisFailed counts a failed backend analysis.
func IncOutfitAnalysisFailed() {
	outfitAnalysesFailedTotal.Add(1)
}

// ObserveSubmissionDurationMs records a submission round trip in milliseconds.
func ObserveSubmissionDurationMs(value float64) {
	submissionDuration.Observe(clamp(value))
}

// ObserveLLMDurationMs records a vision model call in milliseconds.
func ObserveLLMDurationMs(value float64) {
	llmDuration.Observe(clamp(value))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "submissions_started_total", "Total submissions sent to the analysis service", submissionsStartedTotal.Load())
	writeCounter(&buf, "submissions_succeeded_total", "Total submissions rendered as results", submissionsSucceededTotal.Load())
	writeCounter(&buf, "submissions_failed_total", "Total submissions rendered as errors", submissionsFailedTotal.Load())
	writeCounter(&buf, "submissions_rejected_total", "Total submit triggers refused", submissionsRejectedTotal.Load())
	writeCounter(&buf, "outfit_analyses_completed_total", "Total outfit analyses completed", outfitAnalysesCompletedTotal.Load())
	writeCounter(&buf, "outfit_analyses_failed_total", "Total outfit analyses failed", outfitAnalysesFailedTotal.Load())
	writeHistogram(&buf, "submission_duration_ms", "Submission round trip in milliseconds", submissionDuration.Snapshot())
	writeHistogram(&buf, "llm_duration_ms", "Vision model call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe adds value to the first bucket whose bound holds it; Render
// accumulates buckets so each bound reports everything at or below it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
