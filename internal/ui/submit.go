package ui

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"style-finder/internal/analysis"
	"style-finder/internal/shared/metrics"
	"style-finder/internal/shared/telemetry"
)

// Selection exposes the selected file to the submitter.
type Selection interface {
	Selected() (File, bool)
}

// Analyzer sends one image to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, up analysis.Upload) (analysis.Result, error)
}

// Guard admits one submission at a time. Acquire returns ErrBusy while
// another submission holds it.
type Guard interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// LocalGuard is an in-process Guard.
type LocalGuard struct {
	busy atomic.Bool
}

func (g *LocalGuard) Acquire(context.Context) (func(), error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { g.busy.Store(false) }, nil
}

// Submitter runs the submit flow for one workspace.
type Submitter struct {
	Selection Selection
	View      View
	Analyzer  Analyzer
	Guard     Guard
	SessionID string

	localGuard LocalGuard
}

// Submit sends the selected file for analysis and renders the outcome.
// Without a selection it raises a notice and returns ErrNoSelection; while
// another attempt is in flight it returns ErrBusy. Analysis failures are
// rendered as the error view and returned.
func (s *Submitter) Submit(ctx context.Context) error {
	file, ok := s.Selection.Selected()
	if !ok {
		metrics.IncSubmissionRejected()
		s.View.Notify(NoSelectionNotice)
		return ErrNoSelection
	}

	release, err := s.guard().Acquire(ctx)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			metrics.IncSubmissionRejected()
			s.View.Notify(BusyNotice)
			return ErrBusy
		}
		return fmt.Errorf("acquire submit guard: %w", err)
	}
	defer release()

	s.View.SetResults("")
	s.View.SetBusy(true)
	defer s.View.SetBusy(false)
	s.View.ScrollToResults()

	metrics.IncSubmissionStarted()
	start := time.Now()
	res, err := s.Analyzer.Analyze(ctx, analysis.Upload{
		FileName:    file.Name,
		ContentType: file.MIMEType,
		Data:        file.Data,
	})
	metrics.ObserveSubmissionDurationMs(metrics.SinceMillis(start))

	if err != nil {
		metrics.IncSubmissionFailed()
		telemetry.Error("submission.failed", s.failureFields(file, err))
		s.View.SetResults(RenderError())
		return err
	}

	metrics.IncSubmissionSucceeded()
	telemetry.Info("submission.succeeded", map[string]any{
		"session_id":  s.SessionID,
		"file_name":   file.Name,
		"items":       len(res.SuggestedItems),
		"duration_ms": metrics.SinceMillis(start),
	})
	s.View.SetResults(RenderResult(res))
	return nil
}

func (s *Submitter) guard() Guard {
	if s.Guard != nil {
		return s.Guard
	}
	return &s.localGuard
}

func (s *Submitter) failureFields(file File, err error) map[string]any {
	fields := map[string]any{
		"session_id": s.SessionID,
		"file_name":  file.Name,
		"err":        err.Error(),
	}
	var statusErr *analysis.StatusError
	switch {
	case errors.As(err, &statusErr):
		fields["kind"] = "status"
		fields["status"] = statusErr.Code
		if statusErr.Body != "" {
			fields["body"] = statusErr.Body
		}
	case errors.Is(err, analysis.ErrMalformedResponse):
		fields["kind"] = "malformed_response"
	default:
		fields["kind"] = "transport"
	}
	return fields
}
