package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-finder/internal/analysis"
	"style-finder/internal/shared/telemetry"
)

func quietLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })
	return &buf
}

func newWorkspace(analyzer *fakeAnalyzer) (*recordingView, *FileSelector, *Submitter) {
	view := newRecordingView()
	sel := NewFileSelector(view, NewPreview(view))
	analyzer.view = view
	sub := &Submitter{Selection: sel, View: view, Analyzer: analyzer, SessionID: "s-1"}
	return view, sel, sub
}

func TestSubmitWithoutSelection(t *testing.T) {
	quietLogs(t)
	analyzer := &fakeAnalyzer{}
	view, _, sub := newWorkspace(analyzer)

	err := sub.Submit(context.Background())

	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, 0, analyzer.callCount(), "no network call")
	assert.Equal(t, []string{"notify"}, view.calls, "exactly one notice and nothing else")
	assert.Equal(t, []string{NoSelectionNotice}, view.State().Notices)
}

func TestSubmitScenarioRendersResult(t *testing.T) {
	quietLogs(t)
	analyzer := &fakeAnalyzer{result: summerResult()}
	view, sel, sub := newWorkspace(analyzer)
	sel.Change([]File{outfitFile()})

	require.NoError(t, sub.Submit(context.Background()))

	require.Equal(t, 1, analyzer.callCount())
	up := analyzer.calls[0]
	assert.Equal(t, "outfit.jpg", up.FileName)
	assert.Equal(t, "image/jpeg", up.ContentType)
	assert.Equal(t, outfitFile().Data, up.Data)

	st := view.State()
	assert.False(t, st.Busy)
	assert.True(t, st.ScrollToResults)
	html := string(st.Results)
	assert.Contains(t, html, "Casual summer look")
	assert.Contains(t, html, "Add a belt.")
	assert.Equal(t, 1, strings.Count(html, `class="item-card"`))
	assert.Contains(t, html, "<h4>Leather Belt</h4>")
	assert.Contains(t, html, `href="https://x/p"`)
}

func TestSubmitOrdersBusyAroundRequest(t *testing.T) {
	quietLogs(t)
	analyzer := &fakeAnalyzer{result: summerResult()}
	view, sel, sub := newWorkspace(analyzer)
	sel.Change([]File{outfitFile()})
	view.calls = nil

	require.NoError(t, sub.Submit(context.Background()))

	assert.True(t, analyzer.busySeen, "busy indicator visible during the request")
	assert.Equal(t, []string{"results:clear", "busy:on", "scroll", "results:set", "busy:off"}, view.calls)
}

func TestSubmitFailureRendersGenericError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "status 500", err: &analysis.StatusError{Code: 500, Body: "boom"}},
		{name: "malformed", err: fmt.Errorf("%w: missing analysis", analysis.ErrMalformedResponse)},
		{name: "transport", err: errors.New("analysis request: connection refused")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			logs := quietLogs(t)
			analyzer := &fakeAnalyzer{err: tt.err, result: summerResult()}
			view, sel, sub := newWorkspace(analyzer)
			sel.Change([]File{outfitFile()})

			err := sub.Submit(context.Background())

			assert.ErrorIs(t, err, tt.err)
			st := view.State()
			assert.Equal(t, RenderError(), st.Results)
			assert.NotContains(t, string(st.Results), "Casual summer look")
			assert.NotContains(t, string(st.Results), "Outfit Analysis")
			assert.False(t, st.Busy)
			assert.Equal(t, 1, view.count("busy:on"))
			assert.Equal(t, 1, view.count("busy:off"))
			assert.Contains(t, logs.String(), "submission.failed")
		})
	}
}

func TestSubmitStatusDetailOnlyInLogs(t *testing.T) {
	logs := quietLogs(t)
	analyzer := &fakeAnalyzer{err: &analysis.StatusError{Code: 503}}
	view, sel, sub := newWorkspace(analyzer)
	sel.Change([]File{outfitFile()})

	_ = sub.Submit(context.Background())

	assert.NotContains(t, string(view.State().Results), "503")
	assert.Contains(t, logs.String(), `"status":503`)
}

func TestSubmitWhileBusyIsIgnored(t *testing.T) {
	quietLogs(t)
	analyzer := &fakeAnalyzer{
		result:  summerResult(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	view, sel, sub := newWorkspace(analyzer)
	sel.Change([]File{outfitFile()})

	done := make(chan error, 1)
	go func() { done <- sub.Submit(context.Background()) }()

	select {
	case <-analyzer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the analyzer")
	}

	err := sub.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, analyzer.callCount())
	assert.Equal(t, 1, view.count("busy:on"))

	close(analyzer.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, view.count("busy:off"))
	assert.Contains(t, view.State().Notices, BusyNotice)
}

func TestSubmitClearsPreviousResults(t *testing.T) {
	quietLogs(t)
	analyzer := &fakeAnalyzer{result: summerResult()}
	view, sel, sub := newWorkspace(analyzer)
	sel.Change([]File{outfitFile()})
	require.NoError(t, sub.Submit(context.Background()))

	analyzer.err = &analysis.StatusError{Code: 500}
	_ = sub.Submit(context.Background())

	assert.Equal(t, RenderError(), view.State().Results)
	assert.Equal(t, 2, view.count("results:clear"))
}

type failingGuard struct{}

func (failingGuard) Acquire(context.Context) (func(), error) {
	return nil, errors.New("redis down")
}

func TestSubmitGuardErrorLeavesStateAlone(t *testing.T) {
	quietLogs(t)
	analyzer := &fakeAnalyzer{result: summerResult()}
	view, sel, sub := newWorkspace(analyzer)
	sub.Guard = failingGuard{}
	sel.Change([]File{outfitFile()})
	view.calls = nil

	err := sub.Submit(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
	assert.Equal(t, 0, analyzer.callCount())
	assert.Empty(t, view.calls)
}

func TestLocalGuard(t *testing.T) {
	var g LocalGuard
	release, err := g.Acquire(context.Background())
	require.NoError(t, err)

	_, err = g.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	release()
	release2, err := g.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}
