package ui

import (
	"context"
	"html/template"
	"sync"

	"style-finder/internal/analysis"
)

// recordingView wraps a Page and keeps the ordered list of calls.
type recordingView struct {
	*Page
	mu    sync.Mutex
	calls []string
}

func newRecordingView() *recordingView {
	return &recordingView{Page: NewPage()}
}

func (v *recordingView) record(call string) {
	v.mu.Lock()
	v.calls = append(v.calls, call)
	v.mu.Unlock()
}

func (v *recordingView) count(call string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, c := range v.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (v *recordingView) ShowPlaceholder(show bool) {
	v.record(map[bool]string{true: "placeholder:on", false: "placeholder:off"}[show])
	v.Page.ShowPlaceholder(show)
}

func (v *recordingView) SetPreviewSource(src string) {
	if src == "" {
		v.record("src:blank")
	} else {
		v.record("src:set")
	}
	v.Page.SetPreviewSource(src)
}

func (v *recordingView) SetSubmitEnabled(enabled bool) {
	v.record(map[bool]string{true: "submit:on", false: "submit:off"}[enabled])
	v.Page.SetSubmitEnabled(enabled)
}

func (v *recordingView) SetBusy(busy bool) {
	v.record(map[bool]string{true: "busy:on", false: "busy:off"}[busy])
	v.Page.SetBusy(busy)
}

func (v *recordingView) SetResults(fragment template.HTML) {
	if fragment == "" {
		v.record("results:clear")
	} else {
		v.record("results:set")
	}
	v.Page.SetResults(fragment)
}

func (v *recordingView) Notify(message string) {
	v.record("notify")
	v.Page.Notify(message)
}

func (v *recordingView) ScrollToResults() {
	v.record("scroll")
	v.Page.ScrollToResults()
}

type fakeAnalyzer struct {
	mu       sync.Mutex
	calls    []analysis.Upload
	result   analysis.Result
	err      error
	started  chan struct{}
	release  chan struct{}
	view     *recordingView
	busySeen bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, up analysis.Upload) (analysis.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, up)
	if f.view != nil {
		f.busySeen = f.view.State().Busy
	}
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return analysis.Result{}, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func summerResult() analysis.Result {
	return analysis.Result{
		Analysis: analysis.Analysis{
			Description: "Casual summer look",
			ColorTones:  "blue, white",
			CoreApparel: "t-shirt, jeans",
			Accessories: "none",
		},
		FashionTips: "Add a belt.",
		SuggestedItems: []analysis.Item{{
			Name:        "Leather Belt",
			Description: "Brown leather",
			ImageURL:    "https://x/img.jpg",
			ProductURL:  "https://x/p",
		}},
	}
}

func outfitFile() File {
	return File{Name: "outfit.jpg", MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'g'}}
}
