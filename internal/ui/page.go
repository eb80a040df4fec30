package ui

import (
	"html/template"
	"sync"
)

// PageState is the serializable state of one workspace page.
type PageState struct {
	PlaceholderVisible bool          `json:"placeholderVisible"`
	PreviewSrc         string        `json:"previewSrc,omitempty"`
	SubmitEnabled      bool          `json:"submitEnabled"`
	Busy               bool          `json:"busy"`
	Results            template.HTML `json:"results,omitempty"`
	Notices            []string      `json:"notices,omitempty"`
	ScrollToResults    bool          `json:"scrollToResults,omitempty"`
}

// InitialState is a freshly loaded page: placeholder shown, no image, submit
// disabled.
func InitialState() PageState {
	return PageState{PlaceholderVisible: true}
}

// Page is a View that records everything into a PageState.
type Page struct {
	mu    sync.Mutex
	state PageState
}

// NewPage returns a page in its initial state.
func NewPage() *Page {
	return RestorePage(InitialState())
}

// RestorePage returns a page continuing from a persisted state.
func RestorePage(state PageState) *Page {
	state.Notices = append([]string(nil), state.Notices...)
	return &Page{state: state}
}

// State returns a copy of the current state.
func (p *Page) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.state
	out.Notices = append([]string(nil), p.state.Notices...)
	return out
}

// TakeNotices returns pending notices and clears them.
func (p *Page) TakeNotices() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.state.Notices
	p.state.Notices = nil
	return out
}

// TakeScroll reports and clears a pending scroll request.
func (p *Page) TakeScroll() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	scroll := p.state.ScrollToResults
	p.state.ScrollToResults = false
	return scroll
}

func (p *Page) ShowPlaceholder(show bool) {
	p.mu.Lock()
	p.state.PlaceholderVisible = show
	p.mu.Unlock()
}

func (p *Page) SetPreviewSource(src string) {
	p.mu.Lock()
	p.state.PreviewSrc = src
	p.mu.Unlock()
}

func (p *Page) SetSubmitEnabled(enabled bool) {
	p.mu.Lock()
	p.state.SubmitEnabled = enabled
	p.mu.Unlock()
}

func (p *Page) SetBusy(busy bool) {
	p.mu.Lock()
	p.state.Busy = busy
	p.mu.Unlock()
}

func (p *Page) SetResults(fragment template.HTML) {
	p.mu.Lock()
	p.state.Results = fragment
	p.mu.Unlock()
}

func (p *Page) Notify(message string) {
	p.mu.Lock()
	p.state.Notices = append(p.state.Notices, message)
	p.mu.Unlock()
}

func (p *Page) ScrollToResults() {
	p.mu.Lock()
	p.state.ScrollToResults = true
	p.mu.Unlock()
}

var _ View = (*Page)(nil)
