package ui

import "html/template"

// File is the image currently chosen by the visitor.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// View is the display surface the components drive. Implementations only
// record state; they never call back into the components.
type View interface {
	ShowPlaceholder(show bool)
	SetPreviewSource(src string)
	SetSubmitEnabled(enabled bool)
	SetBusy(busy bool)
	SetResults(fragment template.HTML)
	Notify(message string)
	ScrollToResults()
}
