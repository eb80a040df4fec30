package ui

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"style-finder/internal/shared/telemetry"
)

// Preview renders the selected file as an inline image source.
type Preview struct {
	view View
}

// NewPreview returns a preview renderer drawing into view.
func NewPreview(view View) *Preview {
	return &Preview{view: view}
}

// Show decodes f once and sets it as the preview source. A file that cannot
// be decoded leaves the preview in placeholder mode.
func (p *Preview) Show(f File) {
	src, err := DataURL(f)
	if err != nil {
		telemetry.Warn("preview.decode_failed", map[string]any{
			"file_name": f.Name,
			"err":       err.Error(),
		})
		p.view.SetPreviewSource("")
		p.view.ShowPlaceholder(true)
		return
	}
	p.view.SetPreviewSource(src)
}

// DataURL encodes f as a base64 data URL.
func DataURL(f File) (string, error) {
	if len(f.Data) == 0 {
		return "", ErrEmptyFile
	}
	return "data:" + mediaType(f) + ";base64," + base64.StdEncoding.EncodeToString(f.Data), nil
}

// mediaType prefers a declared image/* type and falls back to sniffing the
// bytes. Anything that is not an image is sent as application/octet-stream.
func mediaType(f File) string {
	if mt, _, err := mime.ParseMediaType(f.MIMEType); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	detected := mimetype.Detect(f.Data).String()
	if base, _, ok := strings.Cut(detected, ";"); ok {
		detected = strings.TrimSpace(base)
	}
	if !strings.HasPrefix(detected, "image/") {
		return "application/octet-stream"
	}
	return detected
}
