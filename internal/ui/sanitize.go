package ui

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// plainText strips any markup from server-supplied text. The result is raw
// text; html/template escapes it again on output.
func plainText(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}

func lines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
