package util

import (
	"errors"
	"path"
	"strings"
)

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators and rejects traversal patterns.
// Only the base name of a client-supplied path is kept.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	s = path.Base(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if s == "" || s == "." || s == "/" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
