package fashion

import "errors"

// NotImageDetail is the message returned for non-image uploads.
const NotImageDetail = "File provided is not an image."

var (
	// ErrNotImage is returned when the upload is not an image.
	ErrNotImage = errors.New("file is not an image")
	// ErrEmptyImage is returned for a zero-byte upload.
	ErrEmptyImage = errors.New("image is empty")
)
