package analysis

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse means the service answered 2xx with a body that is not
// an analysis result.
var ErrMalformedResponse = errors.New("malformed analysis response")

// StatusError reports a non-2xx answer from the analysis service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis service returned status %d", e.Code)
}
