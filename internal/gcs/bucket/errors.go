package bucket

import (
	"errors"
	"fmt"
)

// ErrObjectNameRequired is returned when an operation that targets a single
// object is called with an empty object name.
var ErrObjectNameRequired = errors.New("object name is required")

// ErrObjectNameUnsafe is returned by DownloadFile when the object name would
// resolve to a path outside the destination directory.
var ErrObjectNameUnsafe = errors.New("object name resolves outside the destination directory")

// StatusError reports a non-2xx response from the storage API. Op identifies
// the failed operation: "list", "upload", "download" or "delete".
type StatusError struct {
	Op     string
	Code   int
	Status string // status line as reported by the server, e.g. "403 Forbidden"
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: storage API returned %s", e.Op, e.Status)
}
