package git

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a failed oid, reference, or path lookup.
	ErrNotFound = errors.New("object not found")

	// ErrInvalidReference reports a reference whose prefix does not map to a
	// known kind.
	ErrInvalidReference = errors.New("invalid reference")
)

// AttachError reports that the native repository could not be opened. It is
// fatal to the agent owning the handle.
type AttachError struct {
	Path string
	Err  error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("attach %s: %v", e.Path, e.Err)
}

func (e *AttachError) Unwrap() error { return e.Err }

// TranslationError reports a native value that could not be converted into
// its object model shape, e.g. an out-of-range commit timestamp.
type TranslationError struct {
	Field string
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate %s: %v", e.Field, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }
