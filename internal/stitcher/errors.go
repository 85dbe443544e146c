package stitcher

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Apart from context cancellation, every error returned
// by Run matches one of them through errors.Is.
var (
	ErrEnumeration  = errors.New("enumeration error")
	ErrDecode       = errors.New("decode error")
	ErrIO           = errors.New("i/o error")
	ErrConfig       = errors.New("configuration error")
	ErrWorkerPanic  = errors.New("stitch worker panicked")
	errUnsupported  = errors.New("unsupported image format")
	errEmptyPicture = errors.New("document has no pixels")
)

// Error attaches the failing path to an error kind.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func enumerationError(path string, err error) error {
	return &Error{Kind: ErrEnumeration, Path: path, Err: err}
}

func decodeError(path string, err error) error {
	return &Error{Kind: ErrDecode, Path: path, Err: err}
}

func ioError(path string, err error) error {
	return &Error{Kind: ErrIO, Path: path, Err: err}
}

func configError(format string, args ...any) error {
	return &Error{Kind: ErrConfig, Err: fmt.Errorf(format, args...)}
}
