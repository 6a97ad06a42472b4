// Package dfserrors contains the error taxonomy used throughout the
// disc-image inspector and detokenizer: tagged errors that callers can
// test for with the IsXxx predicates. The predicates inspect the error
// value itself; they do not look through wrapped errors.
package dfserrors

import (
	"fmt"
)

// --------------------- Unrecognized

// unrecognized signals that a container or filesystem format could not
// be identified at all.
type unrecognized string

// UnrecognizedI tags Unrecognized errors.
type UnrecognizedI interface {
	IsUnrecognized()
}

var _ UnrecognizedI = unrecognized("test")

func (e unrecognized) Error() string { return string(e) }
func (e unrecognized) IsUnrecognized() {}

// Unrecognizedf is fmt.Errorf for Unrecognized errors.
func Unrecognizedf(format string, a ...interface{}) error {
	return unrecognized(fmt.Sprintf(format, a...))
}

// IsUnrecognized returns true if err is an Unrecognized error.
func IsUnrecognized(err error) bool {
	_, ok := err.(UnrecognizedI)
	return ok
}

// --------------------- FailedToGuessFormat

// failedToGuessFormat signals that probing produced more than one
// equally-plausible candidate geometry.
type failedToGuessFormat string

// FailedToGuessFormatI tags FailedToGuessFormat errors.
type FailedToGuessFormatI interface {
	IsFailedToGuessFormat()
}

var _ FailedToGuessFormatI = failedToGuessFormat("test")

func (e failedToGuessFormat) Error() string       { return string(e) }
func (e failedToGuessFormat) IsFailedToGuessFormat() {}

// FailedToGuessFormatf is fmt.Errorf for FailedToGuessFormat errors.
func FailedToGuessFormatf(format string, a ...interface{}) error {
	return failedToGuessFormat(fmt.Sprintf(format, a...))
}

// IsFailedToGuessFormat returns true if err is a FailedToGuessFormat error.
func IsFailedToGuessFormat(err error) bool {
	_, ok := err.(FailedToGuessFormatI)
	return ok
}

// --------------------- BadFileSystem

// badFileSystem signals structural corruption: premature end of
// catalog, impossible lengths, entries out of order, inconsistent
// cross-references.
type badFileSystem string

// BadFileSystemI tags BadFileSystem errors.
type BadFileSystemI interface {
	IsBadFileSystem()
}

var _ BadFileSystemI = badFileSystem("test")

func (e badFileSystem) Error() string      { return string(e) }
func (e badFileSystem) IsBadFileSystem() {}

// BadFileSystemf is fmt.Errorf for BadFileSystem errors.
func BadFileSystemf(format string, a ...interface{}) error {
	return badFileSystem(fmt.Sprintf(format, a...))
}

// IsBadFileSystem returns true if err is a BadFileSystem error.
func IsBadFileSystem(err error) bool {
	_, ok := err.(BadFileSystemI)
	return ok
}

// EOFInCatalog is the canonical BadFileSystem raised when a catalog
// fragment's sectors are past the end of the medium or shorter than a
// full catalog sector.
func EOFInCatalog() error {
	return BadFileSystemf("unexpected end of catalog")
}

// --------------------- FileIOError

// fileIOError wraps an OS error encountered against a named path.
type fileIOError struct {
	path string
	err  error
}

// FileIOErrorI tags FileIOError errors.
type FileIOErrorI interface {
	IsFileIOError()
}

var _ FileIOErrorI = &fileIOError{}

func (e *fileIOError) Error() string {
	return fmt.Sprintf("%s: %v", e.path, e.err)
}
func (e *fileIOError) IsFileIOError() {}
func (e *fileIOError) Unwrap() error  { return e.err }

// FileIOErrorf wraps err with the path that caused it.
func FileIOErrorf(path string, err error) error {
	return &fileIOError{path: path, err: err}
}

// IsFileIOError returns true if err is a FileIOError.
func IsFileIOError(err error) bool {
	_, ok := err.(FileIOErrorI)
	return ok
}

// --------------------- NonFileOsError

// nonFileOsError wraps an OS error not tied to a single path (for
// example, temp-file creation).
type nonFileOsError struct {
	err error
}

// NonFileOsErrorI tags NonFileOsError errors.
type NonFileOsErrorI interface {
	IsNonFileOsError()
}

var _ NonFileOsErrorI = &nonFileOsError{}

func (e *nonFileOsError) Error() string       { return e.err.Error() }
func (e *nonFileOsError) IsNonFileOsError() {}
func (e *nonFileOsError) Unwrap() error       { return e.err }

// NonFileOsErrorf wraps err as a NonFileOsError.
func NonFileOsErrorf(err error) error {
	return &nonFileOsError{err: err}
}

// IsNonFileOsError returns true if err is a NonFileOsError.
func IsNonFileOsError(err error) bool {
	_, ok := err.(NonFileOsErrorI)
	return ok
}

// --------------------- MediaNotPresent

// mediaNotPresent signals that a requested drive slot is empty.
type mediaNotPresent string

// MediaNotPresentI tags MediaNotPresent errors.
type MediaNotPresentI interface {
	IsMediaNotPresent()
}

var _ MediaNotPresentI = mediaNotPresent("test")

func (e mediaNotPresent) Error() string        { return string(e) }
func (e mediaNotPresent) IsMediaNotPresent() {}

// MediaNotPresentf is fmt.Errorf for MediaNotPresent errors.
func MediaNotPresentf(format string, a ...interface{}) error {
	return mediaNotPresent(fmt.Sprintf(format, a...))
}

// IsMediaNotPresent returns true if err is a MediaNotPresent error.
func IsMediaNotPresent(err error) bool {
	_, ok := err.(MediaNotPresentI)
	return ok
}

// --------------------- OpusUnsupported

// opusUnsupported signals an Opus DDOS feature combination this
// inspector does not implement.
type opusUnsupported string

// OpusUnsupportedI tags OpusUnsupported errors.
type OpusUnsupportedI interface {
	IsOpusUnsupported()
}

var _ OpusUnsupportedI = opusUnsupported("test")

func (e opusUnsupported) Error() string         { return string(e) }
func (e opusUnsupported) IsOpusUnsupported() {}

// OpusUnsupportedf is fmt.Errorf for OpusUnsupported errors.
func OpusUnsupportedf(format string, a ...interface{}) error {
	return opusUnsupported(fmt.Sprintf(format, a...))
}

// IsOpusUnsupported returns true if err is an OpusUnsupported error.
func IsOpusUnsupported(err error) bool {
	_, ok := err.(OpusUnsupportedI)
	return ok
}
