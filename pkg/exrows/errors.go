package exrows

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrNotFound indicates a missing sheet or document path.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates an operation that would duplicate a sheet name.
	ErrConflict = errors.New("conflict")
	// ErrRange indicates a row or column number outside the valid range.
	ErrRange = errors.New("out of range")
	// ErrIO indicates the document could not be read or written.
	ErrIO = errors.New("i/o failure")
	// ErrInvalidValue indicates a row value that is not a spreadsheet scalar.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidName indicates a sheet title the file format rejects.
	ErrInvalidName = errors.New("invalid sheet name")
	// ErrUnsupportedFormat indicates a path whose extension has no codec.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// OpError records the operation, sheet and row that failed.
type OpError struct {
	Op    string
	Path  string
	Sheet string
	Row   int
	Err   error
}

func (e *OpError) Error() string {
	msg := e.Op
	if e.Sheet != "" {
		msg += fmt.Sprintf(" sheet %q", e.Sheet)
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	return msg + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func (e *Engine) opErr(op, sheet string, row int, err error) *OpError {
	return &OpError{Op: op, Path: e.path, Sheet: sheet, Row: row, Err: err}
}

// ioErr marks a codec failure so it matches both ErrIO and the codec's own error.
func ioErr(err error) error {
	if errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}
