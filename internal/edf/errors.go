package edf

import "fmt"

// FormatError is a fatal parsing error: the buffer is too short to contain
// a valid main header or channel header block. No partial metadata is
// produced when a FormatError is returned.
type FormatError struct {
	msg string
}

func newFormatError(format string, args ...any) *FormatError {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	return e.msg
}
