package analysis

import "fmt"

// ParameterError reports invalid analysis parameters: an impossible
// frequency band, an unknown channel name, an empty channel selection.
// It is returned to callers as a structured error result, never thrown.
type ParameterError struct {
	msg string
}

func newParameterError(format string, args ...any) *ParameterError {
	return &ParameterError{msg: fmt.Sprintf(format, args...)}
}

func (e *ParameterError) Error() string {
	return e.msg
}

// ComputationError reports an unexpected numerical failure inside an
// analysis, such as a non-converging eigendecomposition. It carries the
// diagnostic detail and is surfaced as a structured error result.
type ComputationError struct {
	msg string
}

func newComputationError(format string, args ...any) *ComputationError {
	return &ComputationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ComputationError) Error() string {
	return e.msg
}
