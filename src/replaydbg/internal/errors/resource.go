package errors

import (
	stderr "errors"
	"fmt"
)

// ResourceExhaustedError reports a failed clone or fork. It is fatal by
// contract: the server must terminate rather than continue on unverifiable
// replay state.
type ResourceExhaustedError struct {
	Op  string
	Err error
}

// Error is an implementation of the error interface.
func (r *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("resource exhaustion during %s: %v", r.Op, r.Err)
}

// Unwrap supports errors.Is/As chains.
func (r *ResourceExhaustedError) Unwrap() error {
	return r.Err
}

// IsResource reports whether the error chain contains a fatal resource
// error.
func IsResource(e error) bool {
	var re *ResourceExhaustedError
	return stderr.As(e, &re)
}
