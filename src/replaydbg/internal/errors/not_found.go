package errors

import (
	stderr "errors"
	"fmt"
)

// CheckpointNotFoundError is a resolution error: the restart target names a
// checkpoint id that was never saved or has been deleted.
type CheckpointNotFoundError struct {
	ID int
}

// Error is an implementation of the error interface.
func (n *CheckpointNotFoundError) Error() string {
	return fmt.Sprintf("checkpoint %d not found", n.ID)
}

// NotFoundCheckpoint returns the checkpoint id and true if a
// CheckpointNotFoundError is part of the error chain.
func NotFoundCheckpoint(e error) (_ int, ok bool) {
	var nf *CheckpointNotFoundError
	if !stderr.As(e, &nf) {
		return 0, false
	}
	return nf.ID, true
}

// IsResolution reports whether the error is a resolution error: the named
// restart source does not exist. Answered as a negative reply with no state
// mutation.
func IsResolution(e error) bool {
	var nf *CheckpointNotFoundError
	return stderr.As(e, &nf)
}
