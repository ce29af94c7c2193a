package domain

import "errors"

var (
	ErrInterviewNotFound  = errors.New("interview not found")
	ErrInterviewCancelled = errors.New("interview is cancelled")
	ErrRevisionConflict   = errors.New("interview revision conflict")
	ErrInvalidStatus      = errors.New("invalid interview status")
	ErrInvalidID          = errors.New("invalid id")
	ErrLockTimeout        = errors.New("timed out waiting for slot lock")
)

// ConflictError is returned by the booking path when the requested slot
// overlaps existing interviews for either party. It carries the full
// conflict list so callers can render it.
type ConflictError struct {
	Conflicts []Interview
}

func (e *ConflictError) Error() string {
	return "interview slot conflicts detected"
}

// AsConflictError unwraps err into a ConflictError, if it is one.
func AsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
