package coupling

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFields indicates a participant that exposes nothing to visualize.
	ErrNoFields = errors.New("coupling: participant exposes no fields")

	// ErrDuplicateField indicates the same mesh/field pair listed twice.
	ErrDuplicateField = errors.New("coupling: duplicate mesh field")

	// ErrParticipant wraps failures reported by the participant itself.
	ErrParticipant = errors.New("coupling: participant failed")

	// ErrNotStarted indicates Wait without a prior Start.
	ErrNotStarted = errors.New("coupling: producer not started")
)

// StepError carries the position in the step loop where a failure occurred.
type StepError struct {
	Step int
	Time float64
	Key  Key
	Err  error
}

func (e *StepError) Error() string {
	if e.Key == (Key{}) {
		return fmt.Sprintf("step %d (t=%g): %v", e.Step, e.Time, e.Err)
	}
	return fmt.Sprintf("step %d (t=%g) %s: %v", e.Step, e.Time, e.Key, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
