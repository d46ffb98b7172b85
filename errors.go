package automaton

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition is matched by every *PreconditionError through errors.Is.
	ErrPrecondition = errors.New("automaton precondition violated")

	// ErrTooComplexToDeterminize is returned when the powerset construction spends more
	// than the allowed work limit.
	ErrTooComplexToDeterminize = errors.New("automaton too complex to determinize")
)

// PreconditionError reports an input that does not satisfy the invariants an operation
// relies on. It is always returned before any result is allocated.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

func preconditionf(op, format string, args ...any) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
