package verr

import (
	"fmt"
	"strings"
)

// AggregateError collects multiple errors from a single operation — for
// example, several nested-write child statements that each failed
// independently before the parent transaction rolled back.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "viborm: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("viborm: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// NewAggregateError returns a new AggregateError if there is more than one
// non-nil error, the single error unwrapped if there is exactly one, or
// nil if there are none.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return &AggregateError{Errors: filtered}
	}
}

// RollbackError wraps an error that occurred while rolling back a
// transaction after an earlier error triggered the rollback.
type RollbackError struct {
	Cause      error // the error that triggered the rollback
	RollbackOp error // the error returned by ROLLBACK itself
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("viborm: rollback failed (%v) after: %v", e.RollbackOp, e.Cause)
}

func (e *RollbackError) Unwrap() error { return e.Cause }
