package scenario

import (
	"errors"
	"fmt"
)

var ErrMismatch = errors.New("unexpected result")

// StepError is a failure of one step of a case.
type StepError struct {
	Case string
	Step int
	Op   Op
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("%s: step %d (%s): %v", e.Case, e.Step, e.Op, e.Err)
}

func (e StepError) Unwrap() error {
	return e.Err
}

type ErrorSet struct {
	Errs []error
}

func newErrorSet() *ErrorSet {
	return new(ErrorSet)
}

func (e *ErrorSet) Add(err error) {
	var subErrs *ErrorSet
	if errors.As(err, &subErrs) {
		e.Errs = append(e.Errs, subErrs.Unwrap()...)
	} else {
		e.Errs = append(e.Errs, err)
	}
}

func (e ErrorSet) Error() string {
	return errors.Join(e.Errs...).Error()
}

func (e ErrorSet) Unwrap() []error {
	return e.Errs
}

// Err returns e, or nil when nothing was added.
func (e *ErrorSet) Err() error {
	if len(e.Errs) == 0 {
		return nil
	}

	return e
}
