/*
Package predictor implements the two trained-model components: the
behavior classifier and the system-load regressor.

Both follow the same lifecycle: untrained at construction, trained after
a successful Train (retraining overwrites), and restorable from a
persisted bundle after a restart. Errors surface as typed values;
persistence failures are logged and never escape to callers.
*/
package predictor

import (
	"errors"
	"fmt"
)

// InsufficientDataError is returned by Train when the history is shorter
// than the configured minimum. Trained state is never mutated on this
// path; the caller recovers by collecting more data and retrying.
type InsufficientDataError struct {
	Kind string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s model: need at least %d samples, have %d", e.Kind, e.Need, e.Have)
}

// NotTrainedError is returned by Predict when no in-memory or persisted
// bundle exists. The caller recovers by training first.
type NotTrainedError struct {
	Kind string
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("%s model is not trained", e.Kind)
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var target *InsufficientDataError
	return errors.As(err, &target)
}

// IsNotTrained reports whether err is a NotTrainedError.
func IsNotTrained(err error) bool {
	var target *NotTrainedError
	return errors.As(err, &target)
}
