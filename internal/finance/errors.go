package finance

import "fmt"

// ErrCodeAlreadyRefunded is the soft-failure code reported when the
// upstream signals the charge was already fully refunded.
const ErrCodeAlreadyRefunded = "CHARGE_ALREADY_REFUNDED"

// ValidationError reports malformed input, rejected before any
// upstream call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// QueryError reports a failed upstream read. Operations fail closed:
// a partial aggregation or investigation is never returned.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// MutationError reports a failed upstream mutation other than the
// expected already-refunded outcome.
type MutationError struct {
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("refund mutation failed: %v", e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
