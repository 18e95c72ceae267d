package booking

import "fmt"

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a missing referenced entity (professional, service,
// appointment).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports that the requested slot is already booked or that an
// overlapping appointment exists. Not retried by the core; the caller decides
// whether to offer another time.
type ConflictError struct {
	ProfessionalID string
	Date           string
	Time           string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("this time slot is already booked (%s %s %s)", e.ProfessionalID, e.Date, e.Time)
}

// TransientError wraps a storage failure that does not indicate a semantic
// conflict and may succeed on retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient storage failure during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// CompensationError reports that releasing a successfully claimed slot failed
// after a downstream write error. The slot may be orphaned until the
// reconciliation sweep picks it up.
type CompensationError struct {
	ProfessionalID string
	Date           string
	Time           string
	Err            error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("failed to release claimed slot %s %s %s after booking failure: %v",
		e.ProfessionalID, e.Date, e.Time, e.Err)
}

func (e *CompensationError) Unwrap() error { return e.Err }
