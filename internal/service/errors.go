package service

import "fmt"

// ValidationError marks malformed or missing input (no customer on a
// checkout session, negative offer amount). Never retried; surfaced to the
// caller as a 4xx.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ReconciliationError marks a data-integrity gap between Stripe and the
// local user base: the event referenced a customer or subscription no local
// record resolves to. Not transient; needs operator attention. Surfaced
// non-2xx so Stripe keeps redelivering until the gap is fixed.
type ReconciliationError struct {
	Operation string
	Reference string
	Err       error
}

func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reconciliation failed during %s for %s: %v", e.Operation, e.Reference, e.Err)
	}
	return fmt.Sprintf("reconciliation failed during %s for %s", e.Operation, e.Reference)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

func NewReconciliationError(operation, reference string, err error) error {
	return &ReconciliationError{Operation: operation, Reference: reference, Err: err}
}

// maskID redacts an external identifier for logs, keeping enough of the
// tail to correlate with the Stripe dashboard.
func maskID(id string) string {
	if len(id) <= 8 {
		return "****"
	}
	return "****" + id[len(id)-8:]
}
