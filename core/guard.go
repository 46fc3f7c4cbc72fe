package core

import "fmt"

// CanCancel reports whether caller may cancel record right now.
func CanCancel(record Request, caller Principal) bool {
	return record.Status == RequestStatusOpen && record.Owner == caller
}

// AuthorizeCancel returns the reason caller may not cancel record, checking
// ownership before state. It returns nil when CanCancel is true.
func AuthorizeCancel(record Request, caller Principal) error {
	if caller.IsZero() || record.Owner != caller {
		return fmt.Errorf("%w: request %s", ErrUnauthorized, record.ID)
	}
	if record.Status != RequestStatusOpen {
		return fmt.Errorf("%w: request %s is %s", ErrInvalidRequestState, record.ID, record.Status)
	}
	return nil
}
