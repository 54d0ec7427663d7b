package ledger

import "fmt"

// Error wraps a failure talking to a ledger backend.
type Error struct {
	Backend string
	Op      string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger (%s) %s: %v", e.Backend, e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
