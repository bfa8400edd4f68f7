package merge

import "fmt"

// Fatal operation identifiers.
const (
	OpLookupDestination = "lookup-destination"
	OpCreateDestination = "create-destination"
)

// FatalError aborts the whole merge: the destination customer record
// could not be read or created, so nothing downstream has a valid target.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("merge %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// StepError records a non-fatal failure in one of the per-step
// read/write calls. The step contributes zero to its count and the
// merge carries on.
type StepError struct {
	Step    string
	GuestID string
	Err     error
}

func (e StepError) Error() string {
	if e.GuestID != "" {
		return fmt.Sprintf("merge step %s (guest %s): %v", e.Step, e.GuestID, e.Err)
	}
	return fmt.Sprintf("merge step %s: %v", e.Step, e.Err)
}

func (e StepError) Unwrap() error { return e.Err }
