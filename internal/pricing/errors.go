package pricing

import "fmt"

// ComputationError reports a failure while pricing one template row.
type ComputationError struct {
	Row         int
	Designation string
	Err         error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("row %d (%q): %s", e.Row, e.Designation, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
