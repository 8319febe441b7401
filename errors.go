package algebra

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderingMismatch is returned when a binary matrix operation receives
	// operands with different orderings.
	ErrOrderingMismatch = errors.New("operands must share the same ordering")

	// ErrZeroDivisor is returned when a matrix is divided by a zero scalar.
	ErrZeroDivisor = errors.New("zero divisor")
)

// IndexError indicates an out-of-bounds element access.
type IndexError struct {
	Row, Col   int
	Rows, Cols int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index (%d, %d) out of bounds for a %d by %d matrix", e.Row, e.Col, e.Rows, e.Cols)
}

// InvalidStateError indicates an operation attempted in the wrong storage
// mode: mutation on compressed storage, or a mode-specific getter called on
// the other mode.
type InvalidStateError struct {
	Op         string
	Compressed bool
}

func (e *InvalidStateError) Error() string {
	mode := "sparse"
	if e.Compressed {
		mode = "compressed"
	}
	return fmt.Sprintf("%s: not allowed on %s storage", e.Op, mode)
}

// DimensionMismatchError indicates an operand shape mismatch in an arithmetic
// operator.
type DimensionMismatchError struct {
	Op       string
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch: expected %d, got %d", e.Op, e.Expected, e.Actual)
}

// InvariantViolationError indicates malformed construction data or malformed
// batch-insert arguments.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type InvariantViolationError struct {
	Reason string
	cause  error
}

func (e *InvariantViolationError) Error() string {
	return "invariant violation: " + e.Reason
}

func (e *InvariantViolationError) Unwrap() error { return e.cause }
