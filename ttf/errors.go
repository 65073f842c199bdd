package ttf

import (
	"errors"
	"fmt"
)

// ErrNotATrueTypeFont is returned by Parse when the first four bytes of
// the input are not one of the recognized magic values. It is the only
// fatal error; everything else is recovered at a table boundary and
// reported as a warning.
var ErrNotATrueTypeFont = errors.New("not a TrueType font")

// Table-level failures. Their messages end up verbatim in warnings of
// the form "Failed to parse the '<tag>' table because <reason>", so they
// read as clauses, not sentences.
var (
	errReadOutOfBounds     = errors.New("read out of bounds")
	errAdvanceBackwards    = errors.New("an attempt to advance backward")
	errInvalidTableVersion = errors.New("invalid table version")
	errInvalidValue        = errors.New("invalid value")
	errInvalidOffset       = errors.New("invalid offset")
	errInvalidFloat        = errors.New("invalid float")
	errInvalidStateMachine = errors.New("invalid state machine")
	errBudgetExceeded      = errors.New("budget exceeded")
)

// errMissingTable names a cross-table dependency that is absent,
// e.g. 'glyf' without 'maxp'.
func errMissingTable(tag string) error {
	return fmt.Errorf("no '%s' table", tag)
}
