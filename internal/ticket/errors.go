package ticket

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBulkSequence means a weight fragment arrived with no
	// preceding bulk name fragment. The product name cannot be recovered,
	// so the whole document is unusable.
	ErrMalformedBulkSequence = errors.New("bulk weight fragment without a preceding name")

	// ErrIncompleteTicket means a required ticket field never matched
	// during the fragment scan.
	ErrIncompleteTicket = errors.New("incomplete ticket data")

	// ErrTotalMismatch means the line items do not add up to the printed
	// total within tolerance.
	ErrTotalMismatch = errors.New("total price mismatch")
)

// DocumentError names the document a parse or validation failure came from,
// so batch callers can report per-document outcomes.
type DocumentError struct {
	Document string
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Document, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
