package scanning

import (
	"fmt"

	"github.com/aruiz/ticket-tracker/internal/ticket"
)

// ParseTicket runs one document through extraction, parsing and validation
// and returns the finished ticket. Each call is self-contained: parser
// state never leaks between documents.
func ParseTicket(ext TextExtractor, data []byte) (*ticket.Ticket, error) {
	fragments, err := ext.Fragments(data)
	if err != nil {
		return nil, fmt.Errorf("extracting fragments: %w", err)
	}
	t, err := ticket.ParseFragments(fragments)
	if err != nil {
		return nil, err
	}
	if err := ticket.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
