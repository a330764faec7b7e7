package scanning

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aruiz/ticket-tracker/internal/ticket"
)

// FolderReport is the outcome of a folder ingestion. Documents are parsed
// independently: a malformed receipt is recorded as a failure and never
// aborts the rest of the batch.
type FolderReport struct {
	Tickets  []*ticket.Ticket
	Failures []*ticket.DocumentError
}

// ParseFolder parses every PDF in dir, in directory order.
func ParseFolder(ext TextExtractor, dir string) (*FolderReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ticket folder: %w", err)
	}

	report := &FolderReport{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			report.Failures = append(report.Failures, &ticket.DocumentError{Document: entry.Name(), Err: err})
			continue
		}
		t, err := ParseTicket(ext, data)
		if err != nil {
			slog.Warn("Failed to parse ticket", "file", entry.Name(), "error", err)
			report.Failures = append(report.Failures, &ticket.DocumentError{Document: entry.Name(), Err: err})
			continue
		}
		report.Tickets = append(report.Tickets, t)
	}
	return report, nil
}
