package tracker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aruiz/ticket-tracker/internal/analysis"
	"github.com/aruiz/ticket-tracker/internal/scanning"
	"github.com/aruiz/ticket-tracker/internal/ticket"
)

// IDGenerator generates unique session identifiers
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// uuidGenerator generates random session ids
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// UploadedFile is one document received by the upload endpoint.
type UploadedFile struct {
	Name string
	Data []byte
}

// UploadReport tells the caller which documents made it into the session.
type UploadReport struct {
	SessionID string   `json:"session_id"`
	Parsed    int      `json:"parsed"`
	Failures  []string `json:"failures,omitempty"`
}

// Service handles ticket sessions end to end: parsing uploads, storing the
// results and answering analysis queries.
type Service struct {
	store       Store
	extractor   scanning.TextExtractor
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(store Store, extractor scanning.TextExtractor) *Service {
	return &Service{
		store:       store,
		extractor:   extractor,
		idGenerator: &uuidGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(store Store, extractor scanning.TextExtractor, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		store:       store,
		extractor:   extractor,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// UploadTickets parses every uploaded document and stores the successes
// under a fresh session. Documents are independent: one malformed receipt
// never blocks the rest, it is reported back instead. An upload where no
// document parses returns an error alongside the failure report.
func (s *Service) UploadTickets(files []UploadedFile) (*UploadReport, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided")
	}

	report := &UploadReport{}
	var tickets []*ticket.Ticket
	for _, f := range files {
		t, err := scanning.ParseTicket(s.extractor, f.Data)
		if err != nil {
			slog.Warn("Failed to parse uploaded ticket", "filename", f.Name, "error", err)
			docErr := &ticket.DocumentError{Document: f.Name, Err: err}
			report.Failures = append(report.Failures, docErr.Error())
			continue
		}
		tickets = append(tickets, t)
	}
	if len(tickets) == 0 {
		return report, fmt.Errorf("no ticket could be parsed from the upload")
	}

	session := &Session{
		ID:        s.idGenerator.Generate(),
		Tickets:   tickets,
		CreatedAt: s.timeSource.Now(),
	}
	if err := s.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	report.SessionID = session.ID
	report.Parsed = len(tickets)
	slog.Info("Session created", "session_id", session.ID, "tickets", len(tickets), "failures", len(report.Failures))
	return report, nil
}

// sessionRows loads a session and projects its tickets, sorted by date and
// product name the way every consumer expects.
func (s *Service) sessionRows(sessionID string) ([]ticket.Row, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	rows := ticket.Project(session.Tickets)
	ticket.SortRows(rows)
	return rows, nil
}

// Analysis computes the spending summary for a session.
func (s *Service) Analysis(sessionID string) (*analysis.Result, error) {
	rows, err := s.sessionRows(sessionID)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(rows, 0), nil
}

// ProductNames returns the distinct product names in a session, in row order.
func (s *Service) ProductNames(sessionID string) ([]string, error) {
	rows, err := s.sessionRows(sessionID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, r := range rows {
		if _, ok := seen[r.ProductName]; ok {
			continue
		}
		seen[r.ProductName] = struct{}{}
		names = append(names, r.ProductName)
	}
	return names, nil
}

// PriceEvolution returns the unit price history of one product in a session.
func (s *Service) PriceEvolution(sessionID, productName string) ([]analysis.PricePoint, error) {
	rows, err := s.sessionRows(sessionID)
	if err != nil {
		return nil, err
	}
	return analysis.PriceEvolution(rows, productName), nil
}

// DeleteSession removes a session and its tickets.
func (s *Service) DeleteSession(id string) error {
	return s.store.DeleteSession(id)
}

// LocalTickets parses the given folder and runs the analysis directly, no
// session involved.
func (s *Service) LocalTickets(dir string) (*analysis.Result, *scanning.FolderReport, error) {
	report, err := scanning.ParseFolder(s.extractor, dir)
	if err != nil {
		return nil, nil, err
	}
	rows := ticket.Project(report.Tickets)
	ticket.SortRows(rows)
	return analysis.Analyze(rows, 0), report, nil
}
