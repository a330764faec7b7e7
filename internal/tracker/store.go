package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/aruiz/ticket-tracker/internal/ticket"
)

const sessionBucket = "sessions"

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Session holds the tickets uploaded together in one browser session.
type Session struct {
	ID        string           `json:"id"`
	Tickets   []*ticket.Ticket `json:"tickets"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store defines the interface for session persistence. Session lifetime is
// the caller's concern; the daemon keeps one store open for its whole
// process lifetime.
type Store interface {
	// SaveSession saves a session
	SaveSession(session *Session) error

	// GetSession retrieves a session by ID
	GetSession(id string) (*Session, error)

	// DeleteSession removes a session
	DeleteSession(id string) error

	// Close closes the store
	Close() error
}

// BoltStore implements the Store interface using BoltDB.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore creates a new BoltStore instance
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// SaveSession saves a session
func (b *BoltStore) SaveSession(session *Session) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshaling session: %w", err)
		}
		return bucket.Put([]byte(session.ID), data)
	})
}

// GetSession retrieves a session by ID
func (b *BoltStore) GetSession(id string) (*Session, error) {
	var session *Session
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session
func (b *BoltStore) DeleteSession(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return bucket.Delete([]byte(id))
	})
}

// Close closes the store
func (b *BoltStore) Close() error {
	return b.db.Close()
}
