package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	pdfPkg "pdf_toolkit/pdf"

	log "github.com/sirupsen/logrus"
)

var errSessionNotFound = errors.New("organize session not found")

// Session is one document being reorganized. Every edit holds mu, so each
// request sees a complete state transition.
type Session struct {
	ID       string
	Filename string

	doc     *pdfPkg.Document
	mu      sync.Mutex
	order   *pdfPkg.PageOrder
	touched time.Time
}

// SessionStore owns the organize sessions, one per loaded document.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a session editing order over doc.
func (s *SessionStore) Create(filename string, doc *pdfPkg.Document, order *pdfPkg.PageOrder) *Session {
	sess := &Session{
		ID:       generateUniqueID(),
		Filename: filename,
		doc:      doc,
		order:    order,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess.touched = s.now()
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session with id and marks it as used.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	sess.touched = s.now()
	return sess, nil
}

// Delete drops the session with id and reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.WithField("removed", n).Info("Expired organize sessions")
			}
		}
	}
}

// Edit applies fn to the page order and returns the resulting snapshot.
// A failed fn leaves the order as it was.
func (sess *Session) Edit(fn func(order *pdfPkg.PageOrder) error) (pdfPkg.OrderSnapshot, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess.order); err != nil {
		return pdfPkg.OrderSnapshot{}, err
	}
	return sess.order.Snapshot(), nil
}

// Snapshot returns the current order without changing it.
func (sess *Session) Snapshot() pdfPkg.OrderSnapshot {
	snap, _ := sess.Edit(func(*pdfPkg.PageOrder) error { return nil })
	return snap
}

// Plan materializes the order for export. Edits made after Plan returns do
// not affect the plan.
func (sess *Session) Plan() (*pdfPkg.ExportPlan, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.order.Plan()
}

// generateUniqueID generates a unique identifier for sessions
func generateUniqueID() string {
	// Use timestamp + random bytes for uniqueness
	b := make([]byte, 8)
	rand.Read(b)
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("%d_%s", timestamp, hex.EncodeToString(b))
}
