// internal/repository/session_store.go
package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// Session holds the caller-scoped working set: catalog, sales history
// and the latest generated forecast. Everything lives in memory for the
// lifetime of the process.
type Session struct {
	Products  []domain.Product
	Sales     []domain.SalesRecord
	Forecast  []domain.ForecastPoint
	UpdatedAt time.Time
}

// SessionStore is an in-memory keyed store guarded by a RWMutex. It is
// the only persistence layer the analytics core is allowed to rely on.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// UpsertProducts replaces the catalog for a session, enforcing ID
// uniqueness at this boundary so the core never re-validates it.
func (s *SessionStore) UpsertProducts(sessionID string, products []domain.Product) error {
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if p.ID == "" {
			return fmt.Errorf("product with empty id in catalog")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate product id %q in catalog", p.ID)
		}
		seen[p.ID] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.getOrCreateLocked(sessionID)
	session.Products = append([]domain.Product(nil), products...)
	session.UpdatedAt = time.Now()
	return nil
}

// AppendSales adds records to a session's history. Records are immutable
// once stored.
func (s *SessionStore) AppendSales(sessionID string, records []domain.SalesRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.getOrCreateLocked(sessionID)
	session.Sales = append(session.Sales, records...)
	session.UpdatedAt = time.Now()
}

// SetForecast stores the latest forecast series for a session.
func (s *SessionStore) SetForecast(sessionID string, forecast []domain.ForecastPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.getOrCreateLocked(sessionID)
	session.Forecast = append([]domain.ForecastPoint(nil), forecast...)
	session.UpdatedAt = time.Now()
}

// Get returns a deep-enough copy of the session so callers can't mutate
// stored state behind the lock.
func (s *SessionStore) Get(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return &Session{
		Products:  append([]domain.Product(nil), session.Products...),
		Sales:     append([]domain.SalesRecord(nil), session.Sales...),
		Forecast:  append([]domain.ForecastPoint(nil), session.Forecast...),
		UpdatedAt: session.UpdatedAt,
	}, true
}

// Delete drops a session.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *SessionStore) getOrCreateLocked(sessionID string) *Session {
	session, ok := s.sessions[sessionID]
	if !ok {
		session = &Session{}
		s.sessions[sessionID] = session
	}
	return session
}
