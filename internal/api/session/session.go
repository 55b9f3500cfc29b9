// Package session keeps one table view per browser session, keyed by a
// cookie holding a random UUID.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edvin/partners/internal/view"
)

// CookieName is the session cookie.
const CookieName = "partners_session"

// DefaultLimit caps the live sessions of a Store built with limit <= 0.
const DefaultLimit = 10000

type entry struct {
	table    *view.Table
	lastSeen time.Time
}

// Store is a mutex-guarded map of session id to table view. At its limit the
// least recently seen idle session is dropped to make room.
type Store struct {
	newTable func() *view.Table
	now      func() time.Time
	limit    int

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewStore(newTable func() *view.Table, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		newTable: newTable,
		now:      time.Now,
		limit:    limit,
		sessions: map[string]*entry{},
	}
}

// Table returns the caller's table view, starting a new session (and setting
// the cookie on w) when the request carries no known session.
func (s *Store) Table(w http.ResponseWriter, r *http.Request) *view.Table {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, found := s.sessions[id]; found {
		e.lastSeen = s.now()
		return e.table
	}

	if id == "" {
		id = uuid.NewString()
	}
	if len(s.sessions) >= s.limit {
		s.evictLocked()
	}
	e := &entry{table: s.newTable(), lastSeen: s.now()}
	s.sessions[id] = e

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return e.table
}

// evictLocked drops the least recently seen session that is not busy.
func (s *Store) evictLocked() {
	oldest := ""
	var seen time.Time
	for id, e := range s.sessions {
		if e.table.Busy() {
			continue
		}
		if oldest == "" || e.lastSeen.Before(seen) {
			oldest, seen = id, e.lastSeen
		}
	}
	if oldest != "" {
		delete(s.sessions, oldest)
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many went.
// Busy tables are kept.
func (s *Store) Prune(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) && !e.table.Busy() {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}
