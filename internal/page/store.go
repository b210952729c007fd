package page

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const sessionCookie = "storefront_session"

// Store keeps one Session per browser, keyed by cookie.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// FromRequest returns the session for the request's cookie, minting a new
// cookie when there is none or the session was swept.
func (st *Store) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		st.mu.Lock()
		s, ok := st.sessions[c.Value]
		st.mu.Unlock()
		if ok {
			s.Touch()
			return s
		}
	}

	id := uuid.NewString()
	s := &Session{}
	s.Touch()
	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Len reports how many sessions are live.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle longer than maxIdle, checking every interval
// until the context ends.
func (st *Store) Sweep(ctx context.Context, maxIdle, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-maxIdle)
			st.mu.Lock()
			for id, s := range st.sessions {
				if s.idleSince(cutoff) {
					delete(st.sessions, id)
				}
			}
			live := len(st.sessions)
			st.mu.Unlock()
			slog.Debug("swept page sessions", "live", live)
		}
	}
}
