package session

import "sync"

// Store maps guild ids to their sessions. Sessions are created lazily on
// first reference and never explicitly destroyed; an idle session is just a
// few words of empty state.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for a guild, creating it on first use.
// Concurrent first references for the same guild resolve to a single
// surviving session.
func (st *Store) GetOrCreate(guildID string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[guildID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[guildID]; ok {
		return s
	}
	s = newSession(guildID)
	st.sessions[guildID] = s
	return s
}

// Lookup returns the session for a guild without creating one.
func (st *Store) Lookup(guildID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[guildID]
	return s, ok
}

// ForEach calls fn for every known session. Used for process shutdown.
func (st *Store) ForEach(fn func(*Session)) {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	for _, s := range sessions {
		fn(s)
	}
}
