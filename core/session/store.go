// Package session holds the process-wide authentication state: the bearer
// token, its derived authenticated flag, the in-flight loading flag and the
// last login failure. It is the single source of truth the route guard and
// the presentation layer read from.
package session

import "sync"

// Session is an immutable snapshot of the authentication state.
// An empty Token means unauthenticated; IsAuthenticated is derived from it
// and never settable on its own.
type Session struct {
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// Store owns a Session and mutates it exclusively through its transition
// methods, each atomic with respect to observers. A Store is injectable:
// callers create one per process (or per browser session) rather than
// relying on a package-level singleton.
type Store struct {
	mu          sync.Mutex
	current     Session
	generation  uint64
	subscribers []func(Session)
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the latest completed Session snapshot.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn to be called synchronously after every completed
// transition. fn runs with the store locked and must not call back into it.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// BeginVerification marks a session-verification exchange as outstanding.
// Token and Error are left untouched. The returned generation must be handed
// back to ResolveVerification; a resolution carrying a stale generation
// (e.g. landing after a logout) is discarded.
func (s *Store) BeginVerification() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current.Loading = true
	s.notify()
	return s.generation
}

// BeginLogin marks a login exchange as outstanding and clears any error
// left over from a previous attempt.
func (s *Store) BeginLogin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current.Loading = true
	s.current.Error = ""
	s.notify()
	return s.generation
}

// ResolveVerification completes a verification exchange. An empty token
// downgrades to unauthenticated; verification failures are never surfaced
// as user-visible errors. Reports whether the resolution was applied.
func (s *Store) ResolveVerification(gen uint64, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false // superseded by a logout or a newer exchange
	}
	s.current.Loading = false
	s.current.Token = token
	s.current.IsAuthenticated = token != ""
	s.notify()
	return true
}

// ResolveLogin completes a login exchange. On success (errMsg == "") the new
// token replaces the current one and any error is cleared. On failure the
// message is recorded and the token left unchanged: a failed login attempt
// never logs an existing session out. Reports whether the resolution was applied.
func (s *Store) ResolveLogin(gen uint64, token, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.current.Loading = false
	if errMsg != "" {
		s.current.Error = errMsg
	} else {
		s.current.Token = token
		s.current.IsAuthenticated = token != ""
		s.current.Error = ""
	}
	s.notify()
	return true
}

// Logout synchronously resets the store to its initial state and invalidates
// any in-flight exchange, so a stale login success cannot resurrect the
// session. Calling it twice has the same observable effect as calling it once.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current = Session{}
	s.notify()
}

func (s *Store) notify() {
	for _, fn := range s.subscribers {
		fn(s.current)
	}
}
