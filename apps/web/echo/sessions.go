package echoweb

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/session"
	identitysvc "github.com/trezcool/academia/services/identity"
)

const (
	sessionCookieName = "academia_session"
	tokenCookieName   = "academia_token"

	// how long get() waits for the startup verification before letting the
	// guard render the loading placeholder
	defaultStartupWait = 2 * time.Second

	sessionIdleTTL = 12 * time.Hour
)

// browserSession is the server-side state behind one visitor's session
// cookie: their own store, credential store and auth controller.
type browserSession struct {
	id       string
	store    *session.Store
	svc      *auth.Service
	creds    auth.CredentialStore
	started  chan struct{} // closed once the startup verification resolved
	lastSeen time.Time
}

type sessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*browserSession
	opts        *Options
	startupWait time.Duration
}

func newSessionManager(opts *Options) *sessionManager {
	return &sessionManager{
		sessions:    make(map[string]*browserSession),
		opts:        opts,
		startupWait: defaultStartupWait,
	}
}

// get returns the browser session for the request's cookie, creating it (and
// kicking off the one-time startup verification) on first sight. It waits
// briefly for the verification so most requests never observe Loading.
func (m *sessionManager) get(ctx echo.Context) *browserSession {
	m.mu.Lock()
	bs := m.lookup(ctx)
	if bs == nil {
		bs = m.create(ctx)
	}
	bs.lastSeen = time.Now()
	m.mu.Unlock()

	select {
	case <-bs.started:
	case <-time.After(m.startupWait):
	}
	return bs
}

func (m *sessionManager) lookup(ctx echo.Context) *browserSession {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return m.sessions[cookie.Value]
}

func (m *sessionManager) create(ctx echo.Context) *browserSession {
	m.prune()

	// the token cookie, when present, is this visitor's persisted credential
	var token string
	if cookie, err := ctx.Cookie(tokenCookieName); err == nil {
		token = cookie.Value
	}

	store := session.NewStore()
	creds := identitysvc.NewMemoryCredentialStore(token)
	bs := &browserSession{
		id:      uuid.New().String(),
		store:   store,
		svc:     auth.NewService(store, m.opts.NewGateway(creds), creds, m.opts.Logger),
		creds:   creds,
		started: make(chan struct{}),
	}
	m.sessions[bs.id] = bs

	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    bs.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   !m.opts.Conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})

	go func() {
		timeout, cancel := context.WithTimeout(context.Background(), m.opts.Conf.API.Timeout)
		defer cancel()
		bs.svc.Startup(timeout)
		close(bs.started)
	}()
	return bs
}

// prune drops sessions idle past the TTL; called with the lock held.
func (m *sessionManager) prune() {
	cutoff := time.Now().Add(-sessionIdleTTL)
	for id, bs := range m.sessions {
		if bs.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

// setTokenCookie mirrors the in-memory credential to the browser so the
// session survives a server restart.
func setTokenCookie(ctx echo.Context, token string, secure bool) {
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	ctx.SetCookie(cookie)
}
