// Package auth orchestrates login, logout and startup session verification:
// it calls the identity Gateway and writes the outcome into the session
// Store. Nothing here renders anything; the route guard and the presentation
// layer observe the Store.
package auth

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
)

type (
	// Gateway performs the network exchange against the identity service.
	// It owns no state and performs no retries.
	Gateway interface {
		// Login exchanges credentials for a bearer token. Failures are
		// *CredentialsError when the service rejected the credentials,
		// ErrNetworkFailure for anything else.
		Login(ctx context.Context, email, password string) (string, error)
		// VerifySession reports whether a previously persisted credential is
		// still valid, resolving any persisted-credential lookup internally.
		// It returns "" on any failure (expired, revoked, unreachable).
		VerifySession(ctx context.Context) (string, error)
	}

	// CredentialStore persists the bearer token between processes:
	// a file for the CLI, a cookie for the web app.
	CredentialStore interface {
		Load() (string, error)
		Save(token string) error
		Clear() error
	}

	// Service is the auth controller bound to one session Store.
	Service struct {
		store   *session.Store
		gateway Gateway
		creds   CredentialStore
		logger  core.Logger

		startupOnce sync.Once
	}
)

// LoginResult is the discriminated outcome of Login, so the caller (login
// form, CLI) can decide navigation without inspecting the store.
type LoginResult struct {
	OK  bool
	Err string // user-facing message; empty when OK
}

func NewService(store *session.Store, gateway Gateway, creds CredentialStore, logger core.Logger) *Service {
	return &Service{
		store:   store,
		gateway: gateway,
		creds:   creds,
		logger:  logger,
	}
}

// Session returns the current session snapshot.
func (svc *Service) Session() session.Session {
	return svc.store.Current()
}

// Startup runs the one-time session verification: any persisted credential is
// checked against the identity service and the store resolved one way or the
// other. Verification failures downgrade to unauthenticated silently; they
// are never surfaced to the user. Subsequent calls are no-ops.
func (svc *Service) Startup(ctx context.Context) {
	svc.startupOnce.Do(func() {
		gen := svc.store.BeginVerification()
		token, err := svc.gateway.VerifySession(ctx)
		if err != nil {
			svc.logger.Debug("session verification failed", err)
			token = ""
		}
		svc.store.ResolveVerification(gen, token)
	})
}

// Login exchanges the credentials for a token and records the outcome in the
// store. A second call while an exchange is outstanding is rejected without
// touching the store: no two logins ever run in parallel, regardless of what
// the presentation layer does.
func (svc *Service) Login(ctx context.Context, email, password string) LoginResult {
	if svc.store.Current().Loading {
		return LoginResult{Err: "a sign-in attempt is already in progress"}
	}

	gen := svc.store.BeginLogin()
	token, err := svc.gateway.Login(ctx, core.CleanString(email, true /* lower */), password)
	if err != nil {
		msg := GenericLoginError
		if cErr, ok := errors.Cause(err).(*CredentialsError); ok {
			msg = cErr.Message
		}
		svc.store.ResolveLogin(gen, "", msg)
		return LoginResult{Err: msg}
	}

	// a logout may have superseded this exchange; a stale success must not
	// resurrect the session
	if !svc.store.ResolveLogin(gen, token, "") {
		return LoginResult{Err: "signed out while signing in; please try again"}
	}

	if svc.creds != nil {
		if err := svc.creds.Save(token); err != nil {
			svc.logger.Error("persisting credential", errors.Wrap(err, "saving token"))
		}
	}
	return LoginResult{OK: true}
}

// Logout resets the session synchronously and drops the persisted
// credential. It is idempotent and callable from any view at any time;
// no network call is required to complete locally.
func (svc *Service) Logout() {
	svc.store.Logout()
	if svc.creds != nil {
		if err := svc.creds.Clear(); err != nil {
			svc.logger.Error("clearing credential", err)
		}
	}
}
