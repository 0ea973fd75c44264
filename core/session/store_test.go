package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// checkInvariant asserts IsAuthenticated == (Token != "") after a transition.
func checkInvariant(t *testing.T, s Session) {
	t.Helper()
	assert.Equal(t, s.Token != "", s.IsAuthenticated)
}

func TestStore_initialState(t *testing.T) {
	store := NewStore()
	sess := store.Current()
	assert.Equal(t, Session{}, sess)
	checkInvariant(t, sess)
}

func TestStore_verificationSuccess(t *testing.T) {
	store := NewStore()

	gen := store.BeginVerification()
	assert.True(t, store.Current().Loading)

	assert.True(t, store.ResolveVerification(gen, "tok-123"))
	sess := store.Current()
	assert.False(t, sess.Loading)
	assert.Equal(t, "tok-123", sess.Token)
	assert.True(t, sess.IsAuthenticated)
	checkInvariant(t, sess)
}

func TestStore_verificationFailureIsSilent(t *testing.T) {
	store := NewStore()

	gen := store.BeginVerification()
	assert.True(t, store.ResolveVerification(gen, ""))

	sess := store.Current()
	assert.False(t, sess.Loading)
	assert.False(t, sess.IsAuthenticated)
	assert.Empty(t, sess.Error)
	checkInvariant(t, sess)
}

func TestStore_loginFailureKeepsExistingToken(t *testing.T) {
	store := NewStore()
	gen := store.BeginVerification()
	store.ResolveVerification(gen, "tok-123")

	// a failed re-login must not log the existing session out
	gen = store.BeginLogin()
	assert.True(t, store.ResolveLogin(gen, "", "Invalid email or password"))

	sess := store.Current()
	assert.Equal(t, "tok-123", sess.Token)
	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, "Invalid email or password", sess.Error)
	assert.False(t, sess.Loading)
	checkInvariant(t, sess)
}

func TestStore_loginClearsPreviousError(t *testing.T) {
	store := NewStore()
	gen := store.BeginLogin()
	store.ResolveLogin(gen, "", "Invalid email or password")
	assert.Equal(t, "Invalid email or password", store.Current().Error)

	gen = store.BeginLogin()
	assert.Empty(t, store.Current().Error) // cleared at the start of every attempt
	store.ResolveLogin(gen, "tok-456", "")

	sess := store.Current()
	assert.Equal(t, "tok-456", sess.Token)
	assert.True(t, sess.IsAuthenticated)
	assert.Empty(t, sess.Error)
	checkInvariant(t, sess)
}

func TestStore_logoutIsIdempotent(t *testing.T) {
	store := NewStore()
	gen := store.BeginLogin()
	store.ResolveLogin(gen, "tok-123", "")

	store.Logout()
	once := store.Current()
	store.Logout()
	twice := store.Current()

	assert.Equal(t, Session{}, once)
	assert.Equal(t, once, twice)
	checkInvariant(t, once)
}

func TestStore_staleResolutionAfterLogoutIsDiscarded(t *testing.T) {
	store := NewStore()

	gen := store.BeginLogin()
	store.Logout()

	// the login exchange resolves after the logout: it must not resurrect the session
	assert.False(t, store.ResolveLogin(gen, "tok-123", ""))
	sess := store.Current()
	assert.Equal(t, Session{}, sess)
	checkInvariant(t, sess)
}

func TestStore_staleVerificationIsDiscarded(t *testing.T) {
	store := NewStore()

	gen := store.BeginVerification()
	store.Logout()

	assert.False(t, store.ResolveVerification(gen, "tok-123"))
	assert.Equal(t, Session{}, store.Current())
}

func TestStore_subscribersSeeEveryTransition(t *testing.T) {
	store := NewStore()
	var seen []Session
	store.Subscribe(func(s Session) { seen = append(seen, s) })

	gen := store.BeginLogin()
	store.ResolveLogin(gen, "tok-123", "")
	store.Logout()

	if assert.Len(t, seen, 3) {
		assert.True(t, seen[0].Loading)
		assert.Equal(t, "tok-123", seen[1].Token)
		assert.True(t, seen[1].IsAuthenticated)
		assert.Equal(t, Session{}, seen[2])
	}
	for _, s := range seen {
		checkInvariant(t, s)
	}
}
