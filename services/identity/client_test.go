package identitysvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
)

type nopLogger struct{}

func (nopLogger) Enable(bool) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient(t *testing.T, baseURL, verifyPath, token string) (*Client, *MemoryCredentialStore) {
	t.Helper()
	conf := &core.Config{
		API: core.APIConfig{BaseURL: baseURL, VerifyPath: verifyPath, Timeout: 2 * time.Second},
	}
	creds := NewMemoryCredentialStore(token)
	return NewClient(conf, creds, nopLogger{}), creds
}

func signedToken(t *testing.T, expiresAt int64) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   "usr-1",
		ExpiresAt: expiresAt,
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signedToken() failed: %v", err)
	}
	return token
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      interface{}
		wantToken string
		wantErr   string // expected user-facing credentials message; empty means network failure
		wantOK    bool
	}{
		{
			name:      "success",
			status:    http.StatusOK,
			body:      map[string]string{"token": "tok-123"},
			wantToken: "tok-123",
			wantOK:    true,
		},
		{
			name:    "invalid credentials propagate the message verbatim",
			status:  http.StatusUnauthorized,
			body:    map[string]string{"message": "Invalid email or password"},
			wantErr: "Invalid email or password",
		},
		{
			name:    "4xx without message falls back to the generic one",
			status:  http.StatusBadRequest,
			body:    map[string]string{},
			wantErr: auth.GenericLoginError,
		},
		{
			name:   "5xx is a network failure",
			status: http.StatusBadGateway,
			body:   map[string]string{},
		},
		{
			name:   "malformed success body is a network failure",
			status: http.StatusOK,
			body:   map[string]string{"nope": "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, loginPath, r.URL.Path)

				var req loginRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "a@b.com", req.Email)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			client, _ := newTestClient(t, srv.URL, "", "")
			token, err := client.Login(context.Background(), "a@b.com", "pwd")

			if tt.wantOK {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				return
			}
			assert.Error(t, err)
			assert.Empty(t, token)
			if tt.wantErr != "" {
				assert.True(t, auth.IsCredentialsError(err))
				assert.Equal(t, tt.wantErr, errors.Cause(err).Error())
			} else {
				assert.Equal(t, auth.ErrNetworkFailure, errors.Cause(err))
			}
		})
	}
}

func TestClient_Login_unreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	client, _ := newTestClient(t, srv.URL, "", "")
	_, err := client.Login(context.Background(), "a@b.com", "pwd")
	assert.Equal(t, auth.ErrNetworkFailure, errors.Cause(err))
}

func TestClient_VerifySession_local(t *testing.T) {
	t.Run("no persisted credential", func(t *testing.T) {
		client, _ := newTestClient(t, "http://localhost:0", "", "")
		token, err := client.VerifySession(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("valid token", func(t *testing.T) {
		tok := signedToken(t, time.Now().Add(time.Hour).Unix())
		client, _ := newTestClient(t, "http://localhost:0", "", tok)
		token, err := client.VerifySession(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, tok, token)
	})

	t.Run("expired token is dropped", func(t *testing.T) {
		tok := signedToken(t, time.Now().Add(-time.Hour).Unix())
		client, creds := newTestClient(t, "http://localhost:0", "", tok)
		token, err := client.VerifySession(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, token)

		persisted, _ := creds.Load()
		assert.Empty(t, persisted) // cleared
	})

	t.Run("opaque token passes the local check", func(t *testing.T) {
		client, _ := newTestClient(t, "http://localhost:0", "", "opaque-tok")
		token, err := client.VerifySession(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "opaque-tok", token)
	})
}

func TestClient_VerifySession_remote(t *testing.T) {
	tok := signedToken(t, time.Now().Add(time.Hour).Unix())

	t.Run("honored token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/verify", r.URL.Path)
			assert.Equal(t, "Bearer "+tok, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client, _ := newTestClient(t, srv.URL, "/auth/verify", tok)
		token, err := client.VerifySession(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, tok, token)
	})

	t.Run("revoked token is dropped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client, creds := newTestClient(t, srv.URL, "/auth/verify", tok)
		token, err := client.VerifySession(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, token)

		persisted, _ := creds.Load()
		assert.Empty(t, persisted)
	})

	t.Run("unreachable service keeps the credential but stays signed out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		client, creds := newTestClient(t, srv.URL, "/auth/verify", tok)
		token, err := client.VerifySession(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, token)

		persisted, _ := creds.Load()
		assert.Equal(t, tok, persisted)
	})
}

func TestExpired_mockedClock(t *testing.T) {
	restore := nowUnix
	defer func() { nowUnix = restore }()

	ref := time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)
	nowUnix = func() int64 { return ref.Unix() }

	assert.False(t, expired(signedToken(t, ref.Add(time.Minute).Unix())))
	assert.True(t, expired(signedToken(t, ref.Add(-time.Minute).Unix())))
	assert.False(t, expired("not-a-jwt"))
}
