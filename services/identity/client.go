// Package identitysvc implements the auth.Gateway against the Academia REST
// identity endpoints. It performs the network exchanges only; session state
// lives in core/session and policy in core/auth.
package identitysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
)

const loginPath = "/auth/login"

type Client struct {
	baseURL    string
	verifyPath string // empty means local expiry check only
	http       *http.Client
	creds      auth.CredentialStore
	logger     core.Logger
}

var _ auth.Gateway = (*Client)(nil)

func NewClient(conf *core.Config, creds auth.CredentialStore, logger core.Logger) *Client {
	return &Client{
		baseURL:    conf.API.BaseURL,
		verifyPath: conf.API.VerifyPath,
		http:       &http.Client{Timeout: conf.API.Timeout},
		creds:      creds,
		logger:     logger,
	}
}

type (
	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	loginResponse struct {
		Token string `json:"token"`
	}
	apiError struct {
		Message string `json:"message"`
	}
)

// Login exchanges the credentials for a bearer token. A 4xx becomes a
// *auth.CredentialsError carrying the service's message verbatim (or the
// generic fallback); anything else is a network failure. No retries.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", errors.Wrap(err, "marshaling login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "building login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("identity service unreachable", err)
		return "", errors.Wrap(auth.ErrNetworkFailure, "posting login request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var data loginResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || data.Token == "" {
			return "", errors.Wrap(auth.ErrNetworkFailure, "decoding login response")
		}
		return data.Token, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var data apiError
		_ = json.NewDecoder(resp.Body).Decode(&data) // a missing message falls back to the generic one
		return "", auth.NewCredentialsError(data.Message)

	default:
		return "", errors.Wrapf(auth.ErrNetworkFailure, "identity service returned %d", resp.StatusCode)
	}
}

// VerifySession checks whether the persisted credential (if any) is still
// usable. The JWT exp claim is checked locally first; when a verify endpoint
// is configured the token is also checked remotely. Every failure resolves
// to ("", nil): verification failures are an unauthenticated state, never a
// user-visible error.
func (c *Client) VerifySession(ctx context.Context) (string, error) {
	token, err := c.creds.Load()
	if err != nil {
		c.logger.Warn("loading persisted credential", err)
		return "", nil
	}
	if token == "" {
		return "", nil
	}

	if expired(token) {
		_ = c.creds.Clear()
		return "", nil
	}

	if c.verifyPath != "" && !c.verifyRemotely(ctx, token) {
		return "", nil
	}
	return token, nil
}

// verifyRemotely asks the identity service whether the token is still
// honored; a definitive rejection drops the persisted credential, a
// transport error keeps it (the backend may simply be down).
func (c *Client) verifyRemotely(ctx context.Context, token string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.verifyPath, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("remote session check failed", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		_ = c.creds.Clear() // revoked
		return false
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// mockable in tests
var nowUnix = func() int64 { return time.Now().Unix() }

// expired reports whether token is a JWT with an exp claim in the past.
// Opaque (non-JWT) tokens and tokens without exp are left to the backend to
// judge; the signature is not checked here, only the token's issuer can.
func expired(token string) bool {
	claims := jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == 0 {
		return false
	}
	return !claims.VerifyExpiresAt(nowUnix(), true)
}
