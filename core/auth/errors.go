package auth

import "github.com/pkg/errors"

// GenericLoginError is shown when the identity service fails without
// providing a message of its own.
const GenericLoginError = "Login failed. Please try again."

// ErrNetworkFailure is returned by a Gateway for any transport error
// (timeout, refused connection, malformed response...).
var ErrNetworkFailure = errors.New("identity service unreachable")

// CredentialsError is returned by a Gateway when the identity service
// rejected the credentials. Message carries the service's own wording
// verbatim so it can be rendered inline on the login form.
type CredentialsError struct {
	Message string
}

func NewCredentialsError(msg string) error {
	if msg == "" {
		msg = GenericLoginError
	}
	return &CredentialsError{Message: msg}
}

func (e *CredentialsError) Error() string {
	return e.Message
}

func IsCredentialsError(err error) bool {
	_, ok := errors.Cause(err).(*CredentialsError)
	return ok
}
