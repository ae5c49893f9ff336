package identity

import "errors"

// Provider error codes. They double as message catalog keys.
const (
	CodeInvalidEmail          = "auth/invalid-email"
	CodeInvalidCredential     = "auth/invalid-credential"
	CodeUserNotFound          = "auth/user-not-found"
	CodeWrongPassword         = "auth/wrong-password"
	CodeEmailAlreadyInUse     = "auth/email-already-in-use"
	CodeWeakPassword          = "auth/weak-password"
	CodeTooManyRequests       = "auth/too-many-requests"
	CodeInvalidOAuthState     = "auth/invalid-oauth-state"
	CodeFederatedSignInFailed = "auth/federated-signin-failed"
	CodeOperationNotAllowed   = "auth/operation-not-allowed"
	CodeAccountExists         = "auth/account-exists-with-different-credential"
	CodeInternal              = "auth/internal-error"
)

// Error is a failure reported by the Provider.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// errUnverifiedLink refuses to attach an unverified federated email to
// an existing account.
var errUnverifiedLink = errors.New("federated email is not verified")

func newError(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf returns the provider code carried by err, or "" if err did not
// come from the Provider.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
